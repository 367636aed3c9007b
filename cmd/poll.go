package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"go.uber.org/zap"
)

var (
	pollServer  string
	pollTimeout time.Duration
)

const (
	pollInitial = 2 * time.Second
	pollCap     = 15 * time.Second
)

var pollCmd = &cobra.Command{
	Use:   "poll <request-id>",
	Short: "Poll a running relay server until a callback result is ready",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		requestID := args[0]

		ctx, cancel := context.WithTimeout(cmd.Context(), pollTimeout)
		defer cancel()

		// Exponential backoff: 2s -> 4s -> 8s -> 15s (capped).
		interval := pollInitial
		for {
			ready, data, err := pollOnce(ctx, requestID)
			if err != nil {
				return err
			}
			if ready {
				out, err := json.MarshalIndent(data, "", "  ")
				if err != nil {
					return eris.Wrap(err, "encode result")
				}
				fmt.Println(string(out))
				return nil
			}

			zap.L().Info("not ready, waiting",
				zap.String("request_id", requestID),
				zap.Duration("interval", interval),
			)

			t := time.NewTimer(interval)
			select {
			case <-ctx.Done():
				t.Stop()
				return eris.Errorf("poll: no result for %s within %s", requestID, pollTimeout)
			case <-t.C:
			}

			interval *= 2
			if interval > pollCap {
				interval = pollCap
			}
		}
	},
}

func pollOnce(ctx context.Context, requestID string) (bool, any, error) {
	url := fmt.Sprintf("%s/api/lindy/poll/%s", pollServer, requestID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, nil, eris.Wrap(err, "poll: create request")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false, nil, eris.Wrap(err, "poll: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return false, nil, eris.Errorf("poll: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Ready bool `json:"ready"`
		Data  any  `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, nil, eris.Wrap(err, "poll: decode response")
	}

	return body.Ready, body.Data, nil
}

func init() {
	pollCmd.Flags().StringVar(&pollServer, "server", "http://localhost:8080", "relay server base URL")
	pollCmd.Flags().DurationVar(&pollTimeout, "timeout", 5*time.Minute, "give up after this long")
	rootCmd.AddCommand(pollCmd)
}
