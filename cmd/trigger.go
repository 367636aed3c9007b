package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/intel-relay/internal/relay"
)

var (
	triggerCompany     string
	triggerCompetitive bool
	triggerRequestID   string
)

var triggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Fire a Lindy research task for a company",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newService()

		requestID, err := svc.Trigger(cmd.Context(), relay.TriggerInput{
			RequestID:          triggerRequestID,
			Company:            triggerCompany,
			IncludeCompetitive: triggerCompetitive,
		})
		if err != nil {
			return err
		}

		fmt.Printf("request_id: %s\n", requestID)
		fmt.Println("poll the relay server for results once the callback arrives")

		return nil
	},
}

func init() {
	triggerCmd.Flags().StringVar(&triggerCompany, "company", "", "company name to research (required)")
	triggerCmd.Flags().BoolVar(&triggerCompetitive, "competitive", false, "include competitive analysis")
	triggerCmd.Flags().StringVar(&triggerRequestID, "request-id", "", "correlation id (generated if empty)")
	_ = triggerCmd.MarkFlagRequired("company")
	rootCmd.AddCommand(triggerCmd)
}
