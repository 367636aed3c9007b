package lindy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrigger_SendsPayloadAndBearerSecret(t *testing.T) {
	var gotAuth string
	var gotBody TriggerRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sekrit")
	err := client.Trigger(context.Background(), TriggerRequest{
		RequestID:          "req-1",
		Company:            "Acme",
		IncludeCompetitive: true,
		CallbackURL:        "https://relay.example.com/api/lindy/callback",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sekrit", gotAuth)
	assert.Equal(t, "req-1", gotBody.RequestID)
	assert.Equal(t, "Acme", gotBody.Company)
	assert.True(t, gotBody.IncludeCompetitive)
}

func TestTrigger_AlternateAuthHeader(t *testing.T) {
	var gotKey, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Lindy-Key")
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sekrit", WithAuthHeader("X-Lindy-Key"))
	require.NoError(t, client.Trigger(context.Background(), TriggerRequest{Company: "Acme"}))

	assert.Equal(t, "sekrit", gotKey)
	assert.Empty(t, gotAuth)
}

func TestTrigger_NoSecretSendsNoAuth(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	require.NoError(t, client.Trigger(context.Background(), TriggerRequest{Company: "Acme"}))
	assert.Empty(t, gotAuth)
}

func TestTrigger_NonSuccessIsOpaqueAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"reason":"bad secret"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sekrit")
	err := client.Trigger(context.Background(), TriggerRequest{Company: "Acme"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.JSONEq(t, `{"reason":"bad secret"}`, apiErr.Body)
}

func TestTrigger_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", WithTimeout(20*time.Millisecond))
	err := client.Trigger(context.Background(), TriggerRequest{Company: "Acme"})
	assert.ErrorIs(t, err, ErrTimeout)
}
