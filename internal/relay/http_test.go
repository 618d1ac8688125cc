package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vauchi/internal/domain"
)

// fakeRelay is a minimal in-process relay with one queue per recipient.
func fakeRelay(t *testing.T) (*httptest.Server, map[string][]domain.Envelope) {
	t.Helper()
	queues := make(map[string][]domain.Envelope)

	mux := http.NewServeMux()
	mux.HandleFunc("/msg/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/msg/")
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(rest, "/ack"):
			addr := strings.TrimSuffix(rest, "/ack")
			var body struct {
				Count int `json:"count"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			q := queues[addr]
			if body.Count > len(q) {
				body.Count = len(q)
			}
			queues[addr] = q[body.Count:]
		case r.Method == http.MethodPost:
			var env domain.Envelope
			require.NoError(t, json.NewDecoder(r.Body).Decode(&env))
			queues[rest] = append(queues[rest], env)
		case r.Method == http.MethodGet:
			q := queues[rest]
			if s := r.URL.Query().Get("limit"); s != "" {
				n, err := strconv.Atoi(s)
				require.NoError(t, err)
				if n < len(q) {
					q = q[:n]
				}
			}
			require.NoError(t, json.NewEncoder(w).Encode(q))
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, queues
}

func TestHTTPSendFetchAck(t *testing.T) {
	srv, queues := fakeRelay(t)
	c := NewHTTP(srv.URL)
	ctx := context.Background()

	env1 := domain.Envelope{To: "bob", From: "alice", Payload: []byte("one"), Timestamp: 1}
	env2 := domain.Envelope{To: "bob", From: "alice", Payload: []byte("two"), Timestamp: 2}
	require.NoError(t, c.Send(ctx, env1))
	require.NoError(t, c.Send(ctx, env2))

	got, err := c.Fetch(ctx, "bob", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, env1, got[0])

	// Unacked envelopes stay queued.
	got, err = c.Fetch(ctx, "bob", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []byte("one"), got[0].Payload)

	require.NoError(t, c.Ack(ctx, "bob", 2))
	assert.Empty(t, queues["bob"])

	got, err = c.Fetch(ctx, "bob", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	c := NewHTTP(srv.URL)
	err := c.Send(context.Background(), domain.Envelope{To: "bob"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
