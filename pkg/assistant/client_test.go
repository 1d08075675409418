package assistant

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClient_Ask(t *testing.T) {
	var received askRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(askResponse{Reply: "check the event guide"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	reply := client.Ask("where is lunch?", "AB12", "setup")

	require.Equal(t, "check the event guide", reply)
	require.Equal(t, "where is lunch?", received.Message)
	require.Equal(t, "AB12", received.UnitID)
	require.Equal(t, "setup", received.Status)
}

func TestClient_AskMissingContentTypeHeader(t *testing.T) {
	// Without the header Go sniffs the body as text/plain; the reply must
	// still decode.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(askResponse{Reply: "check the event guide"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	require.Equal(t, "check the event guide", client.Ask("where is lunch?", "AB12", "setup"))
}

func TestClient_AskServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	require.Equal(t, FailureReply, client.Ask("hello", "AB12", "lobby"))
}

func TestClient_AskUnreachableService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL)
	require.Equal(t, FailureReply, client.Ask("hello", "AB12", "lobby"))
}

func TestClient_AskEmptyReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(askResponse{})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	require.Equal(t, FailureReply, client.Ask("hello", "AB12", "lobby"))
}
