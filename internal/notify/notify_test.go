package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBotGatewayNotify(t *testing.T) {
	var got map[string]string
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	gateway := NewBotGateway(server.URL, "bot-token")
	err := gateway.Notify(context.Background(), "ABCD12", "You may now exit.")
	assert.NoError(t, err)
	assert.Equal(t, "ABCD12", got["recipient"])
	assert.Equal(t, "You may now exit.", got["message"])
	assert.Equal(t, "Bearer bot-token", gotAuth)
}

func TestBotGatewayNotifyErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	gateway := NewBotGateway(server.URL, "")
	err := gateway.Notify(context.Background(), "ABCD12", "hello")
	assert.Error(t, err)
}

func TestNopNotify(t *testing.T) {
	assert.NoError(t, Nop{}.Notify(context.Background(), "ABCD12", "dropped"))
}
