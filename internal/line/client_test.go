package line

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientPushText(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClientWithBase("token-123", srv.URL)
	if err := c.PushText(context.Background(), "U1", "hello"); err != nil {
		t.Fatalf("PushText: %v", err)
	}

	if gotPath != "/v2/bot/message/push" {
		t.Errorf("path = %q, want /v2/bot/message/push", gotPath)
	}
	if gotAuth != "Bearer token-123" {
		t.Errorf("auth = %q, want Bearer token-123", gotAuth)
	}
	if gotBody["to"] != "U1" {
		t.Errorf("to = %v, want U1", gotBody["to"])
	}
}

func TestClientReplyFlexErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Invalid reply token"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClientWithBase("token-123", srv.URL)
	err := c.ReplyFlex(context.Background(), "stale-token", "alt", map[string]interface{}{"type": "carousel"})
	if err == nil {
		t.Fatal("want error for non-2xx response")
	}
}
