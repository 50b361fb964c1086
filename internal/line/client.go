package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.line.me"

// Client talks to the LINE Messaging API with a channel access token.
type Client struct {
	http        *http.Client
	accessToken string
	apiBase     string
}

func NewClient(accessToken string) *Client {
	return &Client{
		http:        &http.Client{Timeout: 10 * time.Second},
		accessToken: accessToken,
		apiBase:     defaultAPIBase,
	}
}

// NewClientWithBase points the client at a different API host. Dipakai
// test untuk mengarahkan request ke httptest server.
func NewClientWithBase(accessToken, apiBase string) *Client {
	c := NewClient(accessToken)
	c.apiBase = apiBase
	return c
}

// PushText sends a plain text message directly to a user id.
func (c *Client) PushText(ctx context.Context, userID, text string) error {
	payload := map[string]interface{}{
		"to": userID,
		"messages": []map[string]interface{}{
			{"type": "text", "text": text},
		},
	}
	return c.post(ctx, "/v2/bot/message/push", payload)
}

// ReplyFlex answers a webhook event with a flex message. Reply tokens are
// single use and expire quickly; failures here are not retried.
func (c *Client) ReplyFlex(ctx context.Context, replyToken, altText string, contents interface{}) error {
	payload := map[string]interface{}{
		"replyToken": replyToken,
		"messages": []map[string]interface{}{
			{"type": "flex", "altText": altText, "contents": contents},
		},
	}
	return c.post(ctx, "/v2/bot/message/reply", payload)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("line api %s: status %d: %s", path, resp.StatusCode, msg)
	}
	return nil
}
