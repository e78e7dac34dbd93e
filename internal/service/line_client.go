package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"shop-service/internal/util"

	"go.uber.org/zap"
)

// LineClient delivers customer notifications through the LINE
// messaging gateway. A non-2xx response is logged with its body and
// returned as an error; no retry is attempted here.
type LineClient struct {
	baseURL      string
	channelToken string
	httpClient   *http.Client
	logger       *zap.Logger
}

// NewLineClient creates a messaging gateway client
func NewLineClient(baseURL, channelToken string) *LineClient {
	return &LineClient{
		baseURL:      baseURL,
		channelToken: channelToken,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		logger:       util.GetLogger(),
	}
}

type lineMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type linePushPayload struct {
	To       string        `json:"to,omitempty"`
	Messages []lineMessage `json:"messages"`
}

// PushMessage sends a text message to a single LINE user
func (lc *LineClient) PushMessage(ctx context.Context, lineUserID, text string) error {
	payload := linePushPayload{
		To:       lineUserID,
		Messages: []lineMessage{{Type: "text", Text: text}},
	}
	return lc.post(ctx, "message/push", payload)
}

// Broadcast sends a text message to every friend of the channel
func (lc *LineClient) Broadcast(ctx context.Context, text string) error {
	payload := linePushPayload{
		Messages: []lineMessage{{Type: "text", Text: text}},
	}
	return lc.post(ctx, "message/broadcast", payload)
}

func (lc *LineClient) post(ctx context.Context, path string, payload interface{}) error {
	start := time.Now()
	defer func() {
		util.MessagingGatewayLatency.Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, lc.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+lc.channelToken)

	resp, err := lc.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("messaging gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		lc.logger.Error("Messaging gateway rejected request",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		return fmt.Errorf("messaging gateway returned %d", resp.StatusCode)
	}

	return nil
}
