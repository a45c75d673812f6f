package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bryanwahyu/laporkerja/internal/domain/delivery"
)

// maxReplyBytes batas body balasan yang dibaca
const maxReplyBytes = 1 << 20

// linkFields urutan field link di balasan endpoint
var linkFields = []string{"url", "imageUrl", "fileUrl", "link"}

// Webhook upload ke endpoint HTTP milik user (mis. Google Apps Script)
type Webhook struct {
	url    string
	token  string
	client *http.Client
}

func NewWebhook(url, token string, client *http.Client) *Webhook {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Webhook{url: strings.TrimSpace(url), token: token, client: client}
}

// Upload POST payload JSON. Non-2xx = gagal; balasan tanpa link = placeholder.
func (w *Webhook) Upload(ctx context.Context, req delivery.UploadRequest) (delivery.UploadResult, error) {
	body, err := json.Marshal(newUploadPayload(req))
	if err != nil {
		return delivery.UploadResult{}, fmt.Errorf("encode payload: %w", err)
	}

	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return delivery.UploadResult{}, fmt.Errorf("build request: %w", err)
	}
	hreq.Header.Set("Content-Type", "application/json")
	if w.token != "" {
		hreq.Header.Set("Authorization", "Bearer "+w.token)
	}

	resp, err := w.client.Do(hreq)
	if err != nil {
		return delivery.UploadResult{}, fmt.Errorf("post upload: %w", err)
	}
	defer resp.Body.Close()

	reply, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return delivery.UploadResult{}, fmt.Errorf("read reply: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return delivery.UploadResult{}, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	return delivery.UploadResult{Link: ExtractLink(reply)}, nil
}

// ExtractLink ambil link dari field pertama yang terisi, selain itu placeholder
func ExtractLink(reply []byte) string {
	var m map[string]any
	if err := json.Unmarshal(reply, &m); err != nil {
		return delivery.PlaceholderLink
	}
	for _, f := range linkFields {
		if s, ok := m[f].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return delivery.PlaceholderLink
}
