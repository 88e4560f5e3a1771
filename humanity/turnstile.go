// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package humanity

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResponseBytes bounds how much of the siteverify body is read.
const maxResponseBytes = 64 << 10

// Turnstile verifies tokens against a Cloudflare Turnstile compatible
// siteverify endpoint.
type Turnstile struct {
	secret    string
	verifyURL string
	client    *http.Client
}

func NewTurnstile(secret, verifyURL string, timeout time.Duration) *Turnstile {
	return &Turnstile{
		secret:    secret,
		verifyURL: verifyURL,
		client:    &http.Client{Timeout: timeout},
	}
}

// siteverifyResponse holds the fields we read; only Success decides.
type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
	Hostname   string   `json:"hostname"`
}

// Verify makes one siteverify call. An empty token is rejected without
// touching the network.
func (t *Turnstile) Verify(ctx context.Context, token, remoteAddr string) bool {
	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}

	form := url.Values{}
	form.Set("secret", t.secret)
	form.Set("response", token)
	if remoteAddr != "" {
		form.Set("remoteip", remoteAddr)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		slog.Error("failed to build siteverify request", "error", err)
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		slog.Warn("siteverify unreachable", "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("siteverify returned non-success status", "status", resp.StatusCode)
		return false
	}

	var out siteverifyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		slog.Warn("failed to decode siteverify response", "error", err)
		return false
	}

	if !out.Success {
		slog.Info("humanity token rejected", "error_codes", out.ErrorCodes)
		return false
	}

	return true
}
