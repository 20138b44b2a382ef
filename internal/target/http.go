package target

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTP drives a real deployment: GET against the configured metrics
// endpoints and POST against the vote-submission endpoint. Any error or
// non-200 response counts as a failed operation. Safe for sharing across
// workers.
type HTTP struct {
	client      *http.Client
	metricsURLs []string
	voteURL     string
}

func NewHTTP(metricsURLs []string, voteURL string, timeout time.Duration) *HTTP {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 2000
	t.MaxConnsPerHost = 2000
	t.MaxIdleConnsPerHost = 2000
	t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}

	return &HTTP{
		client: &http.Client{
			Timeout:   timeout,
			Transport: t,
		},
		metricsURLs: metricsURLs,
		voteURL:     voteURL,
	}
}

func (h *HTTP) Query(ctx context.Context) error {
	for _, u := range h.metricsURLs {
		if err := h.get(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func (h *HTTP) get(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("query %s: %w", url, err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("query %s: %w", url, err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("query %s: status %d", url, resp.StatusCode)
	}
	return nil
}

func (h *HTTP) SubmitVote(ctx context.Context, v Vote) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("vote %s: %w", v.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.voteURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("vote %s: %w", v.ID, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("vote %s: %w", v.ID, err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vote %s: status %d", v.ID, resp.StatusCode)
	}
	return nil
}
