package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxBodyBytes caps how much of a response body a probe will read.
const maxBodyBytes = 1 << 20

// HTTPChecker issues the single GET a probe is allowed to make.
type HTTPChecker struct {
	Client  *http.Client
	MaxBody int64
}

func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPChecker{
		Client:  &http.Client{Timeout: timeout},
		MaxBody: maxBodyBytes,
	}
}

type fetchResult struct {
	StatusCode int
	Status     string
	Body       []byte
	LatencyMS  float64
}

// fetch performs one GET and reads at most MaxBody bytes of the body.
// Transport errors, non-2xx responses and body read failures are returned
// as errors; LatencyMS is set in every case.
func (h *HTTPChecker) fetch(ctx context.Context, target string) (fetchResult, error) {
	limit := h.MaxBody
	if limit <= 0 {
		limit = maxBodyBytes
	}
	var body []byte
	res, err := h.stream(ctx, target, func(r io.Reader) (err error) {
		body, err = io.ReadAll(io.LimitReader(r, limit))
		return err
	})
	if err != nil {
		return res, err
	}
	res.Body = body
	return res, nil
}

// stream performs one GET and hands a 2xx body to consume. The client
// timeout covers the body read as well.
func (h *HTTPChecker) stream(ctx context.Context, target string, consume func(io.Reader) error) (fetchResult, error) {
	start := time.Now()
	var res fetchResult

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return res, fmt.Errorf("build request: %w", err)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		res.LatencyMS = sinceMS(start)
		return res, err
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	res.Status = resp.Status
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		res.LatencyMS = sinceMS(start)
		return res, fmt.Errorf("unexpected status %s", resp.Status)
	}

	err = consume(resp.Body)
	res.LatencyMS = sinceMS(start)
	if err != nil {
		return res, fmt.Errorf("read body: %w", err)
	}
	return res, nil
}

func sinceMS(start time.Time) float64 {
	return time.Since(start).Seconds() * 1000
}
