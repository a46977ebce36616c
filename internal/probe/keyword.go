package probe

import (
	"bytes"
	"context"
	"io"

	"github.com/hamed0406/statusdash/internal/domain"
)

// KeywordProber marks a page healthy when its body contains the configured
// keyword as a literal substring.
type KeywordProber struct {
	HTTP *HTTPChecker
}

func (p *KeywordProber) Probe(ctx context.Context, spec domain.CheckSpec) domain.Outcome {
	if spec.Keyword == nil {
		return domain.ErrorOutcome("keyword not configured")
	}

	var found bool
	res, err := p.HTTP.stream(ctx, spec.URL, func(r io.Reader) (err error) {
		found, err = containsStream(r, []byte(*spec.Keyword))
		return err
	})
	if err != nil {
		out := domain.ErrorOutcome(err.Error())
		out.LatencyMS = res.LatencyMS
		return out
	}

	out := domain.Outcome{
		Status:    domain.StatusUnhealthy,
		SubChecks: []domain.SubStatus{},
		Reason:    "keyword not found",
		LatencyMS: res.LatencyMS,
	}
	if found {
		out.Status = domain.StatusHealthy
		out.Reason = res.Status
	}
	return out
}

const scanChunk = 32 << 10

// containsStream searches the whole of r for kw, holding at most one chunk
// plus len(kw)-1 bytes of overlap in memory.
func containsStream(r io.Reader, kw []byte) (bool, error) {
	if len(kw) == 0 {
		return true, nil
	}
	keep := len(kw) - 1
	chunk := make([]byte, scanChunk)
	window := make([]byte, 0, scanChunk+keep)
	for {
		n, err := r.Read(chunk)
		window = append(window, chunk[:n]...)
		if bytes.Contains(window, kw) {
			return true, nil
		}
		if len(window) > keep {
			window = append(window[:0], window[len(window)-keep:]...)
		}
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}
}
