package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Throttle spaces out model calls
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle creates a throttle allowing requestsPerSecond with the given burst
func NewThrottle(requestsPerSecond float64, burst int) *Throttle {
	if burst <= 0 {
		burst = 1
	}

	return &Throttle{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Wait blocks until a call is allowed or ctx is done
func (t *Throttle) Wait(ctx context.Context) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("throttle: %w", err)
	}
	return nil
}

// Allow reports whether a call may proceed now without waiting
func (t *Throttle) Allow() bool {
	return t.limiter.Allow()
}

// ThrottledProvider waits on a throttle before every completion
type ThrottledProvider struct {
	Provider
	throttle *Throttle
}

// NewThrottledProvider wraps p with t
func NewThrottledProvider(p Provider, t *Throttle) *ThrottledProvider {
	return &ThrottledProvider{Provider: p, throttle: t}
}

// Complete waits for the throttle, then calls the wrapped provider
func (p *ThrottledProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := p.throttle.Wait(ctx); err != nil {
		return nil, err
	}
	return p.Provider.Complete(ctx, req)
}

// ThrottledEmbedder waits on a throttle before every embedding call
type ThrottledEmbedder struct {
	embedder Embedder
	throttle *Throttle
}

// NewThrottledEmbedder wraps e with t
func NewThrottledEmbedder(e Embedder, t *Throttle) *ThrottledEmbedder {
	return &ThrottledEmbedder{embedder: e, throttle: t}
}

// Embed waits for the throttle, then calls the wrapped embedder
func (e *ThrottledEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := e.throttle.Wait(ctx); err != nil {
		return nil, err
	}
	return e.embedder.Embed(ctx, text)
}
