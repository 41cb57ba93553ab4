package weather

import (
	"context"
	"time"
)

// ForecastTool fetches the raw forecast document for a city. Implementations block
// for the whole exchange with the provider, including process or session setup.
type ForecastTool interface {
	FetchForecast(ctx context.Context, city string) (ForecastDocument, error)
}

type fetchResult struct {
	doc ForecastDocument
	err error
}

// fetchAsync runs the blocking lookup on a dedicated goroutine and waits for it.
// The lookup is detached from the caller's cancellation and bounded by timeout
// instead; when the caller leaves first, the result is dropped.
func fetchAsync(ctx context.Context, tool ForecastTool, city string, timeout time.Duration) (ForecastDocument, error) {
	done := make(chan fetchResult, 1)
	go func() {
		lookupCtx := context.WithoutCancel(ctx)
		if timeout > 0 {
			var cancel context.CancelFunc
			lookupCtx, cancel = context.WithTimeout(lookupCtx, timeout)
			defer cancel()
		}
		doc, err := tool.FetchForecast(lookupCtx, city)
		done <- fetchResult{doc: doc, err: err}
	}()

	select {
	case <-ctx.Done():
		return ForecastDocument{}, ctx.Err()
	case res := <-done:
		return res.doc, res.err
	}
}
