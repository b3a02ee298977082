// Package resilience retries store connection setup with exponential
// backoff.
//
// It is used when a backend is started, never inside an iteration: a failed
// window fetch ends the run and the caller decides whether to start over.
//
//	err := resilience.RetryFunc(ctx, resilience.RetryConfig{
//	    MaxAttempts: cfg.MaxRetries,
//	    OnRetry: func(attempt int, err error, backoff time.Duration) {
//	        log.Warn("connect failed, retrying", ...)
//	    },
//	}, func() error {
//	    return client.Ping(ctx)
//	})
package resilience
