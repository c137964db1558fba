package distance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	orsMaxAttempts    = 4
	orsInitialBackoff = 200 * time.Millisecond
	orsMaxBackoff     = 10 * time.Second
)

// matrixStatusError is a non-2xx answer from the matrix endpoint.
type matrixStatusError struct {
	Code       int
	Body       string
	RetryAfter time.Duration
}

func (e *matrixStatusError) Error() string {
	return fmt.Sprintf("ors matrix: status %d: %s", e.Code, e.Body)
}

// parseRetryAfter accepts the delay-seconds form only.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func (o *ORSMatrixProvider) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (o *ORSMatrixProvider) do(req *http.Request) (*http.Response, error) {
	resp, err := o.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &matrixStatusError{
			Code:       resp.StatusCode,
			Body:       strings.TrimSpace(string(b)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	return resp, nil
}

// doWithRetry retries rate limiting, 5xx responses and network errors with
// capped exponential backoff until the context ends. A Retry-After header
// longer than the current backoff wins.
func (o *ORSMatrixProvider) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	backoff := o.backoff
	var lastErr error

	for attempt := 1; attempt <= orsMaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := o.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable(err) || attempt == orsMaxAttempts {
			return nil, lastErr
		}

		if err := sleep(ctx, retryDelay(err, backoff)); err != nil {
			return nil, err
		}
		backoff = min(backoff*2, orsMaxBackoff)
	}

	return nil, lastErr
}

func retryDelay(err error, backoff time.Duration) time.Duration {
	var se *matrixStatusError
	if errors.As(err, &se) && se.RetryAfter > backoff {
		return min(se.RetryAfter, orsMaxBackoff)
	}
	return backoff
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func retryable(err error) bool {
	var he *matrixStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
