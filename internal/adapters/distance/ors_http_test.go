package distance

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"3", 3 * time.Second},
		{" 1 ", time.Second},
		{"-2", 0},
		{"Wed, 21 Oct 2015 07:28:00 GMT", 0},
	}
	for _, tc := range tests {
		if got := parseRetryAfter(tc.in); got != tc.want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRetryDelay(t *testing.T) {
	base := 200 * time.Millisecond

	if got := retryDelay(errors.New("boom"), base); got != base {
		t.Fatalf("plain error: got %v", got)
	}

	slow := fmt.Errorf("fetch: %w", &matrixStatusError{Code: 429, RetryAfter: 2 * time.Second})
	if got := retryDelay(slow, base); got != 2*time.Second {
		t.Fatalf("retry-after: got %v", got)
	}

	huge := &matrixStatusError{Code: 503, RetryAfter: time.Hour}
	if got := retryDelay(huge, base); got != orsMaxBackoff {
		t.Fatalf("capped: got %v", got)
	}
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
