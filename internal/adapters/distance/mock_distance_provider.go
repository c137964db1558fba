package distance

import (
	"context"
	"delivery-tour-service/internal/domain"
	"fmt"
	"sync/atomic"
)

// MockMatrixProvider returns a fixed matrix for any request of matching size.
type MockMatrixProvider struct {
	m     domain.DurationMatrix
	err   error
	calls atomic.Int64
}

func NewMockMatrixProvider(m domain.DurationMatrix) *MockMatrixProvider {
	return &MockMatrixProvider{m: m}
}

// NewFailingMatrixProvider returns a provider whose every call fails with err.
func NewFailingMatrixProvider(err error) *MockMatrixProvider {
	return &MockMatrixProvider{err: err}
}

func (p *MockMatrixProvider) DurationMatrix(ctx context.Context, points []domain.Coordinates) (domain.DurationMatrix, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	if len(points) != len(p.m) {
		return nil, fmt.Errorf("mock matrix has %d rows, asked for %d points", len(p.m), len(points))
	}
	return p.m, nil
}

// Calls reports how many times DurationMatrix was invoked.
func (p *MockMatrixProvider) Calls() int { return int(p.calls.Load()) }
