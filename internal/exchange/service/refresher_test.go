package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alldenims/pricequote/internal/config"
	"github.com/alldenims/pricequote/internal/exchange/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingService struct {
	calls atomic.Int64
	err   error
}

func (s *countingService) Current() (domain.RateSet, bool) {
	return domain.RateSet{}, false
}

func (s *countingService) Refresh(ctx context.Context) (domain.RateSet, error) {
	s.calls.Add(1)
	return domain.RateSet{}, s.err
}

func TestRefresherPollsOnInterval(t *testing.T) {
	stub := &countingService{}
	r := NewRefresher(config.Config{ExchangeRefreshInterval: 10 * time.Millisecond}, zap.NewNop(), stub)

	r.Start()
	require.Eventually(t, func() bool {
		return stub.calls.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)
	r.Stop()

	after := stub.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, stub.calls.Load())
}

func TestRefresherSurvivesFailedPolls(t *testing.T) {
	stub := &countingService{err: domain.ErrFetchFailed}
	r := NewRefresher(config.Config{ExchangeRefreshInterval: 10 * time.Millisecond}, zap.NewNop(), stub)

	r.Start()
	require.Eventually(t, func() bool {
		return stub.calls.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)
	r.Stop()
}
