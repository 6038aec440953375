package scraper

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

// fakeClock drives a Pacer without sleeping.
type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func newFakePacer(interval time.Duration) (*Pacer, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	p := NewPacer(interval)
	p.now = func() time.Time { return clock.now }
	p.sleep = func(_ context.Context, d time.Duration) error {
		clock.slept = append(clock.slept, d)
		clock.now = clock.now.Add(d)
		return nil
	}
	return p, clock
}

func TestPacer(t *testing.T) {
	p, clock := newFakePacer(time.Second)

	ctx := context.Background()
	require.NoError(t, p.Wait(ctx)) // first call does not wait

	clock.now = clock.now.Add(300 * time.Millisecond)
	require.NoError(t, p.Wait(ctx))

	clock.now = clock.now.Add(2 * time.Second)
	require.NoError(t, p.Wait(ctx))

	require.Equal(t, []time.Duration{700 * time.Millisecond}, clock.slept)
}

func TestPacer_DelayFollowsSlowRequest(t *testing.T) {
	p, clock := newFakePacer(time.Second)
	ctx := context.Background()

	require.NoError(t, p.Wait(ctx))
	clock.now = clock.now.Add(3 * time.Second) // request with retries
	p.Done()

	require.NoError(t, p.Wait(ctx))
	require.Equal(t, []time.Duration{time.Second}, clock.slept)
}

// slowPages advances the fake clock on every fetch.
type slowPages struct {
	clock *fakeClock
	took  time.Duration
	calls int
}

func (s *slowPages) Fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	s.calls++
	s.clock.now = s.clock.now.Add(s.took)
	return goquery.NewDocumentFromReader(strings.NewReader("<html></html>"))
}

func TestPaced(t *testing.T) {
	p, clock := newFakePacer(time.Second)
	pages := &slowPages{clock: clock, took: 4 * time.Second}
	f := Paced(pages, p)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.Fetch(ctx, BaseURL)
		require.NoError(t, err)
	}

	require.Equal(t, 3, pages.calls)
	require.Equal(t, []time.Duration{time.Second, time.Second}, clock.slept)
}

func TestPaced_NilPacer(t *testing.T) {
	pages := &slowPages{clock: &fakeClock{}}
	require.Same(t, pages, Paced(pages, nil))
}

func TestPacer_ContextCanceled(t *testing.T) {
	p := NewPacer(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, p.Wait(ctx))
	cancel()
	require.ErrorIs(t, p.Wait(ctx), context.Canceled)
}
