package singleflight

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestDo_Coalesces(t *testing.T) {
	t.Parallel()

	var (
		g       Group[string, int]
		calls   atomic.Int64
		release = make(chan struct{})
		started = make(chan struct{})
		once    sync.Once
	)
	fn := func(context.Context) (int, error) {
		calls.Add(1)
		once.Do(func() { close(started) })
		<-release
		return 42, nil
	}

	var eg errgroup.Group
	eg.Go(func() error {
		v, _, err := g.Do(context.Background(), "k", fn)
		if err == nil && v != 42 {
			return errors.New("leader got wrong value")
		}
		return err
	})
	<-started

	const followers = 16
	for i := 0; i < followers; i++ {
		eg.Go(func() error {
			v, _, err := g.Do(context.Background(), "k", fn)
			if err == nil && v != 42 {
				return errors.New("follower got wrong value")
			}
			return err
		})
	}

	// Give followers a moment to join the in-flight call.
	require.Eventually(t, func() bool {
		g.mu.Lock()
		defer g.mu.Unlock()
		c := g.calls["k"]
		return c != nil && c.waiters == followers
	}, time.Second, time.Millisecond)

	close(release)
	require.NoError(t, eg.Wait())
	require.Equal(t, int64(1), calls.Load())
	require.False(t, g.InFlight("k"))
}

func TestDo_FollowerContextCancel(t *testing.T) {
	t.Parallel()

	var g Group[string, int]
	release := make(chan struct{})
	started := make(chan struct{})

	leaderDone := make(chan error, 1)
	go func() {
		_, _, err := g.Do(context.Background(), "k", func(context.Context) (int, error) {
			close(started)
			<-release
			return 1, nil
		})
		leaderDone <- err
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := g.Do(ctx, "k", func(context.Context) (int, error) {
		t.Error("follower must not run fn")
		return 0, nil
	})
	require.ErrorIs(t, err, context.Canceled)

	close(release)
	require.NoError(t, <-leaderDone)
}

func TestDo_ErrorIsShared(t *testing.T) {
	t.Parallel()

	var g Group[int, string]
	boom := errors.New("boom")
	_, shared, err := g.Do(context.Background(), 1, func(context.Context) (string, error) {
		return "", boom
	})
	require.ErrorIs(t, err, boom)
	require.False(t, shared)

	// The failed call is forgotten; the next one runs again.
	v, _, err := g.Do(context.Background(), 1, func(context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	require.Equal(t, "ok", v)
}

func TestDo_PanicReleasesFollowers(t *testing.T) {
	t.Parallel()

	var g Group[string, int]
	release := make(chan struct{})
	started := make(chan struct{})

	leaderPanic := make(chan any, 1)
	go func() {
		defer func() { leaderPanic <- recover() }()
		_, _, _ = g.Do(context.Background(), "k", func(context.Context) (int, error) {
			close(started)
			<-release
			panic("loader exploded")
		})
	}()
	<-started

	followerErr := make(chan error, 1)
	go func() {
		_, _, err := g.Do(context.Background(), "k", func(context.Context) (int, error) {
			return 0, errors.New("follower must not run fn")
		})
		followerErr <- err
	}()
	require.Eventually(t, func() bool {
		g.mu.Lock()
		defer g.mu.Unlock()
		c := g.calls["k"]
		return c != nil && c.waiters == 1
	}, time.Second, time.Millisecond)

	close(release)
	require.Equal(t, "loader exploded", <-leaderPanic)
	require.ErrorIs(t, <-followerErr, ErrPanicked)
	require.False(t, g.InFlight("k"))

	// The key is usable again.
	v, _, err := g.Do(context.Background(), "k", func(context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	require.Equal(t, 7, v)
}
