package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkipOverlapping(t *testing.T) {
	logger, hook := test.NewNullLogger()

	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	job := skipOverlapping(logger, func() error {
		calls++
		close(started)
		<-release
		return errors.New("boom")
	})

	done := make(chan struct{})
	go func() {
		job()
		close(done)
	}()
	<-started

	// the first run is still blocked, so this returns without calling fn
	job()
	assert.Equal(t, "previous run is still in progress, skipping this run", hook.LastEntry().Message)

	close(release)
	<-done
	assert.Equal(t, 1, calls)
	assert.Equal(t, "scheduled run failed", hook.LastEntry().Message)
}

func TestRunScheduled(t *testing.T) {
	logger, _ := test.NewNullLogger()

	ctx, cancel := context.WithCancel(context.Background())
	runs := make(chan struct{}, 10)
	errCh := make(chan error, 1)
	go func() {
		errCh <- runScheduled(ctx, logger, "@every 1s", func() error {
			runs <- struct{}{}
			return nil
		})
	}()

	select {
	case <-runs:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled run did not happen")
	}
	cancel()
	require.NoError(t, <-errCh)
}

func TestRunScheduledInvalidSpec(t *testing.T) {
	logger, _ := test.NewNullLogger()
	err := runScheduled(context.Background(), logger, "every now and then", func() error { return nil })
	assert.Error(t, err)
}
