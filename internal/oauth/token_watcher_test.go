package oauth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swit-mcp/internal/testing/mock"
)

func TestTokenWatcher_ReloadsOnChange(t *testing.T) {
	f := newFixture(t, mock.SwitServerConfig{}, nil)

	w := NewTokenWatcher(f.coordinator)
	w.debounce = 20 * time.Millisecond
	w.pollInterval = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Another process writes the token file.
	seed := seedExpiringIn(time.Hour)
	require.Eventually(t, func() bool {
		// Rewrite until the watcher is up and has seen it.
		_ = NewTokenStore(f.store.Path()).Save(seed)
		return seed.Equal(f.coordinator.Credential())
	}, 5*time.Second, 100*time.Millisecond)

	// Another process logs out.
	NewTokenStore(f.store.Path()).Clear()
	assert.Eventually(t, func() bool {
		return f.coordinator.Credential() == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestTokenWatcher_PollFallback(t *testing.T) {
	f := newFixture(t, mock.SwitServerConfig{}, nil)

	w := NewTokenWatcher(f.coordinator)
	w.pollInterval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.poll(ctx)
	time.Sleep(50 * time.Millisecond)

	seed := seedExpiringIn(time.Hour)
	require.NoError(t, NewTokenStore(f.store.Path()).Save(seed))

	assert.Eventually(t, func() bool {
		return seed.Equal(f.coordinator.Credential())
	}, 2*time.Second, 10*time.Millisecond)
}
