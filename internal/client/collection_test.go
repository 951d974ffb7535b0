package client

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestCollection_LoadInstallsItems(t *testing.T) {
	t.Parallel()

	c := NewCollection[string]()
	err := c.Load(context.Background(), func(context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items := c.Items()
	if len(items) != 2 || items[0] != "a" {
		t.Errorf("unexpected items: %v", items)
	}
}

func TestCollection_RealErrorSurfaces(t *testing.T) {
	t.Parallel()

	c := NewCollection[string]()
	wantErr := errors.New("boom")
	err := c.Load(context.Background(), func(context.Context) ([]string, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected fetch error to surface, got %v", err)
	}
	if c.LastError() != "boom" {
		t.Errorf("expected last error to be recorded, got %q", c.LastError())
	}

	if err := c.Load(context.Background(), func(context.Context) ([]string, error) {
		return []string{"ok"}, nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.LastError() != "" {
		t.Errorf("expected last error cleared after success, got %q", c.LastError())
	}
}

func TestCollection_SupersededLoadIsSilent(t *testing.T) {
	t.Parallel()

	c := NewCollection[string]()

	firstStarted := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		firstErr = c.Load(context.Background(), func(ctx context.Context) ([]string, error) {
			close(firstStarted)
			<-release
			// The second load cancelled this context
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return []string{"stale"}, nil
		})
	}()

	<-firstStarted

	// Second load supersedes the first
	err := c.Load(context.Background(), func(context.Context) ([]string, error) {
		return []string{"fresh"}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error from superseding load: %v", err)
	}

	close(release)
	wg.Wait()

	if firstErr != nil {
		t.Errorf("superseded load must be silent, got %v", firstErr)
	}
	items := c.Items()
	if len(items) != 1 || items[0] != "fresh" {
		t.Errorf("expected fresh items to win, got %v", items)
	}
}

func TestCollection_StaleResultDoesNotClobber(t *testing.T) {
	t.Parallel()

	c := NewCollection[string]()

	firstStarted := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// Ignores cancellation and returns stale data anyway
		_ = c.Load(context.Background(), func(ctx context.Context) ([]string, error) {
			close(firstStarted)
			<-release
			return []string{"stale"}, nil
		})
	}()

	<-firstStarted

	if err := c.Load(context.Background(), func(context.Context) ([]string, error) {
		return []string{"fresh"}, nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	close(release)
	wg.Wait()

	items := c.Items()
	if len(items) != 1 || items[0] != "fresh" {
		t.Errorf("stale result clobbered fresh items: %v", items)
	}
}

func TestCollection_SupersededErrorIsSilent(t *testing.T) {
	t.Parallel()

	c := NewCollection[string]()

	firstStarted := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		// Ignores cancellation and fails with an unrelated error
		firstErr = c.Load(context.Background(), func(ctx context.Context) ([]string, error) {
			close(firstStarted)
			<-release
			return nil, errors.New("connection reset")
		})
	}()

	<-firstStarted

	if err := c.Load(context.Background(), func(context.Context) ([]string, error) {
		return []string{"fresh"}, nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	close(release)
	wg.Wait()

	if firstErr != nil {
		t.Errorf("superseded load must be silent even on failure, got %v", firstErr)
	}
	if c.LastError() != "" {
		t.Errorf("superseded failure must not set last error, got %q", c.LastError())
	}
	if items := c.Items(); len(items) != 1 || items[0] != "fresh" {
		t.Errorf("expected fresh items to survive, got %v", items)
	}
}

func TestCollection_CallerCancellationIsSilent(t *testing.T) {
	t.Parallel()

	c := NewCollection[string]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Load(ctx, func(ctx context.Context) ([]string, error) {
		return nil, ctx.Err()
	})
	if err != nil {
		t.Errorf("cancelled load must be silent, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("cancelled load must not install items")
	}
}
