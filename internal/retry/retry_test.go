package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPolicy_SucceedsFirstTry(t *testing.T) {
	p := NewPolicy(3, time.Millisecond, time.Second)

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return nil
	}, nil)

	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestPolicy_RetriesThenSucceeds(t *testing.T) {
	p := NewPolicy(3, time.Millisecond, time.Second)

	calls := 0
	retries := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, func(attempt int, err error) {
		retries++
	})

	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if retries != 2 {
		t.Errorf("expected 2 retry callbacks, got %d", retries)
	}
}

func TestPolicy_ExhaustsAttempts(t *testing.T) {
	p := NewPolicy(3, time.Millisecond, time.Second)

	want := errors.New("down")
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return want
	}, nil)

	if !errors.Is(err, want) {
		t.Errorf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestPolicy_Cancelled(t *testing.T) {
	p := NewPolicy(5, 10*time.Second, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- p.Do(ctx, func() error { return errors.New("always") }, nil)
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after cancellation")
	}
}
