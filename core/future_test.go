package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestFuture_ResolveOnce tests that only the first resolution wins
// Main test items:
// 1. First resolve returns true and sets the value
// 2. Later resolves return false and change nothing
func TestFuture_ResolveOnce(t *testing.T) {
	future, resolve := NewFuture[int]()
	if future.Resolved() {
		t.Fatal("new future should not be resolved")
	}

	if !resolve(42, nil) {
		t.Fatal("first resolve should succeed")
	}
	if resolve(7, errors.New("late")) {
		t.Fatal("second resolve should be ignored")
	}

	v, err := future.Wait(context.Background())
	if v != 42 || err != nil {
		t.Fatalf("Wait = %d, %v; want 42, nil", v, err)
	}
	select {
	case <-future.Done():
	default:
		t.Fatal("Done should be closed after resolve")
	}
}

// TestFuture_ThenOrdering tests callback delivery before and after resolution
// Main test items:
// 1. Callbacks registered before resolve run in order
// 2. Callback registered after resolve runs immediately
func TestFuture_ThenOrdering(t *testing.T) {
	future, resolve := NewFuture[string]()

	var calls []string
	future.Then(func(v string, err error) { calls = append(calls, "first:"+v) })
	future.Then(func(v string, err error) { calls = append(calls, "second:"+v) })
	if len(calls) != 0 {
		t.Fatal("callbacks ran before resolve")
	}

	resolve("ok", nil)
	future.Then(func(v string, err error) { calls = append(calls, "late:"+v) })

	want := []string{"first:ok", "second:ok", "late:ok"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
}

// TestFuture_WaitContextCancel tests that Wait gives up with the context
func TestFuture_WaitContextCancel(t *testing.T) {
	future, _ := NewFuture[int]()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := future.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait err = %v, want DeadlineExceeded", err)
	}
}

// TestFuture_ErrorPassedThrough tests that a rejection reaches callbacks
func TestFuture_ErrorPassedThrough(t *testing.T) {
	future, resolve := NewFuture[[]int]()
	errMissing := errors.New("missing")

	var got error
	future.Then(func(_ []int, err error) { got = err })
	resolve(nil, errMissing)

	if !errors.Is(got, errMissing) {
		t.Fatalf("callback err = %v, want errMissing", got)
	}
}
