package probe

import (
	"context"
	"errors"
	"testing"
)

func TestFirstReturnsFirstSuccess(t *testing.T) {
	calls := 0
	attempts := []Attempt[string]{
		{Name: "a", Run: func(ctx context.Context) (string, error) {
			calls++
			return "", errors.New("a failed")
		}},
		{Name: "b", Run: func(ctx context.Context) (string, error) {
			calls++
			return "from-b", nil
		}},
		{Name: "c", Run: func(ctx context.Context) (string, error) {
			calls++
			return "from-c", nil
		}},
	}

	result, name, err := First(context.Background(), attempts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "from-b" {
		t.Errorf("expected result from-b, got %q", result)
	}
	if name != "b" {
		t.Errorf("expected winning candidate b, got %q", name)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls (c must not run after b succeeds), got %d", calls)
	}
}

func TestFirstExhausted(t *testing.T) {
	sentinel := errors.New("boom")
	attempts := []Attempt[int]{
		{Name: "one", Run: func(ctx context.Context) (int, error) { return 0, sentinel }},
		{Name: "two", Run: func(ctx context.Context) (int, error) { return 0, errors.New("nope") }},
	}

	_, _, err := First(context.Background(), attempts)
	if err == nil {
		t.Fatal("expected error when all attempts fail")
	}

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected *ExhaustedError, got %T", err)
	}
	if len(exhausted.Attempts) != 2 || exhausted.Attempts[0] != "one" || exhausted.Attempts[1] != "two" {
		t.Errorf("unexpected attempt list: %v", exhausted.Attempts)
	}
	if !errors.Is(err, sentinel) {
		t.Error("expected aggregate error to wrap per-candidate errors")
	}
}

func TestFirstCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := []Attempt[int]{
		{Name: "never", Run: func(ctx context.Context) (int, error) {
			t.Fatal("attempt ran despite cancelled context")
			return 0, nil
		}},
	}

	_, _, err := First(ctx, attempts)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
