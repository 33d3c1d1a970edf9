package gls

import (
	"fmt"
	"sync"
	"testing"
)

// TestParseGID tests goroutine ID parsing from stack trace headers.
func TestParseGID(t *testing.T) {
	tests := []struct {
		name string
		buf  string
		want int64
	}{
		{"typical", "goroutine 123 [running]:\nmain.main()", 123},
		{"single digit", "goroutine 1 [running]:", 1},
		{"large id", "goroutine 9876543210 [running]:", 9876543210},
		{"wrong prefix", "panic: something", 0},
		{"truncated", "goroutin", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseGID([]byte(tt.buf)); got != tt.want {
				t.Errorf("parseGID(%q) = %d, want %d", tt.buf, got, tt.want)
			}
		})
	}
}

// TestGetGoroutineIDStable verifies the ID is stable within a goroutine and
// distinct across goroutines.
func TestGetGoroutineIDStable(t *testing.T) {
	a := getGoroutineID()
	b := getGoroutineID()
	if a == 0 {
		t.Fatal("getGoroutineID() = 0")
	}
	if a != b {
		t.Errorf("ID changed within goroutine: %d then %d", a, b)
	}

	other := make(chan int64)
	go func() { other <- getGoroutineID() }()
	if o := <-other; o == a {
		t.Errorf("two goroutines share ID %d", o)
	}
}

// TestSlotIsolation verifies slots never leak across goroutines.
func TestSlotIsolation(t *testing.T) {
	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			want := fmt.Sprintf("ctx-%d", i)
			prev, had := Set(want)
			defer Restore(prev, had)

			got, ok := Get()
			if !ok || got != want {
				t.Errorf("goroutine %d observed %v, want %q", i, got, want)
			}
		}(i)
	}
	wg.Wait()
}

// TestRestoreClearsWhenNoPrevious verifies a goroutine reused after a scope
// ends sees an empty slot, not the stale context.
func TestRestoreClearsWhenNoPrevious(t *testing.T) {
	Clear()

	prev, had := Set("scoped")
	if had {
		t.Fatalf("unexpected previous value %v", prev)
	}
	Restore(prev, had)

	if v, ok := Get(); ok {
		t.Errorf("slot not empty after Restore: %v", v)
	}
}

// TestRestoreReinstatesNesting verifies nested scopes unwind to the outer
// context, not to empty.
func TestRestoreReinstatesNesting(t *testing.T) {
	Clear()
	defer Clear()

	outerPrev, outerHad := Set("outer")
	innerPrev, innerHad := Set("inner")

	if v, _ := Get(); v != "inner" {
		t.Fatalf("Get() = %v, want inner", v)
	}

	Restore(innerPrev, innerHad)
	if v, _ := Get(); v != "outer" {
		t.Errorf("after inner restore Get() = %v, want outer", v)
	}

	Restore(outerPrev, outerHad)
	if _, ok := Get(); ok {
		t.Error("slot not empty after outer restore")
	}
}
