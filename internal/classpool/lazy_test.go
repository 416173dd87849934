package classpool

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestCellComputesOnce(t *testing.T) {
	var c cell[int]
	var runs atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.get("answer", func() (int, error) {
				runs.Add(1)
				<-release
				return 42, nil
			})
			if err != nil {
				t.Errorf("get: %v", err)
			}
			results[i] = v
		}()
	}
	close(release)
	wg.Wait()

	if runs.Load() != 1 {
		t.Fatalf("computation ran %d times", runs.Load())
	}
	for i, v := range results {
		if v != 42 {
			t.Fatalf("reader %d saw %d", i, v)
		}
	}
	if v, ok := c.peek(); !ok || v != 42 {
		t.Fatalf("peek = %d, %v", v, ok)
	}
}

func TestCellSharesFailure(t *testing.T) {
	var c cell[string]
	boom := errors.New("boom")
	_, err := c.get("x", func() (string, error) { return "", boom })
	if !errors.Is(err, boom) {
		t.Fatalf("first err = %v", err)
	}
	_, err = c.get("x", func() (string, error) { return "late", nil })
	if !errors.Is(err, boom) {
		t.Fatalf("failure must be memoized, got %v", err)
	}
	if _, ok := c.peek(); ok {
		t.Fatal("failed cell must not peek as computed")
	}
}

func TestCellSeed(t *testing.T) {
	var c cell[string]
	if _, ok := c.peek(); ok {
		t.Fatal("fresh cell must not peek")
	}
	c.seed("java.lang.Object")
	v, err := c.get("name", func() (string, error) {
		t.Fatal("seeded cell must not compute")
		return "", nil
	})
	if err != nil || v != "java.lang.Object" {
		t.Fatalf("get = %q, %v", v, err)
	}
	c.seed("other")
	if v, _ := c.peek(); v != "java.lang.Object" {
		t.Fatalf("second seed overwrote value: %q", v)
	}
}

func TestCellPoisonedByPanic(t *testing.T) {
	var c cell[int]
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_, _ = c.get("bits", func() (int, error) { panic("lost connection") })
	}()
	_, err := c.get("bits", func() (int, error) { return 1, nil })
	if !errors.Is(err, ErrConcurrencyFault) {
		t.Fatalf("err = %v, want ErrConcurrencyFault", err)
	}
}
