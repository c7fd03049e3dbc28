package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type cell struct {
	Over    int     `json:"over"`
	Wickets int     `json:"wickets"`
	Value   float64 `json:"value"`
}

type fakeRemote struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{entries: make(map[string][]byte)}
}

func (f *fakeRemote) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payload, ok := f.entries[key]
	return payload, ok, nil
}

func (f *fakeRemote) Set(_ context.Context, key string, payload []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = payload
	f.sets++
	return nil
}

func TestLoad_CoalescesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) ([]cell, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return []cell{{Over: 10, Wickets: 3, Value: 42.5}}, nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := Load(context.Background(), store, "states:venue", loader)
			if err != nil {
				errCh <- err
				return
			}
			if len(v) != 1 || v[0].Value != 42.5 {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestLoad_ErrorIsNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	boom := errors.New("boom")

	loader := func(context.Context) (int, error) {
		if calls.Add(1) == 1 {
			return 0, boom
		}
		return 7, nil
	}

	if _, err := Load(context.Background(), store, "count", loader); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	got, err := Load(context.Background(), store, "count", loader)
	if err != nil || got != 7 {
		t.Fatalf("expected reload to succeed, got %d, %v", got, err)
	}
}

func TestLoad_RemoteTier(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote()
	var results []string
	var mu sync.Mutex
	observe := func(result string) {
		mu.Lock()
		results = append(results, result)
		mu.Unlock()
	}

	first := NewStore(time.Minute, WithRemote(remote), WithObserver(observe))
	loader := func(context.Context) ([]cell, error) {
		return []cell{{Over: 5, Wickets: 1, Value: 71.25}}, nil
	}
	if _, err := Load(context.Background(), first, "table", loader); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if remote.sets != 1 {
		t.Fatalf("expected payload written to remote, sets=%d", remote.sets)
	}

	second := NewStore(time.Minute, WithRemote(remote), WithObserver(observe))
	got, err := Load(context.Background(), second, "table", func(context.Context) ([]cell, error) {
		t.Fatalf("loader must not run on remote hit")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if len(got) != 1 || got[0] != (cell{Over: 5, Wickets: 1, Value: 71.25}) {
		t.Fatalf("unexpected decoded value: %+v", got)
	}

	if _, err := Load(context.Background(), second, "table", loader); err != nil {
		t.Fatalf("third load: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{ResultMiss, ResultRemoteHit, ResultHit}
	if len(results) != len(want) {
		t.Fatalf("results=%v, want %v", results, want)
	}
	for i := range want {
		if results[i] != want[i] {
			t.Fatalf("results=%v, want %v", results, want)
		}
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
