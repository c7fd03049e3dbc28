package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Result labels reported to an Observer.
const (
	ResultHit       = "hit"
	ResultRemoteHit = "remote_hit"
	ResultMiss      = "miss"
)

// Remote is an optional shared tier behind the in-process cache.
type Remote interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// Observer receives one call per lookup with a Result label.
type Observer func(result string)

type Option func(*Store)

func WithRemote(remote Remote) Option {
	return func(s *Store) {
		s.remote = remote
	}
}

func WithObserver(observer Observer) Option {
	return func(s *Store) {
		s.observe = observer
	}
}

// Store is a TTL cache with per-key load coalescing. Concurrent loads of the
// same key share one loader call; a racing Set is last-writer-wins.
type Store struct {
	local   *gocache.Cache
	ttl     time.Duration
	flight  singleflight.Group
	remote  Remote
	observe Observer
}

func NewStore(ttl time.Duration, opts ...Option) *Store {
	expiration := ttl
	if expiration <= 0 {
		expiration = gocache.NoExpiration
	}
	cleanup := 2 * ttl
	if cleanup <= 0 {
		cleanup = 10 * time.Minute
	}

	s := &Store{
		local: gocache.New(expiration, cleanup),
		ttl:   ttl,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}
	return s.local.Get(key)
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}
	s.local.SetDefault(key, value)
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}
	s.local.Delete(key)
}

// Load is the typed read-through path. Values that reach the remote tier are
// encoded with sonic, so T must round-trip through JSON.
func Load[T any](ctx context.Context, s *Store, key string, loader func(context.Context) (T, error)) (T, error) {
	var zero T
	if s == nil {
		return loader(ctx)
	}
	if key == "" {
		return loader(ctx)
	}

	if cached, ok := s.Get(ctx, key); ok {
		if typed, ok := cached.(T); ok {
			s.report(ResultHit)
			return typed, nil
		}
		s.Delete(ctx, key)
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			if typed, ok := cached.(T); ok {
				return typed, nil
			}
		}

		if s.remote != nil {
			payload, found, remoteErr := s.remote.Get(ctx, key)
			if remoteErr == nil && found {
				var decoded T
				if sonic.Unmarshal(payload, &decoded) == nil {
					s.report(ResultRemoteHit)
					s.Set(ctx, key, decoded)
					return decoded, nil
				}
			}
		}

		s.report(ResultMiss)
		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)

		if s.remote != nil {
			if payload, encErr := sonic.Marshal(loaded); encErr == nil {
				_ = s.remote.Set(ctx, key, payload, s.ttl)
			}
		}
		return loaded, nil
	})
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("cache value for %q has unexpected type %T", key, value)
	}
	return typed, nil
}

func (s *Store) report(result string) {
	if s.observe != nil {
		s.observe(result)
	}
}
