// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package versioning

import (
	"path/filepath"
	"sync"
	"time"
)

// Allocator hands out versioned paths to concurrent workers of one process.
//
// Allocations for the same destination directory are serialized, and every
// returned path is remembered as claimed, so two workers never receive the
// same path even before either has written its file. Separate processes
// writing into the same directory are not coordinated; the existence probe
// in Next is the only guard there.
type Allocator struct {
	now func() time.Time

	mu      sync.Mutex
	dirs    map[string]*sync.Mutex
	claimed map[string]struct{}
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithClock replaces time.Now as the source of the allocation day.
func WithClock(now func() time.Time) Option {
	return func(a *Allocator) { a.now = now }
}

// NewAllocator creates an allocator with an empty claim table.
func NewAllocator(opts ...Option) *Allocator {
	a := &Allocator{
		now:     time.Now,
		dirs:    make(map[string]*sync.Mutex),
		claimed: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate returns the next free versioned path for desired using the
// allocator's clock.
func (a *Allocator) Allocate(desired string) (string, error) {
	return a.AllocateAt(desired, a.now())
}

// AllocateAt returns the next free versioned path for desired on the day
// of asOf and records it as claimed.
func (a *Allocator) AllocateAt(desired string, asOf time.Time) (string, error) {
	l := a.dirLock(filepath.Dir(desired))
	l.Lock()
	defer l.Unlock()

	path, err := next(desired, asOf, a.isClaimed)
	if err != nil {
		return "", err
	}

	a.mu.Lock()
	a.claimed[claimKey(path)] = struct{}{}
	a.mu.Unlock()
	return path, nil
}

// Peek returns the path Allocate would return now without claiming it.
// Dry runs use it to report planned names. Since nothing is claimed, two
// sources that share a base stem peek the same name where a real run
// would allocate consecutive versions.
func (a *Allocator) Peek(desired string) (string, error) {
	l := a.dirLock(filepath.Dir(desired))
	l.Lock()
	defer l.Unlock()
	return next(desired, a.now(), a.isClaimed)
}

func (a *Allocator) dirLock(dir string) *sync.Mutex {
	key := claimKey(dir)
	a.mu.Lock()
	defer a.mu.Unlock()
	l, ok := a.dirs[key]
	if !ok {
		l = &sync.Mutex{}
		a.dirs[key] = l
	}
	return l
}

func (a *Allocator) isClaimed(path string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.claimed[claimKey(path)]
	return ok
}

// claimKey normalizes a path so relative and absolute spellings of the same
// location share one entry.
func claimKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
