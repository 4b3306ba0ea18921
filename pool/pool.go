// Package pool hands out reusable fixed-size byte pages. Pages returned to
// a pool keep their contents, so a rented page may hold residual bytes from
// a prior owner and must be treated as write-only until filled.
package pool

import "sync"

// Pages is the rent/return contract for fixed-size byte pages.
// Implementations must be safe for concurrent use; the pages themselves are
// owned exclusively by the renter until returned, and must be returned at
// most once.
type Pages interface {
	// Get returns a page of exactly the pool's page size.
	Get() []byte

	// Put returns a page to the pool. Pages whose capacity does not match
	// the pool's page size are dropped.
	Put(p []byte)
}

// syncPages is a Pages backed by sync.Pool, so idle pages are reclaimable
// by the garbage collector under memory pressure.
type syncPages struct {
	size int
	pool sync.Pool
}

// New returns a Pages implementation backed by sync.Pool.
func New(pageSize int) Pages {
	if pageSize <= 0 {
		panic("pool: page size must be positive")
	}
	p := &syncPages{size: pageSize}
	p.pool.New = func() any {
		page := make([]byte, pageSize)
		return &page
	}
	return p
}

func (p *syncPages) Get() []byte {
	return *(p.pool.Get().(*[]byte))
}

func (p *syncPages) Put(page []byte) {
	if cap(page) != p.size {
		return
	}
	page = page[:p.size]
	p.pool.Put(&page)
}

// freeList is a bounded Pages that keeps at most max idle pages on a stack.
// Unlike sync.Pool it never discards pages below the bound, which makes it
// predictable for tests and steady-state workloads.
type freeList struct {
	size int
	max  int

	mu   sync.Mutex
	free [][]byte
}

// NewFreeList returns a Pages that retains at most max idle pages.
func NewFreeList(pageSize, max int) Pages {
	if pageSize <= 0 {
		panic("pool: page size must be positive")
	}
	if max < 0 {
		max = 0
	}
	return &freeList{size: pageSize, max: max}
}

func (f *freeList) Get() []byte {
	f.mu.Lock()
	if n := len(f.free); n > 0 {
		page := f.free[n-1]
		f.free = f.free[:n-1]
		f.mu.Unlock()
		return page
	}
	f.mu.Unlock()
	return make([]byte, f.size)
}

func (f *freeList) Put(page []byte) {
	if cap(page) != f.size {
		return
	}
	f.mu.Lock()
	if len(f.free) < f.max {
		f.free = append(f.free, page[:f.size])
	}
	f.mu.Unlock()
}

var (
	defaultsMu sync.Mutex
	defaults   = make(map[int]Pages)
)

// Default returns a process-wide pool shared by all renters of the same
// page size, so pages released by one buffer are reusable by the next.
func Default(pageSize int) Pages {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	p, ok := defaults[pageSize]
	if !ok {
		p = New(pageSize)
		defaults[pageSize] = p
	}
	return p
}
