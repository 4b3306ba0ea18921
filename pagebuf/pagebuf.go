// Package pagebuf implements an append-only, drainable byte buffer backed by
// fixed-size pooled pages instead of one contiguous growing array. Appending
// never reallocates existing pages, and a drained buffer returns its pages to
// the pool rather than holding oversized memory alive.
package pagebuf

import (
	"context"
	"io"

	"github.com/spool-dev/spool/pool"
)

// Buffer accumulates bytes across an ordered sequence of pages rented from a
// pool. The last page may be partially filled; all earlier pages are full.
//
// Buffer enforces no size cap of its own; capacity policy belongs to the
// caller. It is not safe for concurrent use.
type Buffer struct {
	pool     pool.Pages
	pageSize int
	pages    [][]byte
	length   int
}

// New returns an empty Buffer using pageSize pages rented from pages.
// A nil pages uses the process-wide shared pool for that page size.
func New(pageSize int, pages pool.Pages) *Buffer {
	if pageSize <= 0 {
		panic("pagebuf: page size must be positive")
	}
	if pages == nil {
		pages = pool.Default(pageSize)
	}
	return &Buffer{pool: pages, pageSize: pageSize}
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	return b.length
}

// Append copies p onto the end of the buffer, filling the current page first
// and renting new pages as needed. Copies are chunked at page boundaries.
func (b *Buffer) Append(p []byte) {
	for len(p) > 0 {
		free := len(b.pages)*b.pageSize - b.length
		if free == 0 {
			page := b.pool.Get()[:b.pageSize]
			b.pages = append(b.pages, page)
			free = b.pageSize
		}
		page := b.pages[len(b.pages)-1]
		n := copy(page[b.pageSize-free:], p)
		b.length += n
		p = p[n:]
	}
}

// DrainTo writes every page, in order, to dst. With clear set, all pages are
// returned to the pool and the length reset as part of the same pass;
// otherwise the buffer is left intact so the copy can be repeated.
func (b *Buffer) DrainTo(dst io.Writer, clear bool) error {
	return b.DrainToContext(context.Background(), dst, clear)
}

// DrainToContext is DrainTo with cancellation between page writes. If a
// write fails or ctx is cancelled mid-drain the buffer is left unchanged;
// bytes already written to dst are not recalled.
func (b *Buffer) DrainToContext(ctx context.Context, dst io.Writer, clear bool) error {
	remaining := b.length
	for _, page := range b.pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := len(page)
		if n > remaining {
			n = remaining
		}
		if _, err := dst.Write(page[:n]); err != nil {
			return err
		}
		remaining -= n
	}
	if clear {
		b.Release()
	}
	return nil
}

// Release returns every page to the pool and resets the buffer to empty.
// The buffer remains usable for further appends. Release is idempotent.
func (b *Buffer) Release() {
	for _, page := range b.pages {
		b.pool.Put(page)
	}
	b.pages = b.pages[:0]
	b.length = 0
}
