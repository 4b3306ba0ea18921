package pool_test

import (
	"testing"

	"github.com/spool-dev/spool/pool"
)

func TestGetReturnsFullPage(t *testing.T) {
	p := pool.New(128)
	page := p.Get()
	if len(page) != 128 {
		t.Fatalf("Get returned page of %d bytes, expected 128", len(page))
	}
}

func TestPutDropsWrongSize(t *testing.T) {
	p := pool.NewFreeList(128, 4)
	p.Put(make([]byte, 64)) // silently dropped

	page := p.Get()
	if len(page) != 128 {
		t.Fatalf("Get returned page of %d bytes after bad Put, expected 128", len(page))
	}
}

func TestFreeListReusesPages(t *testing.T) {
	p := pool.NewFreeList(16, 4)

	page := p.Get()
	page[0] = 'x'
	p.Put(page)

	again := p.Get()
	if &again[0] != &page[0] {
		t.Fatal("freelist did not reuse the returned page")
	}
	if again[0] != 'x' {
		t.Fatal("freelist cleared the page; pages are returned with residual contents")
	}
}

func TestFreeListBounded(t *testing.T) {
	p := pool.NewFreeList(16, 1)

	first := p.Get()
	second := p.Get()
	p.Put(first)
	p.Put(second) // over the bound, dropped

	if got := p.Get(); &got[0] != &first[0] {
		t.Fatal("expected the single retained page back")
	}
	if got := p.Get(); &got[0] == &second[0] {
		t.Fatal("page beyond the freelist bound was retained")
	}
}

func TestDefaultSharedPerPageSize(t *testing.T) {
	if pool.Default(64) != pool.Default(64) {
		t.Fatal("Default returned distinct pools for the same page size")
	}
	if pool.Default(64) == pool.Default(128) {
		t.Fatal("Default shared a pool across page sizes")
	}
}
