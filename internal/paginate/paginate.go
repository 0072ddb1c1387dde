// Package paginate splits an ordered listing into fixed-size pages.
//
// The rules follow the usual "get page" semantics of server-rendered blogs:
// a missing or non-numeric page number means page 1, and a number past the
// last page (or below 1) means the last page. A listing is therefore always
// renderable, even when it is empty.
package paginate

import (
	"strconv"
)

// DefaultPerPage is used when a Paginator is built with PerPage <= 0.
const DefaultPerPage = 10

// Paginator knows how many items exist and how many fit on a page.
type Paginator struct {
	Count   int
	PerPage int
}

// New builds a Paginator, falling back to DefaultPerPage for perPage <= 0.
func New(count, perPage int) Paginator {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if count < 0 {
		count = 0
	}
	return Paginator{Count: count, PerPage: perPage}
}

// NumPages is never less than 1: an empty listing still has one empty page.
func (p Paginator) NumPages() int {
	if p.Count == 0 {
		return 1
	}
	return (p.Count + p.PerPage - 1) / p.PerPage
}

// Number turns the raw ?page= value into a valid page number.
func (p Paginator) Number(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	if n < 1 || n > p.NumPages() {
		return p.NumPages()
	}
	return n
}

// Bounds returns the LIMIT and OFFSET for page number n.
func (p Paginator) Bounds(n int) (limit, offset int) {
	return p.PerPage, (n - 1) * p.PerPage
}

// Page is one window of a listing plus what a template needs to draw the
// page links.
type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	Count    int
}

// NewPage pairs the items fetched for page number n with the paginator
// they were fetched through.
func NewPage[T any](p Paginator, n int, items []T) Page[T] {
	return Page[T]{
		Items:    items,
		Number:   n,
		NumPages: p.NumPages(),
		Count:    p.Count,
	}
}

func (pg Page[T]) HasNext() bool     { return pg.Number < pg.NumPages }
func (pg Page[T]) HasPrevious() bool { return pg.Number > 1 }
func (pg Page[T]) HasOtherPages() bool {
	return pg.HasNext() || pg.HasPrevious()
}

func (pg Page[T]) NextPageNumber() int     { return pg.Number + 1 }
func (pg Page[T]) PreviousPageNumber() int { return pg.Number - 1 }

// PageRange lists every page number, 1 through NumPages.
func (pg Page[T]) PageRange() []int {
	r := make([]int, pg.NumPages)
	for i := range r {
		r[i] = i + 1
	}
	return r
}

// Slice paginates an in-memory slice. Repositories page in SQL; this is
// for listings that are already loaded.
func Slice[T any](items []T, perPage int, raw string) Page[T] {
	p := New(len(items), perPage)
	n := p.Number(raw)
	limit, offset := p.Bounds(n)
	end := min(offset+limit, len(items))
	if offset > end {
		offset = end
	}
	return NewPage(p, n, items[offset:end])
}
