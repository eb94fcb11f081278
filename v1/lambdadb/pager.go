package lambdadb

import (
	"context"
	"fmt"
	"iter"
)

// PageFetcher requests one page of at most size items starting at pageToken
// (empty for the first page). It returns the items and the next token, which
// is empty when there are no more pages.
type PageFetcher[T any] func(ctx context.Context, size int, pageToken string) (items []T, nextPageToken string, err error)

// Pager regroups a token-paginated listing into pages of a fixed size.
//
// Each emitted page holds exactly Size items except the last one, which may be
// shorter. Empty pages are never emitted, so an empty listing yields no page
// at all. Requests to the service never ask for more than MaxListPageSize
// items; a page larger than that is assembled from several requests.
//
// A Pager is single use and must not be shared between goroutines.
//
// Example:
//
//	pager, err := client.Collection("articles").Docs().ListPages(250)
//	if err != nil {
//	    return err
//	}
//	for pager.Next(ctx) {
//	    process(pager.Page())
//	}
//	if err := pager.Err(); err != nil {
//	    return err
//	}
type Pager[T any] struct {
	size  int
	fetch PageFetcher[T]

	buffer    []T
	token     string
	exhausted bool

	page []T
	err  error
}

// NewPager returns a pager emitting pages of size items. size must be positive.
func NewPager[T any](size int, fetch PageFetcher[T]) (*Pager[T], error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidArgument, size)
	}
	if fetch == nil {
		return nil, fmt.Errorf("%w: page fetcher is required", ErrInvalidArgument)
	}
	return &Pager[T]{size: size, fetch: fetch}, nil
}

// Size returns the page size.
func (p *Pager[T]) Size() int {
	return p.size
}

// Next advances to the next page, fetching from the service as needed. It
// returns false when the listing is exhausted or a fetch failed; Err tells
// the two apart.
func (p *Pager[T]) Next(ctx context.Context) bool {
	p.page = nil
	if p.err != nil {
		return false
	}

	for {
		if len(p.buffer) >= p.size {
			p.page = p.buffer[:p.size:p.size]
			p.buffer = p.buffer[p.size:]
			return true
		}

		if p.exhausted {
			if len(p.buffer) == 0 {
				return false
			}
			p.page = p.buffer
			p.buffer = nil
			return true
		}

		items, next, err := p.fetch(ctx, min(p.size-len(p.buffer), MaxListPageSize), p.token)
		if err != nil {
			p.err = err
			p.buffer = nil
			p.exhausted = true
			return false
		}
		p.buffer = append(p.buffer, items...)
		p.token = next
		if next == "" {
			p.exhausted = true
		}
	}
}

// Page returns the page produced by the last successful Next.
func (p *Pager[T]) Page() []T {
	return p.page
}

// Err returns the error that stopped the pager, if any.
func (p *Pager[T]) Err() error {
	return p.err
}

// Pages returns the remaining pages as a sequence. A fetch error is yielded
// once, as the last element.
func (p *Pager[T]) Pages(ctx context.Context) iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		for p.Next(ctx) {
			if !yield(p.Page(), nil) {
				return
			}
		}
		if err := p.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// Items returns the remaining items, page by page, as a flat sequence. A
// fetch error is yielded once, as the last element.
func (p *Pager[T]) Items(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for page, err := range p.Pages(ctx) {
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range page {
				if !yield(item, nil) {
					return
				}
			}
		}
	}
}

// errorSeq yields err once.
func errorSeq[T any](err error) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		yield(zero, err)
	}
}
