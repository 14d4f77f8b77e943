package storefront

import (
	"context"
	"errors"
	"sync"
)

// ErrStale is returned by Searcher.Search when a newer search started
// before this one finished.
var ErrStale = errors.New("storefront: search superseded by a newer one")

// Searcher runs product searches for a search box where only the latest
// query matters. Starting a search cancels the one in flight, and a result
// that arrives after a newer search started is dropped.
type Searcher struct {
	client *Client

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func NewSearcher(c *Client) *Searcher {
	return &Searcher{client: c}
}

func (s *Searcher) Search(ctx context.Context, q ProductQuery) (*ProductList, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.mu.Unlock()

	res, err := s.client.ListProducts(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil, ErrStale
	}
	s.cancel = nil
	return res, err
}

// Cancel aborts the search in flight, if any. Its caller gets ErrStale.
func (s *Searcher) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
}
