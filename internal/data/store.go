package data

import (
	"time"

	"github.com/patrickmn/go-cache"

	"bond-pricer/internal/pricer"
)

// DefaultResultTTL is how long a stored run stays retrievable.
const DefaultResultTTL = time.Hour

// ResultStore keeps recent valuation runs in memory, keyed by run ID.
// Safe for concurrent use.
type ResultStore struct {
	c *cache.Cache
}

func NewResultStore(ttl time.Duration) *ResultStore {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	return &ResultStore{c: cache.New(ttl, ttl/2)}
}

func (s *ResultStore) Put(res *pricer.Result) {
	if res == nil || res.RunID == "" {
		return
	}
	s.c.Set(res.RunID, res, cache.DefaultExpiration)
}

func (s *ResultStore) Get(id string) (*pricer.Result, bool) {
	v, ok := s.c.Get(id)
	if !ok {
		return nil, false
	}
	res, ok := v.(*pricer.Result)
	return res, ok
}

// Len counts stored runs, including expired ones not yet evicted.
func (s *ResultStore) Len() int { return s.c.ItemCount() }
