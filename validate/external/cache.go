// Package external provides an LRU-caching decorator over
// validate.ExternalDataSource, so repeated L3 lookups for the same
// identifier across a large file don't repeat the underlying network or
// disk call.
package external

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/omtsf/omtsf-go/validate"
)

type statusResult struct {
	status string
	ok     bool
}

// LRUCachedSource wraps a validate.ExternalDataSource with a bounded LRU
// cache keyed on scheme-qualified lookup key, so Validate can be called
// repeatedly over overlapping files without re-issuing identical lookups.
type LRUCachedSource struct {
	inner  validate.ExternalDataSource
	lei    *lru.Cache[string, statusResult]
	natReg *lru.Cache[string, statusResult]
}

// NewLRUCachedSource wraps inner with two LRU caches of the given size,
// one for LEI lookups and one for national-registry lookups.
func NewLRUCachedSource(inner validate.ExternalDataSource, size int) (*LRUCachedSource, error) {
	leiCache, err := lru.New[string, statusResult](size)
	if err != nil {
		return nil, err
	}
	natRegCache, err := lru.New[string, statusResult](size)
	if err != nil {
		return nil, err
	}
	return &LRUCachedSource{inner: inner, lei: leiCache, natReg: natRegCache}, nil
}

func (s *LRUCachedSource) LEIStatus(lei string) (string, bool) {
	if cached, ok := s.lei.Get(lei); ok {
		return cached.status, cached.ok
	}
	status, ok := s.inner.LEIStatus(lei)
	s.lei.Add(lei, statusResult{status: status, ok: ok})
	return status, ok
}

func (s *LRUCachedSource) NatRegStatus(authority, value string) (string, bool) {
	key := authority + "\x00" + value
	if cached, ok := s.natReg.Get(key); ok {
		return cached.status, cached.ok
	}
	status, ok := s.inner.NatRegStatus(authority, value)
	s.natReg.Add(key, statusResult{status: status, ok: ok})
	return status, ok
}
