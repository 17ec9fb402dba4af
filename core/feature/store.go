// core/feature/store.go
package feature

import "strings"

// Set holds the features of one source.
type Set struct {
	Source   string
	UniqueID string
	StyleID  string

	store *Store
	byID  map[string]*Feature
	order []*Feature
}

// Add stores f unless a feature with the same unique id exists.
func (s *Set) Add(f *Feature) bool {
	if f == nil || f.UniqueID == "" {
		return false
	}
	if _, dup := s.byID[f.UniqueID]; dup {
		return false
	}
	s.byID[f.UniqueID] = f
	s.order = append(s.order, f)
	if s.store != nil {
		s.store.all = append(s.store.all, f)
	}
	return true
}

func (s *Set) Get(uniqueID string) (*Feature, bool) {
	f, ok := s.byID[uniqueID]
	return f, ok
}

func (s *Set) Has(uniqueID string) bool {
	_, ok := s.byID[uniqueID]
	return ok
}

// Features returns the set's features in insertion order.
func (s *Set) Features() []*Feature { return s.order }

func (s *Set) Len() int { return len(s.order) }

// Store is the collection of featuresets produced by a parse. Sets are
// keyed case-insensitively by source.
type Store struct {
	sets  map[string]*Set
	order []*Set
	all   []*Feature
}

func NewStore() *Store { return &Store{sets: map[string]*Set{}} }

// Set returns the featureset for source, creating it on first use.
func (st *Store) Set(source string) *Set {
	key := strings.ToLower(source)
	if s, ok := st.sets[key]; ok {
		return s
	}
	s := &Set{Source: source, UniqueID: key, store: st, byID: map[string]*Feature{}}
	st.sets[key] = s
	st.order = append(st.order, s)
	return s
}

// Lookup returns an existing featureset.
func (st *Store) Lookup(source string) (*Set, bool) {
	s, ok := st.sets[strings.ToLower(source)]
	return s, ok
}

// Sets returns the featuresets in creation order.
func (st *Store) Sets() []*Set { return st.order }

// Features returns every feature in the order it was added.
func (st *Store) Features() []*Feature { return st.all }

func (st *Store) Len() int { return len(st.all) }
