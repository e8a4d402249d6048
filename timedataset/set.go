package timedataset

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrGrainExists  = errors.New("grain already exists in set")
	ErrGrainUnknown = errors.New("grain does not exist in set")
	ErrNilDataset   = errors.New("nil dataset")
)

// Set is a collection of time series keyed by grain. It preserves insertion
// order for deterministic iteration and exposes the group to grain mapping
// used to fan model fitting out across series.
type Set struct {
	grains   []string
	datasets map[string]*TimeDataset
}

func NewSet(datasets ...*TimeDataset) (*Set, error) {
	s := &Set{
		datasets: make(map[string]*TimeDataset),
	}
	for _, td := range datasets {
		if err := s.Add(td); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add inserts a series into the set rejecting duplicate grains. The zero
// value Set is ready to use.
func (s *Set) Add(td *TimeDataset) error {
	if td == nil {
		return ErrNilDataset
	}
	if s.datasets == nil {
		s.datasets = make(map[string]*TimeDataset)
	}
	if _, exists := s.datasets[td.Grain]; exists {
		return fmt.Errorf("%q, %w", td.Grain, ErrGrainExists)
	}
	s.grains = append(s.grains, td.Grain)
	s.datasets[td.Grain] = td
	return nil
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.grains)
}

// Grains returns the grain keys in insertion order.
func (s *Set) Grains() []string {
	if s == nil {
		return nil
	}
	grains := make([]string, len(s.grains))
	copy(grains, s.grains)
	return grains
}

func (s *Set) Get(grain string) (*TimeDataset, error) {
	if s == nil {
		return nil, fmt.Errorf("%q, %w", grain, ErrGrainUnknown)
	}
	td, exists := s.datasets[grain]
	if !exists {
		return nil, fmt.Errorf("%q, %w", grain, ErrGrainUnknown)
	}
	return td, nil
}

// GroupBy returns the mapping of group to the grains pooled under it, with
// grains listed in insertion order and groups sorted for determinism.
func (s *Set) GroupBy() map[string][]string {
	if s == nil {
		return nil
	}
	groups := make(map[string][]string)
	for _, grain := range s.grains {
		td := s.datasets[grain]
		groups[td.Group] = append(groups[td.Group], grain)
	}
	return groups
}

// Groups returns the distinct group keys in sorted order.
func (s *Set) Groups() []string {
	groupBy := s.GroupBy()
	groups := make([]string, 0, len(groupBy))
	for group := range groupBy {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	return groups
}
