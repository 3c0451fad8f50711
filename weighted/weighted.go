// Package weighted draws values with probability proportional to integer
// weights from an injected random source.
package weighted

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

var ErrNoCandidates = errors.New("no candidate with positive weight")

// Source is satisfied by *math/rand.Rand.
type Source interface {
	Intn(n int) int
}

type Index struct {
	cumulative []uint64
}

func NewIndex(weights []uint32) (*Index, error) {
	idx := &Index{cumulative: make([]uint64, len(weights))}
	var total uint64
	for i, w := range weights {
		total += uint64(w)
		idx.cumulative[i] = total
	}
	if total == 0 {
		return nil, ErrNoCandidates
	}
	return idx, nil
}

func (idx *Index) Total() uint64 {
	return idx.cumulative[len(idx.cumulative)-1]
}

func (idx *Index) Pick(src Source) int {
	roll := uint64(src.Intn(int(idx.Total())))
	return sort.Search(len(idx.cumulative), func(i int) bool {
		return idx.cumulative[i] > roll
	})
}

func Choose[T any](src Source, values []T, weights []uint32) (T, error) {
	var zero T
	if len(values) != len(weights) {
		return zero, errors.Errorf("%d values but %d weights", len(values), len(weights))
	}
	idx, err := NewIndex(weights)
	if err != nil {
		return zero, err
	}
	return values[idx.Pick(src)], nil
}

// LockedSource is a Source safe for use from several goroutines.
type LockedSource struct {
	lock sync.Mutex
	rnd  *rand.Rand
}

func NewLockedSource(seed int64) *LockedSource {
	return &LockedSource{rnd: rand.New(rand.NewSource(seed))}
}

func (s *LockedSource) Intn(n int) int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.rnd.Intn(n)
}
