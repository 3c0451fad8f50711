package utils

import (
	"math/rand"
	"sync"

	"github.com/Pallinder/go-randomdata"
)

// Labels hands out readable names for templates without a SymName. The
// label of an id only depends on the ids labelled before it that collide.
type Labels struct {
	lock sync.Mutex
	byID map[int32]string
	used map[string]struct{}
}

func (l *Labels) Label(id int32) string {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.byID == nil {
		l.byID = make(map[int32]string)
		l.used = make(map[string]struct{})
	}
	if name, ok := l.byID[id]; ok {
		return name
	}
	randomdata.CustomRand(rand.New(rand.NewSource(int64(id))))
	for {
		name := randomdata.SillyName()
		// avoid duplicate names
		if _, exists := l.used[name]; !exists {
			l.used[name] = struct{}{}
			l.byID[id] = name
			return name
		}
	}
}
