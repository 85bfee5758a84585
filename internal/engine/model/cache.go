package model

import (
	"fmt"
	"sync"

	"github.com/Faultbox/dicetray/internal/dice"
)

type entry struct {
	once  sync.Once
	model *Model
}

// One entry per type, created up front so lookups never write to the map.
var cache = func() map[dice.Type]*entry {
	m := make(map[dice.Type]*entry, len(dice.Types))
	for _, t := range dice.Types {
		m[t] = &entry{}
	}
	return m
}()

// Get returns the shared model for t, building it on first use.
// The returned model is read-only. Unknown types return ErrUnknownDieType
// without touching cached models of other types.
//
// A model that fails to build indicates a bug in the constants, so Get
// panics rather than returning a half-built model.
func Get(t dice.Type) (*Model, error) {
	e, ok := cache[t]
	if !ok {
		return nil, fmt.Errorf("%w: %v", dice.ErrUnknownDieType, t)
	}
	e.once.Do(func() {
		m, err := Build(t)
		if err != nil {
			panic(fmt.Sprintf("model: %v", err))
		}
		e.model = m
	})
	return e.model, nil
}

// New returns a private copy of the model for t, for per-instance state.
func New(t dice.Type) (*Model, error) {
	m, err := Get(t)
	if err != nil {
		return nil, err
	}
	return m.Clone(), nil
}
