package fpga

import (
	"fmt"
	"strings"
)

// Registry indexes models by Key. It is read-only after construction and
// safe for concurrent lookups.
type Registry struct {
	models map[Key]*Model
}

// NewRegistry indexes the given models. Two models claiming the same key
// are rejected with ErrDuplicateModel.
func NewRegistry(models ...*Model) (*Registry, error) {
	r := &Registry{models: make(map[Key]*Model)}
	for _, m := range models {
		if err := r.add(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) add(m *Model) error {
	for _, k := range m.Keys() {
		if _, exists := r.models[k]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateModel, k)
		}
		r.models[k] = m
	}
	return nil
}

// Merge returns a new registry holding the models of both registries.
func (r *Registry) Merge(other *Registry) (*Registry, error) {
	merged := &Registry{models: make(map[Key]*Model, len(r.models)+len(other.models))}
	for k, m := range r.models {
		merged.models[k] = m
	}
	for k, m := range other.models {
		if _, exists := merged.models[k]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateModel, k)
		}
		merged.models[k] = m
	}
	return merged, nil
}

// Lookup finds a model. Names are case-insensitive. An empty voltage matches
// any voltage as long as only one model qualifies.
func (r *Registry) Lookup(name, speedGrade, voltage string) (*Model, error) {
	name = strings.ToLower(name)
	if voltage != "" {
		if m, ok := r.models[Key{Name: name, SpeedGrade: speedGrade, Voltage: voltage}]; ok {
			return m, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, Key{name, speedGrade, voltage})
	}

	var found []Key
	for k := range r.models {
		if k.Name == name && k.SpeedGrade == speedGrade {
			found = append(found, k)
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, Key{Name: name, SpeedGrade: speedGrade})
	case 1:
		return r.models[found[0]], nil
	}
	sortKeys(found)
	return nil, fmt.Errorf("%w: %s %s is ambiguous, specify a voltage (%v)", ErrUnknownModel, name, speedGrade, found)
}

// Keys returns every registered key in sorted order.
func (r *Registry) Keys() []Key {
	keys := make([]Key, 0, len(r.models))
	for k := range r.models {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

// Len is the number of registered keys.
func (r *Registry) Len() int { return len(r.models) }
