package delta

// Key returns the accumulation key for an entity: "{entityType}:{name}".
func Key(entityType EntityType, name string) string {
	return string(entityType) + ":" + name
}

// Accumulator merges entity deltas by key while remembering the order in
// which keys were first seen. It is owned by a single caller; share the
// result, not the accumulator.
type Accumulator struct {
	index  map[string]int
	deltas []EntityDelta
}

func NewAccumulator() *Accumulator {
	return &Accumulator{index: make(map[string]int)}
}

// Append finds or creates the delta for (entityType, name) and appends
// changes to it in order.
func (a *Accumulator) Append(entityType EntityType, name string, changes ...StateChange) {
	key := Key(entityType, name)
	i, ok := a.index[key]
	if !ok {
		i = len(a.deltas)
		a.index[key] = i
		a.deltas = append(a.deltas, EntityDelta{
			Entity:     name,
			EntityType: entityType,
			Changes:    []StateChange{},
		})
	}
	a.deltas[i].Changes = append(a.deltas[i].Changes, changes...)
}

// Deltas returns the merged deltas in first-insertion order.
func (a *Accumulator) Deltas() []EntityDelta {
	out := make([]EntityDelta, len(a.deltas))
	copy(out, a.deltas)
	return out
}

// Map returns the merged deltas keyed by Key.
func (a *Accumulator) Map() map[string]EntityDelta {
	out := make(map[string]EntityDelta, len(a.deltas))
	for key, i := range a.index {
		out[key] = a.deltas[i]
	}
	return out
}

// Accumulate merges deltas gathered from any number of extractions into one
// entry per (entityType, entity), concatenating changes in input order.
func Accumulate(deltas []EntityDelta) map[string]EntityDelta {
	acc := NewAccumulator()
	for _, d := range deltas {
		acc.Append(d.EntityType, d.Entity, d.Changes...)
	}
	return acc.Map()
}
