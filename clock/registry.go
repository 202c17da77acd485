package clock

import "sort"

// Registry collects Rings from every pipeline-stage goroutine so a
// post-run merge can recover a total order across them. Registration
// happens once per goroutine at startup; Aggregate is called off the hot
// path after the measured interval ends.
type Registry struct {
	rings []*Ring
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds r to the set of rings aggregated by Aggregate. Not
// synchronized: call it during stage setup, before the measured run starts.
func (m *Registry) Register(r *Ring) {
	m.rings = append(m.rings, r)
}

// Aggregate drains all registered rings and returns their events merged
// and sorted by Sequence, recovering the total order across goroutines.
func (m *Registry) Aggregate() []Event {
	total := 0
	for _, r := range m.rings {
		total += len(r.Events())
	}
	out := make([]Event, 0, total)
	for _, r := range m.rings {
		out = append(out, r.Events()...)
		r.Clear()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}

// TotalDropped sums the drop counters of every registered ring.
func (m *Registry) TotalDropped() uint64 {
	var total uint64
	for _, r := range m.rings {
		total += r.Dropped()
	}
	return total
}
