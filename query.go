package ezplugins

import (
	"iter"
	"sort"
)

type methodQuery struct {
	name      string
	hasName   bool
	plugin    string
	hasPlugin bool
}

// QueryOption narrows a Methods query.
type QueryOption func(*methodQuery)

// WhereName restricts results to methods whose name equals the given name
// exactly (case-sensitive).
func WhereName(name string) QueryOption {
	return func(q *methodQuery) {
		q.name = name
		q.hasName = true
	}
}

// FromPlugin restricts results to plugins matching the identifier. The
// identifier is resolved per plugin with this precedence, first match wins:
// the fully qualified name, the "#ClassName" form, then the alias. An
// identifier matching no plugin yields an empty sequence, not an error.
func FromPlugin(id string) QueryOption {
	return func(q *methodQuery) {
		q.plugin = id
		q.hasPlugin = true
	}
}

// Methods returns a restartable sequence of (method, owning plugin) pairs
// matching the query. Results are ordered by ascending method order; methods
// sharing an order keep their discovery order, so the sequence is
// deterministic for identical registrations. The registry is re-walked on
// every iteration; nothing is cached across calls.
func (m *Manager) Methods(opts ...QueryOption) iter.Seq2[*PluginMethod, *Plugin] {
	var q methodQuery
	for _, opt := range opts {
		opt(&q)
	}
	return func(yield func(*PluginMethod, *Plugin) bool) {
		for _, pm := range m.collect(q) {
			if !yield(pm, pm.plugin) {
				return
			}
		}
	}
}

func (m *Manager) collect(q methodQuery) []*PluginMethod {
	var found []*PluginMethod
	for _, p := range m.plugins {
		if q.hasPlugin && !p.matches(q.plugin) {
			continue
		}
		for _, pm := range p.methods {
			if q.hasName && pm.name != q.name {
				continue
			}
			found = append(found, pm)
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].order < found[j].order })
	return found
}
