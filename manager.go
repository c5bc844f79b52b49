package ezplugins

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
)

// Module records one namespace visited during the scan: the plugins loaded
// from it and, when the manager ignores load errors, the error that stopped
// part of the namespace from loading.
type Module struct {
	Namespace string
	Plugins   []*Plugin
	Err       error
}

// Manager discovers and owns plugins. The scan runs to completion inside
// NewManager; a Manager is read-only afterwards and safe for concurrent
// readers without locking. Thread-safety of the plugin method bodies
// themselves is the plugin author's responsibility.
type Manager struct {
	table            *Table
	logger           *slog.Logger
	ignoreLoadErrors bool

	plugins    []*Plugin
	modules    []*Module
	loadErrors []*PluginLoadError
}

// ManagerOption configures a Manager before its scan runs.
type ManagerOption func(*Manager)

// WithTable scans against the given descriptor table instead of the
// process-wide default table.
func WithTable(t *Table) ManagerOption {
	return func(m *Manager) {
		m.table = t
	}
}

// WithLogger sets the logger used for scan diagnostics.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithIgnoreLoadErrors collects load failures per module instead of failing
// manager construction. Collected failures are available via LoadErrors and
// on the affected Module entries.
func WithIgnoreLoadErrors() ManagerOption {
	return func(m *Manager) {
		m.ignoreLoadErrors = true
	}
}

// NewManager scans the given root namespaces in input order and instantiates
// every marked plugin type found at or beneath them. Namespaces are walked
// depth-first with direct children in lexicographic order, and each
// namespace is visited at most once even when reachable from several roots.
// Any load failure aborts construction with a PluginLoadError unless
// WithIgnoreLoadErrors was given; no partial manager is ever produced.
func NewManager(namespaces []string, opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		table:  defaultTable,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}

	visited := make(map[string]bool)
	for _, root := range namespaces {
		if visited[root] {
			continue
		}
		if !m.table.hasNamespace(root) {
			lerr := &PluginLoadError{Namespace: root, Err: ErrUnknownNamespace}
			if !m.ignoreLoadErrors {
				return nil, lerr
			}
			m.loadErrors = append(m.loadErrors, lerr)
			m.modules = append(m.modules, &Module{Namespace: root, Err: lerr})
			continue
		}
		if err := m.walk(root, visited); err != nil {
			return nil, err
		}
	}

	m.logger.Debug("plugin scan complete",
		"namespaces", len(namespaces),
		"plugins", len(m.plugins),
		"load_errors", len(m.loadErrors))
	return m, nil
}

// walk loads the plugins registered exactly in ns, then recurses into its
// child namespaces in lexicographic order.
func (m *Manager) walk(ns string, visited map[string]bool) error {
	if visited[ns] {
		return nil
	}
	visited[ns] = true

	if descs := m.table.descriptorsIn(ns); len(descs) > 0 {
		mod := &Module{Namespace: ns}
		for _, d := range descs {
			p, err := m.instantiate(d)
			if err != nil {
				if !m.ignoreLoadErrors {
					return err
				}
				var lerr *PluginLoadError
				errors.As(err, &lerr)
				m.loadErrors = append(m.loadErrors, lerr)
				mod.Err = err
				continue
			}
			mod.Plugins = append(mod.Plugins, p)
			m.plugins = append(m.plugins, p)
			m.logger.Debug("plugin loaded", "fqn", p.FQN(), "methods", len(p.methods))
		}
		m.modules = append(m.modules, mod)
	}

	for _, child := range m.table.childNamespaces(ns) {
		if err := m.walk(child, visited); err != nil {
			return err
		}
	}
	return nil
}

// instantiate constructs the plugin instance and binds its marked methods.
func (m *Manager) instantiate(d *PluginDescriptor) (*Plugin, error) {
	fqn := d.Namespace + "#" + d.ClassName

	instance, err := d.newFn()
	if err != nil {
		return nil, &PluginLoadError{Namespace: d.Namespace, FQN: fqn, Err: err}
	}
	if got, want := reflect.TypeOf(instance), reflect.PointerTo(d.typ); got != want && got != d.typ {
		return nil, &PluginLoadError{
			Namespace: d.Namespace,
			FQN:       fqn,
			Err:       fmt.Errorf("constructor returned %v, want %v", got, want),
		}
	}

	p := &Plugin{
		fqn:       fqn,
		path:      d.Namespace,
		className: d.ClassName,
		alias:     d.Alias,
		instance:  instance,
	}

	v := reflect.ValueOf(instance)
	for _, md := range m.table.methodsFor(d.typ) {
		fn := v.MethodByName(md.Name)
		if !fn.IsValid() {
			return nil, &PluginLoadError{
				Namespace: d.Namespace,
				FQN:       fqn,
				Err:       fmt.Errorf("instance has no method %q", md.Name),
			}
		}
		p.methods = append(p.methods, &PluginMethod{
			name:   md.Name,
			order:  md.Order,
			fn:     fn,
			plugin: p,
		})
	}
	return p, nil
}

// Plugins returns all loaded plugins in discovery order.
func (m *Manager) Plugins() []*Plugin {
	out := make([]*Plugin, len(m.plugins))
	copy(out, m.plugins)
	return out
}

// Modules returns the namespaces visited during the scan, in discovery
// order. Namespaces without plugins are omitted unless they failed to load.
func (m *Manager) Modules() []*Module {
	out := make([]*Module, len(m.modules))
	copy(out, m.modules)
	return out
}

// LoadErrors returns the load failures collected under
// WithIgnoreLoadErrors. Empty for managers built in the default
// all-or-nothing mode.
func (m *Manager) LoadErrors() []*PluginLoadError {
	out := make([]*PluginLoadError, len(m.loadErrors))
	copy(out, m.loadErrors)
	return out
}

// GetPlugin returns every plugin matching the identifier, resolved against
// the fully qualified name, the "#ClassName" form, and the alias, in
// discovery order. An identifier matching nothing returns an empty slice.
func (m *Manager) GetPlugin(name string) []*Plugin {
	var matched []*Plugin
	for _, p := range m.plugins {
		if p.matches(name) {
			matched = append(matched, p)
		}
	}
	return matched
}
