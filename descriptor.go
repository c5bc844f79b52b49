package ezplugins

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// DefaultMethodOrder is the run priority assigned to marked methods that do
// not declare one. Methods run in ascending order, lowest first.
const DefaultMethodOrder = 5000

// MethodDescriptor records one marked entry-point method of a plugin type.
// Methods without a descriptor are invisible to the query engine regardless
// of their name.
type MethodDescriptor struct {
	Name  string
	Order int
}

// PluginDescriptor records a marked plugin type: the namespace it lives in,
// its class name, an optional alias, and its constructor. At most one
// descriptor exists per type.
type PluginDescriptor struct {
	Namespace string
	ClassName string
	Alias     string

	typ   reflect.Type
	newFn func() (any, error)
}

// Table is the descriptor table the marking calls write to and managers
// scan. The zero value is not usable; call NewTable. A process-wide table
// (see DefaultTable) backs the Must* marking helpers used for init-time
// registration.
type Table struct {
	mu      sync.RWMutex
	plugins map[reflect.Type]*PluginDescriptor
	marked  []reflect.Type
	methods map[reflect.Type][]MethodDescriptor
}

// NewTable creates an empty descriptor table.
func NewTable() *Table {
	return &Table{
		plugins: make(map[reflect.Type]*PluginDescriptor),
		methods: make(map[reflect.Type][]MethodDescriptor),
	}
}

var defaultTable = NewTable()

// DefaultTable returns the process-wide descriptor table.
func DefaultTable() *Table {
	return defaultTable
}

// PluginOption configures a plugin marking.
type PluginOption func(*PluginDescriptor)

// WithConstructor overrides the default zero-argument constructor (new(T)).
// The constructor must return a *T; anything else fails the scan with a
// PluginLoadError.
func WithConstructor(fn func() (any, error)) PluginOption {
	return func(d *PluginDescriptor) {
		d.newFn = fn
	}
}

// MethodOption configures a method marking.
type MethodOption func(*MethodDescriptor)

// WithOrder sets the method's run priority. Defaults to DefaultMethodOrder.
func WithOrder(order int) MethodOption {
	return func(d *MethodDescriptor) {
		d.Order = order
	}
}

func typeFor[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// MarkAsPlugin marks T as a loadable plugin under the given dotted
// namespace. Marking the same type twice fails with a ConfigurationError.
func MarkAsPlugin[T any](t *Table, namespace string, opts ...PluginOption) error {
	typ := typeFor[T]()
	if typ.Name() == "" {
		return &ConfigurationError{Target: typ.String(), Err: errors.New("plugin type must be a named type")}
	}
	if err := validateNamespace(namespace); err != nil {
		return &ConfigurationError{Target: namespace, Err: err}
	}

	d := &PluginDescriptor{
		Namespace: namespace,
		ClassName: typ.Name(),
		typ:       typ,
		newFn:     func() (any, error) { return new(T), nil },
	}
	for _, opt := range opts {
		opt(d)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.plugins[typ]; exists {
		return &ConfigurationError{Target: typ.Name(), Err: ErrAlreadyMarked}
	}
	t.plugins[typ] = d
	t.marked = append(t.marked, typ)
	return nil
}

// MarkPluginMetadata sets the alias of an already-marked plugin type.
// Applying it to a type with no plugin descriptor fails with a
// ConfigurationError. Aliases are not checked for uniqueness: a query by a
// shared alias matches every plugin carrying it.
func MarkPluginMetadata[T any](t *Table, alias string) error {
	typ := typeFor[T]()

	t.mu.Lock()
	defer t.mu.Unlock()

	d, ok := t.plugins[typ]
	if !ok {
		return &ConfigurationError{Target: typ.Name(), Err: ErrNotMarked}
	}
	d.Alias = alias
	return nil
}

// MarkAsMethod marks an exported method of T (pointer receivers included) as
// a callable entry point. Marking the same method twice overwrites its order
// (last wins) while keeping the method's original mark position. A method
// name that does not exist on *T fails with a ConfigurationError.
func MarkAsMethod[T any](t *Table, name string, opts ...MethodOption) error {
	typ := typeFor[T]()
	if _, ok := reflect.PointerTo(typ).MethodByName(name); !ok {
		return &ConfigurationError{
			Target: typ.Name() + "." + name,
			Err:    fmt.Errorf("no exported method %q", name),
		}
	}

	md := MethodDescriptor{Name: name, Order: DefaultMethodOrder}
	for _, opt := range opts {
		opt(&md)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	marks := t.methods[typ]
	for i := range marks {
		if marks[i].Name == name {
			marks[i].Order = md.Order
			return nil
		}
	}
	t.methods[typ] = append(marks, md)
	return nil
}

// MustMarkAsPlugin marks T on the default table and panics on a
// ConfigurationError. Intended for init-time registration.
func MustMarkAsPlugin[T any](namespace string, opts ...PluginOption) {
	if err := MarkAsPlugin[T](defaultTable, namespace, opts...); err != nil {
		panic(err)
	}
}

// MustMarkPluginMetadata sets the alias of T on the default table and panics
// on a ConfigurationError.
func MustMarkPluginMetadata[T any](alias string) {
	if err := MarkPluginMetadata[T](defaultTable, alias); err != nil {
		panic(err)
	}
}

// MustMarkAsMethod marks a method of T on the default table and panics on a
// ConfigurationError.
func MustMarkAsMethod[T any](name string, opts ...MethodOption) {
	if err := MarkAsMethod[T](defaultTable, name, opts...); err != nil {
		panic(err)
	}
}

func validateNamespace(ns string) error {
	if ns == "" {
		return errors.New("namespace is empty")
	}
	for _, seg := range strings.Split(ns, ".") {
		if seg == "" {
			return fmt.Errorf("namespace %q has an empty segment", ns)
		}
	}
	return nil
}

// descriptorsIn returns the descriptors registered exactly in ns, in
// lexicographic class-name order.
func (t *Table) descriptorsIn(ns string) []*PluginDescriptor {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var descs []*PluginDescriptor
	for _, typ := range t.marked {
		if d := t.plugins[typ]; d.Namespace == ns {
			descs = append(descs, d)
		}
	}
	sort.Slice(descs, func(i, j int) bool { return descs[i].ClassName < descs[j].ClassName })
	return descs
}

// childNamespaces returns the direct child namespaces of ns that have
// registered plugins at or beneath them, in lexicographic order.
func (t *Table) childNamespaces(ns string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	prefix := ns + "."
	seen := make(map[string]bool)
	var children []string
	for _, d := range t.plugins {
		if !strings.HasPrefix(d.Namespace, prefix) {
			continue
		}
		rest := d.Namespace[len(prefix):]
		if i := strings.Index(rest, "."); i >= 0 {
			rest = rest[:i]
		}
		child := prefix + rest
		if !seen[child] {
			seen[child] = true
			children = append(children, child)
		}
	}
	sort.Strings(children)
	return children
}

// hasNamespace reports whether any plugin is registered at or beneath ns.
func (t *Table) hasNamespace(ns string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	prefix := ns + "."
	for _, d := range t.plugins {
		if d.Namespace == ns || strings.HasPrefix(d.Namespace, prefix) {
			return true
		}
	}
	return false
}

// methodsFor returns the marked methods of typ in mark order.
func (t *Table) methodsFor(typ reflect.Type) []MethodDescriptor {
	t.mu.RLock()
	defer t.mu.RUnlock()

	marks := t.methods[typ]
	out := make([]MethodDescriptor, len(marks))
	copy(out, marks)
	return out
}
