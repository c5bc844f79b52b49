package ezplugins

import "reflect"

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Plugin represents one instantiated plugin. Plugins are created during the
// manager's scan and never mutated afterwards.
type Plugin struct {
	fqn       string
	path      string
	className string
	alias     string
	instance  any
	methods   []*PluginMethod
}

// FQN returns the plugin's fully qualified name: the dotted namespace of its
// registration joined to its class name with "#", e.g. "acme.plugins#Foo".
// Unique within a manager by construction.
func (p *Plugin) FQN() string {
	return p.fqn
}

// Name returns the plugin's class name prefixed with "#".
func (p *Plugin) Name() string {
	return "#" + p.className
}

// Path returns the dotted namespace the plugin was registered under.
func (p *Plugin) Path() string {
	return p.path
}

// Alias returns the plugin's alias, or "" if none was declared.
func (p *Plugin) Alias() string {
	return p.alias
}

// Instance returns the instantiated plugin object backing all method calls.
func (p *Plugin) Instance() any {
	return p.instance
}

// Methods returns the plugin's marked methods in mark order.
func (p *Plugin) Methods() []*PluginMethod {
	out := make([]*PluginMethod, len(p.methods))
	copy(out, p.methods)
	return out
}

func (p *Plugin) String() string {
	return p.fqn
}

// matches resolves an owning-plugin identifier against this plugin:
// the fully qualified name first, then the "#ClassName" form, then the alias.
func (p *Plugin) matches(id string) bool {
	if id == p.fqn || id == p.Name() {
		return true
	}
	return p.alias != "" && id == p.alias
}

// PluginMethod is a callable entry point bound to its owning plugin's
// instance.
type PluginMethod struct {
	name   string
	order  int
	fn     reflect.Value
	plugin *Plugin
}

// Name returns the method's declared name.
func (m *PluginMethod) Name() string {
	return m.name
}

// Order returns the method's run priority. Lower orders run first.
func (m *PluginMethod) Order() int {
	return m.order
}

// Plugin returns the plugin owning this method.
func (m *PluginMethod) Plugin() *Plugin {
	return m.plugin
}

func (m *PluginMethod) String() string {
	return m.plugin.fqn + "." + m.name
}

// Run invokes the bound method synchronously. A trailing error return value
// is split off and returned unmodified as err; all other return values are
// collected into results. Run performs no argument validation: mismatched
// argument types or arity panic exactly as a direct reflective call would,
// and panics from the method body propagate to the caller.
func (m *PluginMethod) Run(args ...any) (results []any, err error) {
	ft := m.fn.Type()

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			if pt, ok := paramType(ft, i); ok {
				in[i] = reflect.Zero(pt)
				continue
			}
		}
		in[i] = reflect.ValueOf(arg)
	}

	out := m.fn.Call(in)
	if n := len(out); n > 0 && ft.Out(n-1) == errorType {
		if v := out[n-1]; !v.IsNil() {
			err = v.Interface().(error)
		}
		out = out[:n-1]
	}
	results = make([]any, 0, len(out))
	for _, v := range out {
		results = append(results, v.Interface())
	}
	return results, err
}

// paramType returns the declared type of argument i, accounting for
// variadic parameters.
func paramType(ft reflect.Type, i int) (reflect.Type, bool) {
	switch {
	case ft.IsVariadic() && i >= ft.NumIn()-1:
		return ft.In(ft.NumIn() - 1).Elem(), true
	case i < ft.NumIn():
		return ft.In(i), true
	default:
		return nil, false
	}
}
