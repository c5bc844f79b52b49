package ezplugins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	method string
	fqn    string
}

func collectPairs(mgr *Manager, opts ...QueryOption) []pair {
	var pairs []pair
	for method, plugin := range mgr.Methods(opts...) {
		pairs = append(pairs, pair{method: method.Name(), fqn: plugin.FQN()})
	}
	return pairs
}

func demoManager(t *testing.T) *Manager {
	t.Helper()
	mgr, err := NewManager([]string{"demo.plugins"}, WithTable(demoTable(t)))
	require.NoError(t, err)
	return mgr
}

// The scenario from the framework's contract: a.A (order 100, "Go") and
// b.B (alias "BB", order 200, "Go") yield [(A.Go, A), (B.Go, B)].
func TestMethods_Scenario(t *testing.T) {
	pairs := collectPairs(demoManager(t), WhereName("Go"))
	assert.Equal(t, []pair{
		{method: "Go", fqn: "demo.plugins.a#A"},
		{method: "Go", fqn: "demo.plugins.b#B"},
	}, pairs)
}

func TestMethods_Unfiltered(t *testing.T) {
	pairs := collectPairs(demoManager(t))
	assert.Len(t, pairs, 2)
}

func TestMethods_WhereNameIsCaseSensitive(t *testing.T) {
	assert.Empty(t, collectPairs(demoManager(t), WhereName("go")))
	assert.Empty(t, collectPairs(demoManager(t), WhereName("doesNotExist")))
}

// The same plugin is reachable by fqn, class name, and alias.
func TestMethods_FromPluginPrecedenceForms(t *testing.T) {
	mgr := demoManager(t)

	want := []pair{{method: "Go", fqn: "demo.plugins.b#B"}}
	for _, id := range []string{"demo.plugins.b#B", "#B", "BB"} {
		assert.Equal(t, want, collectPairs(mgr, FromPlugin(id)), "identifier %q", id)
	}
}

func TestMethods_FromPluginMissIsEmpty(t *testing.T) {
	assert.Empty(t, collectPairs(demoManager(t), FromPlugin("#Unknown")))
}

func TestMethods_CombinedFilters(t *testing.T) {
	mgr := demoManager(t)

	pairs := collectPairs(mgr, WhereName("Go"), FromPlugin("BB"))
	assert.Equal(t, []pair{{method: "Go", fqn: "demo.plugins.b#B"}}, pairs)

	assert.Empty(t, collectPairs(mgr, WhereName("doesNotExist"), FromPlugin("BB")))
}

type lowOrder struct{}

func (l *lowOrder) Work() {}

type highOrder struct{}

func (h *highOrder) Work() {}

// Ordering law: order 10 precedes order 20 regardless of discovery order.
func TestMethods_OrderedAscending(t *testing.T) {
	table := NewTable()
	// highOrder is discovered first (namespace "demo.first") but runs last.
	require.NoError(t, MarkAsPlugin[highOrder](table, "demo.first"))
	require.NoError(t, MarkAsMethod[highOrder](table, "Work", WithOrder(20)))
	require.NoError(t, MarkAsPlugin[lowOrder](table, "demo.second"))
	require.NoError(t, MarkAsMethod[lowOrder](table, "Work", WithOrder(10)))

	mgr, err := NewManager([]string{"demo.first", "demo.second"}, WithTable(table))
	require.NoError(t, err)

	pairs := collectPairs(mgr, WhereName("Work"))
	assert.Equal(t, []pair{
		{method: "Work", fqn: "demo.second#lowOrder"},
		{method: "Work", fqn: "demo.first#highOrder"},
	}, pairs)
}

// Methods sharing an order keep their discovery order.
func TestMethods_SameOrderTieBreaksOnDiscovery(t *testing.T) {
	table := NewTable()
	require.NoError(t, MarkAsPlugin[highOrder](table, "demo.first"))
	require.NoError(t, MarkAsMethod[highOrder](table, "Work", WithOrder(10)))
	require.NoError(t, MarkAsPlugin[lowOrder](table, "demo.second"))
	require.NoError(t, MarkAsMethod[lowOrder](table, "Work", WithOrder(10)))

	mgr, err := NewManager([]string{"demo.first", "demo.second"}, WithTable(table))
	require.NoError(t, err)

	pairs := collectPairs(mgr, WhereName("Work"))
	assert.Equal(t, []pair{
		{method: "Work", fqn: "demo.first#highOrder"},
		{method: "Work", fqn: "demo.second#lowOrder"},
	}, pairs)
}

// An explicit order of 5000 and no declared order behave identically.
func TestMethods_ExplicitDefaultOrderEquivalent(t *testing.T) {
	table := NewTable()
	require.NoError(t, MarkAsPlugin[highOrder](table, "demo.first"))
	require.NoError(t, MarkAsMethod[highOrder](table, "Work", WithOrder(DefaultMethodOrder)))
	require.NoError(t, MarkAsPlugin[lowOrder](table, "demo.second"))
	require.NoError(t, MarkAsMethod[lowOrder](table, "Work"))

	mgr, err := NewManager([]string{"demo.first", "demo.second"}, WithTable(table))
	require.NoError(t, err)

	var orders []int
	for method := range mgr.Methods() {
		orders = append(orders, method.Order())
	}
	assert.Equal(t, []int{DefaultMethodOrder, DefaultMethodOrder}, orders)
}

type aliased struct{}

func (a *aliased) Report() string { return "aliased" }

type alsoAliased struct{}

func (a *alsoAliased) Report() string { return "alsoAliased" }

// Two plugins may share an alias; a query by that alias returns methods from
// both, each paired with its owning plugin.
func TestMethods_SharedAliasMatchesAll(t *testing.T) {
	table := NewTable()
	require.NoError(t, MarkAsPlugin[aliased](table, "demo.x"))
	require.NoError(t, MarkPluginMetadata[aliased](table, "shared"))
	require.NoError(t, MarkAsMethod[aliased](table, "Report", WithOrder(1)))
	require.NoError(t, MarkAsPlugin[alsoAliased](table, "demo.y"))
	require.NoError(t, MarkPluginMetadata[alsoAliased](table, "shared"))
	require.NoError(t, MarkAsMethod[alsoAliased](table, "Report", WithOrder(2)))

	mgr, err := NewManager([]string{"demo"}, WithTable(table))
	require.NoError(t, err)

	pairs := collectPairs(mgr, FromPlugin("shared"))
	assert.Equal(t, []pair{
		{method: "Report", fqn: "demo.x#aliased"},
		{method: "Report", fqn: "demo.y#alsoAliased"},
	}, pairs)
}

// The sequence is restartable: iterating twice observes identical results.
func TestMethods_Restartable(t *testing.T) {
	mgr := demoManager(t)

	seq := mgr.Methods(WhereName("Go"))
	var first, second []pair
	for method, plugin := range seq {
		first = append(first, pair{method.Name(), plugin.FQN()})
	}
	for method, plugin := range seq {
		second = append(second, pair{method.Name(), plugin.FQN()})
	}
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestMethods_EarlyBreak(t *testing.T) {
	mgr := demoManager(t)

	count := 0
	for range mgr.Methods() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}
