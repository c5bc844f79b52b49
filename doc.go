// Package ezplugins provides plugin discovery, loading, and ordered method
// invocation.
//
// Application code marks struct types as plugins and names the methods that
// act as callable entry points:
//
//	func init() {
//		ezplugins.MustMarkAsPlugin[Reporter]("acme.plugins.reporting")
//		ezplugins.MustMarkPluginMetadata[Reporter]("reporter")
//		ezplugins.MustMarkAsMethod[Reporter]("Collect", ezplugins.WithOrder(100))
//	}
//
// A Manager scans a set of dotted namespaces against a descriptor Table,
// instantiates every marked type it finds, and answers method queries across
// all loaded plugins:
//
//	mgr, err := ezplugins.NewManager([]string{"acme.plugins"})
//	if err != nil {
//		return err
//	}
//	for method, owner := range mgr.Methods(ezplugins.WhereName("Collect")) {
//		results, err := method.Run()
//		...
//	}
//
// Methods run in ascending order of their declared run priority (lowest
// first, default 5000); methods sharing a priority keep their discovery
// order. Managers are immutable once constructed and safe for concurrent
// readers.
package ezplugins
