package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/allworldit/ezplugins"
)

var (
	methodsName   string
	methodsPlugin string
)

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List callable plugin methods",
	Long: `Display callable plugin methods across all loaded plugins, in run order.

Methods can be narrowed by exact name and by owning plugin, where the plugin
identifier is a fully qualified name ("acme.plugins#Foo"), a class name
("#Foo"), or an alias.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		mgr, err := buildManager()
		if err != nil {
			return err
		}
		return writeMethodList(cmd.OutOrStdout(), mgr, queryOptions(methodsName, methodsPlugin))
	},
}

func init() {
	methodsCmd.Flags().StringVar(&methodsName, "name", "", "only methods with this exact name")
	methodsCmd.Flags().StringVar(&methodsPlugin, "plugin", "", "only methods from this plugin (fqn, #ClassName, or alias)")
	rootCmd.AddCommand(methodsCmd)
}

func queryOptions(name, plugin string) []ezplugins.QueryOption {
	var opts []ezplugins.QueryOption
	if name != "" {
		opts = append(opts, ezplugins.WhereName(name))
	}
	if plugin != "" {
		opts = append(opts, ezplugins.FromPlugin(plugin))
	}
	return opts
}

func writeMethodList(out io.Writer, mgr *ezplugins.Manager, opts []ezplugins.QueryOption) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, headerStyle.Render("ORDER")+"\t"+headerStyle.Render("METHOD")+"\t"+headerStyle.Render("PLUGIN"))

	count := 0
	for method, plugin := range mgr.Methods(opts...) {
		count++
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", method.Order(), method.Name(), plugin.FQN())
	}
	if count == 0 {
		_, _ = fmt.Fprintln(out, "No matching methods.")
		return nil
	}
	return w.Flush()
}
