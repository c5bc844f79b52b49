package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/allworldit/ezplugins"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List loaded plugins",
	Long:  `Display every plugin loaded from the scanned namespaces, in discovery order.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		mgr, err := buildManager()
		if err != nil {
			return err
		}
		return writePluginList(cmd.OutOrStdout(), mgr)
	},
}

func init() {
	rootCmd.AddCommand(pluginsCmd)
}

func writePluginList(out io.Writer, mgr *ezplugins.Manager) error {
	plugins := mgr.Plugins()
	if len(plugins) == 0 {
		_, _ = fmt.Fprintln(out, "No plugins loaded.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, headerStyle.Render("FQN")+"\t"+headerStyle.Render("ALIAS")+"\t"+headerStyle.Render("METHODS"))
	for _, p := range plugins {
		alias := p.Alias()
		if alias == "" {
			alias = dimStyle.Render("-")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\n", p.FQN(), alias, len(p.Methods()))
	}
	return w.Flush()
}
