package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/ini.v1"

	"github.com/allworldit/ezplugins"
	"github.com/allworldit/ezplugins/manifest"
)

// defaultNamespaces are scanned when no manifest is given; they cover the
// example plugins compiled into this binary.
var defaultNamespaces = []string{"examples.plugins"}

var (
	// Global flags
	manifestPath string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "ezplugins",
	Short: "Inspect and invoke registered plugins",
	Long: `ezplugins discovers plugins registered against the process-wide descriptor
table and lets you list them, query their callable methods, and invoke those
methods in priority order.

By default the example plugin namespaces compiled into this binary are
scanned; use --manifest to scan the namespaces a manifest file names.`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		applySettings()
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "", "manifest file naming the namespaces to scan")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

// settingsPath returns the location of the optional ini settings file.
func settingsPath() string {
	if p := os.Getenv("EZPLUGINS_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ezplugins.ini")
}

// applySettings fills unset flags from the [defaults] section of the
// settings file. Flags given on the command line always win.
func applySettings() {
	path := settingsPath()
	if path == "" {
		return
	}
	cfg, err := ini.Load(path)
	if err != nil {
		// The settings file is optional.
		return
	}
	section := cfg.Section("defaults")
	if manifestPath == "" && section.HasKey("manifest") {
		manifestPath = section.Key("manifest").String()
	}
	if !verbose && section.HasKey("verbose") {
		verbose = section.Key("verbose").MustBool(false)
	}
}

// buildManager constructs a manager over the configured namespaces.
func buildManager() (*ezplugins.Manager, error) {
	namespaces := defaultNamespaces
	if manifestPath != "" {
		m, err := manifest.Load(manifestPath)
		if err != nil {
			return nil, err
		}
		namespaces = m.Namespaces
	}
	return ezplugins.NewManager(namespaces)
}

// printError prints an error message to stderr.
func printError(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
}
