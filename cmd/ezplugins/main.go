// Package main provides the ezplugins inspection CLI. It is compiled with
// the example plugins so the framework can be explored from the shell.
package main

import (
	"os"

	// Example plugins register themselves on import.
	_ "github.com/allworldit/ezplugins/examples/plugins/greeter"
	_ "github.com/allworldit/ezplugins/examples/plugins/hostinfo"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
