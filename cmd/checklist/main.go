package main

import (
	"fmt"
	"os"

	"checklist/internal/cli"
	"checklist/internal/config"
)

func main() {
	// Defaults, config file and environment; flags are applied per command
	cfg, err := config.NewLoader().Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	root := cli.NewRootCommand(cfg, cli.DefaultBootstrap)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
