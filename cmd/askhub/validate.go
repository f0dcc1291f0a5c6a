package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askhub/askhub/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and route tree",
	Long: `Validate the configuration file and the route tree it references.

Checks the server, backend, database and logging sections, then builds
the route tree so declaration errors (duplicate sibling paths, misplaced
wildcards, unknown guards or roles) surface before deployment.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}
	fmt.Printf("config %s: OK\n", cfgFile)

	tree, err := config.LoadTree(cfg.Routes.File, cfg.Routes.LoginPath, cfg.Routes.ForbiddenPath)
	if err != nil {
		return fmt.Errorf("route tree invalid: %w", err)
	}
	fmt.Printf("routes %s: OK (%d top-level routes)\n", cfg.Routes.File, len(tree.Roots()))
	return nil
}
