package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "askhub",
	Short: "Guarded front server for a campus Q&A platform",
	Long: `askhub serves the public, user and admin screens of a question-and-answer
platform. Every navigation runs through a declarative, role-guarded route
tree; admin list screens reconcile against the collection API with
commit-on-confirm semantics.

Quick start:
  askhub serve      # Start the front server
  askhub validate   # Validate configuration and route tree
  askhub routes     # Print the route table with its guards`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "askhub.yaml", "config file path")
}
