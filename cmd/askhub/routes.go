package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/askhub/askhub/config"
	"github.com/askhub/askhub/domain/nav"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the route table with its guards",
	RunE:  runRoutes,
}

func init() {
	rootCmd.AddCommand(routesCmd)
}

func runRoutes(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	tree, err := config.LoadTree(cfg.Routes.File, cfg.Routes.LoginPath, cfg.Routes.ForbiddenPath)
	if err != nil {
		return fmt.Errorf("load routes: %w", err)
	}

	fmt.Printf("%-40s %-24s %s\n", "PATH", "COMPONENT", "GUARDS")
	for _, root := range tree.Roots() {
		printNode(root, "", nil)
	}
	fmt.Printf("\nlogin: %s  forbidden: %s\n", tree.LoginPath(), tree.ForbiddenPath())
	return nil
}

// printNode walks the tree accumulating the guards each node inherits.
func printNode(n *nav.Node, prefix string, inherited []nav.Guard) {
	full := prefix + "/" + n.Path
	if n.Path == "" {
		full = prefix + "/"
	}
	full = "/" + strings.Trim(full, "/")
	if n.Path == "" && prefix != "" {
		full = full + "/ (index)"
	}

	guards := make([]nav.Guard, 0, len(inherited)+len(n.Guards))
	guards = append(guards, inherited...)
	guards = append(guards, n.Guards...)

	if n.Component != "" {
		fmt.Printf("%-40s %-24s %s\n", full, n.Component, describeGuards(guards))
	}
	for _, child := range n.Children {
		printNode(child, strings.TrimSuffix(full, "/ (index)"), guards)
	}
}

func describeGuards(guards []nav.Guard) string {
	if len(guards) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(guards))
	for _, g := range guards {
		switch g.Kind {
		case nav.GuardRoleMembership:
			roles := make([]string, 0, len(g.Roles))
			for _, r := range g.Roles {
				roles = append(roles, string(r))
			}
			parts = append(parts, "role{"+strings.Join(roles, ",")+"}")
		default:
			parts = append(parts, string(g.Kind))
		}
	}
	return strings.Join(parts, " -> ")
}
