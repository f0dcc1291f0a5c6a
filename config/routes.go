package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/askhub/askhub/domain/nav"
	"github.com/askhub/askhub/domain/session"
)

// RouteDecl is one declared route node. Paths are segment paths relative to
// the parent; an empty path marks an index node and "*" a wildcard.
type RouteDecl struct {
	Path         string      `yaml:"path"`
	Component    string      `yaml:"component,omitempty"`
	Guards       []string    `yaml:"guards,omitempty"` // auth, role, owner
	AllowedRoles []string    `yaml:"allowed_roles,omitempty"`
	Routes       []RouteDecl `yaml:"routes,omitempty"`
}

type routesFile struct {
	Routes []RouteDecl `yaml:"routes"`
}

// LoadTree reads the route declaration file and builds the immutable tree.
// This happens once at process start; the tree is never reloaded.
func LoadTree(path, loginPath, forbiddenPath string) (*nav.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read routes: %w", err)
	}

	var file routesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse routes: %w", err)
	}
	if len(file.Routes) == 0 {
		return nil, fmt.Errorf("routes file %s declares no routes", path)
	}

	roots, err := buildNodes(file.Routes)
	if err != nil {
		return nil, err
	}

	tree, err := nav.NewTree(roots, loginPath, forbiddenPath)
	if err != nil {
		return nil, fmt.Errorf("build route tree: %w", err)
	}
	return tree, nil
}

func buildNodes(decls []RouteDecl) ([]*nav.Node, error) {
	nodes := make([]*nav.Node, 0, len(decls))
	for _, d := range decls {
		n, err := buildNode(d)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func buildNode(d RouteDecl) (*nav.Node, error) {
	roles := make([]session.Role, 0, len(d.AllowedRoles))
	for _, r := range d.AllowedRoles {
		role := session.Role(r)
		if !role.Valid() {
			return nil, fmt.Errorf("route %q: unknown role %q", d.Path, r)
		}
		roles = append(roles, role)
	}

	guards := make([]nav.Guard, 0, len(d.Guards))
	for _, g := range d.Guards {
		switch g {
		case "auth":
			guards = append(guards, nav.Authenticated())
		case "role":
			guards = append(guards, nav.RoleIn(roles...))
		case "owner":
			guards = append(guards, nav.Owner())
		default:
			return nil, fmt.Errorf("route %q: unknown guard %q", d.Path, g)
		}
	}
	if len(roles) > 0 && !hasGuard(d.Guards, "role") {
		return nil, fmt.Errorf("route %q: allowed_roles without a role guard", d.Path)
	}

	children, err := buildNodes(d.Routes)
	if err != nil {
		return nil, err
	}

	return &nav.Node{
		Path:      d.Path,
		Component: d.Component,
		Guards:    guards,
		Children:  children,
	}, nil
}

func hasGuard(guards []string, name string) bool {
	for _, g := range guards {
		if g == name {
			return true
		}
	}
	return false
}
