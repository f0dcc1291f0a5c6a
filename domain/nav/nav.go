// Package nav provides the static route tree and pure access evaluation.
// A tree is built once from configuration and never mutated afterwards;
// evaluation is a pure function over (tree, path, session) with no internal
// state, so it is safe to call concurrently from any number of navigations.
package nav

import (
	"fmt"
	"strings"

	"github.com/askhub/askhub/domain/session"
)

// GuardKind identifies a guard predicate variant.
type GuardKind string

const (
	// GuardAuthentication requires an authenticated session.
	GuardAuthentication GuardKind = "auth"
	// GuardRoleMembership requires the session role to be in the guard's
	// role set. An empty set does not restrict.
	GuardRoleMembership GuardKind = "role"
	// GuardOwnership requires the bound "id" path parameter to equal the
	// session's user id. Used on own-profile subtrees.
	GuardOwnership GuardKind = "owner"
)

// Guard is a tagged predicate gating access to a node and its subtree.
type Guard struct {
	Kind  GuardKind
	Roles []session.Role // RoleMembership only
}

// Authenticated returns the authentication guard.
func Authenticated() Guard {
	return Guard{Kind: GuardAuthentication}
}

// RoleIn returns a role membership guard over the given roles.
func RoleIn(roles ...session.Role) Guard {
	return Guard{Kind: GuardRoleMembership, Roles: roles}
}

// Owner returns the ownership guard.
func Owner() Guard {
	return Guard{Kind: GuardOwnership}
}

// Reason explains a guard denial.
type Reason string

const (
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonForbiddenRole   Reason = "forbidden-role"
	ReasonForbiddenOwner  Reason = "forbidden-owner"
)

// GuardDecision is the outcome of evaluating one guard.
type GuardDecision struct {
	Allow  bool
	Reason Reason // set only when Allow is false
}

var allowed = GuardDecision{Allow: true}

// Check evaluates the guard against the session and the path parameters
// bound by the completed match. Guards never mutate either input.
func (g Guard) Check(sess session.Session, params map[string]string) GuardDecision {
	switch g.Kind {
	case GuardAuthentication:
		if !sess.Authenticated {
			return GuardDecision{Reason: ReasonUnauthenticated}
		}
		return allowed

	case GuardRoleMembership:
		if len(g.Roles) == 0 {
			return allowed
		}
		for _, r := range g.Roles {
			if sess.Role == r {
				return allowed
			}
		}
		return GuardDecision{Reason: ReasonForbiddenRole}

	case GuardOwnership:
		id, ok := params["id"]
		if !ok || id == "" || id != sess.UserID {
			return GuardDecision{Reason: ReasonForbiddenOwner}
		}
		return allowed

	default:
		// Unknown guard kinds are rejected by Validate, but deny here
		// so a malformed tree can never grant access.
		return GuardDecision{Reason: ReasonForbiddenRole}
	}
}

// Wildcard is the segment that matches any remaining path.
const Wildcard = "*"

// Node is one entry in the route tree (immutable after tree construction).
//
// Path is relative to the parent and may span several segments
// ("questions/tagged/:tagname"). The empty path marks an index node that
// consumes no segments. Segments prefixed with ':' bind their literal
// value into path parameters. The wildcard segment matches everything
// remaining and is always tried after its siblings regardless of where it
// is declared.
type Node struct {
	Path      string
	Component string // opaque view reference; empty for pure group nodes
	Guards    []Guard
	Children  []*Node

	segments []string // split form of Path, filled by NewTree
}

// Segments returns the split form of the node path.
func (n *Node) Segments() []string {
	if n.segments == nil {
		return splitPath(n.Path)
	}
	return n.segments
}

// IsWildcard reports whether the node is a wildcard entry.
func (n *Node) IsWildcard() bool {
	segs := n.Segments()
	return len(segs) == 1 && segs[0] == Wildcard
}

// Tree is the immutable route tree plus the redirect surfaces denials
// resolve to.
type Tree struct {
	roots         []*Node
	loginPath     string
	forbiddenPath string
}

// NewTree validates the declared nodes and returns the immutable tree.
// loginPath and forbiddenPath are where authentication and privilege
// denials redirect.
func NewTree(roots []*Node, loginPath, forbiddenPath string) (*Tree, error) {
	if loginPath == "" || forbiddenPath == "" {
		return nil, fmt.Errorf("login and forbidden paths are required")
	}
	if err := validateSiblings(roots, ""); err != nil {
		return nil, err
	}
	return &Tree{
		roots:         roots,
		loginPath:     loginPath,
		forbiddenPath: forbiddenPath,
	}, nil
}

// Roots returns the top-level nodes in declaration order.
func (t *Tree) Roots() []*Node { return t.roots }

// LoginPath returns the surface unauthenticated denials redirect to.
func (t *Tree) LoginPath() string { return t.loginPath }

// ForbiddenPath returns the surface privilege denials redirect to.
func (t *Tree) ForbiddenPath() string { return t.forbiddenPath }

func validateSiblings(nodes []*Node, at string) error {
	seen := make(map[string]bool, len(nodes))
	wildcards := 0
	for _, n := range nodes {
		where := at + "/" + n.Path
		if seen[n.Path] {
			return fmt.Errorf("duplicate sibling path %q under %q", n.Path, at)
		}
		seen[n.Path] = true

		n.segments = splitPath(n.Path)
		if n.IsWildcard() {
			wildcards++
			if len(n.Children) > 0 {
				return fmt.Errorf("wildcard node %q cannot have children", where)
			}
		}
		for _, seg := range n.segments {
			if seg == Wildcard && len(n.segments) > 1 {
				return fmt.Errorf("wildcard must be the whole path in %q", where)
			}
			if seg == "" {
				return fmt.Errorf("empty segment in path %q", where)
			}
		}
		if n.Component == "" && len(n.Children) == 0 {
			return fmt.Errorf("node %q has neither component nor children", where)
		}

		for _, g := range n.Guards {
			switch g.Kind {
			case GuardAuthentication, GuardRoleMembership, GuardOwnership:
			default:
				return fmt.Errorf("unknown guard kind %q on %q", g.Kind, where)
			}
			for _, r := range g.Roles {
				if !r.Valid() {
					return fmt.Errorf("unknown role %q on %q", r, where)
				}
			}
		}

		if err := validateSiblings(n.Children, where); err != nil {
			return err
		}
	}
	if wildcards > 1 {
		return fmt.Errorf("more than one wildcard sibling under %q", at)
	}
	return nil
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
