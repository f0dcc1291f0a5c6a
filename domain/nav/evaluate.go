package nav

import (
	"github.com/askhub/askhub/domain/session"
)

// DecisionKind is the terminal outcome of evaluating a navigation.
type DecisionKind string

const (
	DecisionRender            DecisionKind = "render"
	DecisionRedirectLogin     DecisionKind = "redirect-login"
	DecisionRedirectForbidden DecisionKind = "redirect-forbidden"
	DecisionNotFound          DecisionKind = "not-found"
)

// Decision is the result of one navigation. Exactly one kind is produced;
// guard denials are data resolved here, never errors.
type Decision struct {
	Kind       DecisionKind
	Node       *Node             // render only
	Params     map[string]string // render only
	RedirectTo string            // redirects only
	Reason     Reason            // redirects only
}

// Evaluate resolves a request path against the tree under the given session.
//
// Matching is depth-first over path segments: literal siblings are tried in
// declaration order, then dynamic (":name") siblings, and a wildcard sibling
// last. A node with both a component and children is addressable as an index
// page and as a parent; when an index child (empty path) exists it takes
// precedence over the node's own component, matching how the declared tree
// nests layouts over index pages.
//
// Guards are cumulative from the root of the matched chain to its leaf and
// are evaluated in declared order with the fully bound path parameters;
// evaluation short-circuits on the first denial.
func (t *Tree) Evaluate(path string, sess session.Session) Decision {
	chain, params, ok := matchSiblings(t.roots, splitPath(path), nil)
	if !ok {
		return Decision{Kind: DecisionNotFound}
	}

	for _, n := range chain {
		for _, g := range n.Guards {
			d := g.Check(sess, params)
			if d.Allow {
				continue
			}
			if d.Reason == ReasonUnauthenticated {
				return Decision{
					Kind:       DecisionRedirectLogin,
					RedirectTo: t.loginPath,
					Reason:     d.Reason,
				}
			}
			return Decision{
				Kind:       DecisionRedirectForbidden,
				RedirectTo: t.forbiddenPath,
				Reason:     d.Reason,
			}
		}
	}

	return Decision{
		Kind:   DecisionRender,
		Node:   chain[len(chain)-1],
		Params: params,
	}
}

// matchSiblings tries each candidate sibling against the remaining segments,
// literals first, then dynamics, wildcard last. It returns the matched node
// chain (ancestors included, for cumulative guard evaluation) and the bound
// path parameters.
func matchSiblings(nodes []*Node, segs []string, params map[string]string) ([]*Node, map[string]string, bool) {
	var wildcard *Node

	// Pass 1: literal first segment (or index nodes), declaration order.
	for _, n := range nodes {
		if n.IsWildcard() {
			wildcard = n
			continue
		}
		if isDynamic(n.Segments()) {
			continue
		}
		if chain, p, ok := matchNode(n, segs, params); ok {
			return chain, p, true
		}
	}

	// Pass 2: dynamic first segment, declaration order.
	for _, n := range nodes {
		if n.IsWildcard() || !isDynamic(n.Segments()) {
			continue
		}
		if chain, p, ok := matchNode(n, segs, params); ok {
			return chain, p, true
		}
	}

	// Pass 3: the wildcard, if declared.
	if wildcard != nil && wildcard.Component != "" {
		return []*Node{wildcard}, params, true
	}

	return nil, nil, false
}

func isDynamic(segs []string) bool {
	return len(segs) > 0 && segs[0][0] == ':'
}

// matchNode consumes the node's own segments from segs, binding dynamic
// values, then resolves the remainder against the node's children or the
// node itself. Parameter maps are copied on bind so failed candidates leave
// no residue in their siblings' attempts.
func matchNode(n *Node, segs []string, params map[string]string) ([]*Node, map[string]string, bool) {
	own := n.Segments()
	if len(own) > len(segs) {
		return nil, nil, false
	}

	p := params
	for i, seg := range own {
		if seg[0] == ':' {
			p = bind(p, seg[1:], segs[i])
			continue
		}
		if seg != segs[i] {
			return nil, nil, false
		}
	}
	rest := segs[len(own):]

	if len(rest) == 0 {
		// Index child wins over the node's own component.
		if chain, cp, ok := matchSiblings(indexChildren(n), nil, p); ok {
			return append([]*Node{n}, chain...), cp, true
		}
		if n.Component != "" {
			return []*Node{n}, p, true
		}
		return nil, nil, false
	}

	if len(n.Children) == 0 {
		return nil, nil, false
	}
	chain, cp, ok := matchSiblings(n.Children, rest, p)
	if !ok {
		return nil, nil, false
	}
	return append([]*Node{n}, chain...), cp, true
}

// indexChildren returns the children that consume no segments, so an index
// page nested under a layout node can resolve for the layout's own path.
func indexChildren(n *Node) []*Node {
	var idx []*Node
	for _, c := range n.Children {
		if len(c.Segments()) == 0 {
			idx = append(idx, c)
		}
	}
	return idx
}

func bind(params map[string]string, name, value string) map[string]string {
	p := make(map[string]string, len(params)+1)
	for k, v := range params {
		p[k] = v
	}
	p[name] = value
	return p
}
