package app

import (
	"github.com/rs/zerolog"

	"github.com/askhub/askhub/adapters/metrics"
	"github.com/askhub/askhub/domain/nav"
	"github.com/askhub/askhub/domain/session"
)

// Navigator evaluates request paths against the immutable route tree,
// adding logging and metrics around the pure domain evaluation. It holds no
// mutable state and is safe for concurrent use.
type Navigator struct {
	tree    *nav.Tree
	logger  zerolog.Logger
	metrics *metrics.Collector // optional
}

// NewNavigator creates a navigator over the loaded tree. The metrics
// collector may be nil.
func NewNavigator(tree *nav.Tree, logger zerolog.Logger, m *metrics.Collector) *Navigator {
	return &Navigator{
		tree:    tree,
		logger:  logger.With().Str("service", "nav").Logger(),
		metrics: m,
	}
}

// Tree returns the route tree the navigator evaluates against.
func (n *Navigator) Tree() *nav.Tree {
	return n.tree
}

// Evaluate resolves one navigation. Identical (path, session) inputs always
// yield the identical decision.
func (n *Navigator) Evaluate(path string, sess session.Session) nav.Decision {
	d := n.tree.Evaluate(path, sess)

	evt := n.logger.Debug().
		Str("path", path).
		Str("kind", string(d.Kind)).
		Bool("authenticated", sess.Authenticated).
		Str("role", string(sess.Role))
	if d.Reason != "" {
		evt = evt.Str("reason", string(d.Reason))
	}
	if d.Node != nil {
		evt = evt.Str("component", d.Node.Component)
	}
	evt.Msg("route evaluated")

	if n.metrics != nil {
		n.metrics.NavDecisions.WithLabelValues(string(d.Kind)).Inc()
		if d.Reason != "" {
			n.metrics.NavDenials.WithLabelValues(string(d.Reason)).Inc()
		}
	}

	return d
}
