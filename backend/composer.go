package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/askhub/askhub/ports"
)

// ErrEmptyTitle rejects questions without a title.
var ErrEmptyTitle = errors.New("question title is required")

// Composer posts new questions into the question store.
type Composer struct {
	questions ports.QuestionStore
	idgen     ports.IDGenerator
	clock     ports.Clock
}

// NewComposer creates the question composer.
func NewComposer(questions ports.QuestionStore, idgen ports.IDGenerator, clock ports.Clock) *Composer {
	return &Composer{questions: questions, idgen: idgen, clock: clock}
}

// Compose stores a new active question filed under the given tag names and
// returns its id. Tags are trimmed, lowercased and deduplicated; empty
// entries are dropped.
func (c *Composer) Compose(ctx context.Context, authorID, title string, tags []string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}

	q := ports.Question{
		ID:        c.idgen.New(),
		Title:     title,
		AuthorID:  authorID,
		Tags:      normalizeTags(tags),
		Active:    true,
		CreatedAt: c.clock.Now(),
	}
	if err := c.questions.Create(ctx, q); err != nil {
		return "", fmt.Errorf("create question: %w", err)
	}
	return q.ID, nil
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
