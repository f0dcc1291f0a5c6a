package backend

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/askhub/askhub/domain/resource"
	"github.com/askhub/askhub/ports"
)

// Store-backed collections give the admin list screens the same Collection
// contract in builtin mode that the remote client serves in remote mode.
// Failures a store reports about the data itself (missing record, unknown
// field) surface as *ports.EnvelopeError so the list controller can show
// the message; anything else stays a plain error.

// UserCollection adapts a UserStore to the Collection port.
type UserCollection struct {
	store ports.UserStore
}

// NewUserCollection creates a collection over the user store.
func NewUserCollection(store ports.UserStore) *UserCollection {
	return &UserCollection{store: store}
}

func (c *UserCollection) List(ctx context.Context) ([]resource.Record, error) {
	users, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]resource.Record, 0, len(users))
	for _, u := range users {
		records = append(records, resource.Record{
			ID:    u.ID,
			Flags: map[string]bool{resource.FieldActive: u.Active},
			Attrs: map[string]string{
				"username": u.Username,
				"email":    u.Email,
				"avatar":   u.Avatar,
				"role":     string(u.Role),
			},
		})
	}
	return records, nil
}

func (c *UserCollection) Delete(ctx context.Context, id string) error {
	return mapStoreErr(c.store.Delete(ctx, id))
}

func (c *UserCollection) Toggle(ctx context.Context, id, field string) error {
	if field != resource.FieldActive {
		return &ports.EnvelopeError{Message: "no such field"}
	}
	u, err := c.store.Get(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}
	return mapStoreErr(c.store.SetActive(ctx, id, !u.Active))
}

// TagCollection adapts a TagStore to the Collection port.
type TagCollection struct {
	store ports.TagStore
}

// NewTagCollection creates a collection over the tag store.
func NewTagCollection(store ports.TagStore) *TagCollection {
	return &TagCollection{store: store}
}

func (c *TagCollection) List(ctx context.Context) ([]resource.Record, error) {
	tags, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]resource.Record, 0, len(tags))
	for _, t := range tags {
		records = append(records, resource.Record{
			ID:    t.ID,
			Flags: map[string]bool{resource.FieldActive: t.Active},
			Attrs: map[string]string{
				"name":        t.Name,
				"description": t.Description,
			},
		})
	}
	return records, nil
}

func (c *TagCollection) Delete(ctx context.Context, id string) error {
	return mapStoreErr(c.store.Delete(ctx, id))
}

func (c *TagCollection) Toggle(ctx context.Context, id, field string) error {
	if field != resource.FieldActive {
		return &ports.EnvelopeError{Message: "no such field"}
	}
	t, err := c.store.Get(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}
	return mapStoreErr(c.store.SetActive(ctx, id, !t.Active))
}

// QuestionCollection adapts a QuestionStore to the Collection port.
type QuestionCollection struct {
	store ports.QuestionStore
}

// NewQuestionCollection creates a collection over the question store.
func NewQuestionCollection(store ports.QuestionStore) *QuestionCollection {
	return &QuestionCollection{store: store}
}

func (c *QuestionCollection) List(ctx context.Context) ([]resource.Record, error) {
	questions, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]resource.Record, 0, len(questions))
	for _, q := range questions {
		records = append(records, resource.Record{
			ID:    q.ID,
			Flags: map[string]bool{resource.FieldActive: q.Active},
			Attrs: map[string]string{
				"title":     q.Title,
				"author_id": q.AuthorID,
				"tags":      strings.Join(q.Tags, ","),
				"views":     strconv.Itoa(q.Views),
			},
		})
	}
	return records, nil
}

func (c *QuestionCollection) Delete(ctx context.Context, id string) error {
	return mapStoreErr(c.store.Delete(ctx, id))
}

func (c *QuestionCollection) Toggle(ctx context.Context, id, field string) error {
	if field != resource.FieldActive {
		return &ports.EnvelopeError{Message: "no such field"}
	}
	q, err := c.store.Get(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}
	return mapStoreErr(c.store.SetActive(ctx, id, !q.Active))
}

func mapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ports.ErrNotFound) {
		return &ports.EnvelopeError{Message: "record not found"}
	}
	return err
}

var (
	_ ports.Collection = (*UserCollection)(nil)
	_ ports.Collection = (*TagCollection)(nil)
	_ ports.Collection = (*QuestionCollection)(nil)
)
