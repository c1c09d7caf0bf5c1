// Package notes implements the note lifecycle for the active account:
// create, delete, pin/archive toggles, and the filtered display ordering.
// The collection never owns note data; every operation dereferences the
// account store's session and delegates persistence back to it.
package notes

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dmaksimov/facenote/internal/common"
	"github.com/dmaksimov/facenote/internal/logging"
	"github.com/dmaksimov/facenote/internal/models"
)

// Filter selects which notes List yields.
type Filter string

const (
	// FilterAll yields every non-archived note, pinned or not.
	FilterAll Filter = "all"
	// FilterPinned yields pinned notes only.
	FilterPinned Filter = "pinned"
	// FilterArchived yields archived notes only.
	FilterArchived Filter = "archived"
)

// nowFn is a test seam for the note-creation clock.
var nowFn = func() time.Time { return time.Now().UTC() }

// Accounts is the slice of the account store the collection needs:
// the active session and the persistence hook.
type Accounts interface {
	CurrentUser() *models.Account
	Save(ctx context.Context) error
}

// Collection exposes note operations over the active account.
type Collection struct {
	accounts Accounts
	log      logging.Logger
}

// NewCollection returns a Collection bound to the given account store.
func NewCollection(accounts Accounts, log logging.Logger) *Collection {
	return &Collection{accounts: accounts, log: log}
}

// Add appends a new unpinned, unarchived note to the active account and
// persists. The id is a random UUID, so same-instant creations cannot
// collide.
func (c *Collection) Add(ctx context.Context, title, content string) (models.Note, error) {
	acct := c.accounts.CurrentUser()
	if acct == nil {
		return models.Note{}, common.ErrNotAuthenticated
	}

	note := models.Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Timestamp: nowFn(),
	}

	acct.Notes = append(acct.Notes, note)
	if err := c.accounts.Save(ctx); err != nil {
		acct.Notes = acct.Notes[:len(acct.Notes)-1]
		return models.Note{}, fmt.Errorf("failed to persist note: %w", err)
	}

	c.log.Debug(ctx, "note added", "id", note.ID, "title", title)
	return note, nil
}

// Delete removes the note with the given id and persists. An unknown id is
// a no-op, not an error.
func (c *Collection) Delete(ctx context.Context, id string) error {
	acct := c.accounts.CurrentUser()
	if acct == nil {
		return common.ErrNotAuthenticated
	}

	backup := acct.Notes
	kept := slices.DeleteFunc(slices.Clone(backup), func(n models.Note) bool { return n.ID == id })
	if len(kept) == len(backup) {
		return nil
	}
	acct.Notes = kept

	if err := c.accounts.Save(ctx); err != nil {
		acct.Notes = backup
		return fmt.Errorf("failed to persist note deletion: %w", err)
	}

	c.log.Debug(ctx, "note deleted", "id", id)
	return nil
}

// TogglePin flips the pinned flag of the note with the given id. Pinning
// always clears the archived flag so a note is never both. Unknown ids are
// a no-op.
func (c *Collection) TogglePin(ctx context.Context, id string) error {
	return c.toggle(ctx, id, func(n *models.Note) {
		n.IsPinned = !n.IsPinned
		if n.IsPinned {
			n.IsArchived = false
		}
	})
}

// ToggleArchive flips the archived flag of the note with the given id.
// Archiving always clears the pinned flag so a note is never both. Unknown
// ids are a no-op.
func (c *Collection) ToggleArchive(ctx context.Context, id string) error {
	return c.toggle(ctx, id, func(n *models.Note) {
		n.IsArchived = !n.IsArchived
		if n.IsArchived {
			n.IsPinned = false
		}
	})
}

func (c *Collection) toggle(ctx context.Context, id string, flip func(*models.Note)) error {
	acct := c.accounts.CurrentUser()
	if acct == nil {
		return common.ErrNotAuthenticated
	}

	i := slices.IndexFunc(acct.Notes, func(n models.Note) bool { return n.ID == id })
	if i < 0 {
		return nil
	}
	flip(&acct.Notes[i])

	if err := c.accounts.Save(ctx); err != nil {
		return fmt.Errorf("failed to persist note state: %w", err)
	}
	return nil
}

// List returns the notes to display under the given filter, pinned notes
// first and each group ordered by creation time, most recent first. The
// sort is stable, so equal timestamps keep their insertion order.
//
// The returned sequence is lazy and restartable: every range over it
// re-reads the active account, so it always reflects current state. When
// nobody is logged in the sequence is empty.
func (c *Collection) List(filter Filter) iter.Seq[models.Note] {
	return func(yield func(models.Note) bool) {
		acct := c.accounts.CurrentUser()
		if acct == nil {
			return
		}

		visible := make([]models.Note, 0, len(acct.Notes))
		for _, n := range acct.Notes {
			switch filter {
			case FilterPinned:
				if n.IsPinned {
					visible = append(visible, n)
				}
			case FilterArchived:
				if n.IsArchived {
					visible = append(visible, n)
				}
			default:
				if !n.IsArchived {
					visible = append(visible, n)
				}
			}
		}

		slices.SortStableFunc(visible, func(a, b models.Note) int {
			if a.IsPinned != b.IsPinned {
				if a.IsPinned {
					return -1
				}
				return 1
			}
			return b.Timestamp.Compare(a.Timestamp)
		})

		for _, n := range visible {
			if !yield(n) {
				return
			}
		}
	}
}
