// ABOUTME: Observable note list state backed by the notes repository.
// ABOUTME: Folds successful mutations into the list without re-fetching.

package state

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/harper/journal/internal/models"
)

// NoteStore is the part of the notes repository the controller uses.
type NoteStore interface {
	List(ctx context.Context, userID *string) ([]*models.Note, error)
	Search(ctx context.Context, query string, userID *string) ([]*models.Note, error)
	Create(ctx context.Context, in models.CreateNote) (*models.Note, error)
	Update(ctx context.Context, in models.UpdateNote) (*models.Note, error)
	Delete(ctx context.Context, id string) error
}

// State is an immutable copy handed to callers and subscribers.
type State struct {
	Notes   []*models.Note
	Loading bool
	Err     string
	Query   string
}

type Controller struct {
	store NoteStore
	log   *zap.Logger
	owner *string

	mu    sync.Mutex
	state State
	seq   uint64
	subs  map[chan State]struct{}
}

type Option func(*Controller)

// WithOwner scopes list and search to one user's notes.
func WithOwner(userID string) Option {
	return func(c *Controller) { c.owner = &userID }
}

func New(store NoteStore, log *zap.Logger, opts ...Option) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Controller{
		store: store,
		log:   log.Named("state"),
		subs:  make(map[chan State]struct{}),
		state: State{Notes: []*models.Note{}},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe returns a channel that receives a snapshot after every change.
// Slow readers miss intermediate snapshots rather than blocking the controller.
func (c *Controller) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 16)
	c.mu.Lock()
	c.subs[ch] = struct{}{}
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, ch)
			c.mu.Unlock()
			close(ch)
		})
	}
}

// Refresh reloads the list for the current query. Failures land in the error
// slot. A refresh that finishes after a newer one started is discarded.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	query := c.state.Query
	c.state.Loading = true
	c.state.Err = ""
	c.publishLocked()
	c.mu.Unlock()

	var notes []*models.Note
	var err error
	if strings.TrimSpace(query) != "" {
		notes, err = c.store.Search(ctx, query, c.owner)
	} else {
		notes, err = c.store.List(ctx, c.owner)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return
	}
	c.state.Loading = false
	if err != nil {
		c.log.Warn("refresh failed", zap.String("query", query), zap.Error(err))
		c.state.Err = err.Error()
	} else {
		c.state.Notes = Reduce(c.state.Notes, Loaded{Notes: notes})
	}
	c.publishLocked()
}

// SetQuery stores the search text and refreshes.
func (c *Controller) SetQuery(ctx context.Context, q string) {
	c.mu.Lock()
	c.state.Query = q
	c.mu.Unlock()
	c.Refresh(ctx)
}

func (c *Controller) CreateNewNote(ctx context.Context, in models.CreateNote) (*models.Note, error) {
	note, err := c.store.Create(ctx, in)
	if err != nil {
		c.fail("create note", err)
		return nil, err
	}
	c.apply(Created{Note: note})
	return note, nil
}

func (c *Controller) UpdateExistingNote(ctx context.Context, in models.UpdateNote) (*models.Note, error) {
	note, err := c.store.Update(ctx, in)
	if err != nil {
		c.fail("update note", err)
		return nil, err
	}
	c.apply(Updated{Note: note})
	return note, nil
}

func (c *Controller) DeleteExistingNote(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, id); err != nil {
		c.fail("delete note", err)
		return err
	}
	c.apply(Deleted{ID: id})
	return nil
}

func (c *Controller) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Err == "" {
		return
	}
	c.state.Err = ""
	c.publishLocked()
}

func (c *Controller) apply(a Action) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Notes = Reduce(c.state.Notes, a)
	c.state.Err = ""
	c.publishLocked()
}

func (c *Controller) fail(op string, err error) {
	c.log.Warn(op+" failed", zap.Error(err))
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Err = err.Error()
	c.publishLocked()
}

func (c *Controller) snapshotLocked() State {
	s := c.state
	s.Notes = make([]*models.Note, len(c.state.Notes))
	for i, n := range c.state.Notes {
		s.Notes[i] = n.Clone()
	}
	return s
}

func (c *Controller) publishLocked() {
	if len(c.subs) == 0 {
		return
	}
	snap := c.snapshotLocked()
	for ch := range c.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
