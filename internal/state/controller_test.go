// ABOUTME: Tests for the state controller using a mocked note store.
// ABOUTME: Covers refresh, optimistic mutations, error slot and subscriptions.

package state

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/harper/journal/internal/models"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) List(ctx context.Context, userID *string) ([]*models.Note, error) {
	args := m.Called(ctx, userID)
	notes, _ := args.Get(0).([]*models.Note)
	return notes, args.Error(1)
}

func (m *mockStore) Search(ctx context.Context, query string, userID *string) ([]*models.Note, error) {
	args := m.Called(ctx, query, userID)
	notes, _ := args.Get(0).([]*models.Note)
	return notes, args.Error(1)
}

func (m *mockStore) Create(ctx context.Context, in models.CreateNote) (*models.Note, error) {
	args := m.Called(ctx, in)
	n, _ := args.Get(0).(*models.Note)
	return n, args.Error(1)
}

func (m *mockStore) Update(ctx context.Context, in models.UpdateNote) (*models.Note, error) {
	args := m.Called(ctx, in)
	n, _ := args.Get(0).(*models.Note)
	return n, args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var errBoom = errors.New("disk on fire")

func loadedController(t *testing.T, notes ...*models.Note) (*Controller, *mockStore) {
	t.Helper()
	store := &mockStore{}
	store.On("List", mock.Anything, (*string)(nil)).Return(notes, nil).Once()
	c := New(store, nil)
	c.Refresh(context.Background())
	return c, store
}

func TestRefreshLoadsList(t *testing.T) {
	c, store := loadedController(t, note("b", 2), note("a", 1))

	s := c.Snapshot()
	assert.Equal(t, []string{"b", "a"}, ids(s.Notes))
	assert.False(t, s.Loading)
	assert.Empty(t, s.Err)
	store.AssertExpectations(t)
}

func TestSetQueryUsesSearch(t *testing.T) {
	c, store := loadedController(t, note("a", 1))
	store.On("Search", mock.Anything, "milk", (*string)(nil)).Return([]*models.Note{note("m", 3)}, nil).Once()

	c.SetQuery(context.Background(), "milk")

	s := c.Snapshot()
	assert.Equal(t, "milk", s.Query)
	assert.Equal(t, []string{"m"}, ids(s.Notes))

	store.On("List", mock.Anything, (*string)(nil)).Return([]*models.Note{note("a", 1)}, nil).Once()
	c.SetQuery(context.Background(), "  ")
	assert.Equal(t, []string{"a"}, ids(c.Snapshot().Notes))
	store.AssertExpectations(t)
}

func TestRefreshErrorKeepsList(t *testing.T) {
	c, store := loadedController(t, note("a", 1))
	store.On("List", mock.Anything, (*string)(nil)).Return(nil, errBoom).Once()

	c.Refresh(context.Background())

	s := c.Snapshot()
	assert.Equal(t, errBoom.Error(), s.Err)
	assert.Equal(t, []string{"a"}, ids(s.Notes))
	assert.False(t, s.Loading)

	c.ClearError()
	assert.Empty(t, c.Snapshot().Err)
}

func TestRefreshScopedToOwner(t *testing.T) {
	store := &mockStore{}
	store.On("List", mock.Anything, mock.MatchedBy(func(id *string) bool {
		return id != nil && *id == "u1"
	})).Return([]*models.Note{note("mine", 1)}, nil).Once()

	c := New(store, nil, WithOwner("u1"))
	c.Refresh(context.Background())

	assert.Equal(t, []string{"mine"}, ids(c.Snapshot().Notes))
	store.AssertExpectations(t)
}

func TestCreateNewNotePrepends(t *testing.T) {
	c, store := loadedController(t, note("a", 1))
	in := models.CreateNote{Title: "new"}
	store.On("Create", mock.Anything, in).Return(note("n", 5), nil).Once()

	got, err := c.CreateNewNote(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "n", got.ID)
	assert.Equal(t, []string{"n", "a"}, ids(c.Snapshot().Notes))
	store.AssertNumberOfCalls(t, "List", 1)
}

func TestCreateNewNoteFailure(t *testing.T) {
	c, store := loadedController(t, note("a", 1))
	in := models.CreateNote{Title: ""}
	store.On("Create", mock.Anything, in).Return(nil, errBoom).Once()

	_, err := c.CreateNewNote(context.Background(), in)
	assert.ErrorIs(t, err, errBoom)

	s := c.Snapshot()
	assert.Equal(t, errBoom.Error(), s.Err)
	assert.Equal(t, []string{"a"}, ids(s.Notes))
}

func TestUpdateExistingNoteResorts(t *testing.T) {
	c, store := loadedController(t, note("b", 2), note("a", 1))
	in := models.UpdateNote{ID: "a", Content: models.Ptr("fresh")}
	store.On("Update", mock.Anything, in).Return(note("a", 9), nil).Once()

	_, err := c.UpdateExistingNote(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, ids(c.Snapshot().Notes))
}

func TestUpdateExistingNoteFailureLeavesList(t *testing.T) {
	c, store := loadedController(t, note("b", 2), note("a", 1))
	in := models.UpdateNote{ID: "a", Title: models.Ptr("x")}
	store.On("Update", mock.Anything, in).Return(nil, errBoom).Once()

	_, err := c.UpdateExistingNote(context.Background(), in)
	require.Error(t, err)

	s := c.Snapshot()
	assert.Equal(t, []string{"b", "a"}, ids(s.Notes))
	assert.Equal(t, "a", s.Notes[1].Title)
}

func TestDeleteExistingNote(t *testing.T) {
	c, store := loadedController(t, note("b", 2), note("a", 1))
	store.On("Delete", mock.Anything, "b").Return(nil).Once()
	store.On("Delete", mock.Anything, "zzz").Return(errBoom).Once()

	require.NoError(t, c.DeleteExistingNote(context.Background(), "b"))
	assert.Equal(t, []string{"a"}, ids(c.Snapshot().Notes))

	assert.Error(t, c.DeleteExistingNote(context.Background(), "zzz"))
	s := c.Snapshot()
	assert.Equal(t, []string{"a"}, ids(s.Notes))
	assert.Equal(t, errBoom.Error(), s.Err)
}

func TestSnapshotIsCopy(t *testing.T) {
	c, _ := loadedController(t, note("a", 1))

	s := c.Snapshot()
	s.Notes[0].Title = "mutated"
	s.Notes = append(s.Notes, note("b", 2))

	again := c.Snapshot()
	assert.Equal(t, "a", again.Notes[0].Title)
	assert.Len(t, again.Notes, 1)
}

func TestSubscribeReceivesChanges(t *testing.T) {
	c, store := loadedController(t)
	ch, cancel := c.Subscribe()
	defer cancel()

	in := models.CreateNote{Title: "n"}
	store.On("Create", mock.Anything, in).Return(note("n", 1), nil).Once()
	_, err := c.CreateNewNote(context.Background(), in)
	require.NoError(t, err)

	s := <-ch
	assert.Equal(t, []string{"n"}, ids(s.Notes))

	cancel()
	_, ok := <-ch
	assert.False(t, ok)
}

func TestConcurrentCreatesBothLand(t *testing.T) {
	c, store := loadedController(t)
	first := models.CreateNote{Title: "one"}
	second := models.CreateNote{Title: "two"}
	store.On("Create", mock.Anything, first).Return(note("one", 1), nil).Once()
	store.On("Create", mock.Anything, second).Return(note("two", 2), nil).Once()

	done := make(chan struct{})
	go func() {
		_, _ = c.CreateNewNote(context.Background(), first)
		close(done)
	}()
	_, err := c.CreateNewNote(context.Background(), second)
	require.NoError(t, err)
	<-done

	assert.ElementsMatch(t, []string{"one", "two"}, ids(c.Snapshot().Notes))
}
