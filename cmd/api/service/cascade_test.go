package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noteful/api/common/apperr"
	"github.com/noteful/api/common/cache"
)

type fakeDeleter struct {
	err    error
	called bool
}

func (f *fakeDeleter) Delete(ctx context.Context, id, userID uuid.UUID) error {
	f.called = true
	return f.err
}

type fakeDetacher struct {
	folderCalls int
	tagCalls    int
	detached    int64
	err         error
}

func (f *fakeDetacher) DetachFolder(ctx context.Context, folderID, userID uuid.UUID) (int64, error) {
	f.folderCalls++
	return f.detached, f.err
}

func (f *fakeDetacher) DetachTag(ctx context.Context, tagID, userID uuid.UUID) (int64, error) {
	f.tagCalls++
	return f.detached, f.err
}

func newTestCascade(folders, tags *fakeDeleter, notes *fakeDetacher) *CascadeCoordinator {
	ownership := NewOwnershipValidator(&fakeFolderStore{}, &fakeTagStore{}, nil, time.Minute, testLogger())
	return NewCascadeCoordinator(folders, tags, notes, ownership, testLogger())
}

func TestDeleteFolder_DetachesNotes(t *testing.T) {
	folders := &fakeDeleter{}
	notes := &fakeDetacher{detached: 3}
	c := newTestCascade(folders, &fakeDeleter{}, notes)

	require.NoError(t, c.DeleteFolder(context.Background(), uuid.New(), uuid.New()))
	assert.True(t, folders.called)
	assert.Equal(t, 1, notes.folderCalls)
	assert.Zero(t, notes.tagCalls)
}

func TestDeleteFolder_DetachFailureDoesNotBlockDelete(t *testing.T) {
	folders := &fakeDeleter{}
	notes := &fakeDetacher{err: errors.New("statement timeout")}
	c := newTestCascade(folders, &fakeDeleter{}, notes)

	// Cleanup failure is logged, not surfaced
	require.NoError(t, c.DeleteFolder(context.Background(), uuid.New(), uuid.New()))
	assert.True(t, folders.called)
}

func TestDeleteFolder_NotFoundSurfaces(t *testing.T) {
	folders := &fakeDeleter{err: apperr.NotFound("The folder does not exist")}
	notes := &fakeDetacher{}
	c := newTestCascade(folders, &fakeDeleter{}, notes)

	err := c.DeleteFolder(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	// Both halves are always dispatched; owner scoping in the detach
	// query makes the cleanup a no-op for a foreign caller
	assert.Equal(t, 1, notes.folderCalls)
}

func TestDeleteTag_DetachesNotes(t *testing.T) {
	tags := &fakeDeleter{}
	notes := &fakeDetacher{detached: 2}
	c := newTestCascade(&fakeDeleter{}, tags, notes)

	require.NoError(t, c.DeleteTag(context.Background(), uuid.New(), uuid.New()))
	assert.True(t, tags.called)
	assert.Equal(t, 1, notes.tagCalls)
	assert.Zero(t, notes.folderCalls)
}

func TestDeleteTag_NotFoundSurfaces(t *testing.T) {
	tags := &fakeDeleter{err: apperr.NotFound("The tag does not exist")}
	c := newTestCascade(&fakeDeleter{}, tags, &fakeDetacher{})

	err := c.DeleteTag(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteFolder_InvalidatesOwnershipCache(t *testing.T) {
	owner := uuid.New()
	folderID := uuid.New()

	folderStore := &fakeFolderStore{owned: map[uuid.UUID]uuid.UUID{folderID: owner}}
	mc := cache.NewMemoryCache(testLogger())
	t.Cleanup(func() { mc.Close() })
	ownership := NewOwnershipValidator(folderStore, &fakeTagStore{}, mc, time.Minute, testLogger())
	c := NewCascadeCoordinator(&fakeDeleter{}, &fakeDeleter{}, &fakeDetacher{}, ownership, testLogger())
	ctx := context.Background()

	// Warm the cache, then delete the folder out from under it
	require.NoError(t, ownership.ValidateFolder(ctx, folderID.String(), owner))
	delete(folderStore.owned, folderID)
	require.NoError(t, c.DeleteFolder(ctx, folderID, owner))

	// A stale cache entry would let a dangling reference through here
	err := ownership.ValidateFolder(ctx, folderID.String(), owner)
	require.Error(t, err)
	assert.Equal(t, apperr.KindReferenceNotFound, apperr.KindOf(err))
}

func TestDeleteTag_InvalidatesOwnershipCache(t *testing.T) {
	owner := uuid.New()
	tagID := uuid.New()

	tagStore := &fakeTagStore{owned: map[uuid.UUID]uuid.UUID{tagID: owner}}
	mc := cache.NewMemoryCache(testLogger())
	t.Cleanup(func() { mc.Close() })
	ownership := NewOwnershipValidator(&fakeFolderStore{}, tagStore, mc, time.Minute, testLogger())
	c := NewCascadeCoordinator(&fakeDeleter{}, &fakeDeleter{}, &fakeDetacher{}, ownership, testLogger())
	ctx := context.Background()

	require.NoError(t, ownership.ValidateTags(ctx, []uuid.UUID{tagID}, owner))
	delete(tagStore.owned, tagID)
	require.NoError(t, c.DeleteTag(ctx, tagID, owner))

	err := ownership.ValidateTags(ctx, []uuid.UUID{tagID}, owner)
	require.Error(t, err)
	assert.Equal(t, apperr.KindReferenceNotFound, apperr.KindOf(err))
}
