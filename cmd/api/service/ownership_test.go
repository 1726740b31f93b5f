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
	"github.com/noteful/api/common/logger"
)

func testLogger() *logger.Logger {
	return logger.New("error", "json")
}

// fakeFolderStore answers folder existence checks from a fixed
// ownership set and counts how often it is consulted
type fakeFolderStore struct {
	owned map[uuid.UUID]uuid.UUID // folder id -> owner
	err   error
	calls int
}

func (f *fakeFolderStore) Exists(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	owner, ok := f.owned[id]
	return ok && owner == userID, nil
}

type fakeTagStore struct {
	owned map[uuid.UUID]uuid.UUID // tag id -> owner
	err   error
	calls int
}

func (f *fakeTagStore) CountOwned(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	count := 0
	for _, id := range ids {
		if owner, ok := f.owned[id]; ok && owner == userID {
			count++
		}
	}
	return count, nil
}

func newTestValidator(t *testing.T, folders *fakeFolderStore, tags *fakeTagStore, withCache bool) *OwnershipValidator {
	t.Helper()
	var c cache.Cache
	if withCache {
		mc := cache.NewMemoryCache(testLogger())
		t.Cleanup(func() { mc.Close() })
		c = mc
	}
	return NewOwnershipValidator(folders, tags, c, time.Minute, testLogger())
}

func TestValidateFolder_EmptyIsValid(t *testing.T) {
	folders := &fakeFolderStore{}
	v := newTestValidator(t, folders, &fakeTagStore{}, false)

	require.NoError(t, v.ValidateFolder(context.Background(), "", uuid.New()))
	assert.Zero(t, folders.calls)
}

func TestValidateFolder_MalformedID(t *testing.T) {
	folders := &fakeFolderStore{}
	v := newTestValidator(t, folders, &fakeTagStore{}, false)

	err := v.ValidateFolder(context.Background(), "not-a-uuid", uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidReference, apperr.KindOf(err))
	assert.Equal(t, "The `folderId` is not valid", err.Error())
	assert.Zero(t, folders.calls, "malformed ids must not reach the store")
}

func TestValidateFolder_NotOwned(t *testing.T) {
	owner, stranger := uuid.New(), uuid.New()
	folderID := uuid.New()
	folders := &fakeFolderStore{owned: map[uuid.UUID]uuid.UUID{folderID: owner}}
	v := newTestValidator(t, folders, &fakeTagStore{}, false)

	// A foreign folder and a nonexistent folder report identically
	err := v.ValidateFolder(context.Background(), folderID.String(), stranger)
	require.Error(t, err)
	assert.Equal(t, apperr.KindReferenceNotFound, apperr.KindOf(err))
	assert.Equal(t, "The folder does not exist", err.Error())

	err = v.ValidateFolder(context.Background(), uuid.NewString(), owner)
	require.Error(t, err)
	assert.Equal(t, apperr.KindReferenceNotFound, apperr.KindOf(err))
}

func TestValidateFolder_Owned(t *testing.T) {
	owner := uuid.New()
	folderID := uuid.New()
	folders := &fakeFolderStore{owned: map[uuid.UUID]uuid.UUID{folderID: owner}}
	v := newTestValidator(t, folders, &fakeTagStore{}, false)

	require.NoError(t, v.ValidateFolder(context.Background(), folderID.String(), owner))
}

func TestValidateFolder_StoreError(t *testing.T) {
	folders := &fakeFolderStore{err: errors.New("connection reset")}
	v := newTestValidator(t, folders, &fakeTagStore{}, false)

	err := v.ValidateFolder(context.Background(), uuid.NewString(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestValidateFolder_CachesPositiveResult(t *testing.T) {
	owner := uuid.New()
	folderID := uuid.New()
	folders := &fakeFolderStore{owned: map[uuid.UUID]uuid.UUID{folderID: owner}}
	v := newTestValidator(t, folders, &fakeTagStore{}, true)
	ctx := context.Background()

	require.NoError(t, v.ValidateFolder(ctx, folderID.String(), owner))
	require.NoError(t, v.ValidateFolder(ctx, folderID.String(), owner))
	assert.Equal(t, 1, folders.calls, "second check should be served from cache")
}

func TestValidateFolder_NegativeResultNotCached(t *testing.T) {
	owner := uuid.New()
	folderID := uuid.New()
	folders := &fakeFolderStore{owned: map[uuid.UUID]uuid.UUID{}}
	v := newTestValidator(t, folders, &fakeTagStore{}, true)
	ctx := context.Background()

	require.Error(t, v.ValidateFolder(ctx, folderID.String(), owner))

	// The folder comes into existence; the validator must see it
	folders.owned[folderID] = owner
	require.NoError(t, v.ValidateFolder(ctx, folderID.String(), owner))
	assert.Equal(t, 2, folders.calls)
}

func TestValidateFolder_CacheIsPerUser(t *testing.T) {
	owner, stranger := uuid.New(), uuid.New()
	folderID := uuid.New()
	folders := &fakeFolderStore{owned: map[uuid.UUID]uuid.UUID{folderID: owner}}
	v := newTestValidator(t, folders, &fakeTagStore{}, true)
	ctx := context.Background()

	require.NoError(t, v.ValidateFolder(ctx, folderID.String(), owner))

	// The cached entry for the owner must not vouch for anyone else
	err := v.ValidateFolder(ctx, folderID.String(), stranger)
	require.Error(t, err)
	assert.Equal(t, apperr.KindReferenceNotFound, apperr.KindOf(err))
}

func TestForgetFolder_InvalidatesCache(t *testing.T) {
	owner := uuid.New()
	folderID := uuid.New()
	folders := &fakeFolderStore{owned: map[uuid.UUID]uuid.UUID{folderID: owner}}
	v := newTestValidator(t, folders, &fakeTagStore{}, true)
	ctx := context.Background()

	require.NoError(t, v.ValidateFolder(ctx, folderID.String(), owner))
	v.ForgetFolder(ctx, folderID, owner)

	delete(folders.owned, folderID)
	err := v.ValidateFolder(ctx, folderID.String(), owner)
	require.Error(t, err)
	assert.Equal(t, apperr.KindReferenceNotFound, apperr.KindOf(err))
}

func TestValidateTags_NilIsValid(t *testing.T) {
	tags := &fakeTagStore{}
	v := newTestValidator(t, &fakeFolderStore{}, tags, false)

	require.NoError(t, v.ValidateTags(context.Background(), nil, uuid.New()))
	require.NoError(t, v.ValidateTags(context.Background(), []uuid.UUID{}, uuid.New()))
	assert.Zero(t, tags.calls)
}

func TestValidateTags_AllOwned(t *testing.T) {
	owner := uuid.New()
	a, b := uuid.New(), uuid.New()
	tags := &fakeTagStore{owned: map[uuid.UUID]uuid.UUID{a: owner, b: owner}}
	v := newTestValidator(t, &fakeFolderStore{}, tags, false)

	require.NoError(t, v.ValidateTags(context.Background(), []uuid.UUID{a, b}, owner))
}

func TestValidateTags_Shortfall(t *testing.T) {
	owner, stranger := uuid.New(), uuid.New()
	a, b := uuid.New(), uuid.New()
	tags := &fakeTagStore{owned: map[uuid.UUID]uuid.UUID{a: owner, b: stranger}}
	v := newTestValidator(t, &fakeFolderStore{}, tags, false)

	// One foreign tag poisons the whole set, with a single
	// undifferentiated message
	err := v.ValidateTags(context.Background(), []uuid.UUID{a, b}, owner)
	require.Error(t, err)
	assert.Equal(t, apperr.KindReferenceNotFound, apperr.KindOf(err))
	assert.Equal(t, "One or more tags are invalid", err.Error())
}

func TestValidateTags_CachesFullSet(t *testing.T) {
	owner := uuid.New()
	a, b := uuid.New(), uuid.New()
	tags := &fakeTagStore{owned: map[uuid.UUID]uuid.UUID{a: owner, b: owner}}
	v := newTestValidator(t, &fakeFolderStore{}, tags, true)
	ctx := context.Background()

	require.NoError(t, v.ValidateTags(ctx, []uuid.UUID{a, b}, owner))
	require.NoError(t, v.ValidateTags(ctx, []uuid.UUID{a, b}, owner))
	assert.Equal(t, 1, tags.calls)

	// A subset is covered by the per-tag entries
	require.NoError(t, v.ValidateTags(ctx, []uuid.UUID{a}, owner))
	assert.Equal(t, 1, tags.calls)

	// A superset with an unknown member goes back to the store
	require.Error(t, v.ValidateTags(ctx, []uuid.UUID{a, b, uuid.New()}, owner))
	assert.Equal(t, 2, tags.calls)
}

func TestValidateReferences_BothChecked(t *testing.T) {
	owner := uuid.New()
	folderID, tagID := uuid.New(), uuid.New()
	folders := &fakeFolderStore{owned: map[uuid.UUID]uuid.UUID{folderID: owner}}
	tags := &fakeTagStore{owned: map[uuid.UUID]uuid.UUID{tagID: owner}}
	v := newTestValidator(t, folders, tags, false)

	require.NoError(t, v.ValidateReferences(context.Background(), folderID.String(), []uuid.UUID{tagID}, owner))
	assert.Equal(t, 1, folders.calls)
	assert.Equal(t, 1, tags.calls)
}

func TestValidateReferences_FolderFailureSurfaces(t *testing.T) {
	owner := uuid.New()
	tagID := uuid.New()
	folders := &fakeFolderStore{}
	tags := &fakeTagStore{owned: map[uuid.UUID]uuid.UUID{tagID: owner}}
	v := newTestValidator(t, folders, tags, false)

	err := v.ValidateReferences(context.Background(), uuid.NewString(), []uuid.UUID{tagID}, owner)
	require.Error(t, err)
	assert.Equal(t, apperr.KindReferenceNotFound, apperr.KindOf(err))
	assert.Equal(t, "The folder does not exist", err.Error())
}

func TestValidateReferences_TagFailureSurfaces(t *testing.T) {
	owner := uuid.New()
	folderID := uuid.New()
	folders := &fakeFolderStore{owned: map[uuid.UUID]uuid.UUID{folderID: owner}}
	tags := &fakeTagStore{}
	v := newTestValidator(t, folders, tags, false)

	err := v.ValidateReferences(context.Background(), folderID.String(), []uuid.UUID{uuid.New()}, owner)
	require.Error(t, err)
	assert.Equal(t, "One or more tags are invalid", err.Error())
}
