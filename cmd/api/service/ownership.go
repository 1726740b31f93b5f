package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/noteful/api/common/apperr"
	"github.com/noteful/api/common/cache"
	"github.com/noteful/api/common/logger"
)

// FolderExistenceStore answers whether a folder id is owned by a user
type FolderExistenceStore interface {
	Exists(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

// TagCountStore counts how many of a set of tag ids a user owns
type TagCountStore interface {
	CountOwned(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int, error)
}

// OwnershipValidator is the integrity gate: it confirms that every
// folder or tag a request references exists and belongs to the acting
// user. It runs after structural validation and before any write, and
// is the only thing standing in for foreign keys.
//
// Positive results may be cached; entries are invalidated by the
// cascade coordinator when the referenced entity is deleted.
type OwnershipValidator struct {
	folders FolderExistenceStore
	tags    TagCountStore
	cache   cache.Cache // nil disables caching
	ttl     time.Duration
	log     *logger.Logger
}

// NewOwnershipValidator creates a new ownership validator
func NewOwnershipValidator(folders FolderExistenceStore, tags TagCountStore, c cache.Cache, ttl time.Duration, log *logger.Logger) *OwnershipValidator {
	return &OwnershipValidator{
		folders: folders,
		tags:    tags,
		cache:   c,
		ttl:     ttl,
		log:     log,
	}
}

func ownershipKey(kind string, userID, id uuid.UUID) string {
	return fmt.Sprintf("own:%s:%s:%s", kind, userID, id)
}

func (v *OwnershipValidator) cached(ctx context.Context, key string) bool {
	if v.cache == nil {
		return false
	}
	_, found, err := v.cache.Get(ctx, key)
	if err != nil {
		v.log.Warn("ownership cache read failed", "key", key, "error", err)
		return false
	}
	return found
}

func (v *OwnershipValidator) remember(ctx context.Context, key string) {
	if v.cache == nil {
		return
	}
	if err := v.cache.Set(ctx, key, []byte("1"), v.ttl); err != nil {
		v.log.Warn("ownership cache write failed", "key", key, "error", err)
	}
}

// ValidateFolder confirms folderID names a folder owned by userID.
// An empty folderID means "no folder" and trivially succeeds.
func (v *OwnershipValidator) ValidateFolder(ctx context.Context, folderID string, userID uuid.UUID) error {
	if folderID == "" {
		return nil
	}

	id, err := uuid.Parse(folderID)
	if err != nil {
		return apperr.InvalidReference("The `folderId` is not valid")
	}

	key := ownershipKey("folder", userID, id)
	if v.cached(ctx, key) {
		return nil
	}

	owned, err := v.folders.Exists(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("folder ownership check: %w", err)
	}
	if !owned {
		return apperr.ReferenceNotFound("The folder does not exist")
	}

	v.remember(ctx, key)
	return nil
}

// ValidateTags confirms every id in tagIDs names a tag owned by
// userID. A nil set trivially succeeds. A count shortfall reports a
// single undifferentiated failure: the caller must not learn whether
// an id exists under another account.
func (v *OwnershipValidator) ValidateTags(ctx context.Context, tagIDs []uuid.UUID, userID uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}

	if v.allCached(ctx, tagIDs, userID) {
		return nil
	}

	count, err := v.tags.CountOwned(ctx, tagIDs, userID)
	if err != nil {
		return fmt.Errorf("tag ownership check: %w", err)
	}
	if count != len(tagIDs) {
		return apperr.ReferenceNotFound("One or more tags are invalid")
	}

	for _, id := range tagIDs {
		v.remember(ctx, ownershipKey("tag", userID, id))
	}
	return nil
}

func (v *OwnershipValidator) allCached(ctx context.Context, tagIDs []uuid.UUID, userID uuid.UUID) bool {
	if v.cache == nil {
		return false
	}
	for _, id := range tagIDs {
		if !v.cached(ctx, ownershipKey("tag", userID, id)) {
			return false
		}
	}
	return true
}

// ValidateReferences runs the folder and tag checks concurrently and
// fails fast on the first rejection. Only the failing check's own
// error kind is surfaced.
func (v *OwnershipValidator) ValidateReferences(ctx context.Context, folderID string, tagIDs []uuid.UUID, userID uuid.UUID) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return v.ValidateFolder(ctx, folderID, userID)
	})
	g.Go(func() error {
		return v.ValidateTags(ctx, tagIDs, userID)
	})

	return g.Wait()
}

// ForgetFolder drops a cached folder ownership entry
func (v *OwnershipValidator) ForgetFolder(ctx context.Context, id, userID uuid.UUID) {
	v.forget(ctx, ownershipKey("folder", userID, id))
}

// ForgetTag drops a cached tag ownership entry
func (v *OwnershipValidator) ForgetTag(ctx context.Context, id, userID uuid.UUID) {
	v.forget(ctx, ownershipKey("tag", userID, id))
}

func (v *OwnershipValidator) forget(ctx context.Context, key string) {
	if v.cache == nil {
		return
	}
	if err := v.cache.Delete(ctx, key); err != nil {
		v.log.Warn("ownership cache invalidation failed", "key", key, "error", err)
	}
}
