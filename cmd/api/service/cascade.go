package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/noteful/api/common/logger"
)

// FolderDeleteStore removes a folder owned by a user
type FolderDeleteStore interface {
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// TagDeleteStore removes a tag owned by a user
type TagDeleteStore interface {
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// NoteDetachStore bulk-detaches dangling references from notes
type NoteDetachStore interface {
	DetachFolder(ctx context.Context, folderID, userID uuid.UUID) (int64, error)
	DetachTag(ctx context.Context, tagID, userID uuid.UUID) (int64, error)
}

// CascadeCoordinator keeps notes consistent when a folder or tag is
// deleted. The entity removal and the note cleanup are dispatched
// before either result is awaited, and both are always attempted:
// the deletion is not rolled back if the cleanup fails. A failed
// cleanup is logged and the delete still reports success, trading
// eventual inconsistency for never blocking deletion.
type CascadeCoordinator struct {
	folders   FolderDeleteStore
	tags      TagDeleteStore
	notes     NoteDetachStore
	ownership *OwnershipValidator
	log       *logger.Logger
}

// NewCascadeCoordinator creates a new cascade coordinator
func NewCascadeCoordinator(folders FolderDeleteStore, tags TagDeleteStore, notes NoteDetachStore, ownership *OwnershipValidator, log *logger.Logger) *CascadeCoordinator {
	return &CascadeCoordinator{
		folders:   folders,
		tags:      tags,
		notes:     notes,
		ownership: ownership,
		log:       log,
	}
}

// DeleteFolder removes the folder and unsets the folder reference on
// every dependent note
func (c *CascadeCoordinator) DeleteFolder(ctx context.Context, id, userID uuid.UUID) error {
	var (
		wg        sync.WaitGroup
		delErr    error
		detachErr error
		detached  int64
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		delErr = c.folders.Delete(ctx, id, userID)
	}()
	go func() {
		defer wg.Done()
		detached, detachErr = c.notes.DetachFolder(ctx, id, userID)
	}()
	wg.Wait()

	if detachErr != nil {
		c.log.Error("folder cascade cleanup failed",
			"folder_id", id,
			"user_id", userID,
			"error", detachErr,
		)
	}

	if delErr != nil {
		return delErr
	}

	c.ownership.ForgetFolder(ctx, id, userID)
	c.log.Info("deleted folder", "folder_id", id, "notes_detached", detached)
	return nil
}

// DeleteTag removes the tag and strips its id from every dependent
// note's tag set
func (c *CascadeCoordinator) DeleteTag(ctx context.Context, id, userID uuid.UUID) error {
	var (
		wg        sync.WaitGroup
		delErr    error
		detachErr error
		detached  int64
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		delErr = c.tags.Delete(ctx, id, userID)
	}()
	go func() {
		defer wg.Done()
		detached, detachErr = c.notes.DetachTag(ctx, id, userID)
	}()
	wg.Wait()

	if detachErr != nil {
		c.log.Error("tag cascade cleanup failed",
			"tag_id", id,
			"user_id", userID,
			"error", detachErr,
		)
	}

	if delErr != nil {
		return delErr
	}

	c.ownership.ForgetTag(ctx, id, userID)
	c.log.Info("deleted tag", "tag_id", id, "notes_detached", detached)
	return nil
}
