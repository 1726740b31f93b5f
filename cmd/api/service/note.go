package service

import (
	"context"
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/uuid"

	"github.com/noteful/api/cmd/api/models"
	"github.com/noteful/api/cmd/api/repository"
	"github.com/noteful/api/common/apperr"
	"github.com/noteful/api/common/logger"
	"github.com/noteful/api/common/validation"
)

// NoteStore is the persistence contract the note service needs
type NoteStore interface {
	Create(ctx context.Context, note *models.Note) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Note, error)
	List(ctx context.Context, userID uuid.UUID, filter repository.NoteFilter) ([]*models.Note, error)
	Update(ctx context.Context, note *models.Note) (*models.Note, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// NoteService handles note operations. Every mutation runs the
// ownership validator over the referenced folder and tags before the
// repository is touched.
type NoteService struct {
	repo      NoteStore
	ownership *OwnershipValidator
	log       *logger.Logger
}

// NewNoteService creates a new note service
func NewNoteService(repo NoteStore, ownership *OwnershipValidator, log *logger.Logger) *NoteService {
	return &NoteService{
		repo:      repo,
		ownership: ownership,
		log:       log,
	}
}

// noteCreateRequest is the decoded create body. Pointer fields
// distinguish absent from empty; tags stay raw so non-array input can
// be reported as a shape error.
type noteCreateRequest struct {
	Title    *string         `json:"title"`
	Content  *string         `json:"content"`
	FolderID *string         `json:"folderId"`
	Tags     json.RawMessage `json:"tags"`
}

// noteDocument is the merge-patch representation of a note's mutable
// fields
type noteDocument struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	FolderID *string  `json:"folderId,omitempty"`
	Tags     []string `json:"tags"`
}

func decodeBody(body []byte, dst any) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return apperr.InvalidShape("Malformed request body")
	}
	return nil
}

// Create validates and persists a new note owned by userID
func (s *NoteService) Create(ctx context.Context, userID uuid.UUID, body []byte) (*models.Note, error) {
	var req noteCreateRequest
	if err := decodeBody(body, &req); err != nil {
		return nil, err
	}

	if req.Title == nil || *req.Title == "" {
		return nil, apperr.InvalidShape("Missing `title` in request body")
	}

	folderRef := ""
	if req.FolderID != nil {
		folderRef = *req.FolderID
	}

	tagIDs, err := validation.ParseTagIDs(req.Tags)
	if err != nil {
		return nil, err
	}

	if err := s.ownership.ValidateReferences(ctx, folderRef, tagIDs, userID); err != nil {
		return nil, err
	}

	note := &models.Note{
		ID:     uuid.New(),
		UserID: userID,
		Title:  *req.Title,
		Tags:   tagIDs,
	}
	if note.Tags == nil {
		note.Tags = []uuid.UUID{}
	}
	if req.Content != nil {
		note.Content = *req.Content
	}
	if folderRef != "" {
		// Already validated above
		fid, err := uuid.Parse(folderRef)
		if err != nil {
			return nil, apperr.InvalidReference("The `folderId` is not valid")
		}
		note.FolderID = &fid
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return nil, err
	}

	s.log.Info("created note", "note_id", note.ID, "user_id", userID)
	return note, nil
}

// Get retrieves a note owned by userID
func (s *NoteService) Get(ctx context.Context, id, userID uuid.UUID) (*models.Note, error) {
	return s.repo.GetByID(ctx, id, userID)
}

// List retrieves the user's notes matching the optional filters.
// Filter ids arrive as raw query strings and are format-checked here.
func (s *NoteService) List(ctx context.Context, userID uuid.UUID, searchTerm, folderID, tagID string) ([]*models.Note, error) {
	filter := repository.NoteFilter{SearchTerm: searchTerm}

	if folderID != "" {
		id, err := validation.ParseID(folderID, "The `folderId` is not valid")
		if err != nil {
			return nil, err
		}
		filter.FolderID = &id
	}

	if tagID != "" {
		id, err := validation.ParseID(tagID, "The `tagId` is not valid")
		if err != nil {
			return nil, err
		}
		filter.TagID = &id
	}

	return s.repo.List(ctx, userID, filter)
}

// Update applies a partial update to a note owned by userID. Only
// fields present in the patch are applied; a present-but-empty or
// null folder reference detaches the note from its folder. The patch
// is applied to the stored document as an RFC 7386 merge patch.
func (s *NoteService) Update(ctx context.Context, id, userID uuid.UUID, patch []byte) (*models.Note, error) {
	current, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(patch, &fields); err != nil {
		return nil, apperr.InvalidShape("Malformed request body")
	}

	// Whitelist mutable fields; anything else in the body is ignored
	normalized := make(map[string]json.RawMessage, 4)
	folderRef := ""
	var tagIDs []uuid.UUID

	if raw, ok := fields["title"]; ok {
		var title string
		if err := json.Unmarshal(raw, &title); err != nil {
			return nil, apperr.InvalidShape("The `title` property must be a string")
		}
		if title == "" {
			return nil, apperr.InvalidShape("Missing `title` in request body")
		}
		normalized["title"] = raw
	}

	if raw, ok := fields["content"]; ok {
		var content string
		if err := json.Unmarshal(raw, &content); err != nil {
			return nil, apperr.InvalidShape("The `content` property must be a string")
		}
		normalized["content"] = raw
	}

	if raw, ok := fields["folderId"]; ok {
		if string(raw) == "null" {
			normalized["folderId"] = raw
		} else {
			var fid string
			if err := json.Unmarshal(raw, &fid); err != nil {
				return nil, apperr.InvalidReference("The `folderId` is not valid")
			}
			if fid == "" {
				// Explicit unset, distinct from an absent field
				normalized["folderId"] = json.RawMessage("null")
			} else {
				folderRef = fid
				normalized["folderId"] = raw
			}
		}
	}

	if raw, ok := fields["tags"]; ok {
		tagIDs, err = validation.ParseTagIDs(raw)
		if err != nil {
			return nil, err
		}
		if tagIDs == nil {
			normalized["tags"] = json.RawMessage("[]")
		} else {
			normalized["tags"] = raw
		}
	}

	if err := s.ownership.ValidateReferences(ctx, folderRef, tagIDs, userID); err != nil {
		return nil, err
	}

	merged, err := mergeNoteDocument(current, normalized)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, merged)
	if err != nil {
		return nil, err
	}

	s.log.Info("updated note", "note_id", id, "user_id", userID)
	return updated, nil
}

// mergeNoteDocument applies the normalized patch to the stored note
// via merge-patch semantics and converts the result back to a record
func mergeNoteDocument(current *models.Note, normalized map[string]json.RawMessage) (*models.Note, error) {
	doc := noteDocument{
		Title:   current.Title,
		Content: current.Content,
		Tags:    make([]string, 0, len(current.Tags)),
	}
	for _, t := range current.Tags {
		doc.Tags = append(doc.Tags, t.String())
	}
	if current.FolderID != nil {
		f := current.FolderID.String()
		doc.FolderID = &f
	}

	currentJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal note document: %w", err)
	}
	patchJSON, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("marshal note patch: %w", err)
	}

	mergedJSON, err := jsonpatch.MergePatch(currentJSON, patchJSON)
	if err != nil {
		return nil, fmt.Errorf("apply merge patch: %w", err)
	}

	var mergedDoc noteDocument
	if err := json.Unmarshal(mergedJSON, &mergedDoc); err != nil {
		return nil, fmt.Errorf("unmarshal merged note document: %w", err)
	}

	next := &models.Note{
		ID:        current.ID,
		UserID:    current.UserID,
		Title:     mergedDoc.Title,
		Content:   mergedDoc.Content,
		Tags:      make([]uuid.UUID, 0, len(mergedDoc.Tags)),
		CreatedAt: current.CreatedAt,
	}
	if mergedDoc.FolderID != nil {
		fid, err := uuid.Parse(*mergedDoc.FolderID)
		if err != nil {
			return nil, apperr.InvalidReference("The `folderId` is not valid")
		}
		next.FolderID = &fid
	}
	for _, s := range mergedDoc.Tags {
		tid, err := uuid.Parse(s)
		if err != nil {
			return nil, apperr.InvalidReference("Not a valid `id`")
		}
		next.Tags = append(next.Tags, tid)
	}

	return next, nil
}

// Delete removes a note owned by userID
func (s *NoteService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.log.Info("deleted note", "note_id", id, "user_id", userID)
	return nil
}
