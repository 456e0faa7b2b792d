package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/PaulBabatuyi/FileVault-API/internal/database"
	"github.com/PaulBabatuyi/FileVault-API/internal/queue"
)

// PageSize is the fixed listing page size.
const PageSize = 20

// Thumbnail widths the worker generates, matched here when serving content.
var thumbnailSizes = map[string]bool{"500": true, "250": true, "100": true}

// FileService enforces the hierarchy and access rules on file records.
type FileService struct {
	db     Database
	blobs  BlobStore
	queue  Queue
	logger *zap.Logger
}

func NewFileService(db Database, blobs BlobStore, q Queue, logger *zap.Logger) *FileService {
	return &FileService{db: db, blobs: blobs, queue: q, logger: logger}
}

// UploadInput is the validated request body for file creation. Data holds
// the decoded bytes for non-folder types.
type UploadInput struct {
	Name     string
	Type     string
	ParentID string
	IsPublic bool
	Data     []byte
}

// Upload validates the input, resolves the parent folder, persists the
// record (plus blob for non-folders) and enqueues a thumbnail job for
// images. The response never waits for the job.
func (s *FileService) Upload(ctx context.Context, userID primitive.ObjectID, in UploadInput) (*database.FileRecord, error) {
	if in.Name == "" {
		return nil, validationErr("Missing name")
	}
	ft, ok := database.ParseFileType(in.Type)
	if !ok {
		return nil, validationErr("Missing type")
	}
	if ft != database.FileTypeFolder && len(in.Data) == 0 {
		return nil, validationErr("Missing data")
	}

	parentID, err := s.resolveParent(ctx, in.ParentID)
	if err != nil {
		return nil, err
	}

	rec := &database.FileRecord{
		UserID:   userID,
		Name:     in.Name,
		Type:     ft,
		IsPublic: in.IsPublic,
		ParentID: parentID,
	}

	if ft != database.FileTypeFolder {
		path := s.blobs.NewPath()
		if err := s.blobs.Write(path, in.Data); err != nil {
			return nil, fmt.Errorf("store blob: %w", err)
		}
		rec.LocalPath = path
	}

	id, err := s.db.InsertFile(ctx, rec)
	if err != nil {
		return nil, err
	}
	rec.ID = id

	if ft == database.FileTypeImage {
		// Post-commit step: a queue outage must not fail the upload.
		job := queue.ThumbnailJob{UserID: userID.Hex(), FileID: id.Hex()}
		if err := s.queue.Enqueue(ctx, queue.FileQueue, job); err != nil {
			s.logger.Warn("failed to enqueue thumbnail job",
				zap.String("file_id", id.Hex()),
				zap.Error(err),
			)
		}
	}

	return rec, nil
}

// resolveParent maps the wire parentId to a store id. Cross-owner nesting
// is allowed: the parent only has to exist and be a folder.
func (s *FileService) resolveParent(ctx context.Context, parentID string) (primitive.ObjectID, error) {
	if parentID == "" || parentID == database.RootSentinel {
		return primitive.NilObjectID, nil
	}

	pid, ok := database.ParseObjectID(parentID)
	if !ok {
		return primitive.NilObjectID, ErrParentNotFound
	}

	parent, err := s.db.GetFile(ctx, pid)
	if errors.Is(err, database.ErrNotFound) {
		return primitive.NilObjectID, ErrParentNotFound
	}
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("parent lookup: %w", err)
	}
	if parent.Type != database.FileTypeFolder {
		return primitive.NilObjectID, ErrParentNotFolder
	}
	return pid, nil
}

// Stat returns a record's metadata to its owner. Foreign and absent
// records both come back as ErrNotFound.
func (s *FileService) Stat(ctx context.Context, userID primitive.ObjectID, fileID string) (*database.FileRecord, error) {
	id, ok := database.ParseObjectID(fileID)
	if !ok {
		return nil, ErrNotFound
	}
	f, err := s.db.GetFileOwned(ctx, id, userID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	return f, err
}

// List returns one zero-based page of the owner's records under parentID.
// Out-of-range pages and unknown parents yield an empty page, not an error.
func (s *FileService) List(ctx context.Context, userID primitive.ObjectID, parentID string, page int64) ([]*database.FileRecord, error) {
	var pid primitive.ObjectID
	if parentID != "" && parentID != database.RootSentinel {
		var ok bool
		pid, ok = database.ParseObjectID(parentID)
		if !ok {
			return nil, nil
		}
	}
	if page < 0 {
		page = 0
	}
	return s.db.ListFiles(ctx, userID, pid, page*PageSize, PageSize)
}

// SetPublic toggles content visibility; metadata stays owner-only either
// way.
func (s *FileService) SetPublic(ctx context.Context, userID primitive.ObjectID, fileID string, public bool) (*database.FileRecord, error) {
	id, ok := database.ParseObjectID(fileID)
	if !ok {
		return nil, ErrNotFound
	}
	f, err := s.db.SetFilePublic(ctx, id, userID, public)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	return f, err
}

// Content serves a record's raw bytes, or a thumbnail variant when size is
// one of the generated widths. requester is nil for anonymous reads;
// private records are hidden from everyone but their owner.
func (s *FileService) Content(ctx context.Context, requester *database.User, fileID, size string) ([]byte, *database.FileRecord, error) {
	id, ok := database.ParseObjectID(fileID)
	if !ok {
		return nil, nil, ErrNotFound
	}

	f, err := s.db.GetFile(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	if !f.IsPublic && (requester == nil || requester.ID != f.UserID) {
		return nil, nil, ErrNotFound
	}

	if f.Type == database.FileTypeFolder {
		return nil, nil, ErrFolderContent
	}

	path := f.LocalPath
	if size != "" {
		if !thumbnailSizes[size] {
			return nil, nil, validationErr("Invalid size")
		}
		path = path + "_" + size
	}

	if path == "" || !s.blobs.Exists(path) {
		return nil, nil, ErrNotFound
	}

	data, err := s.blobs.Read(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read content: %w", err)
	}
	return data, f, nil
}
