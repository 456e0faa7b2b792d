package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PaulBabatuyi/FileVault-API/internal/database"
)

// Database is the metadata-store surface the services need.
type Database interface {
	CreateUser(ctx context.Context, u *database.User) (primitive.ObjectID, error)
	GetUserByEmail(ctx context.Context, email string) (*database.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*database.User, error)

	InsertFile(ctx context.Context, f *database.FileRecord) (primitive.ObjectID, error)
	GetFile(ctx context.Context, id primitive.ObjectID) (*database.FileRecord, error)
	GetFileOwned(ctx context.Context, id, userID primitive.ObjectID) (*database.FileRecord, error)
	ListFiles(ctx context.Context, userID, parentID primitive.ObjectID, skip, limit int64) ([]*database.FileRecord, error)
	SetFilePublic(ctx context.Context, id, userID primitive.ObjectID, public bool) (*database.FileRecord, error)
}

// Sessions maps opaque tokens to user ids with a TTL.
type Sessions interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// BlobStore persists raw bytes under opaque paths.
type BlobStore interface {
	NewPath() string
	Write(path string, data []byte) error
	Read(path string) ([]byte, error)
	Exists(path string) bool
}

// Queue accepts fire-and-forget background jobs.
type Queue interface {
	Enqueue(ctx context.Context, queue string, payload any) error
}
