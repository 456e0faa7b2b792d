package database

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered account. The password hash and its salt never leave
// the database layer in API responses.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash []byte             `bson:"passwordHash"`
	Salt         []byte             `bson:"salt"`
}

type FileType string

const (
	FileTypeFolder FileType = "folder"
	FileTypeFile   FileType = "file"
	FileTypeImage  FileType = "image"
)

// ParseFileType maps a client-supplied type string to a FileType.
func ParseFileType(s string) (FileType, bool) {
	switch FileType(s) {
	case FileTypeFolder, FileTypeFile, FileTypeImage:
		return FileType(s), true
	}
	return "", false
}

// FileRecord is a file or folder metadata entry. ParentID is the zero
// ObjectID for root-level records; LocalPath is set iff the record is not a
// folder.
type FileRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId"`
	Name      string             `bson:"name"`
	Type      FileType           `bson:"type"`
	IsPublic  bool               `bson:"isPublic"`
	ParentID  primitive.ObjectID `bson:"parentId"`
	LocalPath string             `bson:"localPath,omitempty"`
}

// IsRoot reports whether the record sits at the top level.
func (f *FileRecord) IsRoot() bool {
	return f.ParentID.IsZero()
}

// RootSentinel is the wire representation of "no parent".
const RootSentinel = "0"

// ParseObjectID validates and converts an externally supplied identifier.
// It never panics on malformed input; callers map ok=false to their
// not-found variant.
func ParseObjectID(s string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
