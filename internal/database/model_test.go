package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseObjectID(t *testing.T) {
	id := primitive.NewObjectID()
	got, ok := ParseObjectID(id.Hex())
	assert.True(t, ok)
	assert.Equal(t, id, got)

	for _, bad := range []string{"", "0", "not-hex", "deadbeef", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		_, ok := ParseObjectID(bad)
		assert.False(t, ok, "%q must not parse", bad)
	}
}

func TestParseFileType(t *testing.T) {
	for _, valid := range []string{"folder", "file", "image"} {
		ft, ok := ParseFileType(valid)
		assert.True(t, ok)
		assert.Equal(t, FileType(valid), ft)
	}
	for _, bad := range []string{"", "Folder", "symlink", "dir"} {
		_, ok := ParseFileType(bad)
		assert.False(t, ok, "%q must not parse", bad)
	}
}

func TestIsRoot(t *testing.T) {
	f := FileRecord{}
	assert.True(t, f.IsRoot())

	f.ParentID = primitive.NewObjectID()
	assert.False(t, f.IsRoot())
}
