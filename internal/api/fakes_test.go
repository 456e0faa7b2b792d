package api_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PaulBabatuyi/FileVault-API/internal/database"
)

// In-memory adapters backing the handler tests.

type memDB struct {
	mu      sync.Mutex
	users   map[primitive.ObjectID]*database.User
	byEmail map[string]primitive.ObjectID
	files   map[primitive.ObjectID]*database.FileRecord
	order   []primitive.ObjectID
}

func newMemDB() *memDB {
	return &memDB{
		users:   make(map[primitive.ObjectID]*database.User),
		byEmail: make(map[string]primitive.ObjectID),
		files:   make(map[primitive.ObjectID]*database.FileRecord),
	}
}

func (m *memDB) IsAlive(context.Context) bool { return true }

func (m *memDB) CountUsers(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

func (m *memDB) CountFiles(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.files)), nil
}

func (m *memDB) CreateUser(_ context.Context, u *database.User) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[u.Email]; ok {
		return primitive.NilObjectID, database.ErrDuplicate
	}
	id := primitive.NewObjectID()
	cp := *u
	cp.ID = id
	m.users[id] = &cp
	m.byEmail[u.Email] = id
	return id, nil
}

func (m *memDB) GetUserByEmail(_ context.Context, email string) (*database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byEmail[email]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *m.users[id]
	return &cp, nil
}

func (m *memDB) GetUserByID(_ context.Context, id primitive.ObjectID) (*database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memDB) InsertFile(_ context.Context, rec *database.FileRecord) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	cp := *rec
	cp.ID = id
	m.files[id] = &cp
	m.order = append(m.order, id)
	return id, nil
}

func (m *memDB) GetFile(_ context.Context, id primitive.ObjectID) (*database.FileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.files[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *memDB) GetFileOwned(_ context.Context, id, userID primitive.ObjectID) (*database.FileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.files[id]
	if !ok || rec.UserID != userID {
		return nil, database.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *memDB) ListFiles(_ context.Context, userID, parentID primitive.ObjectID, skip, limit int64) ([]*database.FileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*database.FileRecord
	var seen int64
	for _, id := range m.order {
		rec := m.files[id]
		if rec.UserID != userID || rec.ParentID != parentID {
			continue
		}
		if seen < skip {
			seen++
			continue
		}
		if int64(len(out)) == limit {
			break
		}
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memDB) SetFilePublic(_ context.Context, id, userID primitive.ObjectID, public bool) (*database.FileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.files[id]
	if !ok || rec.UserID != userID {
		return nil, database.ErrNotFound
	}
	rec.IsPublic = public
	cp := *rec
	return &cp, nil
}

type memSessions struct {
	mu      sync.Mutex
	entries map[string]string
}

func newMemSessions() *memSessions {
	return &memSessions{entries: make(map[string]string)}
}

func (m *memSessions) IsAlive(context.Context) bool { return true }

func (m *memSessions) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *memSessions) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *memSessions) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

type memBlobs struct {
	mu    sync.Mutex
	blobs map[string][]byte
	next  int
}

func newMemBlobs() *memBlobs {
	return &memBlobs{blobs: make(map[string][]byte)}
}

func (m *memBlobs) NewPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("/blobs/%d", m.next)
}

func (m *memBlobs) Write(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[path] = append([]byte(nil), data...)
	return nil
}

func (m *memBlobs) Read(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[path]
	if !ok {
		return nil, errors.New("blob missing")
	}
	return append([]byte(nil), data...), nil
}

func (m *memBlobs) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[path]
	return ok
}

type memQueue struct {
	mu   sync.Mutex
	jobs []string
}

func (m *memQueue) Enqueue(_ context.Context, queue string, _ any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, queue)
	return nil
}
