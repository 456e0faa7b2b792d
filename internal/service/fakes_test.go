package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PaulBabatuyi/FileVault-API/internal/database"
)

// In-memory stand-ins for the external adapters.

type fakeDB struct {
	mu      sync.Mutex
	users   map[primitive.ObjectID]*database.User
	byEmail map[string]primitive.ObjectID
	files   map[primitive.ObjectID]*database.FileRecord
	order   []primitive.ObjectID
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:   make(map[primitive.ObjectID]*database.User),
		byEmail: make(map[string]primitive.ObjectID),
		files:   make(map[primitive.ObjectID]*database.FileRecord),
	}
}

func (f *fakeDB) CreateUser(_ context.Context, u *database.User) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[u.Email]; ok {
		return primitive.NilObjectID, database.ErrDuplicate
	}
	id := primitive.NewObjectID()
	cp := *u
	cp.ID = id
	f.users[id] = &cp
	f.byEmail[u.Email] = id
	return id, nil
}

func (f *fakeDB) GetUserByEmail(_ context.Context, email string) (*database.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byEmail[email]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *f.users[id]
	return &cp, nil
}

func (f *fakeDB) GetUserByID(_ context.Context, id primitive.ObjectID) (*database.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeDB) CountUsers(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

func (f *fakeDB) InsertFile(_ context.Context, rec *database.FileRecord) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := primitive.NewObjectID()
	cp := *rec
	cp.ID = id
	f.files[id] = &cp
	f.order = append(f.order, id)
	return id, nil
}

func (f *fakeDB) GetFile(_ context.Context, id primitive.ObjectID) (*database.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.files[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeDB) GetFileOwned(_ context.Context, id, userID primitive.ObjectID) (*database.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.files[id]
	if !ok || rec.UserID != userID {
		return nil, database.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeDB) ListFiles(_ context.Context, userID, parentID primitive.ObjectID, skip, limit int64) ([]*database.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*database.FileRecord
	var seen int64
	for _, id := range f.order {
		rec := f.files[id]
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

func (f *fakeDB) SetFilePublic(_ context.Context, id, userID primitive.ObjectID, public bool) (*database.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.files[id]
	if !ok || rec.UserID != userID {
		return nil, database.ErrNotFound
	}
	rec.IsPublic = public
	cp := *rec
	return &cp, nil
}

func (f *fakeDB) CountFiles(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.files)), nil
}

type fakeSessions struct {
	mu      sync.Mutex
	entries map[string]string
	lastTTL time.Duration
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{entries: make(map[string]string)}
}

func (f *fakeSessions) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.entries[key]
	return v, ok, nil
}

func (f *fakeSessions) Set(_ context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = value
	f.lastTTL = ttl
	return nil
}

func (f *fakeSessions) Del(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
	return nil
}

type fakeBlobs struct {
	mu    sync.Mutex
	blobs map[string][]byte
	next  int
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{blobs: make(map[string][]byte)}
}

func (f *fakeBlobs) NewPath() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	return fmt.Sprintf("/blobs/%d", f.next)
}

func (f *fakeBlobs) Write(path string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[path] = append([]byte(nil), data...)
	return nil
}

func (f *fakeBlobs) Read(path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.blobs[path]
	if !ok {
		return nil, errors.New("blob missing")
	}
	return append([]byte(nil), data...), nil
}

func (f *fakeBlobs) Exists(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.blobs[path]
	return ok
}

type enqueued struct {
	queue   string
	payload any
}

type fakeQueue struct {
	mu      sync.Mutex
	jobs    []enqueued
	failErr error
}

func (f *fakeQueue) Enqueue(_ context.Context, queue string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	f.jobs = append(f.jobs, enqueued{queue: queue, payload: payload})
	return nil
}

func (f *fakeQueue) all() []enqueued {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]enqueued(nil), f.jobs...)
}
