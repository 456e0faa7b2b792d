package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sentinels returned by lookups so callers never depend on driver errors.
var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

const (
	usersCollection = "users"
	filesCollection = "files"
)

// MongoDB wraps the document store holding user and file records.
type MongoDB struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoDB(ctx context.Context, uri, database string) (*MongoDB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	// Test connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoDB{client: client, db: client.Database(database)}, nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// IsAlive reports whether the store answers a ping.
func (m *MongoDB) IsAlive(ctx context.Context) bool {
	return m.client.Ping(ctx, nil) == nil
}

// EnsureIndexes creates the unique email index backing registration.
// Without it the check-then-insert in the user service is best-effort.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	_, err := m.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (m *MongoDB) CreateUser(ctx context.Context, u *User) (primitive.ObjectID, error) {
	res, err := m.db.Collection(usersCollection).InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrDuplicate
		}
		return primitive.NilObjectID, fmt.Errorf("insert user: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (m *MongoDB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := m.db.Collection(usersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}

func (m *MongoDB) GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	var u User
	err := m.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (m *MongoDB) CountUsers(ctx context.Context) (int64, error) {
	return m.db.Collection(usersCollection).CountDocuments(ctx, bson.M{})
}

func (m *MongoDB) InsertFile(ctx context.Context, f *FileRecord) (primitive.ObjectID, error) {
	res, err := m.db.Collection(filesCollection).InsertOne(ctx, f)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert file: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// GetFile fetches a record by id regardless of owner. Used for parent
// resolution and public content reads.
func (m *MongoDB) GetFile(ctx context.Context, id primitive.ObjectID) (*FileRecord, error) {
	var f FileRecord
	err := m.db.Collection(filesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find file: %w", err)
	}
	return &f, nil
}

// GetFileOwned fetches a record only when owned by userID, so foreign
// records are indistinguishable from absent ones.
func (m *MongoDB) GetFileOwned(ctx context.Context, id, userID primitive.ObjectID) (*FileRecord, error) {
	var f FileRecord
	err := m.db.Collection(filesCollection).FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find file: %w", err)
	}
	return &f, nil
}

// ListFiles returns the owner's records under parentID (zero = root) in
// insertion order, skipping skip records and returning at most limit.
func (m *MongoDB) ListFiles(ctx context.Context, userID, parentID primitive.ObjectID, skip, limit int64) ([]*FileRecord, error) {
	filter := bson.M{"userId": userID, "parentId": parentID}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetSkip(skip).SetLimit(limit)

	cur, err := m.db.Collection(filesCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer cur.Close(ctx)

	var files []*FileRecord
	for cur.Next(ctx) {
		var f FileRecord
		if err := cur.Decode(&f); err != nil {
			return nil, fmt.Errorf("decode file: %w", err)
		}
		files = append(files, &f)
	}
	return files, cur.Err()
}

// SetFilePublic flips the visibility of an owned record and returns the
// updated document. ErrNotFound covers both absent and foreign records.
func (m *MongoDB) SetFilePublic(ctx context.Context, id, userID primitive.ObjectID, public bool) (*FileRecord, error) {
	res, err := m.db.Collection(filesCollection).UpdateOne(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"isPublic": public}},
	)
	if err != nil {
		return nil, fmt.Errorf("update file: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return m.GetFileOwned(ctx, id, userID)
}

func (m *MongoDB) CountFiles(ctx context.Context) (int64, error) {
	return m.db.Collection(filesCollection).CountDocuments(ctx, bson.M{})
}
