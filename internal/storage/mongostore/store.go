// Package mongostore provides a MongoDB implementation of storage.Store.
//
// Every document carries a seq ObjectID assigned at insert. ObjectIDs grow
// with each insert from one process, so sorting on seq after the timestamp
// gives the same tie order as the other backends.
package mongostore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/mmynk/hecovacka/internal/storage"
)

// DefaultDatabase is used when the connection URI names no database.
const DefaultDatabase = "hecovacka"

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store over a MongoDB database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	users     *mongo.Collection
	goals     *mongo.Collection
	groups    *mongo.Collection
	progress  *mongo.Collection
	hecovacky *mongo.Collection
}

// Open connects to the MongoDB deployment at uri and ensures indexes. The
// database is taken from the URI path, falling back to DefaultDatabase.
func Open(ctx context.Context, uri string) (*Store, error) {
	name, err := databaseName(uri)
	if err != nil {
		return nil, err
	}
	return open(ctx, uri, name)
}

func open(ctx context.Context, uri, database string) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:    client,
		db:        db,
		users:     db.Collection("users"),
		goals:     db.Collection("goals"),
		groups:    db.Collection("groups"),
		progress:  db.Collection("progress"),
		hecovacky: db.Collection("hecovacky"),
	}

	if err := s.ensureIndexes(connectCtx); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return s, nil
}

func databaseName(uri string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if name := strings.TrimSpace(cs.Database); name != "" {
		return name, nil
	}
	return DefaultDatabase, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}{
		{s.users, []mongo.IndexModel{{
			Keys:    bson.D{{Key: "emailKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		}}},
		{s.progress, []mongo.IndexModel{{
			Keys: bson.D{{Key: "goalId", Value: 1}, {Key: "timestamp", Value: 1}, {Key: "seq", Value: 1}},
		}}},
		{s.hecovacky, []mongo.IndexModel{{
			Keys: bson.D{{Key: "groupId", Value: 1}, {Key: "sentAt", Value: -1}, {Key: "seq", Value: -1}},
		}}},
	}

	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateMany(ctx, idx.models); err != nil {
			return fmt.Errorf("%s: %w", idx.coll.Name(), err)
		}
	}
	return nil
}

// Close disconnects from the deployment.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// insertErr maps duplicate-key errors to storage.ErrDuplicate.
func insertErr(err error, what, key string) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s %s: %w", what, key, storage.ErrDuplicate)
	}
	return fmt.Errorf("failed to insert %s: %w", what, err)
}

// findAll runs filter with the given sort and decodes every document into T.
// The result is never nil.
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter, sort bson.D) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", coll.Name(), err)
	}
	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", coll.Name(), err)
	}
	return docs, nil
}

func toNanos(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
