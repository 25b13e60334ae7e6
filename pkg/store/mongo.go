package store

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hallplan/hallplan/pkg/errors"
	"github.com/hallplan/hallplan/pkg/venue"
)

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps documents in a MongoDB collection, one record per
// document keyed by name. The venue document itself is stored as a JSON
// blob rather than a BSON tree so the wire shape stays identical to the
// file backend.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoRecord struct {
	Name      string    `bson:"_id"`
	Document  []byte    `bson:"document"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and returns a document store. The
// connection is verified with a ping before returning.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "hallplan"
	}
	if cfg.Collection == "" {
		cfg.Collection = "documents"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connecting to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "pinging mongodb")
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Load reads the named document.
func (s *MongoStore) Load(ctx context.Context, name string) (*venue.Document, error) {
	var rec mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "loading document %q", name)
	}

	var doc venue.Document
	if err := json.Unmarshal(rec.Document, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decoding document %q", name)
	}
	return &doc, nil
}

// Save upserts the document under the given name.
func (s *MongoStore) Save(ctx context.Context, name string, doc *venue.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "encoding document %q", name)
	}
	rec := mongoRecord{Name: name, Document: data, UpdatedAt: time.Now().UTC()}

	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": name}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "saving document %q", name)
	}
	return nil
}

// List returns the names of all stored documents, sorted.
func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "listing documents")
	}
	defer cur.Close(ctx)

	var names []string
	for cur.Next(ctx) {
		var rec struct {
			Name string `bson:"_id"`
		}
		if err := cur.Decode(&rec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "listing documents")
		}
		names = append(names, rec.Name)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "listing documents")
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the named document.
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "deleting document %q", name)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", name)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ DocumentStore = (*MongoStore)(nil)
