package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/assemblage/pkg/collage"
	"github.com/matzehuels/assemblage/pkg/errors"
)

// DefaultCollection is the collection compositions are written to.
const DefaultCollection = "compositions"

// MongoOptions configures NewMongoStore.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// MongoStore stores compositions in a MongoDB collection. The summary
// fields are real document fields so List can sort and project on them; the
// full composition is kept as its JSON encoding, which preserves the
// pass-through fragment keys exactly.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// document is the stored shape of a composition.
type document struct {
	Summary `bson:",inline"`
	Data    []byte `bson:"data"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(opts.URI).
		SetTimeout(opts.Timeout))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(opts.Database).Collection(opts.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

func (s *MongoStore) Save(ctx context.Context, c *collage.Composition) error {
	if err := prepare(c); err != nil {
		return err
	}
	data, err := collage.MarshalComposition(*c)
	if err != nil {
		return err
	}
	doc := document{Summary: summarize(*c), Data: data}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": c.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save composition %s", c.ID)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (collage.Composition, error) {
	var doc document
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return collage.Composition{}, notFound(id)
	}
	if err != nil {
		return collage.Composition{}, errors.Wrap(errors.ErrCodeInternal, err, "get composition %s", id)
	}
	return collage.UnmarshalComposition(doc.Data)
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]Summary, error) {
	find := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(listLimit(limit))).
		SetProjection(bson.M{"data": 0})

	cur, err := s.coll.Find(ctx, bson.M{}, find)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list compositions")
	}
	defer cur.Close(ctx)

	out := []Summary{}
	for cur.Next(ctx) {
		var sum Summary
		if err := cur.Decode(&sum); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode summary")
		}
		out = append(out, sum)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list compositions")
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete composition %s", id)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
