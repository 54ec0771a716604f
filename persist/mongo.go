package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/phanxgames/tether"
)

// Default MongoDB names used when the URI has no database path.
const (
	DefaultMongoDatabase   = "tether"
	DefaultMongoCollection = "stored_tips"
)

// mongoTip is the document form of a stored tip. The configuration is kept
// as its JSON encoding.
type mongoTip struct {
	tether.StoredTip `bson:",inline"`
	Config           string `bson:"config"`
	Order            int    `bson:"order"`
}

// Mongo stores one document per tip.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// OpenMongo connects to the deployment named by uri. The database is taken
// from the URI path.
func OpenMongo(ctx context.Context, uri string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	db := mongoDatabase(uri)
	return &Mongo{client: client, coll: client.Database(db).Collection(DefaultMongoCollection)}, nil
}

// mongoDatabase extracts the database name from a connection URI.
func mongoDatabase(uri string) string {
	_, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return DefaultMongoDatabase
	}
	_, path, ok := strings.Cut(rest, "/")
	if !ok {
		return DefaultMongoDatabase
	}
	path, _, _ = strings.Cut(path, "?")
	if path == "" {
		return DefaultMongoDatabase
	}
	return path
}

// Load implements Backend.
func (m *Mongo) Load(ctx context.Context) ([]tether.StoredTip, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cur, err := m.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find stored tips: %w", err)
	}
	defer cur.Close(ctx)

	var tips []tether.StoredTip
	for cur.Next(ctx) {
		var doc mongoTip
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode stored tip: %w", err)
		}
		t := doc.StoredTip
		if err := json.Unmarshal([]byte(doc.Config), &t.Config); err != nil {
			return nil, fmt.Errorf("stored tip %q config: %w", t.ID, err)
		}
		tips = append(tips, t)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	if len(tips) == 0 {
		return nil, ErrNotFound
	}
	return tips, nil
}

// Save implements Backend. The collection is replaced wholesale.
func (m *Mongo) Save(ctx context.Context, tips []tether.StoredTip) error {
	docs := make([]any, 0, len(tips))
	for i, t := range tips {
		cfg, err := json.Marshal(t.Config)
		if err != nil {
			return fmt.Errorf("stored tip %q config: %w", t.ID, err)
		}
		docs = append(docs, mongoTip{StoredTip: t, Config: string(cfg), Order: i})
	}
	if _, err := m.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("clear stored tips: %w", err)
	}
	if len(docs) == 0 {
		return nil
	}
	if _, err := m.coll.InsertMany(ctx, docs); err != nil {
		var we mongo.BulkWriteException
		if errors.As(err, &we) {
			return fmt.Errorf("insert stored tips: %d write errors: %w", len(we.WriteErrors), err)
		}
		return fmt.Errorf("insert stored tips: %w", err)
	}
	return nil
}

// Close implements Backend.
func (m *Mongo) Close() error {
	return m.client.Disconnect(context.Background())
}
