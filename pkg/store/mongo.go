package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReadmes stores readme documents in a MongoDB collection, one
// document per (package, language variant) pair.
type MongoReadmes struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig holds connection settings for [NewMongoReadmes].
type MongoConfig struct {
	URI      string // mongodb://..., "mongodb://localhost:27017" if empty
	Database string // "upmeta" if empty
}

// NewMongoReadmes connects to MongoDB and verifies the connection.
func NewMongoReadmes(ctx context.Context, cfg MongoConfig) (*MongoReadmes, error) {
	uri := cfg.URI
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	db := cfg.Database
	if db == "" {
		db = "upmeta"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &MongoReadmes{
		client: client,
		coll:   client.Database(db).Collection("readmes"),
	}, nil
}

func readmeID(name, lang string) string {
	if lang == "" {
		lang = "en"
	}
	return name + ":" + lang
}

func (m *MongoReadmes) upsert(ctx context.Context, name, lang string, set bson.M) error {
	set["name"] = name
	set["lang"] = lang
	set["updated_at"] = time.Now().UTC()

	_, err := m.coll.UpdateOne(ctx,
		bson.M{"_id": readmeID(name, lang)},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("persist readme for %s (%s): %w", name, lang, err)
	}
	return nil
}

// SetReadme stores the raw markdown for a language variant.
func (m *MongoReadmes) SetReadme(ctx context.Context, name, lang, markdown string) error {
	return m.upsert(ctx, name, lang, bson.M{"markdown": markdown})
}

// SetReadmeHTML stores the rendered HTML for a language variant.
func (m *MongoReadmes) SetReadmeHTML(ctx context.Context, name, lang, html string) error {
	return m.upsert(ctx, name, lang, bson.M{"html": html})
}

// Readme returns the stored document, or nil if none exists.
func (m *MongoReadmes) Readme(ctx context.Context, name, lang string) (*Readme, error) {
	var doc Readme
	err := m.coll.FindOne(ctx, bson.M{"_id": readmeID(name, lang)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Close disconnects from MongoDB.
func (m *MongoReadmes) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

var _ ReadmeStore = (*MongoReadmes)(nil)
