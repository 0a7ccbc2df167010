package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	texerr "github.com/imfine/texwire/pkg/errors"
	pkgio "github.com/imfine/texwire/pkg/io"
	"github.com/imfine/texwire/pkg/observability"
	"github.com/imfine/texwire/pkg/shader"
)

// DefaultDatabase is used when a MongoDB URL names no database.
const DefaultDatabase = "texwire"

// MaterialsCollection holds one record per material.
const MaterialsCollection = "materials"

const mongoBackend = "mongodb"

// materialRecord is the stored form of a material graph.
type materialRecord struct {
	ID        string          `bson:"_id"`
	Document  *pkgio.Document `bson:"document"`
	UpdatedAt time.Time       `bson:"updated_at"`
}

// MongoProvider stores material documents in a MongoDB collection.
type MongoProvider struct {
	client *mongo.Client
	coll   *mongo.Collection
	owned  bool
}

// NewMongoProvider connects to uri and stores materials in collection of db.
// An empty collection selects [MaterialsCollection].
func NewMongoProvider(ctx context.Context, uri, db, collection string) (*MongoProvider, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := RetryWithBackoff(ctx, func() error { return transient(client.Ping(ctx, nil)) }); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	p := NewMongoProviderFromDatabase(client.Database(db))
	if collection != "" {
		p.coll = client.Database(db).Collection(collection)
	}
	p.owned = true
	return p, nil
}

// NewMongoProviderFromDatabase uses an existing database handle. Close does
// not disconnect the client.
func NewMongoProviderFromDatabase(db *mongo.Database) *MongoProvider {
	return &MongoProvider{
		client: db.Client(),
		coll:   db.Collection(MaterialsCollection),
	}
}

// Graph loads the graph of material.
func (p *MongoProvider) Graph(ctx context.Context, material string) (*shader.Graph, error) {
	var rec materialRecord
	err := p.coll.FindOne(ctx, bson.M{"_id": material}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		observability.Store().OnGraphMiss(ctx, mongoBackend)
		return nil, noGraph(material)
	}
	if err != nil {
		return nil, texerr.Wrap(texerr.ErrCodeStore, err, "load material %q", material)
	}
	if rec.Document == nil {
		return nil, noGraph(material)
	}
	rec.Document.Material = material

	g, err := graphOf(material, rec.Document)
	if err != nil {
		return nil, err
	}
	observability.Store().OnGraphLoad(ctx, mongoBackend)
	return g, nil
}

// Save upserts the record of material.
func (p *MongoProvider) Save(ctx context.Context, material string, g *shader.Graph) error {
	doc, err := pkgio.FromGraph(material, g)
	if err != nil {
		return texerr.Wrap(texerr.ErrCodeInvalidMaterial, err, "encode material %q", material)
	}
	rec := materialRecord{ID: material, Document: doc, UpdatedAt: time.Now().UTC()}
	data, err := bson.Marshal(rec)
	if err != nil {
		return texerr.Wrap(texerr.ErrCodeInvalidMaterial, err, "encode material %q", material)
	}

	_, err = p.coll.ReplaceOne(ctx, bson.M{"_id": material}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return texerr.Wrap(texerr.ErrCodeStore, err, "save material %q", material)
	}
	observability.Store().OnGraphSave(ctx, mongoBackend, len(data))
	return nil
}

// List returns the stored material names, sorted.
func (p *MongoProvider) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := p.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, texerr.Wrap(texerr.ErrCodeStore, err, "list materials")
	}
	defer cur.Close(ctx)

	var names []string
	for cur.Next(ctx) {
		var rec struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&rec); err != nil {
			return nil, texerr.Wrap(texerr.ErrCodeStore, err, "list materials")
		}
		names = append(names, rec.ID)
	}
	if err := cur.Err(); err != nil {
		return nil, texerr.Wrap(texerr.ErrCodeStore, err, "list materials")
	}
	return names, nil
}

// Close disconnects the client if the provider opened it.
func (p *MongoProvider) Close() error {
	if !p.owned {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.client.Disconnect(ctx)
}

// Ensure MongoProvider implements Provider.
var _ Provider = (*MongoProvider)(nil)
