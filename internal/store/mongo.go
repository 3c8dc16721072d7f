// Package store provides the MongoDB-backed persistence layer and
// in-memory doubles for tests. All implementations satisfy the store
// contracts declared in internal/core.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"vendas-backend/internal/core"
)

// Connect establishes and verifies a MongoDB connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	return client, nil
}

// parseID converts a client-supplied id into an ObjectID. Malformed ids
// are rejected here, before any lookup reaches the database.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", core.ErrInvalidID, id)
	}
	return oid, nil
}

// Products is the MongoDB-backed product catalog.
type Products struct {
	coll *mongo.Collection
}

// NewProducts returns a product store over db's "products" collection.
func NewProducts(db *mongo.Database) *Products {
	return &Products{coll: db.Collection("products")}
}

func (s *Products) Insert(ctx context.Context, p *core.Product) (string, error) {
	res, err := s.coll.InsertOne(ctx, p)
	if err != nil {
		return "", err
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	p.ID = oid
	return oid.Hex(), nil
}

func (s *Products) FindByID(ctx context.Context, id string) (*core.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var p core.Product
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Products) List(ctx context.Context) ([]core.Product, error) {
	cur, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	products := []core.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Products) Update(ctx context.Context, id string, patch core.ProductPatch) (*core.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	// Only supplied fields enter the $set document
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Stock != nil {
		set["stock"] = *patch.Stock
	}

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, core.ErrNotFound
	}

	var p core.Product
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Products) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Products) Exists(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id cannot reference anything
		return false, nil
	}

	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Sales is the MongoDB-backed sales collection.
type Sales struct {
	coll *mongo.Collection
}

// NewSales returns a sale store over db's "sales" collection.
func NewSales(db *mongo.Database) *Sales {
	return &Sales{coll: db.Collection("sales")}
}

// InsertMany persists the importer's batch with a single call. The
// store's native atomicity of that call is the only consistency
// boundary; there are no row-by-row commits.
func (s *Sales) InsertMany(ctx context.Context, sales []core.Sale) error {
	docs := make([]interface{}, len(sales))
	for i := range sales {
		docs[i] = sales[i]
	}

	_, err := s.coll.InsertMany(ctx, docs)
	return err
}

// Users is the MongoDB-backed login account collection.
type Users struct {
	coll *mongo.Collection
}

// NewUsers returns a user store over db's "users" collection.
func NewUsers(db *mongo.Database) *Users {
	return &Users{coll: db.Collection("users")}
}

func (s *Users) FindByUsername(ctx context.Context, username string) (*core.User, error) {
	var u core.User
	if err := s.coll.FindOne(ctx, bson.M{"username": username}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
