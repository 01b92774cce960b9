package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	productionCollection  = "productions"
	supplierCollection    = "suppliers"
	procurementCollection = "procurements"
	summaryCollection     = "daily_summaries"
)

// Store owns the MongoDB client for the whole process. It is constructed once
// in main, injected into the repositories and closed on shutdown.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to MongoDB and verifies the connection with a ping.
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{client: client, db: client.Database(dbName)}, nil
}

// EnsureIndexes creates the indexes the application relies on. The unique
// batch index and the partial unique supplier-number index back the
// check-then-insert flows so concurrent requests cannot both win.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	productionIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "batch", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}},
		},
	}
	if _, err := s.db.Collection(productionCollection).Indexes().CreateMany(ctx, productionIndexes); err != nil {
		return fmt.Errorf("create production indexes: %w", err)
	}

	supplierNumberIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "supplierNumber", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"supplierNumber": bson.M{"$exists": true, "$gt": ""}}),
	}
	if _, err := s.db.Collection(supplierCollection).Indexes().CreateOne(ctx, supplierNumberIndex); err != nil {
		return fmt.Errorf("create supplier indexes: %w", err)
	}

	procurementIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "supplierId", Value: 1}, {Key: "date", Value: -1}}},
	}
	if _, err := s.db.Collection(procurementCollection).Indexes().CreateMany(ctx, procurementIndexes); err != nil {
		return fmt.Errorf("create procurement indexes: %w", err)
	}

	summaryIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.db.Collection(summaryCollection).Indexes().CreateOne(ctx, summaryIndex); err != nil {
		return fmt.Errorf("create summary indexes: %w", err)
	}

	return nil
}

// Productions returns the production repository bound to this store.
func (s *Store) Productions() *MongoProductionRepository {
	return &MongoProductionRepository{coll: s.db.Collection(productionCollection)}
}

// Suppliers returns the supplier repository bound to this store.
func (s *Store) Suppliers() *MongoSupplierRepository {
	return &MongoSupplierRepository{coll: s.db.Collection(supplierCollection)}
}

// Procurements returns the procurement repository bound to this store.
func (s *Store) Procurements() *MongoProcurementRepository {
	return &MongoProcurementRepository{coll: s.db.Collection(procurementCollection)}
}

// Summaries returns the daily summary repository bound to this store.
func (s *Store) Summaries() *MongoSummaryRepository {
	return &MongoSummaryRepository{coll: s.db.Collection(summaryCollection)}
}

// Close closes the MongoDB connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
