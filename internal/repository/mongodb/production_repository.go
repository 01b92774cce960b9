package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/prasadnk/dairydesk/internal/domain/apperr"
	"github.com/prasadnk/dairydesk/internal/domain/models"
)

// ProductionRepository defines the persistence operations for production
// entries.
type ProductionRepository interface {
	Insert(ctx context.Context, entry *models.ProductionEntry) (primitive.ObjectID, error)
	FindByBatch(ctx context.Context, batch string) (*models.ProductionEntry, error)
	CountOthersOnDate(ctx context.Context, date, batch string) (int64, error)
	List(ctx context.Context, query ProductionQuery, limit int64) ([]models.ProductionEntry, error)
	ListByDate(ctx context.Context, date string) ([]models.ProductionEntry, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// MongoProductionRepository implements ProductionRepository against the
// productions collection.
type MongoProductionRepository struct {
	coll *mongo.Collection
}

// Insert stores a new production entry. A unique-index violation on the batch
// field is reported as a conflict so the service can retry with a new label.
func (r *MongoProductionRepository) Insert(ctx context.Context, entry *models.ProductionEntry) (primitive.ObjectID, error) {
	res, err := r.coll.InsertOne(ctx, entry)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, apperr.Conflictf("batch %q already exists", entry.Batch)
		}
		return primitive.NilObjectID, fmt.Errorf("insert production entry: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

// FindByBatch returns the entry whose batch label exactly equals the given
// value, or nil when none exists.
func (r *MongoProductionRepository) FindByBatch(ctx context.Context, batch string) (*models.ProductionEntry, error) {
	var entry models.ProductionEntry
	err := r.coll.FindOne(ctx, bson.M{"batch": batch}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find production by batch: %w", err)
	}
	return &entry, nil
}

// CountOthersOnDate counts entries sharing the given date whose batch label
// differs from the candidate.
func (r *MongoProductionRepository) CountOthersOnDate(ctx context.Context, date, batch string) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"date": date, "batch": bson.M{"$ne": batch}})
	if err != nil {
		return 0, fmt.Errorf("count production entries for %s: %w", date, err)
	}
	return count, nil
}

// List returns entries matching the query, newest date first then newest
// insert first. A limit of zero means unbounded.
func (r *MongoProductionRepository) List(ctx context.Context, query ProductionQuery, limit int64) ([]models.ProductionEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.coll.Find(ctx, query.Filter(), opts)
	if err != nil {
		return nil, fmt.Errorf("list production entries: %w", err)
	}
	defer cursor.Close(ctx)

	entries := make([]models.ProductionEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode production entries: %w", err)
	}
	return entries, nil
}

// ListByDate returns every entry recorded for one calendar date.
func (r *MongoProductionRepository) ListByDate(ctx context.Context, date string) ([]models.ProductionEntry, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"date": date})
	if err != nil {
		return nil, fmt.Errorf("list production entries for %s: %w", date, err)
	}
	defer cursor.Close(ctx)

	entries := make([]models.ProductionEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode production entries: %w", err)
	}
	return entries, nil
}

// DeleteByID removes one entry and reports how many documents matched.
func (r *MongoProductionRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete production entry: %w", err)
	}
	return res.DeletedCount, nil
}
