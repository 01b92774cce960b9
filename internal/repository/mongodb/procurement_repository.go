package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/prasadnk/dairydesk/internal/domain/models"
)

// ProcurementRepository defines the persistence operations for procurement
// records.
type ProcurementRepository interface {
	Insert(ctx context.Context, procurement *models.Procurement) (primitive.ObjectID, error)
	ListBySupplier(ctx context.Context, supplierID primitive.ObjectID) ([]models.Procurement, error)
	History(ctx context.Context, query ProcurementQuery, limit int64) ([]models.Procurement, error)
	ListByDate(ctx context.Context, date string) ([]models.Procurement, error)
}

// MongoProcurementRepository implements ProcurementRepository against the
// procurements collection.
type MongoProcurementRepository struct {
	coll *mongo.Collection
}

// Insert stores a new procurement record.
func (r *MongoProcurementRepository) Insert(ctx context.Context, procurement *models.Procurement) (primitive.ObjectID, error) {
	res, err := r.coll.InsertOne(ctx, procurement)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert procurement: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

// ListBySupplier returns all deliveries for one supplier, newest date first.
func (r *MongoProcurementRepository) ListBySupplier(ctx context.Context, supplierID primitive.ObjectID) ([]models.Procurement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"supplierId": supplierID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list procurements by supplier: %w", err)
	}
	defer cursor.Close(ctx)

	procurements := make([]models.Procurement, 0)
	if err := cursor.All(ctx, &procurements); err != nil {
		return nil, fmt.Errorf("decode procurements: %w", err)
	}
	return procurements, nil
}

// History returns a size-bounded, date-filtered read with timestamps
// projected away; this backs the bulk history endpoint.
func (r *MongoProcurementRepository) History(ctx context.Context, query ProcurementQuery, limit int64) ([]models.Procurement, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetProjection(bson.M{"createdAt": 0, "updatedAt": 0})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.coll.Find(ctx, query.Filter(), opts)
	if err != nil {
		return nil, fmt.Errorf("list procurement history: %w", err)
	}
	defer cursor.Close(ctx)

	procurements := make([]models.Procurement, 0)
	if err := cursor.All(ctx, &procurements); err != nil {
		return nil, fmt.Errorf("decode procurements: %w", err)
	}
	return procurements, nil
}

// ListByDate returns every delivery recorded for one calendar date.
func (r *MongoProcurementRepository) ListByDate(ctx context.Context, date string) ([]models.Procurement, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"date": date})
	if err != nil {
		return nil, fmt.Errorf("list procurements for %s: %w", date, err)
	}
	defer cursor.Close(ctx)

	procurements := make([]models.Procurement, 0)
	if err := cursor.All(ctx, &procurements); err != nil {
		return nil, fmt.Errorf("decode procurements: %w", err)
	}
	return procurements, nil
}
