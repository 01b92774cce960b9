package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/prasadnk/dairydesk/internal/domain/apperr"
	"github.com/prasadnk/dairydesk/internal/domain/models"
)

// SupplierRepository defines the persistence operations for suppliers.
type SupplierRepository interface {
	Insert(ctx context.Context, supplier *models.Supplier) (primitive.ObjectID, error)
	List(ctx context.Context) ([]models.Supplier, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Supplier, error)
	NumberInUse(ctx context.Context, number string, exclude primitive.ObjectID) (bool, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (int64, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error)
	SetLastProcurementDate(ctx context.Context, id primitive.ObjectID, date string) error
}

// MongoSupplierRepository implements SupplierRepository against the suppliers
// collection.
type MongoSupplierRepository struct {
	coll *mongo.Collection
}

// Insert stores a new supplier. The partial unique index on supplierNumber
// turns a racing duplicate into a conflict here.
func (r *MongoSupplierRepository) Insert(ctx context.Context, supplier *models.Supplier) (primitive.ObjectID, error) {
	res, err := r.coll.InsertOne(ctx, supplier)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, apperr.Conflictf("supplier number %s already registered", supplier.SupplierNumber)
		}
		return primitive.NilObjectID, fmt.Errorf("insert supplier: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

// List returns all suppliers, newest first.
func (r *MongoSupplierRepository) List(ctx context.Context) ([]models.Supplier, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer cursor.Close(ctx)

	suppliers := make([]models.Supplier, 0)
	if err := cursor.All(ctx, &suppliers); err != nil {
		return nil, fmt.Errorf("decode suppliers: %w", err)
	}
	return suppliers, nil
}

// FindByID returns one supplier, or nil when absent.
func (r *MongoSupplierRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&supplier)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find supplier: %w", err)
	}
	return &supplier, nil
}

// NumberInUse reports whether the phone number exists on a supplier other
// than the excluded one. Pass primitive.NilObjectID to exclude nothing.
func (r *MongoSupplierRepository) NumberInUse(ctx context.Context, number string, exclude primitive.ObjectID) (bool, error) {
	filter := bson.M{"supplierNumber": number}
	if exclude != primitive.NilObjectID {
		filter["_id"] = bson.M{"$ne": exclude}
	}

	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("count suppliers by number: %w", err)
	}
	return count > 0, nil
}

// UpdateByID applies a partial $set of the given fields. A duplicate key on
// supplierNumber is reported as a conflict.
func (r *MongoSupplierRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (int64, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, apperr.Conflictf("supplier number already registered")
		}
		return 0, fmt.Errorf("update supplier: %w", err)
	}
	return res.MatchedCount, nil
}

// DeleteByID removes one supplier and reports how many documents matched.
func (r *MongoSupplierRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete supplier: %w", err)
	}
	return res.DeletedCount, nil
}

// SetLastProcurementDate updates the denormalized last delivery date.
func (r *MongoSupplierRepository) SetLastProcurementDate(ctx context.Context, id primitive.ObjectID, date string) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"lastProcurementDate": date,
		"updatedAt":           time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("set last procurement date: %w", err)
	}
	return nil
}
