package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/prasadnk/dairydesk/internal/domain/models"
)

// SummaryRepository defines the persistence operations for daily summaries.
type SummaryRepository interface {
	Upsert(ctx context.Context, summary models.DailySummary) error
	List(ctx context.Context, startDate, endDate string) ([]models.DailySummary, error)
}

// MongoSummaryRepository implements SummaryRepository against the
// daily_summaries collection.
type MongoSummaryRepository struct {
	coll *mongo.Collection
}

// Upsert replaces the summary for its date, so a rerun of the job refreshes
// rather than duplicates.
func (r *MongoSummaryRepository) Upsert(ctx context.Context, summary models.DailySummary) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"date": summary.Date}, summary, opts); err != nil {
		return fmt.Errorf("upsert daily summary for %s: %w", summary.Date, err)
	}
	return nil
}

// List returns summaries within the inclusive date range, newest first.
func (r *MongoSummaryRepository) List(ctx context.Context, startDate, endDate string) ([]models.DailySummary, error) {
	filter := bson.M{}
	if rng := dateRange(startDate, endDate); rng != nil {
		filter["date"] = rng
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list daily summaries: %w", err)
	}
	defer cursor.Close(ctx)

	summaries := make([]models.DailySummary, 0)
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("decode daily summaries: %w", err)
	}
	return summaries, nil
}
