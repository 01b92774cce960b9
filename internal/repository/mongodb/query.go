package mongodb

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/prasadnk/dairydesk/internal/domain/models"
)

// ProductionQuery captures the optional filters for production reads.
type ProductionQuery struct {
	StartDate string
	EndDate   string
	Product   string
}

// Filter composes the Mongo filter for this query. Date bounds are inclusive
// and may be one-sided. The product name resolves through the
// ProductQuantityFields allow-list; anything containing the operator
// character, or not on the list, is ignored so caller input can never reach
// filter-key construction.
func (q ProductionQuery) Filter() bson.M {
	filter := bson.M{}

	if rng := dateRange(q.StartDate, q.EndDate); rng != nil {
		filter["date"] = rng
	}

	if q.Product != "" && !strings.Contains(q.Product, "$") {
		if field, ok := models.ProductQuantityFields[q.Product]; ok {
			filter[field] = bson.M{"$exists": true, "$ne": nil, "$gt": 0}
		}
	}

	return filter
}

// ProcurementQuery captures the optional filters for procurement history
// reads.
type ProcurementQuery struct {
	StartDate string
	EndDate   string
}

// Filter composes the Mongo filter for this query.
func (q ProcurementQuery) Filter() bson.M {
	filter := bson.M{}
	if rng := dateRange(q.StartDate, q.EndDate); rng != nil {
		filter["date"] = rng
	}
	return filter
}

func dateRange(start, end string) bson.M {
	if start == "" && end == "" {
		return nil
	}
	rng := bson.M{}
	if start != "" {
		rng["$gte"] = start
	}
	if end != "" {
		rng["$lte"] = end
	}
	return rng
}
