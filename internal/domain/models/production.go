package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductionEntry captures one production batch for a calendar date. Quantity
// fields are pointers so that a missing or unparseable value is stored as null
// instead of zero.
type ProductionEntry struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Date                string             `bson:"date" json:"date"`
	Batch               string             `bson:"batch" json:"batch"`
	MilkQuantity        *float64           `bson:"milk_quantity" json:"milk_quantity"`
	TonedMilkQuantity   *float64           `bson:"toned_milk_quantity" json:"toned_milk_quantity"`
	CurdQuantity        *float64           `bson:"curd_quantity" json:"curd_quantity"`
	PaneerQuantity      *float64           `bson:"paneer_quantity" json:"paneer_quantity"`
	MalaiPaneerQuantity *float64           `bson:"malai_paneer_quantity" json:"malai_paneer_quantity"`
	ButterQuantity      *float64           `bson:"butter_quantity" json:"butter_quantity"`
	CreamQuantity       *float64           `bson:"cream_quantity" json:"cream_quantity"`
	GheeQuantity        *float64           `bson:"ghee_quantity" json:"ghee_quantity"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProductQuantityFields is the allow-list mapping a product name accepted in
// query strings to its document field. Filter keys are only ever taken from
// this map, never from caller input.
var ProductQuantityFields = map[string]string{
	"milk":         "milk_quantity",
	"toned_milk":   "toned_milk_quantity",
	"curd":         "curd_quantity",
	"paneer":       "paneer_quantity",
	"malai_paneer": "malai_paneer_quantity",
	"butter":       "butter_quantity",
	"cream":        "cream_quantity",
	"ghee":         "ghee_quantity",
}

// ProductionCreateRequest is the POST /production payload. Quantities arrive
// from the form as either numbers or numeric strings, so they bind loosely and
// are normalized by the service.
type ProductionCreateRequest struct {
	Date                string `json:"date"`
	Batch               string `json:"batch"`
	MilkQuantity        any    `json:"milk_quantity"`
	TonedMilkQuantity   any    `json:"toned_milk_quantity"`
	CurdQuantity        any    `json:"curd_quantity"`
	PaneerQuantity      any    `json:"paneer_quantity"`
	MalaiPaneerQuantity any    `json:"malai_paneer_quantity"`
	ButterQuantity      any    `json:"butter_quantity"`
	CreamQuantity       any    `json:"cream_quantity"`
	GheeQuantity        any    `json:"ghee_quantity"`
}
