package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Procurement is a single supplier milk delivery. TotalAmount is always
// computed server-side from quantity and rate.
type Procurement struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SupplierID    primitive.ObjectID `bson:"supplierId" json:"supplierId"`
	Date          string             `bson:"date" json:"date"`
	MilkQuantity  float64            `bson:"milkQuantity" json:"milkQuantity"`
	FatPercentage *float64           `bson:"fatPercentage,omitempty" json:"fatPercentage,omitempty"`
	SNFPercentage *float64           `bson:"snfPercentage,omitempty" json:"snfPercentage,omitempty"`
	Rate          float64            `bson:"rate" json:"rate"`
	TotalAmount   float64            `bson:"totalAmount" json:"totalAmount"`
	CreatedAt     time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt     time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// ProcurementCreateRequest is the POST /supplier/procurement payload. Numeric
// fields bind loosely because the form submits strings. Any caller-supplied
// totalAmount is ignored.
type ProcurementCreateRequest struct {
	SupplierID    string `json:"supplierId"`
	Date          string `json:"date"`
	MilkQuantity  any    `json:"milkQuantity"`
	FatPercentage any    `json:"fatPercentage"`
	SNFPercentage any    `json:"snfPercentage"`
	Rate          any    `json:"rate"`
	TotalAmount   any    `json:"totalAmount"`
}
