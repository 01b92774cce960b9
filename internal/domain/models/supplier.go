package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Supplier is a milk supplier record. LastProcurementDate is denormalized and
// maintained by the procurement service on every delivery.
type Supplier struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SupplierName        string             `bson:"supplierName" json:"supplierName"`
	SupplierType        string             `bson:"supplierType,omitempty" json:"supplierType,omitempty"`
	SupplierNumber      string             `bson:"supplierNumber,omitempty" json:"supplierNumber,omitempty"`
	SupplierAddress     string             `bson:"supplierAddress,omitempty" json:"supplierAddress,omitempty"`
	SupplierTSRate      float64            `bson:"supplierTSRate" json:"supplierTSRate"`
	LastProcurementDate string             `bson:"lastProcurementDate,omitempty" json:"lastProcurementDate,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SupplierCreateRequest is the POST /supplier payload.
type SupplierCreateRequest struct {
	SupplierName    string `json:"supplierName"`
	SupplierType    string `json:"supplierType"`
	SupplierNumber  string `json:"supplierNumber"`
	SupplierAddress string `json:"supplierAddress"`
	SupplierTSRate  any    `json:"supplierTSRate"`
}

// SupplierUpdateRequest is the PUT /supplier payload. Pointer fields
// distinguish "absent" from "set to empty"; only present fields are written.
type SupplierUpdateRequest struct {
	SupplierName    *string `json:"supplierName"`
	SupplierType    *string `json:"supplierType"`
	SupplierNumber  *string `json:"supplierNumber"`
	SupplierAddress *string `json:"supplierAddress"`
	SupplierTSRate  any     `json:"supplierTSRate"`
}
