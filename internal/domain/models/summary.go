package models

import "time"

// DailySummary aggregates one calendar date of production and procurement.
// Generated by the reporting service, stored in daily_summaries and optionally
// mirrored to a spreadsheet and a webhook.
type DailySummary struct {
	Date            string             `bson:"date" json:"date"`
	BatchCount      int                `bson:"batchCount" json:"batchCount"`
	TotalsByProduct map[string]float64 `bson:"totalsByProduct" json:"totalsByProduct"`
	MilkProcured    float64            `bson:"milkProcured" json:"milkProcured"`
	AmountPayable   float64            `bson:"amountPayable" json:"amountPayable"`
	SupplierCount   int                `bson:"supplierCount" json:"supplierCount"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
