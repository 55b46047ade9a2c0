package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryEvent is one immutable row of the stock ledger. State changes are
// only ever expressed as new rows; rows are never updated or deleted.
//
// DeltaQty is signed: positive for stock added, negative for stock removed,
// zero for metadata-only updates such as a price change. Price and Expiry are
// optional; a zero price and an empty expiry both mean "not specified".
type InventoryEvent struct {
	ID         int64           `gorm:"column:id;primaryKey;autoIncrement"`
	EventID    uuid.UUID       `gorm:"column:event_id;type:uuid;uniqueIndex;not null"`
	ItemName   string          `gorm:"column:item_name;not null;index"`
	DeltaQty   int             `gorm:"column:delta_qty;not null"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Expiry     string          `gorm:"column:expiry"`
	RecordedAt time.Time       `gorm:"column:recorded_at;autoCreateTime"`
}

// TableName pins the ledger table name.
func (InventoryEvent) TableName() string {
	return "inventory_events"
}
