package checkout

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentEvent keeps the raw provider payload that backed a committed
// capture. Written in the same transaction as the Transaction row, so every
// completed purchase has its evidence on disk for manual reconciliation.
// ProcessedAt marks when the payload was verified; ProcessError is kept for
// events that need manual follow-up.
type PaymentEvent struct {
	ID           string         `gorm:"type:char(36);primaryKey"`
	Provider     string         `gorm:"type:varchar(64);not null;uniqueIndex:ux_payment_events_provider_order,priority:1"`
	OrderID      string         `gorm:"type:varchar(64);not null;uniqueIndex:ux_payment_events_provider_order,priority:2"`
	EventType    string         `gorm:"type:varchar(64);not null"`
	PayloadJSON  datatypes.JSON `gorm:"type:json;not null"`
	ReceivedAt   time.Time      `gorm:"precision:3;not null"`
	ProcessedAt  *time.Time     `gorm:"precision:3"`
	ProcessError *string        `gorm:"type:varchar(255)"`
}

func (PaymentEvent) TableName() string { return "payment_events" }
