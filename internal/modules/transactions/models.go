package transactions

import "time"

const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
	StatusCancelled = "CANCELLED"
)

// Transaction is immutable once written except for status corrections. The
// unique index on PayPalOrderID is the idempotency guard for the capture
// flow: the database, not application logic, enforces at-most-one row per
// provider order.
type Transaction struct {
	ID            string    `gorm:"column:transaction_id;type:char(36);primaryKey"`
	PayPalOrderID string    `gorm:"column:paypal_transaction_id;type:varchar(64);not null;uniqueIndex:ux_transactions_paypal_order"`
	ItemID        string    `gorm:"type:varchar(255);not null;index:ix_transactions_item_id"`
	DonorID       string    `gorm:"type:char(36);not null;index:ix_transactions_donor_id"`
	DonorEmail    *string   `gorm:"type:varchar(255)"`
	Fee           float64   `gorm:"type:decimal(10,2);not null"`
	PaymentStatus string    `gorm:"type:varchar(32);not null;index:ix_transactions_status"`
	PaymentMethod string    `gorm:"type:varchar(32);not null"`
	Pickup        bool      `gorm:"not null;default:false"`
	Timestamp     time.Time `gorm:"precision:3;not null;index:ix_transactions_timestamp"`
}

func (Transaction) TableName() string { return "transactions" }

// DonorItem links a donor to an adopted historical record. Bonds do not get
// a link row; their purchase lives on the bond status alone.
type DonorItem struct {
	DonorID      string    `gorm:"type:char(36);primaryKey"`
	ItemID       string    `gorm:"type:char(36);primaryKey"`
	Fee          float64   `gorm:"type:decimal(10,2);not null"`
	AdoptionDate time.Time `gorm:"precision:3;not null"`
}

func (DonorItem) TableName() string { return "donor_items" }
