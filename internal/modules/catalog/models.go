package catalog

import "time"

const (
	BondAvailable = "available"
	BondPurchased = "purchased"
	BondReserved  = "reserved"
)

// HistoricalRecord is an adoptable archive item. Identified by UUID, which is
// also how the checkout flow tells records apart from bonds.
type HistoricalRecord struct {
	ID           string     `gorm:"column:item_id;type:char(36);primaryKey"`
	Name         string     `gorm:"column:item_name;type:varchar(255);not null"`
	Description  string     `gorm:"column:item_description;type:text"`
	Fee          float64    `gorm:"type:decimal(10,2);not null"`
	Photo        bool       `gorm:"not null;default:false"`
	ImgURL       *string    `gorm:"column:item_img_url;type:varchar(255)"`
	ImgAlt       *string    `gorm:"column:item_img_alt;type:varchar(255)"`
	Adopted      bool       `gorm:"not null;default:false;index:ix_historical_records_adopted"`
	AdoptionDate *time.Time `gorm:"precision:3"`
	CreatedAt    time.Time  `gorm:"precision:3;not null"`
	UpdatedAt    time.Time  `gorm:"precision:3;not null"`
}

func (HistoricalRecord) TableName() string { return "historical_records" }

// Bond is a municipal bond reproduction sold at a fixed retail price. Bond
// ids are human-assigned codes, not UUIDs.
type Bond struct {
	ID            string     `gorm:"column:bond_id;type:varchar(255);primaryKey"`
	RetailPrice   float64    `gorm:"type:decimal(10,2);not null"`
	ParValue      *string    `gorm:"type:varchar(255)"`
	IssueDate     *time.Time `gorm:"type:date"`
	DueDate       *time.Time `gorm:"type:date"`
	Mayor         *string    `gorm:"type:varchar(100)"`
	Comptroller   *string    `gorm:"type:varchar(100)"`
	Size          *string    `gorm:"type:varchar(50)"`
	FrontImage    *string    `gorm:"type:varchar(255)"`
	BackImage     *string    `gorm:"type:varchar(255)"`
	Status        string     `gorm:"type:varchar(32);not null;default:available;index:ix_bonds_status"`
	Type          *string    `gorm:"type:varchar(100)"`
	PurposeOfBond *string    `gorm:"type:text"`
	Vignette      *string    `gorm:"type:varchar(255)"`
	SortOrder     *int       `gorm:"column:sort_order;index:ix_bonds_sort_order"`
	CreatedAt     time.Time  `gorm:"precision:3;not null"`
	UpdatedAt     time.Time  `gorm:"precision:3;not null"`
}

func (Bond) TableName() string { return "bonds" }
