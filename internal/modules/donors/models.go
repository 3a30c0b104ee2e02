package donors

import "time"

// Donor is created the first time an email completes a capture and updated
// in place on later captures. The email is stored lowercased; uniqueness is
// enforced by the index, not just the resolver.
type Donor struct {
	ID                string    `gorm:"column:donor_id;type:char(36);primaryKey"`
	Name              string    `gorm:"column:donor_name;type:varchar(255);not null"`
	Email             *string   `gorm:"column:donor_email;type:varchar(255);uniqueIndex:ux_donors_email"`
	Phone             *string   `gorm:"type:varchar(255)"`
	ShippingStreet    *string   `gorm:"type:varchar(255)"`
	ShippingApartment *string   `gorm:"type:varchar(255)"`
	ShippingCity      *string   `gorm:"type:varchar(100)"`
	ShippingState     *string   `gorm:"type:varchar(100)"`
	ShippingZipCode   *string   `gorm:"type:varchar(20)"`
	CreatedAt         time.Time `gorm:"precision:3;not null"`
	UpdatedAt         time.Time `gorm:"precision:3;not null"`
}

func (Donor) TableName() string { return "donors" }

// Address mirrors PayPal's purchase_units[].shipping.address fields.
type Address struct {
	Street    string
	Apartment string
	City      string
	State     string
	ZipCode   string
}

func (a Address) Empty() bool {
	return a.Street == "" && a.Apartment == "" && a.City == "" && a.State == "" && a.ZipCode == ""
}
