package donors

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResolveInput struct {
	Email   string
	Name    string
	Phone   string
	Address Address
}

// ResolveInTx finds a donor by case-insensitive email or creates one. For an
// existing donor, non-empty incoming fields overlay the stored ones; fields
// the payload omits keep their previous values. Runs inside the caller's
// transaction so a failed capture leaves no donor behind.
func ResolveInTx(ctx context.Context, tx *gorm.DB, in ResolveInput) (Donor, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var existing Donor
	if email != "" {
		err := tx.WithContext(ctx).First(&existing, "donor_email = ?", email).Error
		if err == nil {
			return overlay(ctx, tx, existing, in)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return Donor{}, err
		}
	}

	now := time.Now()
	d := Donor{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if d.Name == "" {
		d.Name = "Unknown"
	}
	if email != "" {
		d.Email = &email
	}
	if p := strings.TrimSpace(in.Phone); p != "" {
		d.Phone = &p
	}
	applyAddress(&d, in.Address)

	if err := tx.WithContext(ctx).Create(&d).Error; err != nil {
		return Donor{}, err
	}
	return d, nil
}

func overlay(ctx context.Context, tx *gorm.DB, d Donor, in ResolveInput) (Donor, error) {
	updates := map[string]any{"updated_at": time.Now()}

	if n := strings.TrimSpace(in.Name); n != "" && n != "Unknown" {
		d.Name = n
		updates["donor_name"] = n
	}
	if p := strings.TrimSpace(in.Phone); p != "" {
		d.Phone = &p
		updates["phone"] = p
	}
	if !in.Address.Empty() {
		applyAddress(&d, in.Address)
		updates["shipping_street"] = d.ShippingStreet
		updates["shipping_apartment"] = d.ShippingApartment
		updates["shipping_city"] = d.ShippingCity
		updates["shipping_state"] = d.ShippingState
		updates["shipping_zip_code"] = d.ShippingZipCode
	}

	if err := tx.WithContext(ctx).Model(&Donor{}).
		Where("donor_id = ?", d.ID).
		Updates(updates).Error; err != nil {
		return Donor{}, err
	}
	return d, nil
}

func applyAddress(d *Donor, a Address) {
	set := func(dst **string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = &v
		}
	}
	set(&d.ShippingStreet, a.Street)
	set(&d.ShippingApartment, a.Apartment)
	set(&d.ShippingCity, a.City)
	set(&d.ShippingState, a.State)
	set(&d.ShippingZipCode, a.ZipCode)
}
