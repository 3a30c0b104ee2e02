package catalog

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

type ListRecordsParams struct {
	Page    int
	PerPage int
	MinFee  *float64
	MaxFee  *float64
	Search  string
	Adopted *bool
}

type ListRecordsResult struct {
	Items []HistoricalRecord
	Total int64
}

func (r *Repo) ListRecords(ctx context.Context, in ListRecordsParams) (ListRecordsResult, error) {
	page, size := clampPage(in.Page, in.PerPage, 50)

	q := r.db.WithContext(ctx).Model(&HistoricalRecord{})
	if in.MinFee != nil {
		q = q.Where("fee >= ?", *in.MinFee)
	}
	if in.MaxFee != nil {
		q = q.Where("fee <= ?", *in.MaxFee)
	}
	if s := strings.TrimSpace(in.Search); s != "" {
		like := "%" + s + "%"
		q = q.Where("item_name LIKE ? OR item_description LIKE ?", like, like)
	}
	if in.Adopted != nil {
		q = q.Where("adopted = ?", *in.Adopted)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return ListRecordsResult{}, err
	}

	var items []HistoricalRecord
	err := q.
		Order("adopted ASC, created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error
	if err != nil {
		return ListRecordsResult{}, err
	}
	return ListRecordsResult{Items: items, Total: total}, nil
}

func (r *Repo) GetRecord(ctx context.Context, id string) (HistoricalRecord, error) {
	var rec HistoricalRecord
	err := r.db.WithContext(ctx).First(&rec, "item_id = ?", id).Error
	return rec, err
}

type ListBondsParams struct {
	Page     int
	PerPage  int
	Status   string
	Type     string
	YearFrom *int
	YearTo   *int
	MinPrice *float64
	MaxPrice *float64
}

type ListBondsResult struct {
	Items []Bond
	Total int64
}

func (r *Repo) ListBonds(ctx context.Context, in ListBondsParams) (ListBondsResult, error) {
	page, size := clampPage(in.Page, in.PerPage, 50)

	q := r.db.WithContext(ctx).Model(&Bond{})
	if s := strings.TrimSpace(in.Status); s != "" {
		q = q.Where("status = ?", s)
	}
	if t := strings.TrimSpace(in.Type); t != "" {
		q = q.Where("type = ?", t)
	}
	if in.YearFrom != nil {
		q = q.Where("issue_date >= ?", time.Date(*in.YearFrom, 1, 1, 0, 0, 0, 0, time.UTC))
	}
	if in.YearTo != nil {
		q = q.Where("issue_date < ?", time.Date(*in.YearTo+1, 1, 1, 0, 0, 0, 0, time.UTC))
	}
	if in.MinPrice != nil {
		q = q.Where("retail_price >= ?", *in.MinPrice)
	}
	if in.MaxPrice != nil {
		q = q.Where("retail_price <= ?", *in.MaxPrice)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return ListBondsResult{}, err
	}

	var items []Bond
	err := q.
		Order("sort_order IS NULL, sort_order ASC, bond_id ASC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error
	if err != nil {
		return ListBondsResult{}, err
	}
	return ListBondsResult{Items: items, Total: total}, nil
}

func (r *Repo) GetBond(ctx context.Context, id string) (Bond, error) {
	var b Bond
	err := r.db.WithContext(ctx).First(&b, "bond_id = ?", id).Error
	return b, err
}

// LockRecord / LockBond take a row lock inside the caller's transaction so
// two captures racing on the same item serialize on the storage engine.
// sqlite has no FOR UPDATE; its single writer covers the same ground.

func LockRecord(ctx context.Context, tx *gorm.DB, id string) (HistoricalRecord, error) {
	var rec HistoricalRecord
	err := lockClause(tx.WithContext(ctx)).First(&rec, "item_id = ?", id).Error
	return rec, err
}

func LockBond(ctx context.Context, tx *gorm.DB, id string) (Bond, error) {
	var b Bond
	err := lockClause(tx.WithContext(ctx)).First(&b, "bond_id = ?", id).Error
	return b, err
}

func lockClause(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func (r *Repo) SetRecordImage(ctx context.Context, id, url, alt string) error {
	return r.db.WithContext(ctx).Model(&HistoricalRecord{}).
		Where("item_id = ?", id).
		Updates(map[string]any{
			"item_img_url": url,
			"item_img_alt": alt,
			"photo":        true,
			"updated_at":   time.Now(),
		}).Error
}

func (r *Repo) SetBondImage(ctx context.Context, id, side, url string) error {
	col := "front_image"
	if side == "back" {
		col = "back_image"
	}
	return r.db.WithContext(ctx).Model(&Bond{}).
		Where("bond_id = ?", id).
		Updates(map[string]any{
			col:          url,
			"updated_at": time.Now(),
		}).Error
}

// BulkUpdateStatus flips adoption/availability for a batch of ids in one
// round trip per table. UUIDs go to historical_records, the rest to bonds.
func (r *Repo) BulkUpdateStatus(ctx context.Context, recordIDs, bondIDs []string, available bool) (int64, error) {
	var updated int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if len(recordIDs) > 0 {
			values := map[string]any{"adopted": !available, "updated_at": now}
			if available {
				values["adoption_date"] = nil
			} else {
				values["adoption_date"] = now
			}
			res := tx.Model(&HistoricalRecord{}).
				Where("item_id IN ?", recordIDs).
				Updates(values)
			if res.Error != nil {
				return res.Error
			}
			updated += res.RowsAffected
		}
		if len(bondIDs) > 0 {
			status := BondPurchased
			if available {
				status = BondAvailable
			}
			res := tx.Model(&Bond{}).
				Where("bond_id IN ?", bondIDs).
				Updates(map[string]any{"status": status, "updated_at": now})
			if res.Error != nil {
				return res.Error
			}
			updated += res.RowsAffected
		}
		return nil
	})
	return updated, err
}

func clampPage(page, size, maxSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > maxSize {
		size = 20
	}
	return page, size
}
