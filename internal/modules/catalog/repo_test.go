package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&HistoricalRecord{}, &Bond{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func intp(n int) *int { return &n }

func floatp(f float64) *float64 { return &f }

func boolp(b bool) *bool { return &b }

func seedRecords(t *testing.T, db *gorm.DB) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []HistoricalRecord{
		{ID: "5b67e549-5c01-418a-b1cb-9097e7932c2e", Name: "Brooklyn Bridge Drawing no. 4275", Description: "Caisson construction drawing", Fee: 200, CreatedAt: base},
		{ID: "712beb8b-906b-4c88-a175-818994e6f5c5", Name: "Land Patent of New Utrecht 1686", Description: "Dongan patent on parchment", Fee: 200, CreatedAt: base.Add(time.Hour)},
		{ID: "fdc1319b-0bd2-421d-8cb7-181501285cf5", Name: "Newtown Town Records volume 288", Description: "Old Town collection volume", Fee: 450, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "9472695f-d42a-4bd4-be59-d5e2ebc0aa1f", Name: "Central Park Annual Reports", Description: "Board of Commissioners reports", Fee: 70, Adopted: true, CreatedAt: base.Add(3 * time.Hour)},
	}
	if err := db.Create(&records).Error; err != nil {
		t.Fatalf("seed records: %v", err)
	}
}

func seedBonds(t *testing.T, db *gorm.DB) {
	t.Helper()
	d1868 := time.Date(1868, 5, 1, 0, 0, 0, 0, time.UTC)
	d1876 := time.Date(1876, 7, 1, 0, 0, 0, 0, time.UTC)
	d1884 := time.Date(1884, 1, 2, 0, 0, 0, 0, time.UTC)
	park := "Central Park Improvement Fund"
	bridge := "New York Bridge Bond"
	water := "Croton Water Bond"
	bonds := []Bond{
		{ID: "BOND-001", RetailPrice: 100, Status: BondAvailable, Type: &park, IssueDate: &d1868, SortOrder: intp(2)},
		{ID: "BOND-002", RetailPrice: 150, Status: BondPurchased, Type: &bridge, IssueDate: &d1876, SortOrder: intp(1)},
		{ID: "BOND-003", RetailPrice: 75, Status: BondAvailable, Type: &water, IssueDate: &d1884},
	}
	if err := db.Create(&bonds).Error; err != nil {
		t.Fatalf("seed bonds: %v", err)
	}
}

func TestListRecords(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedRecords(t, db)
	repo := NewRepo(db)

	t.Run("all", func(t *testing.T) {
		res, err := repo.ListRecords(ctx, ListRecordsParams{})
		if err != nil {
			t.Fatalf("ListRecords() error = %v", err)
		}
		if res.Total != 4 {
			t.Errorf("total = %d, want 4", res.Total)
		}
		// available records come first, adopted last
		if res.Items[len(res.Items)-1].ID != "9472695f-d42a-4bd4-be59-d5e2ebc0aa1f" {
			t.Errorf("adopted record not sorted last: %v", res.Items[len(res.Items)-1].ID)
		}
	})

	t.Run("search", func(t *testing.T) {
		res, err := repo.ListRecords(ctx, ListRecordsParams{Search: "Brooklyn"})
		if err != nil {
			t.Fatalf("ListRecords() error = %v", err)
		}
		if res.Total != 1 {
			t.Errorf("total = %d, want 1", res.Total)
		}
	})

	t.Run("search matches description", func(t *testing.T) {
		res, err := repo.ListRecords(ctx, ListRecordsParams{Search: "parchment"})
		if err != nil {
			t.Fatalf("ListRecords() error = %v", err)
		}
		if res.Total != 1 {
			t.Errorf("total = %d, want 1", res.Total)
		}
	})

	t.Run("fee range", func(t *testing.T) {
		res, err := repo.ListRecords(ctx, ListRecordsParams{MinFee: floatp(100), MaxFee: floatp(300)})
		if err != nil {
			t.Fatalf("ListRecords() error = %v", err)
		}
		if res.Total != 2 {
			t.Errorf("total = %d, want 2", res.Total)
		}
	})

	t.Run("adopted filter", func(t *testing.T) {
		res, err := repo.ListRecords(ctx, ListRecordsParams{Adopted: boolp(false)})
		if err != nil {
			t.Fatalf("ListRecords() error = %v", err)
		}
		if res.Total != 3 {
			t.Errorf("total = %d, want 3", res.Total)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		res, err := repo.ListRecords(ctx, ListRecordsParams{Page: 2, PerPage: 3})
		if err != nil {
			t.Fatalf("ListRecords() error = %v", err)
		}
		if res.Total != 4 {
			t.Errorf("total = %d, want 4", res.Total)
		}
		if len(res.Items) != 1 {
			t.Errorf("page 2 items = %d, want 1", len(res.Items))
		}
	})

	t.Run("oversize page clamped", func(t *testing.T) {
		res, err := repo.ListRecords(ctx, ListRecordsParams{Page: -1, PerPage: 10000})
		if err != nil {
			t.Fatalf("ListRecords() error = %v", err)
		}
		if len(res.Items) != 4 {
			t.Errorf("items = %d, want 4", len(res.Items))
		}
	})
}

func TestGetRecord(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedRecords(t, db)
	repo := NewRepo(db)

	rec, err := repo.GetRecord(ctx, "fdc1319b-0bd2-421d-8cb7-181501285cf5")
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if rec.Fee != 450 {
		t.Errorf("fee = %v, want 450", rec.Fee)
	}

	_, err = repo.GetRecord(ctx, "00000000-0000-0000-0000-000000000000")
	if err != gorm.ErrRecordNotFound {
		t.Errorf("missing record error = %v, want ErrRecordNotFound", err)
	}
}

func TestListBonds(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedBonds(t, db)
	repo := NewRepo(db)

	t.Run("sort order first, unordered last", func(t *testing.T) {
		res, err := repo.ListBonds(ctx, ListBondsParams{})
		if err != nil {
			t.Fatalf("ListBonds() error = %v", err)
		}
		if res.Total != 3 {
			t.Fatalf("total = %d, want 3", res.Total)
		}
		got := []string{res.Items[0].ID, res.Items[1].ID, res.Items[2].ID}
		want := []string{"BOND-002", "BOND-001", "BOND-003"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("order = %v, want %v", got, want)
			}
		}
	})

	t.Run("status filter", func(t *testing.T) {
		res, err := repo.ListBonds(ctx, ListBondsParams{Status: BondAvailable})
		if err != nil {
			t.Fatalf("ListBonds() error = %v", err)
		}
		if res.Total != 2 {
			t.Errorf("total = %d, want 2", res.Total)
		}
	})

	t.Run("type filter", func(t *testing.T) {
		res, err := repo.ListBonds(ctx, ListBondsParams{Type: "Croton Water Bond"})
		if err != nil {
			t.Fatalf("ListBonds() error = %v", err)
		}
		if res.Total != 1 {
			t.Errorf("total = %d, want 1", res.Total)
		}
	})

	t.Run("issue year range", func(t *testing.T) {
		res, err := repo.ListBonds(ctx, ListBondsParams{YearFrom: intp(1870), YearTo: intp(1880)})
		if err != nil {
			t.Fatalf("ListBonds() error = %v", err)
		}
		if res.Total != 1 || res.Items[0].ID != "BOND-002" {
			t.Errorf("result = %+v", res)
		}
	})

	t.Run("price range", func(t *testing.T) {
		res, err := repo.ListBonds(ctx, ListBondsParams{MinPrice: floatp(90), MaxPrice: floatp(120)})
		if err != nil {
			t.Fatalf("ListBonds() error = %v", err)
		}
		if res.Total != 1 || res.Items[0].ID != "BOND-001" {
			t.Errorf("result = %+v", res)
		}
	})
}

func TestBulkUpdateStatus(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedRecords(t, db)
	seedBonds(t, db)
	repo := NewRepo(db)

	t.Run("mark unavailable", func(t *testing.T) {
		updated, err := repo.BulkUpdateStatus(ctx,
			[]string{"5b67e549-5c01-418a-b1cb-9097e7932c2e"},
			[]string{"BOND-001"},
			false)
		if err != nil {
			t.Fatalf("BulkUpdateStatus() error = %v", err)
		}
		if updated != 2 {
			t.Errorf("updated = %d, want 2", updated)
		}

		var rec HistoricalRecord
		if err := db.First(&rec, "item_id = ?", "5b67e549-5c01-418a-b1cb-9097e7932c2e").Error; err != nil {
			t.Fatalf("reload record: %v", err)
		}
		if !rec.Adopted || rec.AdoptionDate == nil {
			t.Errorf("record = adopted %v, date %v", rec.Adopted, rec.AdoptionDate)
		}

		var b Bond
		if err := db.First(&b, "bond_id = ?", "BOND-001").Error; err != nil {
			t.Fatalf("reload bond: %v", err)
		}
		if b.Status != BondPurchased {
			t.Errorf("bond status = %q", b.Status)
		}
	})

	t.Run("mark available clears adoption date", func(t *testing.T) {
		updated, err := repo.BulkUpdateStatus(ctx,
			[]string{"9472695f-d42a-4bd4-be59-d5e2ebc0aa1f"},
			[]string{"BOND-002"},
			true)
		if err != nil {
			t.Fatalf("BulkUpdateStatus() error = %v", err)
		}
		if updated != 2 {
			t.Errorf("updated = %d, want 2", updated)
		}

		var rec HistoricalRecord
		if err := db.First(&rec, "item_id = ?", "9472695f-d42a-4bd4-be59-d5e2ebc0aa1f").Error; err != nil {
			t.Fatalf("reload record: %v", err)
		}
		if rec.Adopted || rec.AdoptionDate != nil {
			t.Errorf("record = adopted %v, date %v", rec.Adopted, rec.AdoptionDate)
		}

		var b Bond
		if err := db.First(&b, "bond_id = ?", "BOND-002").Error; err != nil {
			t.Fatalf("reload bond: %v", err)
		}
		if b.Status != BondAvailable {
			t.Errorf("bond status = %q", b.Status)
		}
	})

	t.Run("unknown ids affect nothing", func(t *testing.T) {
		updated, err := repo.BulkUpdateStatus(ctx,
			[]string{"00000000-0000-0000-0000-000000000000"},
			[]string{"BOND-999"},
			true)
		if err != nil {
			t.Fatalf("BulkUpdateStatus() error = %v", err)
		}
		if updated != 0 {
			t.Errorf("updated = %d, want 0", updated)
		}
	})
}

func TestSetImages(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedRecords(t, db)
	seedBonds(t, db)
	repo := NewRepo(db)

	if err := repo.SetRecordImage(ctx, "5b67e549-5c01-418a-b1cb-9097e7932c2e", "/media/abc.jpg", "Caisson drawing"); err != nil {
		t.Fatalf("SetRecordImage() error = %v", err)
	}
	var rec HistoricalRecord
	if err := db.First(&rec, "item_id = ?", "5b67e549-5c01-418a-b1cb-9097e7932c2e").Error; err != nil {
		t.Fatalf("reload record: %v", err)
	}
	if !rec.Photo || rec.ImgURL == nil || *rec.ImgURL != "/media/abc.jpg" {
		t.Errorf("record image = photo %v, url %v", rec.Photo, rec.ImgURL)
	}

	if err := repo.SetBondImage(ctx, "BOND-001", "back", "/media/back.jpg"); err != nil {
		t.Fatalf("SetBondImage() error = %v", err)
	}
	var b Bond
	if err := db.First(&b, "bond_id = ?", "BOND-001").Error; err != nil {
		t.Fatalf("reload bond: %v", err)
	}
	if b.BackImage == nil || *b.BackImage != "/media/back.jpg" {
		t.Errorf("back image = %v", b.BackImage)
	}
	if b.FrontImage != nil {
		t.Errorf("front image set unexpectedly: %v", b.FrontImage)
	}
}
