package transactions

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/modules/donors"
)

const (
	donorJane = "11111111-1111-1111-1111-111111111111"
	donorBob  = "22222222-2222-2222-2222-222222222222"
	recordA   = "5b67e549-5c01-418a-b1cb-9097e7932c2e"
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

	if err := db.AutoMigrate(&donors.Donor{}, &Transaction{}, &DonorItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedDonor(t *testing.T, db *gorm.DB, id, name, email string) {
	t.Helper()
	d := donors.Donor{ID: id, Name: name, Email: &email}
	if err := db.Create(&d).Error; err != nil {
		t.Fatalf("seed donor: %v", err)
	}
}

func seedTransaction(t *testing.T, db *gorm.DB, donorID, itemID, status string, fee float64, at time.Time) Transaction {
	t.Helper()
	tx := Transaction{
		ID:            uuid.NewString(),
		PayPalOrderID: uuid.NewString(),
		ItemID:        itemID,
		DonorID:       donorID,
		Fee:           fee,
		PaymentStatus: status,
		PaymentMethod: "PayPal",
		Timestamp:     at,
	}
	if err := db.Create(&tx).Error; err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
	return tx
}

func TestGetByPayPalOrderID(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedDonor(t, db, donorJane, "Jane Doe", "jane@example.com")
	want := seedTransaction(t, db, donorJane, recordA, StatusCompleted, 200, time.Now())
	repo := NewRepo(db)

	got, found, err := repo.GetByPayPalOrderID(ctx, want.PayPalOrderID)
	if err != nil {
		t.Fatalf("GetByPayPalOrderID() error = %v", err)
	}
	if !found {
		t.Fatal("existing order not found")
	}
	if got.ID != want.ID {
		t.Errorf("id = %q, want %q", got.ID, want.ID)
	}

	_, found, err = repo.GetByPayPalOrderID(ctx, "ORD-MISSING")
	if err != nil {
		t.Fatalf("GetByPayPalOrderID(missing) error = %v", err)
	}
	if found {
		t.Error("missing order reported as found")
	}
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedDonor(t, db, donorJane, "Jane Doe", "jane@example.com")
	seedDonor(t, db, donorBob, "Bob Smith", "bob@example.com")

	now := time.Now()
	seedTransaction(t, db, donorJane, recordA, StatusCompleted, 200, now.Add(-time.Hour))
	seedTransaction(t, db, donorJane, "BOND-001", StatusCompleted, 100, now.Add(-2*time.Hour))
	seedTransaction(t, db, donorBob, "BOND-002", StatusFailed, 150, now.Add(-3*time.Hour))
	seedTransaction(t, db, donorBob, "BOND-002", StatusCompleted, 150, now.AddDate(0, 0, -60))

	repo := NewRepo(db)

	t.Run("default window excludes old rows", func(t *testing.T) {
		res, err := repo.History(ctx, HistoryParams{})
		if err != nil {
			t.Fatalf("History() error = %v", err)
		}
		if res.Total != 3 {
			t.Errorf("total = %d, want 3", res.Total)
		}
		// newest first
		if res.Items[0].Fee != 200 {
			t.Errorf("first item fee = %v, want 200", res.Items[0].Fee)
		}
	})

	t.Run("wider window includes old rows", func(t *testing.T) {
		res, err := repo.History(ctx, HistoryParams{DaysBack: 90})
		if err != nil {
			t.Fatalf("History() error = %v", err)
		}
		if res.Total != 4 {
			t.Errorf("total = %d, want 4", res.Total)
		}
	})

	t.Run("donor filter", func(t *testing.T) {
		res, err := repo.History(ctx, HistoryParams{DonorID: donorJane})
		if err != nil {
			t.Fatalf("History() error = %v", err)
		}
		if res.Total != 2 {
			t.Errorf("total = %d, want 2", res.Total)
		}
	})

	t.Run("item filter", func(t *testing.T) {
		res, err := repo.History(ctx, HistoryParams{ItemID: "BOND-001"})
		if err != nil {
			t.Fatalf("History() error = %v", err)
		}
		if res.Total != 1 {
			t.Errorf("total = %d, want 1", res.Total)
		}
	})

	t.Run("status filter", func(t *testing.T) {
		res, err := repo.History(ctx, HistoryParams{Status: StatusFailed})
		if err != nil {
			t.Fatalf("History() error = %v", err)
		}
		if res.Total != 1 {
			t.Errorf("total = %d, want 1", res.Total)
		}
	})
}

func TestDonorSummary(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedDonor(t, db, donorJane, "Jane Doe", "jane@example.com")

	now := time.Now()
	seedTransaction(t, db, donorJane, recordA, StatusCompleted, 200, now.Add(-time.Hour))
	seedTransaction(t, db, donorJane, "BOND-001", StatusCompleted, 100, now.Add(-2*time.Hour))
	seedTransaction(t, db, donorJane, "BOND-002", StatusFailed, 500, now)

	link := DonorItem{DonorID: donorJane, ItemID: recordA, Fee: 200, AdoptionDate: now}
	if err := db.Create(&link).Error; err != nil {
		t.Fatalf("seed link: %v", err)
	}

	repo := NewRepo(db)
	sum, err := repo.DonorSummary(ctx, donorJane)
	if err != nil {
		t.Fatalf("DonorSummary() error = %v", err)
	}
	if sum.Donor.Name != "Jane Doe" {
		t.Errorf("donor name = %q", sum.Donor.Name)
	}
	// failed transaction excluded
	if sum.TotalDonated != 300 {
		t.Errorf("total donated = %v, want 300", sum.TotalDonated)
	}
	if sum.TransactionCount != 2 {
		t.Errorf("transaction count = %d, want 2", sum.TransactionCount)
	}
	if sum.AdoptedItems != 1 {
		t.Errorf("adopted items = %d, want 1", sum.AdoptedItems)
	}
	if sum.LastDonation == nil {
		t.Error("last donation missing")
	}

	if _, err := repo.DonorSummary(ctx, donorBob); err == nil {
		t.Error("expected error for unknown donor")
	}
}

func TestAnalytics(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedDonor(t, db, donorJane, "Jane Doe", "jane@example.com")

	day1 := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC) // Monday
	day2 := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	day3 := time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC) // following week
	seedTransaction(t, db, donorJane, recordA, StatusCompleted, 200, day1)
	seedTransaction(t, db, donorJane, "BOND-001", StatusCompleted, 100, day2)
	seedTransaction(t, db, donorJane, "BOND-002", StatusCompleted, 150, day3)
	seedTransaction(t, db, donorJane, "BOND-003", StatusFailed, 999, day2)

	repo := NewRepo(db)
	params := AnalyticsParams{
		Start: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("summary", func(t *testing.T) {
		out, err := repo.Analytics(ctx, params)
		if err != nil {
			t.Fatalf("Analytics() error = %v", err)
		}
		s := out.Summary
		if s.TotalTransactions != 3 {
			t.Errorf("transactions = %d, want 3 (failed excluded)", s.TotalTransactions)
		}
		if s.TotalRevenue != 450 {
			t.Errorf("revenue = %v, want 450", s.TotalRevenue)
		}
		if s.MinTransaction != 100 || s.MaxTransaction != 200 {
			t.Errorf("min/max = %v/%v", s.MinTransaction, s.MaxTransaction)
		}
		if s.AverageTransaction != 150 {
			t.Errorf("average = %v, want 150", s.AverageTransaction)
		}
	})

	t.Run("group by day", func(t *testing.T) {
		params := params
		params.GroupBy = "day"
		out, err := repo.Analytics(ctx, params)
		if err != nil {
			t.Fatalf("Analytics() error = %v", err)
		}
		if len(out.TimeSeries) != 3 {
			t.Fatalf("buckets = %d, want 3", len(out.TimeSeries))
		}
		if out.TimeSeries[0].Period != "2025-06-02" || out.TimeSeries[0].Revenue != 200 {
			t.Errorf("first bucket = %+v", out.TimeSeries[0])
		}
	})

	t.Run("group by week buckets on monday", func(t *testing.T) {
		params := params
		params.GroupBy = "week"
		out, err := repo.Analytics(ctx, params)
		if err != nil {
			t.Fatalf("Analytics() error = %v", err)
		}
		if len(out.TimeSeries) != 2 {
			t.Fatalf("buckets = %d, want 2", len(out.TimeSeries))
		}
		if out.TimeSeries[0].Period != "2025-06-02" || out.TimeSeries[0].Transactions != 2 {
			t.Errorf("first week = %+v", out.TimeSeries[0])
		}
		if out.TimeSeries[1].Period != "2025-06-09" {
			t.Errorf("second week = %+v", out.TimeSeries[1])
		}
	})

	t.Run("group by month", func(t *testing.T) {
		params := params
		params.GroupBy = "month"
		out, err := repo.Analytics(ctx, params)
		if err != nil {
			t.Fatalf("Analytics() error = %v", err)
		}
		if len(out.TimeSeries) != 1 || out.TimeSeries[0].Period != "2025-06" {
			t.Errorf("buckets = %+v", out.TimeSeries)
		}
	})

	t.Run("item type split", func(t *testing.T) {
		out, err := repo.Analytics(ctx, params)
		if err != nil {
			t.Fatalf("Analytics() error = %v", err)
		}
		if len(out.ItemTypes) != 2 {
			t.Fatalf("item types = %+v", out.ItemTypes)
		}
		if out.ItemTypes[0].Type != "historical_record" || out.ItemTypes[0].Revenue != 200 {
			t.Errorf("records split = %+v", out.ItemTypes[0])
		}
		if out.ItemTypes[1].Type != "bond" || out.ItemTypes[1].Count != 2 {
			t.Errorf("bonds split = %+v", out.ItemTypes[1])
		}
	})
}
