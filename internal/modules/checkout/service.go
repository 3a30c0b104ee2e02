package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/modules/catalog"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/modules/donors"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/modules/transactions"
)

// Surcharges a bond order may legitimately add on top of the retail price.
// Pickup orders pay the base price; shipped orders add handling, and
// international shipping adds on top of that.
const (
	HandlingSurcharge      = 5.00
	InternationalSurcharge = 20.00
)

type Service struct {
	db       *gorm.DB
	provider Provider
	logger   *slog.Logger
}

func NewService(db *gorm.DB, p Provider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, provider: p, logger: logger}
}

type CreateOrderInput struct {
	ItemID string
	Fee    float64
}

// CreateOrder validates the item and fee, then asks the provider for an
// order. No local writes happen here; the capture step owns all persistence.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (CreateOrderResponse, error) {
	ref, ok := ParseItemRef(in.ItemID)
	if !ok {
		return CreateOrderResponse{}, ErrItemNotFound
	}

	base, available, err := s.itemPrice(ctx, ref)
	if err != nil {
		return CreateOrderResponse{}, err
	}
	if !available {
		return CreateOrderResponse{}, ErrItemUnavailable
	}
	if !feeAllowed(ref, base, in.Fee) {
		return CreateOrderResponse{}, ErrFeeMismatch
	}

	resp, err := s.provider.CreateOrder(ctx, CreateOrderRequest{
		ItemID:   ref.ID,
		Fee:      in.Fee,
		Currency: "USD",
	})
	if err != nil {
		return CreateOrderResponse{}, fmt.Errorf("provider create order: %w", err)
	}

	s.logger.InfoContext(ctx, "paypal order created",
		"order_id", resp.ID, "item_id", ref.ID, "fee", in.Fee)
	return resp, nil
}

type CaptureInput struct {
	OrderID string
	ItemID  string
	Fee     float64
	Pickup  bool
}

type CaptureResult struct {
	TransactionID    string
	AlreadyProcessed bool

	// Payer details for the receipt email. Empty on a replay so the
	// caller does not mail twice.
	DonorName  string
	DonorEmail string
	ItemID     string
	Fee        float64
}

// Capture finalizes a provider order: verifies it completed, resolves the
// donor from the provider's payer data, flips the item, and records the
// transaction. Everything local happens in one database transaction; a
// concurrent duplicate loses on the unique order-id index and is resolved by
// re-reading the winner's row.
func (s *Service) Capture(ctx context.Context, in CaptureInput) (CaptureResult, error) {
	orderID := strings.TrimSpace(in.OrderID)
	if orderID == "" {
		return CaptureResult{}, ErrOrderIDRequired
	}

	txRepo := transactions.NewRepo(s.db)
	if existing, found, err := txRepo.GetByPayPalOrderID(ctx, orderID); err != nil {
		return CaptureResult{}, err
	} else if found {
		s.logger.InfoContext(ctx, "capture replay", "order_id", orderID, "transaction_id", existing.ID)
		return CaptureResult{TransactionID: existing.ID, AlreadyProcessed: true}, nil
	}

	ref, ok := ParseItemRef(in.ItemID)
	if !ok {
		return CaptureResult{}, ErrItemNotFound
	}

	// Provider is authoritative for completion status, payer identity, and
	// the amount actually paid. All of this happens before any local write.
	details, err := s.provider.GetOrder(ctx, orderID)
	if err != nil {
		return CaptureResult{}, fmt.Errorf("provider get order: %w", err)
	}
	if details.Status != OrderCompleted {
		s.logger.WarnContext(ctx, "capture rejected: order not completed",
			"order_id", orderID, "status", details.Status)
		return CaptureResult{}, ErrOrderIncomplete
	}
	if details.Amount > 0 && !feeEqual(details.Amount, in.Fee) {
		s.logger.WarnContext(ctx, "capture rejected: fee mismatch",
			"order_id", orderID, "client_fee", in.Fee, "captured_amount", details.Amount)
		return CaptureResult{}, ErrFeeMismatch
	}

	var created transactions.Transaction
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		donor, err := donors.ResolveInTx(ctx, tx, donors.ResolveInput{
			Email:   details.Payer.Email,
			Name:    payerName(details.Payer),
			Phone:   details.Payer.Phone,
			Address: details.Shipping,
		})
		if err != nil {
			return err
		}

		if err := updateItemInTx(ctx, tx, ref, donor.ID, in.Fee, now); err != nil {
			return err
		}

		created = transactions.Transaction{
			ID:            uuid.NewString(),
			PayPalOrderID: orderID,
			ItemID:        ref.ID,
			DonorID:       donor.ID,
			Fee:           in.Fee,
			PaymentStatus: transactions.StatusCompleted,
			PaymentMethod: "PayPal",
			Pickup:        in.Pickup,
			Timestamp:     now,
		}
		if email := strings.ToLower(strings.TrimSpace(details.Payer.Email)); email != "" {
			created.DonorEmail = &email
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		payload := details.Raw
		if len(payload) == 0 {
			payload = []byte("{}")
		}
		ev := PaymentEvent{
			ID:          uuid.NewString(),
			Provider:    s.provider.Name(),
			OrderID:     orderID,
			EventType:   "order.captured",
			PayloadJSON: datatypes.JSON(payload),
			ReceivedAt:  now,
			ProcessedAt: &now,
		}
		return tx.Create(&ev).Error
	})
	if err != nil {
		if isDup(err) {
			// Lost the race; the winner's row is the answer.
			if existing, found, ferr := txRepo.GetByPayPalOrderID(ctx, orderID); ferr == nil && found {
				return CaptureResult{TransactionID: existing.ID, AlreadyProcessed: true}, nil
			}
		}
		s.logger.ErrorContext(ctx, "capture failed",
			"order_id", orderID, "item_id", ref.ID, "err", err)
		return CaptureResult{}, err
	}

	s.logger.InfoContext(ctx, "capture committed",
		"order_id", orderID, "item_id", ref.ID, "transaction_id", created.ID, "fee", in.Fee)
	return CaptureResult{
		TransactionID: created.ID,
		DonorName:     payerName(details.Payer),
		DonorEmail:    strings.TrimSpace(details.Payer.Email),
		ItemID:        ref.ID,
		Fee:           in.Fee,
	}, nil
}

func (s *Service) itemPrice(ctx context.Context, ref ItemRef) (fee float64, available bool, err error) {
	repo := catalog.NewRepo(s.db)
	if ref.IsRecord() {
		rec, err := repo.GetRecord(ctx, ref.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, ErrItemNotFound
		}
		if err != nil {
			return 0, false, err
		}
		return rec.Fee, !rec.Adopted, nil
	}
	b, err := repo.GetBond(ctx, ref.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, ErrItemNotFound
	}
	if err != nil {
		return 0, false, err
	}
	return b.RetailPrice, b.Status == catalog.BondAvailable, nil
}

// updateItemInTx applies the one-way availability transition. Records also
// get a DonorItem link carrying the fee paid.
func updateItemInTx(ctx context.Context, tx *gorm.DB, ref ItemRef, donorID string, fee float64, now time.Time) error {
	if ref.IsRecord() {
		rec, err := catalog.LockRecord(ctx, tx, ref.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Model(&catalog.HistoricalRecord{}).
			Where("item_id = ?", rec.ID).
			Updates(map[string]any{
				"adopted":       true,
				"adoption_date": now,
				"updated_at":    now,
			}).Error; err != nil {
			return err
		}
		link := transactions.DonorItem{
			DonorID:      donorID,
			ItemID:       rec.ID,
			Fee:          fee,
			AdoptionDate: now,
		}
		return tx.Create(&link).Error
	}

	b, err := catalog.LockBond(ctx, tx, ref.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrItemNotFound
	}
	if err != nil {
		return err
	}
	return tx.Model(&catalog.Bond{}).
		Where("bond_id = ?", b.ID).
		Updates(map[string]any{
			"status":     catalog.BondPurchased,
			"updated_at": now,
		}).Error
}

// SetRecordAdoption flips a record's adoption state by hand, outside any
// payment. Adopting requires a donor name and records the attribution the
// same way a capture does; un-adopting clears the date and removes the
// record's donor links.
func (s *Service) SetRecordAdoption(ctx context.Context, itemID, donorName string, adopted bool) error {
	donorName = strings.TrimSpace(donorName)
	if adopted && donorName == "" {
		return ErrDonorNameRequired
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := catalog.LockRecord(ctx, tx, itemID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		if err != nil {
			return err
		}

		now := time.Now()
		if !adopted {
			if err := tx.Where("item_id = ?", rec.ID).
				Delete(&transactions.DonorItem{}).Error; err != nil {
				return err
			}
			return tx.Model(&catalog.HistoricalRecord{}).
				Where("item_id = ?", rec.ID).
				Updates(map[string]any{
					"adopted":       false,
					"adoption_date": nil,
					"updated_at":    now,
				}).Error
		}

		donor, err := donors.ResolveInTx(ctx, tx, donors.ResolveInput{Name: donorName})
		if err != nil {
			return err
		}
		if err := tx.Model(&catalog.HistoricalRecord{}).
			Where("item_id = ?", rec.ID).
			Updates(map[string]any{
				"adopted":       true,
				"adoption_date": now,
				"updated_at":    now,
			}).Error; err != nil {
			return err
		}
		link := transactions.DonorItem{
			DonorID:      donor.ID,
			ItemID:       rec.ID,
			Fee:          rec.Fee,
			AdoptionDate: now,
		}
		return tx.Create(&link).Error
	})
}

func payerName(p Payer) string {
	return strings.TrimSpace(p.GivenName + " " + p.Surname)
}

// feeAllowed: records sell at their configured fee exactly; bonds may add
// the shipping surcharges the storefront quotes.
func feeAllowed(ref ItemRef, base, fee float64) bool {
	if feeEqual(fee, base) {
		return true
	}
	if ref.IsRecord() {
		return false
	}
	for _, extra := range []float64{
		HandlingSurcharge,
		InternationalSurcharge,
		HandlingSurcharge + InternationalSurcharge,
	} {
		if feeEqual(fee, base+extra) {
			return true
		}
	}
	return false
}

func feeEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

func isDup(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// sqlite (tests) reports constraint violations as plain strings
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}
