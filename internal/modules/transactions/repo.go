package transactions

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/modules/donors"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) GetByPayPalOrderID(ctx context.Context, orderID string) (Transaction, bool, error) {
	var t Transaction
	err := r.db.WithContext(ctx).First(&t, "paypal_transaction_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Transaction{}, false, nil
	}
	if err != nil {
		return Transaction{}, false, err
	}
	return t, true, nil
}

type HistoryParams struct {
	Page     int
	PerPage  int
	DonorID  string
	ItemID   string
	Status   string
	DaysBack int
}

type HistoryResult struct {
	Items []Transaction
	Total int64
}

func (r *Repo) History(ctx context.Context, in HistoryParams) (HistoryResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PerPage
	if size < 1 || size > 100 {
		size = 20
	}
	days := in.DaysBack
	if days < 1 {
		days = 30
	}

	q := r.db.WithContext(ctx).Model(&Transaction{}).
		Where("timestamp >= ?", time.Now().AddDate(0, 0, -days))
	if d := strings.TrimSpace(in.DonorID); d != "" {
		q = q.Where("donor_id = ?", d)
	}
	if i := strings.TrimSpace(in.ItemID); i != "" {
		q = q.Where("item_id = ?", i)
	}
	if s := strings.TrimSpace(in.Status); s != "" {
		q = q.Where("payment_status = ?", s)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return HistoryResult{}, err
	}

	var items []Transaction
	err := q.
		Order("timestamp DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error
	if err != nil {
		return HistoryResult{}, err
	}
	return HistoryResult{Items: items, Total: total}, nil
}

type DonorSummary struct {
	Donor            donors.Donor
	TotalDonated     float64
	TransactionCount int64
	AdoptedItems     int64
	LastDonation     *time.Time
}

func (r *Repo) DonorSummary(ctx context.Context, donorID string) (DonorSummary, error) {
	var d donors.Donor
	if err := r.db.WithContext(ctx).First(&d, "donor_id = ?", donorID).Error; err != nil {
		return DonorSummary{}, err
	}

	type aggRow struct {
		Total float64
		Count int64
		Last  *time.Time
	}
	var agg aggRow
	err := r.db.WithContext(ctx).Model(&Transaction{}).
		Select("COALESCE(SUM(fee),0) AS total, COUNT(*) AS count, MAX(timestamp) AS last").
		Where("donor_id = ? AND payment_status = ?", donorID, StatusCompleted).
		Scan(&agg).Error
	if err != nil {
		return DonorSummary{}, err
	}

	var adopted int64
	if err := r.db.WithContext(ctx).Model(&DonorItem{}).
		Where("donor_id = ?", donorID).
		Count(&adopted).Error; err != nil {
		return DonorSummary{}, err
	}

	return DonorSummary{
		Donor:            d,
		TotalDonated:     agg.Total,
		TransactionCount: agg.Count,
		AdoptedItems:     adopted,
		LastDonation:     agg.Last,
	}, nil
}

type AnalyticsParams struct {
	Start   time.Time
	End     time.Time
	GroupBy string // day | week | month
}

type AnalyticsSummary struct {
	TotalTransactions  int64   `json:"total_transactions"`
	TotalRevenue       float64 `json:"total_revenue"`
	AverageTransaction float64 `json:"average_transaction"`
	MinTransaction     float64 `json:"min_transaction"`
	MaxTransaction     float64 `json:"max_transaction"`
}

type AnalyticsBucket struct {
	Period       string  `json:"period"`
	Transactions int64   `json:"transactions"`
	Revenue      float64 `json:"revenue"`
}

type ItemTypeStat struct {
	Type    string  `json:"type"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

type Analytics struct {
	Summary    AnalyticsSummary  `json:"summary"`
	TimeSeries []AnalyticsBucket `json:"time_series"`
	ItemTypes  []ItemTypeStat    `json:"item_types"`
}

// Analytics aggregates completed transactions in Go rather than leaning on
// engine-specific date functions, so the same code runs against MySQL in
// production and sqlite in tests.
func (r *Repo) Analytics(ctx context.Context, in AnalyticsParams) (Analytics, error) {
	start, end := in.Start, in.End
	if end.IsZero() {
		end = time.Now()
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -30)
	}

	var rows []Transaction
	err := r.db.WithContext(ctx).
		Where("timestamp BETWEEN ? AND ? AND payment_status = ?", start, end, StatusCompleted).
		Order("timestamp ASC").
		Find(&rows).Error
	if err != nil {
		return Analytics{}, err
	}

	out := Analytics{
		TimeSeries: []AnalyticsBucket{},
		ItemTypes:  []ItemTypeStat{},
	}

	buckets := map[string]*AnalyticsBucket{}
	var order []string
	types := map[string]*ItemTypeStat{}

	for _, t := range rows {
		out.Summary.TotalTransactions++
		out.Summary.TotalRevenue += t.Fee
		if out.Summary.MinTransaction == 0 || t.Fee < out.Summary.MinTransaction {
			out.Summary.MinTransaction = t.Fee
		}
		if t.Fee > out.Summary.MaxTransaction {
			out.Summary.MaxTransaction = t.Fee
		}

		p := bucketKey(t.Timestamp, in.GroupBy)
		b, ok := buckets[p]
		if !ok {
			b = &AnalyticsBucket{Period: p}
			buckets[p] = b
			order = append(order, p)
		}
		b.Transactions++
		b.Revenue += t.Fee

		kind := "bond"
		if len(t.ItemID) == 36 {
			kind = "historical_record"
		}
		ts, ok := types[kind]
		if !ok {
			ts = &ItemTypeStat{Type: kind}
			types[kind] = ts
		}
		ts.Count++
		ts.Revenue += t.Fee
	}

	if out.Summary.TotalTransactions > 0 {
		out.Summary.AverageTransaction = out.Summary.TotalRevenue / float64(out.Summary.TotalTransactions)
	}
	for _, p := range order {
		out.TimeSeries = append(out.TimeSeries, *buckets[p])
	}
	for _, kind := range []string{"historical_record", "bond"} {
		if ts, ok := types[kind]; ok {
			out.ItemTypes = append(out.ItemTypes, *ts)
		}
	}
	return out, nil
}

func bucketKey(t time.Time, groupBy string) string {
	switch groupBy {
	case "week":
		// bucket by the Monday of the week
		monday := t.AddDate(0, 0, -int((t.Weekday()+6)%7))
		return monday.Format("2006-01-02")
	case "month":
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}
