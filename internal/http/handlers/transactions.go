package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/cache"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/http/middleware"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/modules/transactions"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/shared/apperr"
)

type TransactionsHandler struct {
	Logger *slog.Logger
	Repo   *transactions.Repo
	Cache  *cache.Cache
}

func NewTransactionsHandler(logger *slog.Logger, repo *transactions.Repo, c *cache.Cache) *TransactionsHandler {
	return &TransactionsHandler{Logger: logger, Repo: repo, Cache: c}
}

type transactionView struct {
	TransactionID       string    `json:"transaction_id"`
	PayPalTransactionID string    `json:"paypal_transaction_id"`
	ItemID              string    `json:"item_id"`
	DonorID             string    `json:"donor_id"`
	DonorEmail          *string   `json:"donor_email"`
	Fee                 float64   `json:"fee"`
	PaymentStatus       string    `json:"payment_status"`
	PaymentMethod       string    `json:"payment_method"`
	Pickup              bool      `json:"pickup"`
	Timestamp           time.Time `json:"timestamp"`
}

func toTransactionView(t transactions.Transaction) transactionView {
	return transactionView{
		TransactionID:       t.ID,
		PayPalTransactionID: t.PayPalOrderID,
		ItemID:              t.ItemID,
		DonorID:             t.DonorID,
		DonorEmail:          t.DonorEmail,
		Fee:                 t.Fee,
		PaymentStatus:       t.PaymentStatus,
		PaymentMethod:       t.PaymentMethod,
		Pickup:              t.Pickup,
		Timestamp:           t.Timestamp,
	}
}

// GET /admin/transactions
func (h *TransactionsHandler) History(c *gin.Context) {
	res, err := h.Repo.History(c.Request.Context(), transactions.HistoryParams{
		Page:     intQuery(c, "page", 1),
		PerPage:  intQuery(c, "per_page", 20),
		DonorID:  c.Query("donor_id"),
		ItemID:   c.Query("item_id"),
		Status:   c.Query("status"),
		DaysBack: intQuery(c, "days", 30),
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	items := make([]transactionView, 0, len(res.Items))
	for _, t := range res.Items {
		items = append(items, toTransactionView(t))
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": res.Total})
}

// GET /admin/donors/:id/summary
func (h *TransactionsHandler) DonorSummary(c *gin.Context) {
	sum, err := h.Repo.DonorSummary(c.Request.Context(), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		middleware.Fail(c, apperr.NotFoundErr("Donor not found."))
		return
	}
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"donor": gin.H{
			"donor_id":    sum.Donor.ID,
			"donor_name":  sum.Donor.Name,
			"donor_email": sum.Donor.Email,
			"phone":       sum.Donor.Phone,
		},
		"total_donated":     sum.TotalDonated,
		"transaction_count": sum.TransactionCount,
		"adopted_items":     sum.AdoptedItems,
		"last_donation":     sum.LastDonation,
	})
}

// GET /admin/analytics/transactions
func (h *TransactionsHandler) Analytics(c *gin.Context) {
	groupBy := c.DefaultQuery("group_by", "day")
	switch groupBy {
	case "day", "week", "month":
	default:
		middleware.Fail(c, apperr.InvalidErr("Invalid request.", map[string]string{
			"group_by": "Must be one of: day week month.",
		}))
		return
	}

	var start, end time.Time
	if v := c.Query("start"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			middleware.Fail(c, apperr.InvalidErr("Invalid request.", map[string]string{"start": "Use YYYY-MM-DD."}))
			return
		}
		start = t
	}
	if v := c.Query("end"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			middleware.Fail(c, apperr.InvalidErr("Invalid request.", map[string]string{"end": "Use YYYY-MM-DD."}))
			return
		}
		// inclusive end date
		end = t.AddDate(0, 0, 1).Add(-time.Millisecond)
	}

	key := cache.Key("analytics:transactions", map[string]string{
		"start":    c.Query("start"),
		"end":      c.Query("end"),
		"group_by": groupBy,
	})
	if v, ok := h.Cache.Get(key); ok {
		c.JSON(http.StatusOK, v)
		return
	}

	out, err := h.Repo.Analytics(c.Request.Context(), transactions.AnalyticsParams{
		Start:   start,
		End:     end,
		GroupBy: groupBy,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	h.Cache.Set(key, out, cache.TierCold)
	c.JSON(http.StatusOK, out)
}
