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
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/modules/catalog"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/shared/apperr"
)

type BondsHandler struct {
	Logger *slog.Logger
	Repo   *catalog.Repo
	Cache  *cache.Cache
}

func NewBondsHandler(logger *slog.Logger, repo *catalog.Repo, c *cache.Cache) *BondsHandler {
	return &BondsHandler{Logger: logger, Repo: repo, Cache: c}
}

type bondView struct {
	BondID        string     `json:"bond_id"`
	RetailPrice   float64    `json:"retail_price"`
	ParValue      *string    `json:"par_value"`
	IssueDate     *time.Time `json:"issue_date"`
	DueDate       *time.Time `json:"due_date"`
	Mayor         *string    `json:"mayor"`
	Comptroller   *string    `json:"comptroller"`
	Size          *string    `json:"size"`
	FrontImage    *string    `json:"front_image"`
	BackImage     *string    `json:"back_image"`
	Status        string     `json:"status"`
	Type          *string    `json:"type"`
	PurposeOfBond *string    `json:"purpose_of_bond"`
	Vignette      *string    `json:"vignette"`
}

func toBondView(b catalog.Bond) bondView {
	return bondView{
		BondID:        b.ID,
		RetailPrice:   b.RetailPrice,
		ParValue:      b.ParValue,
		IssueDate:     b.IssueDate,
		DueDate:       b.DueDate,
		Mayor:         b.Mayor,
		Comptroller:   b.Comptroller,
		Size:          b.Size,
		FrontImage:    b.FrontImage,
		BackImage:     b.BackImage,
		Status:        b.Status,
		Type:          b.Type,
		PurposeOfBond: b.PurposeOfBond,
		Vignette:      b.Vignette,
	}
}

// GET /bonds
func (h *BondsHandler) List(c *gin.Context) {
	key := cache.Key("bonds:list", map[string]string{
		"page":      c.Query("page"),
		"per_page":  c.Query("per_page"),
		"status":    c.Query("status"),
		"type":      c.Query("type"),
		"year_from": c.Query("year_from"),
		"year_to":   c.Query("year_to"),
		"min_price": c.Query("min_price"),
		"max_price": c.Query("max_price"),
	})
	if v, ok := h.Cache.Get(key); ok {
		c.JSON(http.StatusOK, v)
		return
	}

	res, err := h.Repo.ListBonds(c.Request.Context(), catalog.ListBondsParams{
		Page:     intQuery(c, "page", 1),
		PerPage:  intQuery(c, "per_page", 20),
		Status:   c.Query("status"),
		Type:     c.Query("type"),
		YearFrom: intPtrQuery(c, "year_from"),
		YearTo:   intPtrQuery(c, "year_to"),
		MinPrice: floatPtrQuery(c, "min_price"),
		MaxPrice: floatPtrQuery(c, "max_price"),
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	items := make([]bondView, 0, len(res.Items))
	for _, b := range res.Items {
		items = append(items, toBondView(b))
	}
	payload := gin.H{"items": items, "total": res.Total}
	h.Cache.Set(key, payload, cache.TierHot)
	c.JSON(http.StatusOK, payload)
}

// GET /bonds/:id
func (h *BondsHandler) Get(c *gin.Context) {
	id := c.Param("id")
	key := cache.Key("bonds:one", map[string]string{"id": id})
	if v, ok := h.Cache.Get(key); ok {
		c.JSON(http.StatusOK, v)
		return
	}

	b, err := h.Repo.GetBond(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		middleware.Fail(c, apperr.NotFoundErr("Bond not found."))
		return
	}
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	view := toBondView(b)
	h.Cache.Set(key, view, cache.TierWarm)
	c.JSON(http.StatusOK, view)
}
