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

type RecordsHandler struct {
	Logger *slog.Logger
	Repo   *catalog.Repo
	Cache  *cache.Cache
}

func NewRecordsHandler(logger *slog.Logger, repo *catalog.Repo, c *cache.Cache) *RecordsHandler {
	return &RecordsHandler{Logger: logger, Repo: repo, Cache: c}
}

type recordView struct {
	ItemID          string     `json:"item_id"`
	ItemName        string     `json:"item_name"`
	ItemDescription string     `json:"item_description"`
	Fee             float64    `json:"fee"`
	Photo           bool       `json:"photo"`
	ItemImgURL      *string    `json:"item_img_url"`
	ItemImgAlt      *string    `json:"item_img_alt"`
	Adopted         bool       `json:"adopted"`
	AdoptionDate    *time.Time `json:"adoption_date"`
}

func toRecordView(r catalog.HistoricalRecord) recordView {
	return recordView{
		ItemID:          r.ID,
		ItemName:        r.Name,
		ItemDescription: r.Description,
		Fee:             r.Fee,
		Photo:           r.Photo,
		ItemImgURL:      r.ImgURL,
		ItemImgAlt:      r.ImgAlt,
		Adopted:         r.Adopted,
		AdoptionDate:    r.AdoptionDate,
	}
}

// GET /records
func (h *RecordsHandler) List(c *gin.Context) {
	key := cache.Key("records:list", map[string]string{
		"page":     c.Query("page"),
		"per_page": c.Query("per_page"),
		"min_fee":  c.Query("min_fee"),
		"max_fee":  c.Query("max_fee"),
		"search":   c.Query("search"),
		"adopted":  c.Query("adopted"),
	})
	if v, ok := h.Cache.Get(key); ok {
		c.JSON(http.StatusOK, v)
		return
	}

	res, err := h.Repo.ListRecords(c.Request.Context(), catalog.ListRecordsParams{
		Page:    intQuery(c, "page", 1),
		PerPage: intQuery(c, "per_page", 20),
		MinFee:  floatPtrQuery(c, "min_fee"),
		MaxFee:  floatPtrQuery(c, "max_fee"),
		Search:  c.Query("search"),
		Adopted: boolPtrQuery(c, "adopted"),
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	items := make([]recordView, 0, len(res.Items))
	for _, r := range res.Items {
		items = append(items, toRecordView(r))
	}
	payload := gin.H{"items": items, "total": res.Total}
	h.Cache.Set(key, payload, cache.TierHot)
	c.JSON(http.StatusOK, payload)
}

// GET /records/:id
func (h *RecordsHandler) Get(c *gin.Context) {
	id := c.Param("id")
	key := cache.Key("records:one", map[string]string{"id": id})
	if v, ok := h.Cache.Get(key); ok {
		c.JSON(http.StatusOK, v)
		return
	}

	rec, err := h.Repo.GetRecord(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		middleware.Fail(c, apperr.NotFoundErr("Record not found."))
		return
	}
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	view := toRecordView(rec)
	h.Cache.Set(key, view, cache.TierWarm)
	c.JSON(http.StatusOK, view)
}
