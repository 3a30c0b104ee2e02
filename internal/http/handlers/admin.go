package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/cache"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/http/middleware"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/http/validation"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/modules/catalog"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/modules/checkout"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/shared/apperr"
)

const bulkStatusLimit = 1000

type AdminHandler struct {
	Logger *slog.Logger
	Repo   *catalog.Repo
	Svc    *checkout.Service
	Cache  *cache.Cache
}

func NewAdminHandler(logger *slog.Logger, repo *catalog.Repo, svc *checkout.Service, c *cache.Cache) *AdminHandler {
	return &AdminHandler{Logger: logger, Repo: repo, Svc: svc, Cache: c}
}

type recordStatusRequest struct {
	ItemID    string `json:"item_id" binding:"required,uuid"`
	Adopted   *bool  `json:"adopted" binding:"required"`
	DonorName string `json:"donor_name"`
}

// POST /admin/records/status
// Flips a single record's adoption flag, both directions. Adopting needs a
// donor name so the attribution is recorded; un-adopting clears the date
// and the record's donor links.
func (h *AdminHandler) SetRecordStatus(c *gin.Context) {
	var req recordStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Invalid request.", validation.FromBindError(err, &req)))
		return
	}

	err := h.Svc.SetRecordAdoption(c.Request.Context(), req.ItemID, req.DonorName, *req.Adopted)
	switch {
	case errors.Is(err, checkout.ErrDonorNameRequired):
		middleware.Fail(c, apperr.InvalidErr("Invalid request.", map[string]string{
			"donor_name": "Donor name is required to adopt a record.",
		}))
		return
	case errors.Is(err, checkout.ErrItemNotFound):
		middleware.Fail(c, apperr.NotFoundErr("Record not found."))
		return
	case err != nil:
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	h.invalidateCatalog()
	h.Logger.InfoContext(c.Request.Context(), "record status updated",
		"item_id", req.ItemID, "adopted", *req.Adopted)
	c.JSON(http.StatusOK, gin.H{"updated": 1})
}

type bulkStatusRequest struct {
	ItemIDs   []string `json:"item_ids" binding:"required,min=1"`
	Available *bool    `json:"available" binding:"required"`
}

// POST /admin/items/bulk-status
// Accepts a mixed batch: UUIDs address records, everything else bonds.
func (h *AdminHandler) BulkStatus(c *gin.Context) {
	var req bulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Invalid request.", validation.FromBindError(err, &req)))
		return
	}
	if len(req.ItemIDs) > bulkStatusLimit {
		middleware.Fail(c, apperr.InvalidErr("Too many items in one batch.", map[string]string{
			"item_ids": "At most 1000 items per request.",
		}))
		return
	}

	var recordIDs, bondIDs []string
	for _, id := range req.ItemIDs {
		if _, err := uuid.Parse(id); err == nil {
			recordIDs = append(recordIDs, id)
		} else {
			bondIDs = append(bondIDs, id)
		}
	}

	updated, err := h.Repo.BulkUpdateStatus(c.Request.Context(), recordIDs, bondIDs, *req.Available)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	h.invalidateCatalog()
	h.Logger.InfoContext(c.Request.Context(), "bulk status updated",
		"records", len(recordIDs), "bonds", len(bondIDs), "updated", updated)
	c.JSON(http.StatusOK, gin.H{
		"updated":   updated,
		"requested": len(req.ItemIDs),
	})
}

// POST /admin/cache/clear
func (h *AdminHandler) ClearCache(c *gin.Context) {
	n := h.Cache.Len()
	h.Cache.Flush()
	c.JSON(http.StatusOK, gin.H{"cleared": n})
}

func (h *AdminHandler) invalidateCatalog() {
	h.Cache.InvalidatePrefix("records")
	h.Cache.InvalidatePrefix("bonds")
	h.Cache.InvalidatePrefix("analytics")
}
