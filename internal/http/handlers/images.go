package handlers

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/cache"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/http/middleware"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/modules/catalog"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/shared/apperr"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/storage"
)

const maxImageSize = 10 << 20 // 10 MiB

type ImagesHandler struct {
	Logger  *slog.Logger
	Repo    *catalog.Repo
	Storage storage.Storage
	Cache   *cache.Cache
}

func NewImagesHandler(logger *slog.Logger, repo *catalog.Repo, st storage.Storage, c *cache.Cache) *ImagesHandler {
	return &ImagesHandler{Logger: logger, Repo: repo, Storage: st, Cache: c}
}

// POST /admin/records/:id/image
// multipart form: file, alt (optional)
func (h *ImagesHandler) UploadRecordImage(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.Repo.GetRecord(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			middleware.Fail(c, apperr.NotFoundErr("Record not found."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	res, ok := h.storeUpload(c)
	if !ok {
		return
	}

	alt := c.PostForm("alt")
	if err := h.Repo.SetRecordImage(c.Request.Context(), id, res.URL, alt); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	h.Cache.InvalidatePrefix("records")
	h.Logger.InfoContext(c.Request.Context(), "record image uploaded", "item_id", id, "key", res.Key)
	c.JSON(http.StatusOK, gin.H{"url": res.URL})
}

// POST /admin/bonds/:id/image
// multipart form: file, side (front|back, default front)
func (h *ImagesHandler) UploadBondImage(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.Repo.GetBond(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			middleware.Fail(c, apperr.NotFoundErr("Bond not found."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	side := c.DefaultPostForm("side", "front")
	if side != "front" && side != "back" {
		middleware.Fail(c, apperr.InvalidErr("Invalid request.", map[string]string{
			"side": "Must be one of: front back.",
		}))
		return
	}

	res, ok := h.storeUpload(c)
	if !ok {
		return
	}

	if err := h.Repo.SetBondImage(c.Request.Context(), id, side, res.URL); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	h.Cache.InvalidatePrefix("bonds")
	h.Logger.InfoContext(c.Request.Context(), "bond image uploaded", "bond_id", id, "side", side, "key", res.Key)
	c.JSON(http.StatusOK, gin.H{"url": res.URL})
}

func (h *ImagesHandler) storeUpload(c *gin.Context) (storage.PutResult, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		middleware.Fail(c, apperr.InvalidErr("Invalid request.", map[string]string{"file": "This field is required."}))
		return storage.PutResult{}, false
	}
	if fh.Size > maxImageSize {
		middleware.Fail(c, apperr.InvalidErr("File is too large.", map[string]string{"file": "At most 10 MiB."}))
		return storage.PutResult{}, false
	}

	f, err := fh.Open()
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return storage.PutResult{}, false
	}
	defer func(f multipart.File) { _ = f.Close() }(f)

	res, err := h.Storage.Put(c.Request.Context(), f, storage.PutInput{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return storage.PutResult{}, false
	}
	return res, true
}
