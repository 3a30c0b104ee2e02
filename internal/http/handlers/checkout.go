package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/cache"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/config"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/http/middleware"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/http/validation"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/mailer"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/modules/checkout"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/modules/paypal"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/shared/apperr"
)

type CheckoutHandler struct {
	Logger *slog.Logger
	Svc    *checkout.Service
	Cache  *cache.Cache
	Mailer mailer.Service
	Mail   config.Mail
}

func NewCheckoutHandler(logger *slog.Logger, svc *checkout.Service, c *cache.Cache, m mailer.Service, mailCfg config.Mail) *CheckoutHandler {
	return &CheckoutHandler{Logger: logger, Svc: svc, Cache: c, Mailer: m, Mail: mailCfg}
}

type createOrderRequest struct {
	ItemID string  `json:"item_id" binding:"required"`
	Fee    float64 `json:"fee" binding:"required,gt=0"`
}

// POST /create-order
func (h *CheckoutHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Invalid request.", validation.FromBindError(err, &req)))
		return
	}

	resp, err := h.Svc.CreateOrder(c.Request.Context(), checkout.CreateOrderInput{
		ItemID: req.ItemID,
		Fee:    req.Fee,
	})
	if err != nil {
		middleware.Fail(c, mapCheckoutErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": resp.ID, "status": resp.Status})
}

type captureOrderRequest struct {
	ItemID string  `json:"item_id" binding:"required"`
	Fee    float64 `json:"fee" binding:"required,gt=0"`
	Pickup bool    `json:"pickup"`
}

// POST /capture-order/:order_id
func (h *CheckoutHandler) CaptureOrder(c *gin.Context) {
	var req captureOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Invalid request.", validation.FromBindError(err, &req)))
		return
	}

	res, err := h.Svc.Capture(c.Request.Context(), checkout.CaptureInput{
		OrderID: c.Param("order_id"),
		ItemID:  req.ItemID,
		Fee:     req.Fee,
		Pickup:  req.Pickup,
	})
	if err != nil {
		middleware.Fail(c, mapCheckoutErr(err))
		return
	}

	if res.AlreadyProcessed {
		c.JSON(http.StatusOK, gin.H{
			"message":        "Order already processed",
			"transaction_id": res.TransactionID,
		})
		return
	}

	// listings changed; drop cached catalog pages
	h.Cache.InvalidatePrefix("records")
	h.Cache.InvalidatePrefix("bonds")

	h.sendReceipt(c, res)

	c.JSON(http.StatusOK, gin.H{
		"message":        "Success",
		"transaction_id": res.TransactionID,
	})
}

// sendReceipt is best effort. A mail failure never fails the capture; the
// money already moved.
func (h *CheckoutHandler) sendReceipt(c *gin.Context, res checkout.CaptureResult) {
	if h.Mailer == nil || res.DonorEmail == "" {
		return
	}

	name := res.DonorName
	if name == "" {
		name = "Friend of the Archives"
	}
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Thank you for your donation of $%.2f to the New York Archival Society.\n"+
			"Your item (%s) is now recorded under your name.\n\n"+
			"Transaction ID: %s\n\n"+
			"With gratitude,\nThe New York Archival Society",
		name, res.Fee, res.ItemID, res.TransactionID,
	)

	err := h.Mailer.Send(c.Request.Context(), mailer.Email{
		FromName: h.Mail.FromName,
		From:     h.Mail.From,
		To:       []string{res.DonorEmail},
		Subject:  "Thank you for your donation",
		TextBody: body,
	})
	if err != nil {
		h.Logger.ErrorContext(c.Request.Context(), "receipt email failed",
			"transaction_id", res.TransactionID, "err", err)
	}
}

func mapCheckoutErr(err error) error {
	switch {
	case errors.Is(err, checkout.ErrItemNotFound):
		return apperr.NotFoundErr("Item not found.")
	case errors.Is(err, checkout.ErrItemUnavailable):
		return apperr.ConflictErr("Item is no longer available.")
	case errors.Is(err, checkout.ErrFeeMismatch):
		return apperr.InvalidErr("Fee does not match the item price.", nil)
	case errors.Is(err, checkout.ErrOrderIncomplete):
		return apperr.InvalidErr("Payment was not completed.", nil)
	case errors.Is(err, checkout.ErrOrderIDRequired):
		return apperr.InvalidErr("Order id is required.", nil)
	}
	var pe *paypal.APIError
	if errors.As(err, &pe) {
		return apperr.UpstreamErr("Payment provider error.", err)
	}
	return apperr.Wrap(err)
}
