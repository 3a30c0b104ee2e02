package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/config"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/http/middleware"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/http/validation"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/shared/apperr"
)

var errTokenIssue = errors.New("could not issue session token")

type AdminAuthHandler struct {
	Logger   *slog.Logger
	Admin    config.Admin
	Sessions *middleware.AdminSessions
}

func NewAdminAuthHandler(logger *slog.Logger, admin config.Admin, sessions *middleware.AdminSessions) *AdminAuthHandler {
	return &AdminAuthHandler{Logger: logger, Admin: admin, Sessions: sessions}
}

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /admin/login
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Invalid request.", validation.FromBindError(err, &req)))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if h.Admin.Email == "" || h.Admin.PasswordHash == "" {
		middleware.Fail(c, apperr.UnauthorizedErr("Admin login is not configured."))
		return
	}
	if email != strings.ToLower(h.Admin.Email) {
		// burn a compare anyway so unknown emails cost the same
		_ = bcrypt.CompareHashAndPassword([]byte(h.Admin.PasswordHash), []byte(req.Password))
		middleware.Fail(c, apperr.UnauthorizedErr("Invalid email or password."))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.Admin.PasswordHash), []byte(req.Password)); err != nil {
		h.Logger.WarnContext(c.Request.Context(), "admin login rejected", "email", email)
		middleware.Fail(c, apperr.UnauthorizedErr("Invalid email or password."))
		return
	}

	token := h.Sessions.Issue()
	if token == "" {
		middleware.Fail(c, apperr.Wrap(errTokenIssue))
		return
	}

	h.Logger.InfoContext(c.Request.Context(), "admin login", "email", email)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// POST /admin/logout
func (h *AdminAuthHandler) Logout(c *gin.Context) {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		h.Sessions.Revoke(strings.TrimSpace(auth[len("Bearer "):]))
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
