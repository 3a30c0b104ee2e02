package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/cache"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/config"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/http/handlers"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/http/middleware"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/mailer"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/modules/catalog"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/modules/checkout"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/modules/transactions"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/storage"
)

type Deps struct {
	Logger   *slog.Logger
	DB       *gorm.DB
	Cfg      config.Config
	Provider checkout.Provider
	Storage  storage.Storage
	Mailer   mailer.Service
}

// NewRouter wires every route. Admin sessions live in their own cache so
// clearing the content cache does not log the admin out.
func NewRouter(d Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.ErrorHandler(d.Logger))

	contentCache := cache.New()
	sessions := middleware.NewAdminSessions(cache.New())

	catalogRepo := catalog.NewRepo(d.DB)
	txRepo := transactions.NewRepo(d.DB)
	checkoutSvc := checkout.NewService(d.DB, d.Provider, d.Logger)

	checkoutH := handlers.NewCheckoutHandler(d.Logger, checkoutSvc, contentCache, d.Mailer, d.Cfg.Mail)
	recordsH := handlers.NewRecordsHandler(d.Logger, catalogRepo, contentCache)
	bondsH := handlers.NewBondsHandler(d.Logger, catalogRepo, contentCache)
	txH := handlers.NewTransactionsHandler(d.Logger, txRepo, contentCache)
	adminH := handlers.NewAdminHandler(d.Logger, catalogRepo, checkoutSvc, contentCache)
	authH := handlers.NewAdminAuthHandler(d.Logger, d.Cfg.Admin, sessions)
	imagesH := handlers.NewImagesHandler(d.Logger, catalogRepo, d.Storage, contentCache)
	healthH := handlers.NewHealthHandler(d.DB)

	r.GET("/healthz", healthH.Check)

	r.GET("/records", recordsH.List)
	r.GET("/records/:id", recordsH.Get)
	r.GET("/bonds", bondsH.List)
	r.GET("/bonds/:id", bondsH.Get)

	r.POST("/create-order", checkoutH.CreateOrder)
	r.POST("/capture-order/:order_id", checkoutH.CaptureOrder)

	r.POST("/admin/login", authH.Login)

	admin := r.Group("/admin", middleware.RequireAdmin(sessions))
	{
		admin.POST("/logout", authH.Logout)
		admin.GET("/transactions", txH.History)
		admin.GET("/donors/:id/summary", txH.DonorSummary)
		admin.GET("/analytics/transactions", txH.Analytics)
		admin.POST("/records/status", adminH.SetRecordStatus)
		admin.POST("/items/bulk-status", adminH.BulkStatus)
		admin.POST("/records/:id/image", imagesH.UploadRecordImage)
		admin.POST("/bonds/:id/image", imagesH.UploadBondImage)
		admin.POST("/cache/clear", adminH.ClearCache)
	}

	return r
}
