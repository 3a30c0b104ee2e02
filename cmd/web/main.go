package main

import (
	"context"
	"log"
	"os"

	"log/slog"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/config"
	apphttp "github.com/nycarchivalsociety/New-York-Archival-Society/internal/http"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/mailer"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/modules/paypal"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/storage"
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	st, err := storage.FromConfig(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	logger.Info("storage ready", "driver", st.Driver)

	var mail mailer.Service
	if cfg.Mail.Host != "" {
		mail = mailer.NewSMTPMailer(cfg.Mail)
	}

	r := apphttp.NewRouter(apphttp.Deps{
		Logger:   logger,
		DB:       db,
		Cfg:      cfg,
		Provider: paypal.NewClient(cfg.PayPal, logger),
		Storage:  st.Storage,
		Mailer:   mail,
	})

	logger.Info("listening", "addr", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
