package main

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Adds the sort_order column to bonds for databases created before the
// column existed. Safe to re-run.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	apply := func(sql string) {
		if err := db.Exec(sql).Error; err != nil {
			if strings.Contains(err.Error(), "Duplicate column name") ||
				strings.Contains(err.Error(), "Duplicate key name") {
				return
			}
			log.Fatalf("Failed: %v", err)
		}
	}

	apply(`ALTER TABLE bonds ADD COLUMN sort_order INT NULL AFTER vignette`)
	apply(`ALTER TABLE bonds ADD INDEX ix_bonds_sort_order (sort_order)`)

	log.Println("✓ bonds.sort_order migration applied")
}
