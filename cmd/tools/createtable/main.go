package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

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

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get DB: %v", err)
	}

	sql := `
	CREATE TABLE IF NOT EXISTS donors (
	  donor_id CHAR(36) NOT NULL,
	  donor_name VARCHAR(255) NOT NULL,
	  donor_email VARCHAR(255) NULL,
	  phone VARCHAR(255) NULL,
	  shipping_street VARCHAR(255) NULL,
	  shipping_apartment VARCHAR(255) NULL,
	  shipping_city VARCHAR(100) NULL,
	  shipping_state VARCHAR(100) NULL,
	  shipping_zip_code VARCHAR(20) NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (donor_id),
	  UNIQUE KEY ux_donors_email (donor_email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS historical_records (
	  item_id CHAR(36) NOT NULL,
	  item_name VARCHAR(255) NOT NULL,
	  item_description TEXT,
	  fee DECIMAL(10,2) NOT NULL,
	  photo TINYINT(1) NOT NULL DEFAULT 0,
	  item_img_url VARCHAR(255) NULL,
	  item_img_alt VARCHAR(255) NULL,
	  adopted TINYINT(1) NOT NULL DEFAULT 0,
	  adoption_date DATETIME(3) NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (item_id),
	  KEY ix_historical_records_adopted (adopted)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS bonds (
	  bond_id VARCHAR(255) NOT NULL,
	  retail_price DECIMAL(10,2) NOT NULL,
	  par_value VARCHAR(255) NULL,
	  issue_date DATE NULL,
	  due_date DATE NULL,
	  mayor VARCHAR(100) NULL,
	  comptroller VARCHAR(100) NULL,
	  size VARCHAR(50) NULL,
	  front_image VARCHAR(255) NULL,
	  back_image VARCHAR(255) NULL,
	  status VARCHAR(32) NOT NULL DEFAULT 'available',
	  type VARCHAR(100) NULL,
	  purpose_of_bond TEXT NULL,
	  vignette VARCHAR(255) NULL,
	  sort_order INT NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (bond_id),
	  KEY ix_bonds_status (status),
	  KEY ix_bonds_sort_order (sort_order)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS transactions (
	  transaction_id CHAR(36) NOT NULL,
	  paypal_transaction_id VARCHAR(64) NOT NULL,
	  item_id VARCHAR(255) NOT NULL,
	  donor_id CHAR(36) NOT NULL,
	  donor_email VARCHAR(255) NULL,
	  fee DECIMAL(10,2) NOT NULL,
	  payment_status VARCHAR(32) NOT NULL,
	  payment_method VARCHAR(32) NOT NULL,
	  pickup TINYINT(1) NOT NULL DEFAULT 0,
	  timestamp DATETIME(3) NOT NULL,
	  PRIMARY KEY (transaction_id),
	  UNIQUE KEY ux_transactions_paypal_order (paypal_transaction_id),
	  KEY ix_transactions_item_id (item_id),
	  KEY ix_transactions_donor_id (donor_id),
	  KEY ix_transactions_status (payment_status),
	  KEY ix_transactions_timestamp (timestamp),
	  CONSTRAINT fk_transactions_donor FOREIGN KEY (donor_id) REFERENCES donors(donor_id) ON DELETE RESTRICT
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS donor_items (
	  donor_id CHAR(36) NOT NULL,
	  item_id CHAR(36) NOT NULL,
	  fee DECIMAL(10,2) NOT NULL,
	  adoption_date DATETIME(3) NOT NULL,
	  PRIMARY KEY (donor_id, item_id),
	  CONSTRAINT fk_donor_items_donor FOREIGN KEY (donor_id) REFERENCES donors(donor_id) ON DELETE CASCADE,
	  CONSTRAINT fk_donor_items_item FOREIGN KEY (item_id) REFERENCES historical_records(item_id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS payment_events (
	  id CHAR(36) NOT NULL,
	  provider VARCHAR(32) NOT NULL,
	  order_id VARCHAR(64) NOT NULL,
	  event_type VARCHAR(64) NOT NULL,
	  payload_json JSON NOT NULL,
	  received_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  processed_at DATETIME(3) NULL,
	  process_error VARCHAR(255) NULL,
	  PRIMARY KEY (id),
	  UNIQUE KEY ux_payment_events_provider_order (provider, order_id),
	  KEY ix_payment_events_received_at (received_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`

	if _, err := sqlDB.Exec(sql); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	log.Println("✓ donors table created successfully")
	log.Println("✓ historical_records table created successfully")
	log.Println("✓ bonds table created successfully")
	log.Println("✓ transactions table created successfully")
	log.Println("✓ donor_items table created successfully")
	log.Println("✓ payment_events table created successfully")
}
