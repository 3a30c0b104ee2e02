package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/modules/catalog"
)

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func datePtr(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

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

	records := []catalog.HistoricalRecord{
		{
			ID:          "5b67e549-5c01-418a-b1cb-9097e7932c2e",
			Name:        "Brooklyn Bridge Drawing no. 4275, Caisson Construction",
			Description: "Among the Archives' more than 10,000 drawing plans for the Brooklyn Bridge, this drawing depicts equipment custom built as part of the underwater caisson to remove rock from beneath the riverbed. Conservation treatment would help to remove some of the discoloration and degradation products from the paper.",
			Fee:         200,
			Photo:       true,
			ImgURL:      strPtr("https://res.cloudinary.com/djozxyart/image/upload/v1712109063/New%20York%20Archival%20Society/Items/brooklyn_bridge_drawing_no._4275_syuybo.jpg"),
			ImgAlt:      strPtr("Brooklyn Bridge drawing no. 4275"),
		},
		{
			ID:          "712beb8b-906b-4c88-a175-818994e6f5c5",
			Name:        "Land Patent of New Utrecht 1686",
			Description: "Hand-written in iron gall ink on parchment, the Dongan Patents established town trustees as the governing bodies for managing common land. The 1686 patent for New Utrecht exhibits numerous creases and folds; adoption supports conservation treatment and proper housing for its long-term preservation.",
			Fee:         200,
			Photo:       true,
			ImgURL:      strPtr("https://res.cloudinary.com/djozxyart/image/upload/v1710461246/New%20York%20Archival%20Society/Items/land_patent_new_utrecht_ss4ifc.jpg"),
			ImgAlt:      strPtr("Land patent of New Utrecht, 1686"),
		},
		{
			ID:          "fdc1319b-0bd2-421d-8cb7-181501285cf5",
			Name:        "Newtown Town Records volume 288",
			Description: "Part of the Archives' Old Town collection, the contents of this volume date from 1714 to 1753 and detail the daily town business of Newtown, Queens during colonial era New York. Conservation treatment is necessary to stabilize the iron gall ink and create a new binding.",
			Fee:         450,
			Photo:       true,
			ImgURL:      strPtr("https://res.cloudinary.com/djozxyart/image/upload/v1710449900/New%20York%20Archival%20Society/Items/newtown_town_records_vol._288_syput3.jpg"),
			ImgAlt:      strPtr("Newtown town records, volume 288"),
		},
		{
			ID:          "2390e83f-70de-4aca-b4b0-4c50b9cd8ff0",
			Name:        "Code of Health Ordinances 1866",
			Description: "The Municipal Library's original copy of the Metropolitan Board of Health's first Code of Health Ordinances has detached covers and a missing spine. Adopting this book will support its preservation and custom housing.",
			Fee:         175,
			Photo:       true,
			ImgURL:      strPtr("https://res.cloudinary.com/djozxyart/image/upload/v1710461446/New%20York%20Archival%20Society/Items/code_of_health_ordinances_1866_fjoa8t.jpg"),
			ImgAlt:      strPtr("Code of Health Ordinances, 1866"),
		},
		{
			ID:          "dde21d40-2dfe-41be-9b3b-e54252ea7ae1",
			Name:        "Brooklyn Bridge Drawing 4269",
			Description: "This drawing by famed draftsman Wilhelm Hildenbrand details specifics of a travelling crane for moving materials in the construction of the Brooklyn Bridge. Drawn in ink and watercolor, it reflects the remarkable detail and artistry that went into each drawing plan for the bridge.",
			Fee:         250,
			Photo:       true,
			ImgURL:      strPtr("https://res.cloudinary.com/djozxyart/image/upload/v1710461246/New%20York%20Archival%20Society/Items/land_patent_new_utrecht_ss4ifc.jpg"),
			ImgAlt:      strPtr("Brooklyn Bridge drawing no. 4269"),
		},
		{
			ID:           "9472695f-d42a-4bd4-be59-d5e2ebc0aa1f",
			Name:         "Annual Report of the Board of Commissioners of the Central Park (1856 - 1870), 12 vols.",
			Description:  "The Municipal Library's collection of Annual Reports of Central Park document the early development and use of the park in the mid to late 1800s. The earliest rare volumes are in need of custom enclosures that will protect the often delicate contents.",
			Fee:          70,
			Photo:        true,
			ImgURL:       strPtr("https://res.cloudinary.com/djozxyart/image/upload/v1710460207/New%20York%20Archival%20Society/Items/Annual_Report_of_the_Board_of_Commissioners_of_the_Central_Park_naoidg.jpg"),
			ImgAlt:       strPtr("Annual report of the Board of Commissioners of the Central Park"),
			Adopted:      true,
			AdoptionDate: datePtr(2024, 3, 14),
		},
		{
			ID:           "22283ffe-067a-41b7-98f2-2ae037f2e029",
			Name:         "Slave Register, Town of Flatlands, 1799",
			Description:  "This volume, which documents the birth of slaves in the Flatlands area of Brooklyn, is a unique record of New York history. Created during the period in which slavery was gradually abolished in the state, it contains the hand-written birth certificates of children born to enslaved women.",
			Fee:          282,
			Photo:        true,
			ImgURL:       strPtr("https://res.cloudinary.com/djozxyart/image/upload/v1710449912/New%20York%20Archival%20Society/Items/slave_register__town_of_flatlands__1799_dxxc20.jpg"),
			ImgAlt:       strPtr("Slave register, town of Flatlands, 1799"),
			Adopted:      true,
			AdoptionDate: datePtr(2024, 3, 14),
		},
	}

	bonds := []catalog.Bond{
		{
			ID:            "BOND-001",
			RetailPrice:   100,
			ParValue:      strPtr("$1,000"),
			IssueDate:     datePtr(1868, 5, 1),
			DueDate:       datePtr(1898, 5, 1),
			Mayor:         strPtr("John T. Hoffman"),
			Comptroller:   strPtr("Richard B. Connolly"),
			Size:          strPtr("14 x 9 in"),
			Type:          strPtr("Central Park Improvement Fund"),
			PurposeOfBond: strPtr("Issued to fund the continued improvement and maintenance of Central Park."),
			Vignette:      strPtr("View of the Lake and Bow Bridge"),
			SortOrder:     intPtr(1),
		},
		{
			ID:            "BOND-002",
			RetailPrice:   150,
			ParValue:      strPtr("$5,000"),
			IssueDate:     datePtr(1871, 11, 1),
			DueDate:       datePtr(1901, 11, 1),
			Mayor:         strPtr("A. Oakey Hall"),
			Comptroller:   strPtr("Andrew H. Green"),
			Size:          strPtr("16 x 10 in"),
			Type:          strPtr("Dock Bond"),
			PurposeOfBond: strPtr("Issued by the Department of Docks to finance construction of the city's waterfront piers."),
			Vignette:      strPtr("Harbor scene with sailing vessels"),
			SortOrder:     intPtr(2),
		},
		{
			ID:            "BOND-003",
			RetailPrice:   125,
			ParValue:      strPtr("$1,000"),
			IssueDate:     datePtr(1876, 7, 1),
			DueDate:       datePtr(1906, 7, 1),
			Mayor:         strPtr("William H. Wickham"),
			Comptroller:   strPtr("Andrew H. Green"),
			Size:          strPtr("14 x 9 in"),
			Type:          strPtr("New York Bridge Bond"),
			PurposeOfBond: strPtr("Issued to fund construction of the East River Bridge, later known as the Brooklyn Bridge."),
			Vignette:      strPtr("Elevation of the bridge towers"),
			SortOrder:     intPtr(3),
		},
		{
			ID:            "BOND-004",
			RetailPrice:   75,
			ParValue:      strPtr("$500"),
			IssueDate:     datePtr(1884, 1, 2),
			DueDate:       datePtr(1914, 1, 2),
			Mayor:         strPtr("Franklin Edson"),
			Comptroller:   strPtr("S. Hastings Grant"),
			Size:          strPtr("12 x 8 in"),
			Type:          strPtr("Croton Water Bond"),
			PurposeOfBond: strPtr("Issued to extend the Croton Aqueduct system supplying fresh water to the city."),
			Vignette:      strPtr("High Bridge over the Harlem River"),
			SortOrder:     intPtr(4),
		},
	}

	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&records)
	if res.Error != nil {
		log.Fatalf("Failed to seed historical records: %v", res.Error)
	}
	log.Printf("✓ historical_records seeded (%d new)", res.RowsAffected)

	res = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&bonds)
	if res.Error != nil {
		log.Fatalf("Failed to seed bonds: %v", res.Error)
	}
	log.Printf("✓ bonds seeded (%d new)", res.RowsAffected)
}
