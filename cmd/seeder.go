package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var clearData bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with an admin user and sample assets for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{
				"employee_assets", "repairs", "maintenance_reports", "maintenance_reminders",
				"bill_reports", "bills", "software", "m365_usage",
				"broadband_addons", "broadband_months",
				"fingerprint_audit_outcomes", "fingerprint_audits",
				"assets", "employees",
			} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)

		adminEmail := "admin@sterlingsteels.com"
		var exists int
		row := db.Raw("SELECT 1 FROM users WHERE email = ?", adminEmail).Row()
		if err := row.Scan(&exists); err != nil {
			if err := db.Exec(
				"INSERT INTO users (username, email, password_hash, is_admin, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())",
				"admin", adminEmail, string(hash)).Error; err != nil {
				log.Fatalf("failed to insert admin user: %v", err)
			}
			fmt.Println("Seeded admin user:", adminEmail)
		} else {
			fmt.Println("admin user already exists")
		}

		sampleAssets := []struct {
			Tag      string
			Name     string
			Category string
		}{
			{"LT-0001", "Dell Latitude 5540", "laptop"},
			{"LT-0002", "Lenovo ThinkPad T14", "laptop"},
			{"PR-0001", "HP LaserJet M404", "printer"},
			{"MN-0001", "Dell 24 Monitor", "monitor"},
		}

		for _, a := range sampleAssets {
			row := db.Raw("SELECT 1 FROM assets WHERE asset_tag = ?", a.Tag).Row()
			if err := row.Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec(
				"INSERT INTO assets (asset_tag, name, category, status, purchase_date, created_at, updated_at) VALUES (?, ?, ?, 'available', now(), now(), now())",
				a.Tag, a.Name, a.Category).Error; err != nil {
				log.Fatalf("failed to insert asset %s: %v", a.Tag, err)
			}
			fmt.Printf("Seeded asset: %s\n", a.Tag)
		}

		fmt.Println("Seeding complete")
	},
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
}
