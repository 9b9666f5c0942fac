package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/frahmantamala/deptdesk/internal/category"
	categoryPostgres "github.com/frahmantamala/deptdesk/internal/category/postgres"
	"github.com/frahmantamala/deptdesk/internal/core/department"
	"github.com/frahmantamala/deptdesk/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const seedPassword = "password123"

type seedUser struct {
	Name       string
	Email      string
	Department department.Department
}

var seedUsers = []seedUser{
	{"Hana Rahma", "hana.hr@deptdesk.local", department.HR},
	{"Hadi Pratama", "hadi.hr@deptdesk.local", department.HR},
	{"Tio Nugroho", "tio.tech@deptdesk.local", department.Tech},
	{"Tari Wulandari", "tari.tech@deptdesk.local", department.Tech},
	{"Fajar Setiawan", "fajar.finance@deptdesk.local", department.Finance},
	{"Fitri Anggraini", "fitri.finance@deptdesk.local", department.Finance},
	{"Irfan Maulana", "irfan.it@deptdesk.local", department.IT},
	{"Intan Permata", "intan.it@deptdesk.local", department.IT},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with one pair of users per department and the default expense categories.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlxDB.Close()

		ctx := context.Background()
		if clearData {
			if err := clearSeedData(db); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		for _, u := range seedUsers {
			var exists int
			if err := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row().Scan(&exists); err == nil {
				fmt.Println("user already exists:", u.Email)
				continue
			}
			if err := db.Exec("INSERT INTO users (name, email, password_hash, department, created_at, updated_at) VALUES (?, ?, ?, ?, now(), now())",
				u.Name, u.Email, string(hash), string(u.Department)).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Printf("Seeded %s user: %s\n", u.Department, u.Email)
		}

		categories := category.NewService(categoryPostgres.NewCategoryRepository(db), logger.LoggerWrapper())
		created, err := categories.EnsureDefaults(ctx)
		if err != nil {
			log.Fatalf("failed to seed categories: %v", err)
		}
		fmt.Printf("Seeded %d expense categories\n", created)
		fmt.Printf("All seeded users share the password %q\n", seedPassword)
	},
}

func clearSeedData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"team_members", "teams", "expenses", "issues", "users"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}
