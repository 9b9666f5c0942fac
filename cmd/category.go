package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/frahmantamala/deptdesk/internal/category"
	categoryPostgres "github.com/frahmantamala/deptdesk/internal/category/postgres"
	"github.com/frahmantamala/deptdesk/pkg/logger"
	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage the expense category catalogue",
}

var enableCategoryCmd = &cobra.Command{
	Use:   "enable [name]",
	Short: "Accept new expenses in a category",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setCategoryActive(args[0], true)
	},
}

var disableCategoryCmd = &cobra.Command{
	Use:   "disable [name]",
	Short: "Stop accepting new expenses in a category",
	Long:  `Hide a category from the catalogue. Expenses already filed under it keep their category.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setCategoryActive(args[0], false)
	},
}

func setCategoryActive(name string, active bool) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, sqlxDB, err := initDB(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer sqlxDB.Close()

	service := category.NewService(categoryPostgres.NewCategoryRepository(db), logger.LoggerWrapper())
	c, err := service.SetActive(context.Background(), name, active)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to update category %q: %v\n", name, err)
		os.Exit(1)
	}
	fmt.Printf("Category %s active=%t\n", c.Name, c.IsActive)
}

func init() {
	categoryCmd.AddCommand(enableCategoryCmd)
	categoryCmd.AddCommand(disableCategoryCmd)

	rootCmd.AddCommand(categoryCmd)
}
