// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	categorydm "github.com/frahmantamala/deptdesk/internal/core/datamodel/category"
	expensedm "github.com/frahmantamala/deptdesk/internal/core/datamodel/expense"
	issuedm "github.com/frahmantamala/deptdesk/internal/core/datamodel/issue"
	teamdm "github.com/frahmantamala/deptdesk/internal/core/datamodel/team"
	userdm "github.com/frahmantamala/deptdesk/internal/core/datamodel/user"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter int64

// NewSQLite returns a migrated in-memory database private to the caller.
// The pool is limited to one connection so every query sees the same
// in-memory schema.
func NewSQLite() (*gorm.DB, error) {
	name := fmt.Sprintf("file:deptdesk_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&userdm.User{},
		&teamdm.Team{},
		&teamdm.Member{},
		&issuedm.Issue{},
		&expensedm.Expense{},
		&categorydm.ExpenseCategory{},
	); err != nil {
		return nil, err
	}
	return db, nil
}

// SQLX exposes the gorm connection pool through sqlx.
func SQLX(db *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(sqlDB, "sqlite3"), nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

var userCounter int64

// SeedUser inserts a user with a unique email. Creation times increase with
// every call so ordering by created_at follows insertion order.
func SeedUser(db *gorm.DB, name, department string) (*userdm.User, error) {
	n := atomic.AddInt64(&userCounter, 1)
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Second)
	u := &userdm.User{
		Name:         name,
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: "x",
		Department:   department,
		CreatedAt:    at,
		UpdatedAt:    at,
	}
	if err := db.Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}
