// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"

	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens a private in-memory database with the relational schema migrated.
// The pool is pinned to one connection so every query sees the same memory database.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&models.User{}, &models.Follow{}, &models.Like{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user with the given token identifier and optional username.
func CreateUser(t *testing.T, db *gorm.DB, token, username string) *models.User {
	t.Helper()

	user := &models.User{TokenIdentifier: token, Name: "User " + token}
	if username != "" {
		user.Username = &username
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", token, err)
	}
	return user
}
