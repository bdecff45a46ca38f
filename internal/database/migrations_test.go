package database

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rythu-saathi/backend/internal/users"
)

func newMigrationDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:saathi_migrations_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&users.User{}, &migrationRecord{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return db
}

func TestApplyMigrationsNormalizesUserState(t *testing.T) {
	db := newMigrationDatabase(t)

	account := users.User{ID: "user-1", Email: "farmer@example.com", State: "telangana"}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("failed to insert user: %v", err)
	}

	if err := applyMigrations(db, zap.NewNop()); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	var stored users.User
	if err := db.Where("user_id = ?", "user-1").Take(&stored).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if stored.State != "Telangana" {
		t.Fatalf("expected normalized state, got %s", stored.State)
	}

	var record migrationRecord
	if err := db.Where("name = ?", migrationNormalizeUserState).Take(&record).Error; err != nil {
		t.Fatalf("expected migration record to be created: %v", err)
	}
	if record.AppliedAtSeconds == 0 {
		t.Fatalf("expected migration timestamp to be set")
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db := newMigrationDatabase(t)

	if err := applyMigrations(db, zap.NewNop()); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
	if err := applyMigrations(db, zap.NewNop()); err != nil {
		t.Fatalf("failed to reapply migrations: %v", err)
	}

	var count int64
	if err := db.Model(&migrationRecord{}).Where("name = ?", migrationNormalizeUserState).Count(&count).Error; err != nil {
		t.Fatalf("failed to count migration records: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single migration record, got %d", count)
	}
}
