package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	userDomain "github.com/shareit-market/service-rental/internal/domain/user"
)

// setupTestDB opens an isolated in-memory sqlite database and migrates the
// full schema. Each test gets its own database, named after the test so
// pooled connections share it.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&UserModel{},
		&RequestModel{},
		&ItemModel{},
		&BookingModel{},
		&CommentModel{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) *userDomain.User {
	t.Helper()
	repo := NewGormUserRepository(db)
	u, err := userDomain.NewUser(name, email)
	require.NoError(t, err)
	saved, err := repo.Save(context.Background(), u)
	require.NoError(t, err)
	return saved
}

func ts(base time.Time, offset time.Duration) time.Time {
	return base.Add(offset).Truncate(time.Millisecond).UTC()
}
