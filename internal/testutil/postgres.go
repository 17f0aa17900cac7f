package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/GoArmGo/Albumy/internal/database/client"
	"github.com/GoArmGo/Albumy/internal/logger"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// SetupTestDB подключается к TEST_DATABASE_URL, применяет миграции и очищает таблицы.
// Без переменной окружения тест пропускается
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping postgres integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c, err := client.NewClient(ctx, url, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	_, err = c.DB.ExecContext(ctx, `
		TRUNCATE notifications, follows, collects, photo_tags, tags, photos, users
		RESTART IDENTITY CASCADE
	`)
	require.NoError(t, err)

	return c.DB
}

// InsertUser создает подтвержденного пользователя с ролью User напрямую через sql
func InsertUser(t *testing.T, db *sqlx.DB, username string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRowx(`
		INSERT INTO users (username, email, password_hash, confirmed, active, role)
		VALUES ($1, $2, '', true, true, 'User')
		RETURNING id
	`, username, username+"@example.com").Scan(&id)
	require.NoError(t, err)
	return id
}
