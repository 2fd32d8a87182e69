package postgres

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"user-list-service/internal/domain/user"
	"user-list-service/pkg/database"
	apperrors "user-list-service/pkg/errors"
)

const createUserTableSQL = `CREATE TABLE "user" (
	user_id  TEXT PRIMARY KEY,
	username TEXT NOT NULL,
	email    TEXT NOT NULL
)`

func setupTestPool(t *testing.T) *database.Pool {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "users.db") + "?_pragma=busy_timeout(5000)"
	pool, err := database.Open(context.Background(), sqlite.Open(dsn), database.Config{
		MaxConnections: 2,
		AcquireTimeout: time.Second,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pool.Close()
	})

	require.NoError(t, pool.WithConn(context.Background(), func(conn *database.Conn) error {
		return conn.DB(context.Background()).Exec(createUserTableSQL).Error
	}))

	return pool
}

func seedUsers(t *testing.T, pool *database.Pool, users ...UserSchema) {
	t.Helper()
	if len(users) == 0 {
		return
	}
	require.NoError(t, pool.WithConn(context.Background(), func(conn *database.Conn) error {
		return conn.DB(context.Background()).Create(&users).Error
	}))
}

func listWithConn(t *testing.T, pool *database.Pool, repo *UserRepoPG, limit int) ([]user.User, error) {
	t.Helper()
	ctx := context.Background()

	conn, err := pool.Acquire(ctx)
	require.NoError(t, err)
	defer conn.Release()

	return repo.List(ctx, conn, limit)
}

func TestUserRepoPG_List(t *testing.T) {
	tests := []struct {
		name     string
		seed     []UserSchema
		limit    int
		expected []user.User
	}{
		{
			name:     "empty table",
			limit:    100,
			expected: []user.User{},
		},
		{
			name: "two rows",
			seed: []UserSchema{
				{UserID: "u1", Username: "alice", Email: "a@x"},
				{UserID: "u2", Username: "bob", Email: "b@x"},
			},
			limit: 100,
			expected: []user.User{
				{UserID: "u1", Username: "alice", Email: "a@x"},
				{UserID: "u2", Username: "bob", Email: "b@x"},
			},
		},
		{
			name: "ordered by user_id regardless of insertion order",
			seed: []UserSchema{
				{UserID: "u3", Username: "carol", Email: "c@x"},
				{UserID: "u1", Username: "alice", Email: "a@x"},
				{UserID: "u2", Username: "bob", Email: "b@x"},
			},
			limit: 100,
			expected: []user.User{
				{UserID: "u1", Username: "alice", Email: "a@x"},
				{UserID: "u2", Username: "bob", Email: "b@x"},
				{UserID: "u3", Username: "carol", Email: "c@x"},
			},
		},
		{
			name: "limit applied after ordering",
			seed: []UserSchema{
				{UserID: "b", Username: "b", Email: "b"},
				{UserID: "a", Username: "a", Email: "a"},
				{UserID: "c", Username: "c", Email: "c"},
			},
			limit: 2,
			expected: []user.User{
				{UserID: "a", Username: "a", Email: "a"},
				{UserID: "b", Username: "b", Email: "b"},
			},
		},
		{
			name: "values are passed through untouched",
			seed: []UserSchema{
				{UserID: " U1 ", Username: "", Email: "NOT-AN-EMAIL"},
			},
			limit: 100,
			expected: []user.User{
				{UserID: " U1 ", Username: "", Email: "NOT-AN-EMAIL"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := setupTestPool(t)
			seedUsers(t, pool, tt.seed...)
			repo := NewUserRepoPG(zaptest.NewLogger(t))

			users, err := listWithConn(t, pool, repo, tt.limit)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, users)
			assert.Equal(t, 0, pool.Stats().InUse)
		})
	}
}

func TestUserRepoPG_List_Cap(t *testing.T) {
	pool := setupTestPool(t)

	seed := make([]UserSchema, 0, 150)
	for i := 150; i >= 1; i-- {
		id := fmt.Sprintf("u%03d", i)
		seed = append(seed, UserSchema{UserID: id, Username: "name-" + id, Email: id + "@x"})
	}
	seedUsers(t, pool, seed...)

	users, err := listWithConn(t, pool, NewUserRepoPG(zaptest.NewLogger(t)), 100)

	require.NoError(t, err)
	require.Len(t, users, 100)
	assert.Equal(t, "u001", users[0].UserID)
	assert.Equal(t, "u100", users[99].UserID)
}

func TestUserRepoPG_List_NullColumnIsDecodeError(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "nullable.db")
	pool, err := database.Open(context.Background(), sqlite.Open(dsn), database.Config{
		MaxConnections: 1,
		AcquireTimeout: time.Second,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer pool.Close()

	// a table that does not enforce NOT NULL, as a drifted schema would
	require.NoError(t, pool.WithConn(context.Background(), func(conn *database.Conn) error {
		db := conn.DB(context.Background())
		if err := db.Exec(`CREATE TABLE "user" (user_id TEXT PRIMARY KEY, username TEXT, email TEXT)`).Error; err != nil {
			return err
		}
		return db.Exec(`INSERT INTO "user" (user_id, username, email) VALUES ('u1', 'alice', NULL)`).Error
	}))

	users, err := listWithConn(t, pool, NewUserRepoPG(zaptest.NewLogger(t)), 100)

	require.Error(t, err)
	assert.Nil(t, users)
	assert.True(t, apperrors.Is(err, apperrors.KindDecode))
	assert.Equal(t, 0, pool.Stats().InUse)
}

func TestUserRepoPG_List_MissingTableIsQueryError(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "empty.db")
	pool, err := database.Open(context.Background(), sqlite.Open(dsn), database.Config{
		MaxConnections: 1,
		AcquireTimeout: time.Second,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer pool.Close()

	users, err := listWithConn(t, pool, NewUserRepoPG(zaptest.NewLogger(t)), 100)

	require.Error(t, err)
	assert.Nil(t, users)
	assert.True(t, apperrors.Is(err, apperrors.KindQuery))
	assert.Contains(t, err.Error(), "user")
}

func TestUserRepoPG_List_CancelledContextReleasesConnection(t *testing.T) {
	pool := setupTestPool(t)
	seedUsers(t, pool, UserSchema{UserID: "u1", Username: "alice", Email: "a@x"})
	repo := NewUserRepoPG(zaptest.NewLogger(t))

	conn, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// a driver may finish a fast query despite the cancellation; either outcome is fine
	_, _ = repo.List(ctx, conn, 100)

	require.NoError(t, conn.Release())
	assert.Equal(t, 0, pool.Stats().InUse)

	// the pool still serves after the abandoned query
	users, err := listWithConn(t, pool, repo, 100)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 0, pool.Stats().InUse)
}
