package postgres

import (
	"context"

	"go.uber.org/zap"

	"user-list-service/internal/domain/user"
	"user-list-service/pkg/database"
	apperrors "user-list-service/pkg/errors"
	"user-list-service/pkg/logger"
)

// UserRepoPG reads user records over a borrowed connection.
type UserRepoPG struct {
	log *zap.Logger
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{log: log}
}

// UserSchema is the row shape of the "user" table. All three columns are NOT NULL.
type UserSchema struct {
	UserID   string `gorm:"column:user_id;primaryKey"`
	Username string `gorm:"column:username;not null"`
	Email    string `gorm:"column:email;not null"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "user"
}

// List returns at most limit users ordered by user_id, read on conn.
//
// Rows are scanned into plain strings, so a NULL in any column fails the
// whole call with a decode error instead of producing an empty field.
func (r *UserRepoPG) List(ctx context.Context, conn *database.Conn, limit int) ([]user.User, error) {
	log := logger.WithContext(ctx, r.log)

	rows, err := conn.DB(ctx).
		Model(&UserSchema{}).
		Select("user_id", "username", "email").
		Order("user_id ASC").
		Limit(limit).
		Rows()
	if err != nil {
		log.Error("failed to list users from db", zap.Int("limit", limit), zap.Error(err))
		return nil, apperrors.Query(err)
	}
	defer rows.Close()

	users := make([]user.User, 0, limit)
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.UserID, &u.Username, &u.Email); err != nil {
			log.Error("failed to decode user row", zap.Int("row", len(users)), zap.Error(err))
			return nil, apperrors.Decode(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		log.Error("failed to iterate user rows", zap.Int("rows_read", len(users)), zap.Error(err))
		return nil, apperrors.Query(err)
	}

	log.Debug("users listed", zap.Int("count", len(users)), zap.Int("limit", limit))
	return users, nil
}
