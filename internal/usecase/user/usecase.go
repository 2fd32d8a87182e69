package user

import (
	"context"

	"go.uber.org/zap"

	domain "user-list-service/internal/domain/user"
	"user-list-service/pkg/database"
	apperrors "user-list-service/pkg/errors"
	"user-list-service/pkg/logger"
)

// MaxListLimit is the upper bound on users returned by a single listing.
const MaxListLimit = 100

// Repository defines the data access the use case needs. Every call runs on
// the connection the caller borrowed for the request.
type Repository interface {
	List(ctx context.Context, conn *database.Conn, limit int) ([]domain.User, error)
}

// Usecase implements the user listing.
type Usecase struct {
	repo Repository
	log  *zap.Logger
}

// New creates a new instance of Usecase.
func New(r Repository, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, log: log}
}

// ListUsers returns users ordered by id, capped at MaxListLimit.
// Repository errors are returned as-is so their short text reaches the client.
func (uc *Usecase) ListUsers(ctx context.Context, conn *database.Conn, in ListUsersRequest) (*ListUsersResponse, error) {
	limit := clampLimit(in.Limit)
	log := logger.WithContext(ctx, uc.log)

	domainUsers, err := uc.repo.List(ctx, conn, limit)
	if err != nil {
		log.Warn("failed to list users",
			zap.Int("limit", limit),
			zap.Stringer("kind", apperrors.KindOf(err)),
			zap.Error(err),
		)
		return nil, err
	}

	// the cap holds even if a repository ignores the limit
	if len(domainUsers) > limit {
		domainUsers = domainUsers[:limit]
	}

	users := make([]User, len(domainUsers))
	for i, du := range domainUsers {
		users[i] = User{
			UserID:   du.UserID,
			Username: du.Username,
			Email:    du.Email,
		}
	}

	return &ListUsersResponse{Users: users}, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
