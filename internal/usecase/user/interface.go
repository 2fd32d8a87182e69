package user

import (
	"context"

	"user-list-service/pkg/database"
)

// UserUsecase defines the interface for user read operations.
type UserUsecase interface {
	ListUsers(ctx context.Context, conn *database.Conn, in ListUsersRequest) (*ListUsersResponse, error)
}
