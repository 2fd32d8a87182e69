package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"user-list-service/internal/adapter/gin/middleware"
	"user-list-service/internal/usecase/user"
	apperrors "user-list-service/pkg/errors"
	"user-list-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusClientClosedRequest is logged for requests abandoned by the client.
const statusClientClosedRequest = 499

const jsonContentType = "application/json; charset=utf-8"

var errNoConn = errors.New("no database connection bound to request")

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.UserUsecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.UserUsecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// UserResponse is the wire shape of a user record. Field order is the key order on the wire.
type UserResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ListUsers handles GET /
//
// It must run behind middleware.BorrowConn. The body is a JSON array of at
// most user.MaxListLimit records ordered by user_id; an empty table yields [].
func (h *UserHandler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()

	conn, ok := middleware.ConnFrom(c)
	if !ok {
		h.respondError(c, errNoConn)
		return
	}

	resp, err := h.uc.ListUsers(ctx, conn, user.ListUsersRequest{Limit: user.MaxListLimit})

	// no body is written once the client is gone
	if ctx.Err() != nil {
		logger.WithContext(ctx, h.log).Debug("client went away before response",
			zap.NamedError("context", ctx.Err()),
			zap.Error(err),
		)
		c.AbortWithStatus(statusClientClosedRequest)
		return
	}

	if err != nil {
		h.respondError(c, err)
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i, u := range resp.Users {
		users[i] = UserResponse{
			UserID:   u.UserID,
			Username: u.Username,
			Email:    u.Email,
		}
	}

	h.respondJSON(c, http.StatusOK, users)
}

// respondJSON writes v without HTML escaping, so stored text reaches the
// client byte for byte.
func (h *UserHandler) respondJSON(c *gin.Context, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(status, jsonContentType, bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

// respondError flattens err into a text/plain response carrying its short description.
func (h *UserHandler) respondError(c *gin.Context, err error) {
	status, body := apperrors.Response(err)
	logger.WithContext(c.Request.Context(), h.log).Error("request failed",
		zap.Int("status", status),
		zap.Stringer("kind", apperrors.KindOf(err)),
		zap.Error(err),
	)
	c.String(status, body)
}
