package user

// ListUsersRequest represents the request payload for listing users.
// Limit is clamped into [1, MaxListLimit]; zero means MaxListLimit.
type ListUsersRequest struct {
	Limit int
}

// ListUsersResponse represents the response payload for user listing.
// Users is never nil.
type ListUsersResponse struct {
	Users []User
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	UserID   string
	Username string
	Email    string
}
