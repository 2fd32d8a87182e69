package user

// User is a user record as stored in the "user" table. The service treats
// every field as opaque text: nothing is validated or normalized.
type User struct {
	UserID   string // UserID is the primary key
	Username string // Username is the display name
	Email    string // Email is the contact address
}
