package model

import "time"

// User statuses
const (
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
)

// User is an account known to the screener. ID is the subject issued by the
// external identity provider; the screener never sees credentials.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"registrationDate"`
	LastLogin   time.Time `json:"lastLogin"`
}

// UserWithBalance is the admin view of a user.
type UserWithBalance struct {
	User
	TokenBalance int64 `json:"tokenBalance"`
}
