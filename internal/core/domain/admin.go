package domain

import "time"

// Admin is a privileged identity independent of User. Its presence alone
// grants the admin override.
type Admin struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
