package models

// User is the minimal user view needed to deliver risk alerts
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}
