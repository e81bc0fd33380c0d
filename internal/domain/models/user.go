package models

import "time"

// User is the public view of an auth-stub account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// StoredUser is the record kept in the key-value store.
type StoredUser struct {
	User
	PasswordHash string `json:"passwordHash"`
}

// Credentials are opaque trading API strings, stored unencrypted.
type Credentials struct {
	Key    string `json:"key"`
	Secret string `json:"secret"`
}
