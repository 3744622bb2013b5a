package domain

import (
	"encoding/json"
	"time"
)

// Account es la entidad persistente de una cuenta de usuario.
type Account struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone,omitempty"`
	PasswordHash string          `json:"-"`
	Subscription string          `json:"subscription"`
	History      json.RawMessage `json:"history,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
