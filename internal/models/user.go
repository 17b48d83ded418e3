package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// User is the teacher account. Either email or phone identifies it.
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name" validate:"required"`
	Email        *string   `db:"email" json:"email,omitempty" validate:"omitempty,email"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	School       *string   `db:"school" json:"school,omitempty"`
	PasswordHash []byte    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (u *User) Validate() error {
	validate := validator.New()
	return validate.Struct(u)
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// SessionInfo mirrors what the session manager keeps in redis per token.
type SessionInfo struct {
	Token           string    `json:"token"`
	UserID          string    `json:"user_id"`
	RequestCount    int       `json:"request_count"`
	LastRequestTime time.Time `json:"last_request_dttm_utc"`
	CreatedTime     time.Time `json:"created_dttm_utc"`
}
