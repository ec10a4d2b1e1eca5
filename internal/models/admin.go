// internal/models/admin.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// AdminUser is a platform operator account. Admins authenticate with email
// and password and are the only actors allowed to verify products. The
// password hash is part of the persisted collection; handlers must expose
// admins through Profile, never the raw record.
type AdminUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"passwordHash"`
	Role         AdminRole `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AdminProfile is the public view of an admin account.
type AdminProfile struct {
	ID    string    `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  AdminRole `json:"role"`
}

func (u *AdminUser) Profile() AdminProfile {
	return AdminProfile{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

func (u *AdminUser) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

func (u *AdminUser) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
