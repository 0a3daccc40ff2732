// Package domain contains core types for the auth service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User represents a system user account. TaxID is the CPF or CNPJ stamped
// onto generated reports.
type User struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	Email        string       `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name         string       `gorm:"type:varchar(255);not null"`
	TaxID        string       `gorm:"column:tax_id;type:varchar(18)"`
	PasswordHash string       `gorm:"column:password_hash;type:text;not null"`
	Role         Role         `gorm:"type:varchar(16);not null;default:'user'"`
	Active       bool         `gorm:"not null;default:true"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

type UserView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	TaxID  string `json:"cpfCnpj,omitempty"`
	Role   Role   `json:"role"`
	Active bool   `json:"active"`
}

func (u *User) View() UserView {
	return UserView{
		ID:     u.ID.String(),
		Email:  u.Email,
		Name:   u.Name,
		TaxID:  u.TaxID,
		Role:   u.Role,
		Active: u.Active,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	TaxID    string `json:"cpfCnpj"`
	Password string `json:"password" binding:"required,min=8"`
	Role     Role   `json:"role"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	TaxID    *string `json:"cpfCnpj"`
	Password *string `json:"password"`
	Role     *Role   `json:"role"`
	Active   *bool   `json:"active"`
}
