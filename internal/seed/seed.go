package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	authdomain "github.com/fiscalbr/classtrib/internal/auth/domain"
	"github.com/fiscalbr/classtrib/internal/config"
)

// EnsureAdminUser seeds the bootstrap admin account so a fresh install can
// log in. Existing accounts are never modified.
func EnsureAdminUser(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		return nil
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user authdomain.User
		err := tx.Where("email = ?", email).First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		name := strings.TrimSpace(cfg.AdminName)
		if name == "" {
			name = "Administrador"
		}

		return tx.Create(&authdomain.User{
			ID:           node.Generate(),
			Email:        email,
			Name:         name,
			PasswordHash: string(hash),
			Role:         authdomain.RoleAdmin,
			Active:       true,
		}).Error
	})
}
