package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin makes sure an administrator account exists so approvals are
// possible on a fresh database. Existing accounts are left untouched.
func SeedAdmin(ctx context.Context, repo Repository, username, password string, logger *zap.Logger) error {
	log := logger.Named("user.seed")

	if _, err := repo.FindByUsername(ctx, username); err == nil {
		log.Debug("admin account already present", zap.String("username", username))
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &User{
		ID:                 uuid.New(),
		Username:           username,
		FullName:           "Admin Istrator",
		Password:           string(hashed),
		RemainingLeaveDays: DefaultLeaveAllowance,
		IsAdmin:            true,
	}
	if err := repo.Create(ctx, admin); err != nil {
		return MapRepositoryError(err)
	}

	log.Info("admin account created", zap.String("username", username))
	return nil
}
