package user

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	usererrors "github.com/mythicalbadger/swe-hw1-backend/internal/user/errors"
)

// MapRepositoryError translates storage-level failures into the user error
// taxonomy. Unique-violation detection keys off the username constraint.
func MapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usererrors.ErrUserNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_users_username" {
			return usererrors.ErrUsernameAlreadyTaken
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_users_username") {
		return usererrors.ErrUsernameAlreadyTaken
	}

	return err
}
