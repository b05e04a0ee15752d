package user

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	usererrors "github.com/mythicalbadger/swe-hw1-backend/internal/user/errors"
)

// Ledger owns all mutations of a user's remaining leave days. It applies the
// delta blindly with a single atomic UPDATE; callers validate available
// balance before deducting.
//
//go:generate mockgen -source=balance_ledger.go -destination=mock/balance_ledger_mock.go -package=mock
type Ledger interface {
	Deduct(ctx context.Context, userID uuid.UUID, days int) error
	Refund(ctx context.Context, userID uuid.UUID, days int) error
}

type ledger struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewLedger(db *gorm.DB, logger ...*zap.Logger) Ledger {
	l := zap.L().Named("user.ledger")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.ledger")
	}
	return &ledger{db: db, logger: l}
}

func (l *ledger) Deduct(ctx context.Context, userID uuid.UUID, days int) error {
	return l.adjust(ctx, userID, -days)
}

func (l *ledger) Refund(ctx context.Context, userID uuid.UUID, days int) error {
	return l.adjust(ctx, userID, days)
}

func (l *ledger) adjust(ctx context.Context, userID uuid.UUID, delta int) error {
	res := l.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", userID).
		UpdateColumn("remaining_leave_days", gorm.Expr("remaining_leave_days + ?", delta))
	if res.Error != nil {
		l.logger.Error("balance adjustment failed",
			zap.String("user_id", userID.String()),
			zap.Int("delta", delta),
			zap.Error(res.Error),
		)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usererrors.ErrUserNotFound
	}

	l.logger.Debug("balance adjusted",
		zap.String("user_id", userID.String()),
		zap.Int("delta", delta),
	)
	return nil
}
