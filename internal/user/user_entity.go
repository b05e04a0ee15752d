package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultLeaveAllowance is the yearly allotment granted on registration.
const DefaultLeaveAllowance = 42

type User struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Username string    `gorm:"column:username;type:varchar(100);not null;uniqueIndex:uq_users_username"`
	FullName string    `gorm:"column:full_name;type:varchar(255);not null"`
	Password string    `gorm:"column:password;type:text;not null"`

	// RemainingLeaveDays is mutated only through the Ledger.
	RemainingLeaveDays int  `gorm:"column:remaining_leave_days;type:int;not null;default:42"`
	IsAdmin            bool `gorm:"column:is_admin;not null;default:false"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}
