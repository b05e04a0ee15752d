package leaverequest

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDenied   = "denied"
)

type LeaveRequest struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	RequesterID uuid.UUID `gorm:"column:requester_id;type:uuid;not null;index:idx_leave_requests_requester_dates"`

	Reason    string    `gorm:"column:reason;type:text"`
	StartDate time.Time `gorm:"column:start_date;type:date;not null;index:idx_leave_requests_requester_dates"`
	EndDate   time.Time `gorm:"column:end_date;type:date;not null;index:idx_leave_requests_requester_dates"`

	// DaysRequested is the inclusive day count, fixed at creation and reused
	// for the refund on deletion.
	DaysRequested int `gorm:"column:days_requested;type:int;not null;default:1"`

	Status string `gorm:"column:status;type:varchar(20);not null;default:'pending';index:idx_leave_requests_status"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index:idx_leave_requests_deleted_at"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}
