package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const (
	LeaveRequestCreated  = "leave_request.created"
	LeaveRequestApproved = "leave_request.approved"
	LeaveRequestDenied   = "leave_request.denied"
	LeaveRequestDeleted  = "leave_request.deleted"
)

type LeaveLifecycleEvent struct {
	EventType      string    `json:"event_type"`
	LeaveRequestID string    `json:"leave_request_id"`
	RequesterID    string    `json:"requester_id"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	DaysRequested  int       `json:"days_requested"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}
