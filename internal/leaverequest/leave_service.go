package leaverequest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/mythicalbadger/swe-hw1-backend/internal/events"
	leaveerrors "github.com/mythicalbadger/swe-hw1-backend/internal/leaverequest/errors"
	"github.com/mythicalbadger/swe-hw1-backend/internal/messaging/kafka"
	"github.com/mythicalbadger/swe-hw1-backend/internal/shared/contextutil"
	"github.com/mythicalbadger/swe-hw1-backend/internal/user"
)

// AdvanceNoticeDays is the minimum lead time, in whole days, between
// submission and the start of the leave.
const AdvanceNoticeDays = 60

// LeaveAllCacheKey holds the cached GetAll response, invalidated by every
// mutation.
const LeaveAllCacheKey = "leave_requests:all"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, requesterID string, req CreateLeaveRequest) (LeaveRequestResponse, error)
	GetAll(ctx context.Context) ([]LeaveRequestResponse, error)
	GetByRequester(ctx context.Context, requesterID string) ([]LeaveRequestResponse, error)
	GetByID(ctx context.Context, id string) (LeaveRequestResponse, error)
	Approve(ctx context.Context, id, callerID string) (LeaveRequestResponse, error)
	Deny(ctx context.Context, id, callerID string) (LeaveRequestResponse, error)
	Delete(ctx context.Context, id, callerID string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	users  user.Repository
	ledger user.Ledger
	outbox kafka.OutboxRepository // optional, nil disables event publishing
	rdb    *redis.Client          // optional, nil disables the list cache
	sf     *singleflight.Group
	now    func() time.Time
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	users user.Repository,
	ledger user.Ledger,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, users, ledger, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	users user.Repository,
	ledger user.Ledger,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithClock(db, repo, users, ledger, outboxRepo, rdb, time.Now, logger...)
}

// NewServiceWithClock lets tests pin the current moment for the
// advance-notice and deletion timing rules.
func NewServiceWithClock(
	db *sql.DB,
	repo Repository,
	users user.Repository,
	ledger user.Ledger,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	now func() time.Time,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leaverequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.service")
	}
	if now == nil {
		now = time.Now
	}
	return &service{
		db:     db,
		repo:   repo,
		users:  users,
		ledger: ledger,
		outbox: outboxRepo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		now:    now,
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, requesterID string, req CreateLeaveRequest) (LeaveRequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave request requested",
		zap.String("request_id", rid),
		zap.String("requester_id", requesterID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave request begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	requesterUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidRequesterID
	}
	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Warn("create leave request validation failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	daysRequested := daysBetween(startDate, endDate)

	// Rule checks run in a fixed order and the first violation wins:
	// advance notice, then balance, then overlap.
	if wholeDays(startDate.Sub(s.now())) < AdvanceNoticeDays {
		s.logger.Warn("create leave request too soon",
			zap.String("requester_id", requesterID),
			zap.String("start_date", req.StartDate),
		)
		return LeaveRequestResponse{}, leaveerrors.ErrAdvanceNotice
	}

	requester, err := s.users.FindByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrInvalidRequesterID
		}
		s.logger.Error("create leave request requester lookup failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if daysRequested > requester.RemainingLeaveDays {
		s.logger.Warn("create leave request insufficient balance",
			zap.String("requester_id", requesterID),
			zap.Int("days_requested", daysRequested),
			zap.Int("remaining", requester.RemainingLeaveDays),
		)
		return LeaveRequestResponse{}, leaveerrors.ErrInsufficientBalance
	}

	overlap, err := qtx.HasOverlappingStart(ctx, requesterID, startDate)
	if err != nil {
		s.logger.Error("create leave request overlap check failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if overlap {
		s.logger.Warn("create leave request overlap detected",
			zap.String("requester_id", requesterID),
			zap.String("start_date", req.StartDate),
		)
		return LeaveRequestResponse{}, leaveerrors.ErrLeaveOverlap
	}

	lr := &LeaveRequest{
		ID:            uuid.New(),
		RequesterID:   requesterUUID,
		Reason:        req.Reason,
		StartDate:     startDate,
		EndDate:       endDate,
		DaysRequested: daysRequested,
		Status:        StatusPending,
	}

	if err := qtx.Create(ctx, lr); err != nil {
		s.logger.Error("create leave request persist failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if err := s.ledger.Deduct(ctx, requesterUUID, daysRequested); err != nil {
		s.logger.Error("create leave request balance deduct failed",
			zap.String("requester_id", requesterID),
			zap.Int("days", daysRequested),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	if err := s.enqueueLifecycleEvent(ctx, tx, events.LeaveRequestCreated, lr); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave request commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.invalidateListCache(ctx)
	s.logger.Info("create leave request success",
		zap.String("leave_request_id", lr.ID.String()),
		zap.String("requester_id", requesterID),
		zap.Int("days_requested", daysRequested),
	)

	// Return the stored row, not the in-memory struct, so DB-populated
	// columns come back too.
	stored, err := s.repo.FindByID(ctx, lr.ID.String())
	if err != nil {
		s.logger.Warn("create leave request read-back failed", zap.Error(err))
		return mapToResponse(*lr), nil
	}
	return mapToResponse(*stored), nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveRequestResponse, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, LeaveAllCacheKey).Result()
		if err == nil {
			var resp []LeaveRequestResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(LeaveAllCacheKey, func() (interface{}, error) {
		requests, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(requests)

		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, LeaveAllCacheKey, payload, 5*time.Minute)
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]LeaveRequestResponse), nil
}

func (s *service) GetByRequester(ctx context.Context, requesterID string) ([]LeaveRequestResponse, error) {
	if _, err := uuid.Parse(requesterID); err != nil {
		return nil, leaveerrors.ErrInvalidRequesterID
	}

	requests, err := s.repo.FindByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveRequestResponse, error) {
	lr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveRequestResponse{}, err
	}
	return mapToResponse(*lr), nil
}

func (s *service) Approve(ctx context.Context, id, callerID string) (LeaveRequestResponse, error) {
	return s.transitionStatus(ctx, id, callerID, StatusApproved)
}

func (s *service) Deny(ctx context.Context, id, callerID string) (LeaveRequestResponse, error) {
	return s.transitionStatus(ctx, id, callerID, StatusDenied)
}

// transitionStatus sets the status unconditionally once the caller is known
// to be an administrator and the request exists. Approved and denied are not
// guarded against each other; the balance was committed at creation and does
// not move here.
func (s *service) transitionStatus(ctx context.Context, id, callerID, target string) (LeaveRequestResponse, error) {
	s.logger.Debug("transition leave request status requested",
		zap.String("leave_request_id", id),
		zap.String("caller_id", callerID),
		zap.String("target_status", target),
	)

	caller, err := s.users.FindByID(ctx, callerID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("transition leave request status caller lookup failed",
			zap.String("caller_id", callerID),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}
	if err != nil || !caller.IsAdmin {
		s.logger.Warn("transition leave request status rejected for non-admin",
			zap.String("leave_request_id", id),
			zap.String("caller_id", callerID),
		)
		return LeaveRequestResponse{}, leaveerrors.ErrAdminOnly
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition leave request status begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveRequestResponse{}, err
	}

	lr.Status = target
	if err := qtx.Update(ctx, lr); err != nil {
		s.logger.Error("transition leave request status persist failed",
			zap.String("leave_request_id", id),
			zap.String("target_status", target),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	eventType := events.LeaveRequestApproved
	if target == StatusDenied {
		eventType = events.LeaveRequestDenied
	}
	if err := s.enqueueLifecycleEvent(ctx, tx, eventType, lr); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("transition leave request status commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.invalidateListCache(ctx)
	s.logger.Info("transition leave request status success",
		zap.String("leave_request_id", id),
		zap.String("status", target),
	)
	return mapToResponse(*lr), nil
}

func (s *service) Delete(ctx context.Context, id, callerID string) error {
	s.logger.Debug("delete leave request requested",
		zap.String("leave_request_id", id),
		zap.String("caller_id", callerID),
	)

	callerUUID, err := uuid.Parse(callerID)
	if err != nil {
		return leaveerrors.ErrInvalidCallerID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete leave request begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}

	// Start dates are stored at midnight, so a leave starting today has
	// already begun by the time anyone asks to delete it.
	if lr.StartDate.Before(s.now()) {
		s.logger.Warn("delete leave request rejected, leave already started",
			zap.String("leave_request_id", id),
			zap.Time("start_date", lr.StartDate),
		)
		return leaveerrors.ErrLeaveAlreadyStarted
	}

	// The refund is credited to the deleting caller, even when the caller is
	// not the requester.
	if err := s.ledger.Refund(ctx, callerUUID, lr.DaysRequested); err != nil {
		s.logger.Error("delete leave request refund failed",
			zap.String("caller_id", callerID),
			zap.Int("days", lr.DaysRequested),
			zap.Error(err),
		)
		return err
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete leave request persist failed", zap.Error(err))
		return err
	}

	if err := s.enqueueLifecycleEvent(ctx, tx, events.LeaveRequestDeleted, lr); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete leave request commit failed", zap.Error(err))
		return err
	}

	s.invalidateListCache(ctx)
	s.logger.Info("delete leave request success",
		zap.String("leave_request_id", id),
		zap.Int("days_refunded", lr.DaysRequested),
	)
	return nil
}

// enqueueLifecycleEvent stages the event through the caller's transaction, so
// it only becomes visible to the worker once the state change commits.
func (s *service) enqueueLifecycleEvent(ctx context.Context, tx *sql.Tx, eventType string, lr *LeaveRequest) error {
	if s.outbox == nil {
		return nil
	}

	event := events.LeaveLifecycleEvent{
		EventType:      eventType,
		LeaveRequestID: lr.ID.String(),
		RequesterID:    lr.RequesterID.String(),
		StartDate:      lr.StartDate.Format("2006-01-02"),
		EndDate:        lr.EndDate.Format("2006-01-02"),
		DaysRequested:  lr.DaysRequested,
		Status:         lr.Status,
		OccurredAt:     time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	outboxRepo := s.outbox.WithTx(tx)
	if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   lr.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("enqueue leave lifecycle event failed",
			zap.String("leave_request_id", lr.ID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) invalidateListCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, LeaveAllCacheKey).Err(); err != nil {
		s.logger.Error("invalidate leave request list cache failed",
			zap.String("key", LeaveAllCacheKey),
			zap.Error(err),
		)
	}
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

// daysBetween is the inclusive day count of a span; start == end counts 1.
func daysBetween(start, end time.Time) int {
	return wholeDays(end.Sub(start)) + 1
}

// wholeDays truncates toward zero, so a fractional lead time rounds down.
func wholeDays(d time.Duration) int {
	return int(d.Hours() / 24)
}

func mapToResponse(lr LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:            lr.ID.String(),
		RequesterID:   lr.RequesterID.String(),
		StartDate:     lr.StartDate.Format("2006-01-02"),
		EndDate:       lr.EndDate.Format("2006-01-02"),
		DaysRequested: lr.DaysRequested,
		Reason:        lr.Reason,
		Status:        lr.Status,
		CreatedAt:     lr.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func mapToListResponse(requests []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(requests))
	for i, lr := range requests {
		resp[i] = mapToResponse(lr)
	}
	return resp
}
