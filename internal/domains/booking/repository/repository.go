package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"velvet/infras/otel"
	"velvet/infras/postgres"
	"velvet/internal/domains/booking/model"
	"velvet/shared/constant"
	gDto "velvet/shared/dto"
	"velvet/shared/logger"
	gRepo "velvet/shared/repository"

	"github.com/lib/pq"
)

// ErrBookingConflict is returned when a candidate window overlaps an existing
// pending or approved booking.
var ErrBookingConflict = errors.New("booking window overlaps an existing booking")

// startMinuteExpr converts the hh:mm wall-clock column into minutes since
// midnight. It mirrors the generated start_minute column backing the
// exclusion constraint.
const startMinuteExpr = "(split_part(bookings.time, ':', 1)::int * 60 + split_part(bookings.time, ':', 2)::int)"

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertIfFree(ctx context.Context, booking model.Booking, startMinute, endMinute int) error
	ConflictExists(ctx context.Context, companionID string, date time.Time, startMinute, endMinute int) (bool, error)
	ListForCompanionDate(ctx context.Context, companionID string, date *time.Time, statuses []string) ([]model.Booking, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ConflictExists is the read-only oracle: true when any pending or approved
// booking for the companion and date crosses the half-open minute window.
func (repo *repositoryImpl) ConflictExists(ctx context.Context, companionID string, date time.Time, startMinute, endMinute int) (exists bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ConflictExists")
	defer scope.End()

	query := fmt.Sprintf(
		"SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2 AND %s = ANY($3) AND %s < $4 AND %s + %s * 60 > $5)",
		model.TableName,
		model.FieldCompanionID,
		model.FieldDate,
		model.FieldStatus,
		startMinuteExpr,
		startMinuteExpr,
		model.FieldDuration,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	blocking := pq.StringArray{constant.BookingStatusPending, constant.BookingStatusApproved}

	err = repo.db.Read.GetContext(ctx, &exists, query, companionID, date, blocking, endMinute, startMinute)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check booking conflict: %w", err)
	}

	return exists, nil
}

// InsertIfFree runs the conflict oracle and the insert inside one
// transaction. Overlapping pending/approved rows are locked first so two
// concurrent submissions for the same window serialize; the exclusion
// constraint on the table backstops windows that only conflict with each
// other. Both paths surface as ErrBookingConflict.
func (repo *repositoryImpl) InsertIfFree(ctx context.Context, booking model.Booking, startMinute, endMinute int) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.InsertIfFree")
	defer scope.End()

	tx, err := repo.db.Write.Beginx()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to begin booking transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1 AND %s = $2 AND %s = ANY($3) AND %s < $4 AND %s + %s * 60 > $5 FOR UPDATE",
		model.FieldID,
		model.TableName,
		model.FieldCompanionID,
		model.FieldDate,
		model.FieldStatus,
		startMinuteExpr,
		startMinuteExpr,
		model.FieldDuration,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	blocking := pq.StringArray{constant.BookingStatusPending, constant.BookingStatusApproved}

	var overlapping []string

	err = tx.SelectContext(ctx, &overlapping, query, booking.CompanionID, booking.Date, blocking, endMinute, startMinute)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to lock conflicting bookings: %w", err)
	}

	if len(overlapping) > 0 {
		return ErrBookingConflict
	}

	if err = repo.InsertTx(ctx, tx, booking); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeExclusionViolation {
			return ErrBookingConflict
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to commit booking transaction: %w", err)
	}

	return nil
}

func (repo *repositoryImpl) ListForCompanionDate(ctx context.Context, companionID string, date *time.Time, statuses []string) (bookings []model.Booking, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ListForCompanionDate")
	defer scope.End()

	query := fmt.Sprintf(
		"SELECT id, companion_id, user_id, customer_name, customer_email, customer_phone, date, time, duration, location, total_amount, status, notes, created_at, modified_at, created_by, modified_by FROM %s WHERE %s = $1 AND %s = ANY($2)",
		model.TableName,
		model.FieldCompanionID,
		model.FieldStatus,
	)

	args := []any{companionID, pq.StringArray(statuses)}

	if date != nil {
		query += fmt.Sprintf(" AND %s = $3", model.FieldDate)
		args = append(args, *date)
	}

	query += fmt.Sprintf(" ORDER BY %s, %s", model.FieldDate, model.FieldTime)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.Read.SelectContext(ctx, &bookings, query, args...)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list bookings for companion: %w", err)
	}

	return bookings, nil
}
