package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"velvet/infras/otel"
	"velvet/infras/postgres"
	"velvet/internal/domains/availability/model"
	"velvet/shared/constant"
	gDto "velvet/shared/dto"
	"velvet/shared/logger"
	gRepo "velvet/shared/repository"
)

type Availability interface {
	InsertSlot(ctx context.Context, slot model.AvailabilitySlot) error
	GetSlot(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.AvailabilitySlot, error)
	GetSlots(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.AvailabilitySlot, error)
	SlotExists(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	OverlappingSlotExists(ctx context.Context, companionID string, date time.Time, startTime, endTime string) (bool, error)
	UpdateSlot(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	DeleteSlot(ctx context.Context, filter gDto.FilterGroup) error

	InsertBlackout(ctx context.Context, day model.UnavailableDay) error
	GetBlackouts(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.UnavailableDay, error)
	BlackoutExists(ctx context.Context, companionID string, date time.Time) (bool, error)
	DeleteBlackout(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	slots     gRepo.Repository[model.AvailabilitySlot]
	blackouts gRepo.Repository[model.UnavailableDay]
	db        *postgres.Connection
	otel      otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Availability {
	return &repositoryImpl{
		slots:     gRepo.NewRepository[model.AvailabilitySlot](model.SlotEntityName, model.SlotTableName, model.FieldID, db, otel),
		blackouts: gRepo.NewRepository[model.UnavailableDay](model.BlackoutEntityName, model.BlackoutTableName, model.FieldID, db, otel),
		db:        db,
		otel:      otel,
	}
}

func (repo *repositoryImpl) InsertSlot(ctx context.Context, slot model.AvailabilitySlot) error {
	return repo.slots.Insert(ctx, slot) //nolint:wrapcheck
}

func (repo *repositoryImpl) GetSlot(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.AvailabilitySlot, error) {
	return repo.slots.Get(ctx, filter, columns...) //nolint:wrapcheck
}

func (repo *repositoryImpl) GetSlots(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.AvailabilitySlot, error) {
	return repo.slots.GetAll(ctx, params, filter, columns...) //nolint:wrapcheck
}

func (repo *repositoryImpl) SlotExists(ctx context.Context, filter gDto.FilterGroup) (bool, error) {
	return repo.slots.Exist(ctx, filter) //nolint:wrapcheck
}

// OverlappingSlotExists reports whether any slot on the date crosses the
// half-open window [startTime, endTime). Zero-padded hh:mm strings compare
// lexicographically in chronological order.
func (repo *repositoryImpl) OverlappingSlotExists(ctx context.Context, companionID string, date time.Time, startTime, endTime string) (exists bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".availability_slot.OverlappingSlotExists")
	defer scope.End()

	query := fmt.Sprintf(
		"SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2 AND %s < $3 AND %s > $4)",
		model.SlotTableName,
		model.FieldCompanionID,
		model.FieldDate,
		model.FieldStartTime,
		model.FieldEndTime,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.Read.GetContext(ctx, &exists, query, companionID, date, endTime, startTime)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check overlapping slot: %w", err)
	}

	return exists, nil
}

func (repo *repositoryImpl) UpdateSlot(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error {
	return repo.slots.Update(ctx, req, filter) //nolint:wrapcheck
}

func (repo *repositoryImpl) DeleteSlot(ctx context.Context, filter gDto.FilterGroup) error {
	return repo.slots.Delete(ctx, filter) //nolint:wrapcheck
}

// InsertBlackout marks a whole date unavailable. The date's slots are removed
// in the same transaction so a blackout can never coexist with bookable slots.
func (repo *repositoryImpl) InsertBlackout(ctx context.Context, day model.UnavailableDay) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".unavailable_day.InsertBlackout")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.Beginx()
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	sameDateSlots := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCompanionID,
				Operator: gDto.FilterOperatorEq,
				Value:    day.CompanionID,
				Table:    model.SlotTableName,
			},
			gDto.Filter{
				Field:    model.FieldDate,
				Operator: gDto.FilterOperatorEq,
				Value:    day.Date,
				Table:    model.SlotTableName,
			},
		},
	}

	if err = repo.slots.DeleteTx(ctx, tx, sameDateSlots); err != nil {
		return err
	}

	if err = repo.blackouts.InsertTx(ctx, tx, day); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit blackout transaction: %w", err)
	}

	return nil
}

func (repo *repositoryImpl) GetBlackouts(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.UnavailableDay, error) {
	return repo.blackouts.GetAll(ctx, params, filter, columns...) //nolint:wrapcheck
}

func (repo *repositoryImpl) BlackoutExists(ctx context.Context, companionID string, date time.Time) (bool, error) {
	return repo.blackouts.Exist(ctx, gDto.FilterGroup{ //nolint:wrapcheck
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCompanionID,
				Operator: gDto.FilterOperatorEq,
				Value:    companionID,
				Table:    model.BlackoutTableName,
			},
			gDto.Filter{
				Field:    model.FieldDate,
				Operator: gDto.FilterOperatorEq,
				Value:    date,
				Table:    model.BlackoutTableName,
			},
		},
	})
}

func (repo *repositoryImpl) DeleteBlackout(ctx context.Context, filter gDto.FilterGroup) error {
	return repo.blackouts.Delete(ctx, filter) //nolint:wrapcheck
}
