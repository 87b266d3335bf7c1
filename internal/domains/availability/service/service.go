package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"velvet/config"
	"velvet/infras/otel"
	"velvet/internal/domains/availability/model"
	"velvet/internal/domains/availability/model/dto"
	"velvet/internal/domains/availability/repository"
	"velvet/internal/domains/availability/schedule"
	bookingRepo "velvet/internal/domains/booking/repository"
	companionModel "velvet/internal/domains/companion/model"
	companionRepo "velvet/internal/domains/companion/repository"
	"velvet/shared"
	"velvet/shared/cache"
	"velvet/shared/constant"
	gDto "velvet/shared/dto"
	"velvet/shared/failure"
	"velvet/shared/timeslot"
	"velvet/shared/timezone"

	"github.com/rs/zerolog/log"
)

var blockingStatuses = []string{constant.BookingStatusPending, constant.BookingStatusApproved}

type Availability interface {
	CreateSlot(ctx context.Context, req dto.CreateSlotRequest, companionID string) error
	GetSlots(ctx context.Context, companionID, date string) (dto.GetSlotsResponse, error)
	UpdateSlot(ctx context.Context, req dto.UpdateSlotRequest, companionID, slotID string) error
	DeleteSlot(ctx context.Context, companionID, slotID string) error

	CreateBlackout(ctx context.Context, req dto.CreateBlackoutRequest, companionID string) error
	GetBlackouts(ctx context.Context, companionID string) (dto.GetBlackoutsResponse, error)
	DeleteBlackout(ctx context.Context, companionID, blackoutID string) error

	GetTimeSlots(ctx context.Context, companionID, date string) (dto.GetTimeSlotsResponse, error)
	Resolve(ctx context.Context, companionID, date string, duration int) (dto.ResolveResponse, error)
}

type serviceImpl struct {
	repo          repository.Availability
	companionRepo companionRepo.Companion
	bookingRepo   bookingRepo.Booking
	cfg           *config.Config
	cache         cache.RedisCache
	otel          otel.Otel
	policy        timeslot.Policy
}

func New(repo repository.Availability, companionRepo companionRepo.Companion, bookingRepo bookingRepo.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Availability {
	return &serviceImpl{
		repo:          repo,
		companionRepo: companionRepo,
		bookingRepo:   bookingRepo,
		cfg:           cfg,
		cache:         cache,
		otel:          otel,
		policy:        timeslot.PolicyFromConfig(cfg),
	}
}

// CreateSlot records a companion-entered window. New slots start unavailable;
// the companion must toggle them on before the resolver offers them.
func (s *serviceImpl) CreateSlot(ctx context.Context, req dto.CreateSlotRequest, companionID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateSlot")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.guardOwnership(ctx, companionID); err != nil {
		return err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	interval, err := timeslot.NewInterval(req.StartTime, req.EndTime)
	if err != nil {
		return failure.BadRequestFromString("end time must be after start time") // nolint:wrapcheck
	}

	if !s.policy.WithinBusinessHours(interval) {
		return failure.BadRequestFromString("slot must fall within business hours " + s.policy.BusinessHoursDisplay()) // nolint:wrapcheck
	}

	date, err := timezone.Parse(constant.DateOnlyFormat, req.Date)
	if err != nil {
		return failure.BadRequestFromString("invalid slot date") // nolint:wrapcheck
	}

	blackout, err := s.repo.BlackoutExists(ctx, companionID, date)
	if err != nil {
		log.Error().Err(err).Msg("failed to check blackout for slot")

		return fmt.Errorf("failed to check blackout: %w", err)
	}

	if blackout {
		return failure.Conflict("the selected date is marked unavailable") // nolint:wrapcheck
	}

	overlapping, err := s.repo.OverlappingSlotExists(ctx, companionID, date, req.StartTime, req.EndTime)
	if err != nil {
		log.Error().Err(err).Msg("failed to check overlapping slot")

		return fmt.Errorf("failed to check overlapping slot: %w", err)
	}

	if overlapping {
		return failure.Conflict("an overlapping slot already exists for this date") // nolint:wrapcheck
	}

	if err = s.repo.InsertSlot(ctx, req.ToModel(companionID, user, date)); err != nil {
		log.Error().Err(err).Msg("failed to insert availability slot")

		return fmt.Errorf("failed to insert availability slot: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) GetSlots(ctx context.Context, companionID, date string) (res dto.GetSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetSlots")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCompanionID,
				Operator: gDto.FilterOperatorEq,
				Value:    companionID,
				Table:    model.SlotTableName,
			},
		},
	}

	if date != constant.Empty {
		parsed, parseErr := timezone.Parse(constant.DateOnlyFormat, date)
		if parseErr != nil {
			return res, failure.BadRequestFromString("invalid date") // nolint:wrapcheck
		}

		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldDate,
			Operator: gDto.FilterOperatorEq,
			Value:    parsed,
			Table:    model.SlotTableName,
		})
	}

	params := gDto.QueryParams{SortBy: model.FieldDate, SortDir: "ASC"}

	slots, err := s.repo.GetSlots(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get availability slots")

		return res, fmt.Errorf("failed to get availability slots: %w", err)
	}

	res.FromModels(slots, constant.DateOnlyFormat)

	return res, nil
}

func (s *serviceImpl) UpdateSlot(ctx context.Context, req dto.UpdateSlotRequest, companionID, slotID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateSlot")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.guardOwnership(ctx, companionID); err != nil {
		return err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := s.slotFilter(companionID, slotID)

	current, err := s.repo.GetSlot(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get availability slot")

		return fmt.Errorf("failed to get availability slot: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("availability slot not found") // nolint:wrapcheck
	}

	startTime := current.StartTime
	if req.StartTime != constant.Empty {
		startTime = req.StartTime
	}

	endTime := current.EndTime
	if req.EndTime != constant.Empty {
		endTime = req.EndTime
	}

	interval, err := timeslot.NewInterval(startTime, endTime)
	if err != nil {
		return failure.BadRequestFromString("end time must be after start time") // nolint:wrapcheck
	}

	if !s.policy.WithinBusinessHours(interval) {
		return failure.BadRequestFromString("slot must fall within business hours " + s.policy.BusinessHoursDisplay()) // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if req.IsAvailable != nil {
		updatedFields[model.FieldIsAvailable] = *req.IsAvailable
	}

	if err = s.repo.UpdateSlot(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update availability slot")

		return fmt.Errorf("failed to update availability slot: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) DeleteSlot(ctx context.Context, companionID, slotID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteSlot")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.guardOwnership(ctx, companionID); err != nil {
		return err
	}

	filter := s.slotFilter(companionID, slotID)

	exist, err := s.repo.SlotExists(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check availability slot existence")

		return fmt.Errorf("failed to check availability slot existence: %w", err)
	}

	if !exist {
		return failure.NotFound("availability slot not found") // nolint:wrapcheck
	}

	if err = s.repo.DeleteSlot(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete availability slot")

		return fmt.Errorf("failed to delete availability slot: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

// CreateBlackout marks a whole date unavailable. The repository removes the
// date's slots in the same transaction.
func (s *serviceImpl) CreateBlackout(ctx context.Context, req dto.CreateBlackoutRequest, companionID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateBlackout")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.guardOwnership(ctx, companionID); err != nil {
		return err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	date, err := timezone.Parse(constant.DateOnlyFormat, req.Date)
	if err != nil {
		return failure.BadRequestFromString("invalid blackout date") // nolint:wrapcheck
	}

	exists, err := s.repo.BlackoutExists(ctx, companionID, date)
	if err != nil {
		log.Error().Err(err).Msg("failed to check blackout existence")

		return fmt.Errorf("failed to check blackout existence: %w", err)
	}

	if exists {
		return failure.Conflict("the date is already marked unavailable") // nolint:wrapcheck
	}

	if err = s.repo.InsertBlackout(ctx, req.ToModel(companionID, user, date)); err != nil {
		log.Error().Err(err).Msg("failed to insert blackout")

		return fmt.Errorf("failed to insert blackout: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) GetBlackouts(ctx context.Context, companionID string) (res dto.GetBlackoutsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBlackouts")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(companionID, model.FieldCompanionID, model.BlackoutTableName)
	params := gDto.QueryParams{SortBy: model.FieldDate, SortDir: "ASC"}

	days, err := s.repo.GetBlackouts(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get unavailable days")

		return res, fmt.Errorf("failed to get unavailable days: %w", err)
	}

	res.FromModels(days, constant.DateOnlyFormat)

	return res, nil
}

func (s *serviceImpl) DeleteBlackout(ctx context.Context, companionID, blackoutID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteBlackout")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.guardOwnership(ctx, companionID); err != nil {
		return err
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    blackoutID,
				Table:    model.BlackoutTableName,
			},
			gDto.Filter{
				Field:    model.FieldCompanionID,
				Operator: gDto.FilterOperatorEq,
				Value:    companionID,
				Table:    model.BlackoutTableName,
			},
		},
	}

	if err = s.repo.DeleteBlackout(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete blackout")

		return fmt.Errorf("failed to delete blackout: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

// GetTimeSlots serves the computed rows for a (companion, date): either the
// companion's curated windows for the date or the recurring business-hour
// coverage, with booked windows flagged. An empty answer means the date is
// blacked out.
func (s *serviceImpl) GetTimeSlots(ctx context.Context, companionID, date string) (res dto.GetTimeSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetTimeSlots")
	defer scope.End()
	defer scope.TraceIfError(err)

	parsed, err := timezone.Parse(constant.DateOnlyFormat, date)
	if err != nil {
		return res, failure.BadRequestFromString("invalid date") // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(constant.CacheKeyTimeSlots, companionID, date)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for time slots")

		return res, nil
	}

	rows, err := s.buildRows(ctx, companionID, parsed)
	if err != nil {
		return res, err
	}

	res.Slots = rows

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save time slots to cache")
		}
	}()

	return res, nil
}

// Resolve answers "when can this companion be booked on this date for this
// duration". The companion kill switch short-circuits before any slot data is
// read. Cache entries are keyed by the full input triple, so a late answer
// for an older query can never be served for a newer one.
func (s *serviceImpl) Resolve(ctx context.Context, companionID, date string, duration int) (res dto.ResolveResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Resolve")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !s.policy.ValidDuration(duration) {
		return res, failure.BadRequestFromString(fmt.Sprintf("duration must be between %d and %d whole hours", s.policy.MinDurationHours, s.policy.MaxDurationHours)) // nolint:wrapcheck
	}

	parsed, err := timezone.Parse(constant.DateOnlyFormat, date)
	if err != nil {
		return res, failure.BadRequestFromString("invalid date") // nolint:wrapcheck
	}

	companion, err := s.companionRepo.Get(ctx, shared.FilterByID(companionID, companionModel.FieldID, companionModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get companion for resolve")

		return res, fmt.Errorf("failed to get companion: %w", err)
	}

	if companion.ID == constant.Empty {
		return res, failure.NotFound("companion not found") // nolint:wrapcheck
	}

	if !companion.IsAvailable {
		res.FromResolution(schedule.Resolution{Outcome: schedule.OutcomeCompanionUnavailable}, "companion is currently not accepting bookings")

		return res, nil
	}

	cacheKey := shared.BuildCacheKey(constant.CacheKeyResolve, companionID, date, strconv.Itoa(duration))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for resolution")

		return res, nil
	}

	rows, err := s.buildRows(ctx, companionID, parsed)
	if err != nil {
		return res, err
	}

	resolution := schedule.Resolve(rows, duration, s.policy.StepMinutes)
	res.FromResolution(resolution, outcomeMessage(resolution.Outcome))

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save resolution to cache")
		}
	}()

	return res, nil
}

// buildRows assembles the slot rows fed to the resolver. Blackout dates
// yield no rows. A date with companion-entered slots is curated: only those
// windows are served. Otherwise the recurring business-hour grid applies,
// with maximal free runs pre-merged as combined coverage.
func (s *serviceImpl) buildRows(ctx context.Context, companionID string, date time.Time) ([]schedule.SlotRow, error) {
	blackout, err := s.repo.BlackoutExists(ctx, companionID, date)
	if err != nil {
		log.Error().Err(err).Msg("failed to check blackout")

		return nil, fmt.Errorf("failed to check blackout: %w", err)
	}

	if blackout {
		return []schedule.SlotRow{}, nil
	}

	booked, err := s.bookedIntervals(ctx, companionID, date)
	if err != nil {
		return nil, err
	}

	slotFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCompanionID,
				Operator: gDto.FilterOperatorEq,
				Value:    companionID,
				Table:    model.SlotTableName,
			},
			gDto.Filter{
				Field:    model.FieldDate,
				Operator: gDto.FilterOperatorEq,
				Value:    date,
				Table:    model.SlotTableName,
			},
		},
	}

	params := gDto.QueryParams{SortBy: model.FieldStartTime, SortDir: "ASC"}

	slots, err := s.repo.GetSlots(ctx, params, slotFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get slots for date")

		return nil, fmt.Errorf("failed to get slots for date: %w", err)
	}

	if len(slots) > 0 {
		return s.specificRows(slots, booked), nil
	}

	return s.recurringRows(booked), nil
}

func (s *serviceImpl) specificRows(slots []model.AvailabilitySlot, booked []timeslot.Interval) []schedule.SlotRow {
	rows := make([]schedule.SlotRow, 0, len(slots))

	for _, slot := range slots {
		interval, err := timeslot.NewInterval(slot.StartTime, slot.EndTime)
		if err != nil {
			continue
		}

		rows = append(rows, schedule.SlotRow{
			SlotType:    constant.SlotTypeSpecific,
			StartTime:   slot.StartTime,
			EndTime:     slot.EndTime,
			IsAvailable: slot.IsAvailable,
			IsBooked:    overlapsAny(interval, booked),
			Source:      constant.SlotSourceCompanion,
		})
	}

	return rows
}

// recurringRows emits the business-hour grid in hourly pieces. Free runs are
// merged into single combined rows; booked hours stay as individual flagged
// rows so the resolver drops exactly them.
func (s *serviceImpl) recurringRows(booked []timeslot.Interval) []schedule.SlotRow {
	rows := []schedule.SlotRow{}

	var freeRun *timeslot.Interval

	flushRun := func() {
		if freeRun == nil {
			return
		}

		slotType := constant.SlotTypeDefault
		if freeRun.Span() > timeslot.HoursToMinutes(1) {
			slotType = constant.SlotTypeCombinedDefault
		}

		rows = append(rows, schedule.SlotRow{
			SlotType:    slotType,
			StartTime:   timeslot.FromMinutes(freeRun.Start),
			EndTime:     timeslot.FromMinutes(freeRun.End),
			IsAvailable: true,
			Source:      constant.SlotSourceRecurring,
		})
		freeRun = nil
	}

	hour := timeslot.HoursToMinutes(1)
	for minute := s.policy.OpenMinutes; minute+hour <= s.policy.CloseMinutes; minute += hour {
		segment := timeslot.Interval{Start: minute, End: minute + hour}

		if overlapsAny(segment, booked) {
			flushRun()
			rows = append(rows, schedule.SlotRow{
				SlotType:    constant.SlotTypeDefault,
				StartTime:   timeslot.FromMinutes(segment.Start),
				EndTime:     timeslot.FromMinutes(segment.End),
				IsAvailable: true,
				IsBooked:    true,
				Source:      constant.SlotSourceRecurring,
			})

			continue
		}

		if freeRun == nil {
			freeRun = &timeslot.Interval{Start: segment.Start, End: segment.End}
		} else {
			freeRun.End = segment.End
		}
	}

	flushRun()

	return rows
}

func (s *serviceImpl) bookedIntervals(ctx context.Context, companionID string, date time.Time) ([]timeslot.Interval, error) {
	bookings, err := s.bookingRepo.ListForCompanionDate(ctx, companionID, &date, blockingStatuses)
	if err != nil {
		log.Error().Err(err).Msg("failed to list bookings for availability")

		return nil, fmt.Errorf("failed to list bookings for availability: %w", err)
	}

	intervals := make([]timeslot.Interval, 0, len(bookings))

	for _, booking := range bookings {
		start, err := timeslot.ToMinutes(booking.Time)
		if err != nil {
			continue
		}

		intervals = append(intervals, timeslot.Interval{
			Start: start,
			End:   start + timeslot.HoursToMinutes(booking.Duration),
		})
	}

	return intervals, nil
}

func overlapsAny(interval timeslot.Interval, booked []timeslot.Interval) bool {
	for _, other := range booked {
		if interval.Overlaps(other) {
			return true
		}
	}

	return false
}

func (s *serviceImpl) slotFilter(companionID, slotID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    slotID,
				Table:    model.SlotTableName,
			},
			gDto.Filter{
				Field:    model.FieldCompanionID,
				Operator: gDto.FilterOperatorEq,
				Value:    companionID,
				Table:    model.SlotTableName,
			},
		},
	}
}

// guardOwnership restricts companion-scoped writes to the owning companion.
// Admin tokens carry no companion id and pass through.
func (s *serviceImpl) guardOwnership(ctx context.Context, companionID string) error {
	actor, _ := ctx.Value(constant.ContextKeyCompanionID).(string)
	if actor != constant.Empty && actor != companionID {
		return failure.ResourceRestrictedError
	}

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, constant.CacheKeyResolve)
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyTimeSlots)
	}()
}

func outcomeMessage(outcome schedule.Outcome) string {
	switch outcome {
	case schedule.OutcomeDayUnavailable:
		return "the companion is not available on this date"
	case schedule.OutcomeNoFit:
		return "no available time slots fit the requested duration"
	default:
		return constant.Empty
	}
}
