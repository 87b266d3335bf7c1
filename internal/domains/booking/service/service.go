package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"velvet/config"
	"velvet/infras/kafka"
	"velvet/infras/otel"
	availabilityRepo "velvet/internal/domains/availability/repository"
	"velvet/internal/domains/booking/model"
	"velvet/internal/domains/booking/model/dto"
	"velvet/internal/domains/booking/repository"
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

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

var blockingStatuses = []string{constant.BookingStatusPending, constant.BookingStatusApproved}

// statusTransitions lists the allowed moves of the booking lifecycle.
// Completed and rejected are terminal.
var statusTransitions = map[string][]string{
	constant.BookingStatusPending:  {constant.BookingStatusApproved, constant.BookingStatusRejected},
	constant.BookingStatusApproved: {constant.BookingStatusCompleted, constant.BookingStatusRejected},
}

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	CheckConflict(ctx context.Context, companionID, date, startTime string, duration int) (dto.ConflictResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetMine(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error)
	GetForCompanion(ctx context.Context, companionID, date string, statuses []string) (dto.GetBookingRowsResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) error
}

type serviceImpl struct {
	repo          repository.Booking
	companionRepo companionRepo.Companion
	availRepo     availabilityRepo.Availability
	cfg           *config.Config
	cache         cache.RedisCache
	otel          otel.Otel
	kafka         kafka.Client
	policy        timeslot.Policy
}

func New(repo repository.Booking, companionRepo companionRepo.Companion, availRepo availabilityRepo.Availability, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, kafka kafka.Client) Booking {
	return &serviceImpl{
		repo:          repo,
		companionRepo: companionRepo,
		availRepo:     availRepo,
		cfg:           cfg,
		cache:         cache,
		otel:          otel,
		kafka:         kafka,
		policy:        timeslot.PolicyFromConfig(cfg),
	}
}

// Create validates the booking request and persists it through the atomic
// conflict gate: the overlap check and insert run in one transaction, so two
// concurrent submissions for the same window cannot both succeed.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if !s.policy.ValidDuration(req.Duration) {
		return res, failure.BadRequestFromString(fmt.Sprintf("duration must be between %d and %d whole hours", s.policy.MinDurationHours, s.policy.MaxDurationHours)) // nolint:wrapcheck
	}

	start, err := timeslot.ToMinutes(req.Time)
	if err != nil {
		return res, failure.BadRequestFromString("invalid booking time") // nolint:wrapcheck
	}

	window := timeslot.Interval{Start: start, End: start + timeslot.HoursToMinutes(req.Duration)}
	if !s.policy.WithinBusinessHours(window) {
		return res, failure.BadRequestFromString("booking must fall within business hours "+s.policy.BusinessHoursDisplay()) // nolint:wrapcheck
	}

	now := timezone.Now()
	if s.policy.CutoffReached(req.Date, now) {
		return res, failure.Conflict(s.policy.CutoffMessage(req.Date, now)) // nolint:wrapcheck
	}

	date, err := timezone.Parse(constant.DateOnlyFormat, req.Date)
	if err != nil {
		return res, failure.BadRequestFromString("invalid booking date") // nolint:wrapcheck
	}

	companion, err := s.companionRepo.Get(ctx, shared.FilterByID(req.CompanionID, companionModel.FieldID, companionModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get companion for booking")

		return res, fmt.Errorf("failed to get companion: %w", err)
	}

	if companion.ID == constant.Empty {
		return res, failure.NotFound("companion not found") // nolint:wrapcheck
	}

	if !companion.IsAvailable {
		return res, failure.Conflict("companion is currently not accepting bookings") // nolint:wrapcheck
	}

	blackout, err := s.availRepo.BlackoutExists(ctx, req.CompanionID, date)
	if err != nil {
		log.Error().Err(err).Msg("failed to check blackout for booking")

		return res, fmt.Errorf("failed to check blackout: %w", err)
	}

	if blackout {
		return res, failure.Conflict("companion is unavailable on the selected date") // nolint:wrapcheck
	}

	booking := req.ToModel(userID, date, companion.Rate)

	if err = s.repo.InsertIfFree(ctx, booking, window.Start, window.End); err != nil {
		if errors.Is(err, repository.ErrBookingConflict) {
			return res, failure.Conflict("the selected time slot is no longer available") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to insert booking")

		return res, fmt.Errorf("failed to insert booking: %w", err)
	}

	booking.CompanionName = companion.Name
	booking.CompanionRate = companion.Rate
	res.FromModel(booking)

	s.afterWrite(ctx, booking, dto.EventBookingCreated)

	return res, nil
}

// CheckConflict is the read-only oracle exposed to clients. The answer is
// advisory: only Create's transactional gate is authoritative.
func (s *serviceImpl) CheckConflict(ctx context.Context, companionID, date, startTime string, duration int) (res dto.ConflictResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckConflict")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !s.policy.ValidDuration(duration) {
		return res, failure.BadRequestFromString(fmt.Sprintf("duration must be between %d and %d whole hours", s.policy.MinDurationHours, s.policy.MaxDurationHours)) // nolint:wrapcheck
	}

	start, err := timeslot.ToMinutes(startTime)
	if err != nil {
		return res, failure.BadRequestFromString("invalid start time") // nolint:wrapcheck
	}

	parsedDate, err := timezone.Parse(constant.DateOnlyFormat, date)
	if err != nil {
		return res, failure.BadRequestFromString("invalid date") // nolint:wrapcheck
	}

	conflict, err := s.repo.ConflictExists(ctx, companionID, parsedDate, start, start+timeslot.HoursToMinutes(duration))
	if err != nil {
		log.Error().Err(err).Msg("failed to check booking conflict")

		return res, fmt.Errorf("failed to check booking conflict: %w", err)
	}

	return dto.ConflictResponse{Conflict: conflict}, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, req gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		return res, failure.Unauthorized("missing user identity") // nolint:wrapcheck
	}

	filter := shared.FilterByID(userID, model.FieldUserID, model.TableName)

	return s.GetAll(ctx, req, filter)
}

func (s *serviceImpl) GetForCompanion(ctx context.Context, companionID, date string, statuses []string) (res dto.GetBookingRowsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetForCompanion")
	defer scope.End()
	defer scope.TraceIfError(err)

	if len(statuses) == 0 {
		statuses = blockingStatuses
	}

	var dateFilter *time.Time

	if date != constant.Empty {
		parsed, parseErr := timezone.Parse(constant.DateOnlyFormat, date)
		if parseErr != nil {
			return res, failure.BadRequestFromString("invalid date") // nolint:wrapcheck
		}

		dateFilter = &parsed
	}

	models, err := s.repo.ListForCompanionDate(ctx, companionID, dateFilter, statuses)
	if err != nil {
		log.Error().Err(err).Msg("failed to list bookings for companion")

		return res, fmt.Errorf("failed to list bookings for companion: %w", err)
	}

	res.FromModels(models)

	return res, nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	booking, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking for status update")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	allowed := statusTransitions[booking.Status]
	if !slices.Contains(allowed, req.Status) {
		return failure.Conflict(fmt.Sprintf("cannot change booking status from %s to %s", booking.Status, req.Status)) // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(struct{}{}, user)
	updatedFields[model.FieldStatus] = req.Status

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	booking.Status = req.Status
	s.afterWrite(ctx, booking, dto.EventBookingStatusChanged)

	return nil
}

// afterWrite publishes the booking event and flushes every cache the write
// may have invalidated, including the availability resolver caches.
func (s *serviceImpl) afterWrite(ctx context.Context, booking model.Booking, eventType string) {
	go func() {
		c := context.WithoutCancel(ctx)

		event := kafka.Message{
			Key: booking.ID,
			Value: dto.BookingEvent{
				EventType:   eventType,
				BookingID:   booking.ID,
				CompanionID: booking.CompanionID,
				Date:        booking.Date.Format(constant.DateOnlyFormat),
				Time:        booking.Time,
				Duration:    booking.Duration,
				Status:      booking.Status,
				OccurredAt:  timezone.Now(),
			},
		}

		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.BookingEvents, event); err != nil {
			log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to publish booking event")
		}

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, booking.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyResolve)
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyTimeSlots)
	}()
}
