package availability

import (
	"net/http"

	"velvet/infras/otel"
	"velvet/internal/domains/availability/model/dto"
	"velvet/internal/domains/availability/service"
	"velvet/shared"
	"velvet/shared/constant"
	"velvet/shared/failure"
	"velvet/shared/validator"
	"velvet/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

const (
	requestParamSlotID = "slotID"
	requestParamDayID  = "dayID"
)

type Handler struct {
	service service.Availability
	otel    otel.Otel
}

func New(service service.Availability, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/availability/{id}", func(routerGroup chi.Router) {
		routerGroup.Post("/slots", handler.CreateSlot)
		routerGroup.Get("/slots", handler.GetSlots)
		routerGroup.Patch("/slots/{slotID}", handler.UpdateSlot)
		routerGroup.Delete("/slots/{slotID}", handler.DeleteSlot)

		routerGroup.Post("/unavailable-days", handler.CreateUnavailableDay)
		routerGroup.Get("/unavailable-days", handler.GetUnavailableDays)
		routerGroup.Delete("/unavailable-days/{dayID}", handler.DeleteUnavailableDay)

		routerGroup.Get("/timeslots", handler.GetTimeSlots)
		routerGroup.Get("/resolve", handler.Resolve)
	})
}

// CreateSlot adds a one-off availability window for a companion.
// @Summary Create an availability slot
// @Description Add a one-off availability window on a date. New slots start unavailable.
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Companion ID"
// @Param request body dto.CreateSlotRequest true "Slot details"
// @Success 201 {object} response.Message "Availability slot created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/{id}/slots [post]
// @Security BearerAuth
func (handler *Handler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateSlot")
	defer scope.End()

	companionID := chi.URLParam(r, constant.RequestParamID)

	var req dto.CreateSlotRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.CreateSlot(ctx, req, companionID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create availability slot")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Availability slot created successfully")

	response.WithMessage(w, http.StatusCreated, "Availability slot created successfully")
}

// GetSlots lists a companion's availability slots.
// @Summary List availability slots
// @Description List a companion's availability slots, optionally filtered by date.
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Companion ID"
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetSlotsResponse] "Availability slots"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/{id}/slots [get]
// @Security BearerAuth
func (handler *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlots")
	defer scope.End()

	companionID := chi.URLParam(r, constant.RequestParamID)
	date := r.URL.Query().Get(constant.RequestParamDate)

	slots, err := handler.service.GetSlots(ctx, companionID, date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get availability slots")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Availability slots retrieved successfully")

	response.WithJSON(w, http.StatusOK, slots)
}

// UpdateSlot changes an availability slot's window, toggle, or notes.
// @Summary Update an availability slot
// @Description Update a slot's window, availability toggle, or notes.
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Companion ID"
// @Param slotID path string true "Slot ID"
// @Param request body dto.UpdateSlotRequest true "Slot changes"
// @Success 200 {object} response.Message "Availability slot updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/{id}/slots/{slotID} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateSlot")
	defer scope.End()

	companionID := chi.URLParam(r, constant.RequestParamID)
	slotID := chi.URLParam(r, requestParamSlotID)

	var req dto.UpdateSlotRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateSlot(ctx, req, companionID, slotID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update availability slot")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Availability slot updated successfully")

	response.WithMessage(w, http.StatusOK, "Availability slot updated successfully")
}

// DeleteSlot removes an availability slot.
// @Summary Delete an availability slot
// @Description Remove one of the companion's availability slots.
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Companion ID"
// @Param slotID path string true "Slot ID"
// @Success 200 {object} response.Message "Availability slot deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/{id}/slots/{slotID} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteSlot")
	defer scope.End()

	companionID := chi.URLParam(r, constant.RequestParamID)
	slotID := chi.URLParam(r, requestParamSlotID)

	if err := handler.service.DeleteSlot(ctx, companionID, slotID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete availability slot")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Availability slot deleted successfully")

	response.WithMessage(w, http.StatusOK, "Availability slot deleted successfully")
}

// CreateUnavailableDay blacks out a whole date for a companion.
// @Summary Mark a date unavailable
// @Description Black out a whole date. The date's slots are removed in the same transaction.
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Companion ID"
// @Param request body dto.CreateBlackoutRequest true "Blackout details"
// @Success 201 {object} response.Message "Date marked unavailable successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/{id}/unavailable-days [post]
// @Security BearerAuth
func (handler *Handler) CreateUnavailableDay(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateUnavailableDay")
	defer scope.End()

	companionID := chi.URLParam(r, constant.RequestParamID)

	var req dto.CreateBlackoutRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.CreateBlackout(ctx, req, companionID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to mark date unavailable")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Date marked unavailable successfully")

	response.WithMessage(w, http.StatusCreated, "Date marked unavailable successfully")
}

// GetUnavailableDays lists a companion's blacked-out dates.
// @Summary List unavailable days
// @Description List all dates the companion has blacked out.
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Companion ID"
// @Success 200 {object} response.Data[dto.GetBlackoutsResponse] "Unavailable days"
// @Failure 500 {object} response.Error
// @Router /v1/availability/{id}/unavailable-days [get]
// @Security BearerAuth
func (handler *Handler) GetUnavailableDays(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUnavailableDays")
	defer scope.End()

	companionID := chi.URLParam(r, constant.RequestParamID)

	days, err := handler.service.GetBlackouts(ctx, companionID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get unavailable days")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Unavailable days retrieved successfully")

	response.WithJSON(w, http.StatusOK, days)
}

// DeleteUnavailableDay removes a blackout marker.
// @Summary Remove an unavailable day
// @Description Remove a blackout marker so the date can carry slots again.
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Companion ID"
// @Param dayID path string true "Unavailable day ID"
// @Success 200 {object} response.Message "Unavailable day removed successfully"
// @Failure 500 {object} response.Error
// @Router /v1/availability/{id}/unavailable-days/{dayID} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteUnavailableDay(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteUnavailableDay")
	defer scope.End()

	companionID := chi.URLParam(r, constant.RequestParamID)
	dayID := chi.URLParam(r, requestParamDayID)

	if err := handler.service.DeleteBlackout(ctx, companionID, dayID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to remove unavailable day")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Unavailable day removed successfully")

	response.WithMessage(w, http.StatusOK, "Unavailable day removed successfully")
}

// GetTimeSlots serves the computed slot rows for a companion and date.
// @Summary Get computed time slots
// @Description Server-computed slot rows for a companion and date. An empty answer means the date is unavailable.
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Companion ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetTimeSlotsResponse] "Computed time slots"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/{id}/timeslots [get]
func (handler *Handler) GetTimeSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTimeSlots")
	defer scope.End()

	companionID := chi.URLParam(r, constant.RequestParamID)
	date := r.URL.Query().Get(constant.RequestParamDate)

	slots, err := handler.service.GetTimeSlots(ctx, companionID, date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get time slots")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Time slots retrieved successfully")

	response.WithJSON(w, http.StatusOK, slots)
}

// Resolve computes the bookable start times for a date and duration.
// @Summary Resolve bookable start times
// @Description Compute the bookable start times for a companion, date and duration.
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Companion ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param duration query integer true "Requested duration in whole hours"
// @Success 200 {object} response.Data[dto.ResolveResponse] "Resolution"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/{id}/resolve [get]
func (handler *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Resolve")
	defer scope.End()

	companionID := chi.URLParam(r, constant.RequestParamID)
	date := r.URL.Query().Get(constant.RequestParamDate)

	duration, err := shared.ConvertStringToInt(r.URL.Query().Get(constant.RequestParamDuration))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("invalid duration parameter")

		response.WithError(w, failure.BadRequestFromString("duration must be a whole number of hours"))

		return
	}

	resolution, err := handler.service.Resolve(ctx, companionID, date, duration)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to resolve availability")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Availability resolved successfully")

	response.WithJSON(w, http.StatusOK, resolution)
}
