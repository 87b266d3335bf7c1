package companion

import (
	"net/http"

	"velvet/infras/otel"
	"velvet/internal/domains/companion/model"
	"velvet/internal/domains/companion/model/dto"
	"velvet/internal/domains/companion/service"
	"velvet/shared"
	"velvet/shared/constant"
	gDto "velvet/shared/dto"
	"velvet/shared/validator"
	"velvet/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Companion
	otel    otel.Otel
}

func New(service service.Companion, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/companions", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateCompanion)
		routerGroup.Get("/", handler.GetCompanions)
		routerGroup.Get("/{id}", handler.GetCompanionByID)
		routerGroup.Patch("/{id}", handler.UpdateCompanion)
		routerGroup.Patch("/{id}/availability", handler.SetAvailability)
		routerGroup.Post("/{id}/gallery", handler.AddGalleryImage)
		routerGroup.Delete("/{id}/gallery", handler.RemoveGalleryImage)
		routerGroup.Delete("/{id}", handler.DeleteCompanion)
	})
}

// CreateCompanion handles the creation of a new companion profile.
// @Summary Create a new companion
// @Description Create a new companion profile with the provided details.
// @Tags Companion
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Companion name"
// @Param age formData integer true "Companion age"
// @Param bio formData string true "Companion bio"
// @Param rate formData number true "Hourly rate"
// @Param location formData string true "Companion location"
// @Param telegram_username formData string false "Telegram username"
// @Param is_available formData boolean false "Availability kill switch"
// @Param image formData file false "Profile image"
// @Success 201 {object} response.Message "Companion created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/companions [post]
// @Security BearerAuth
func (handler *Handler) CreateCompanion(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateCompanion")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(writer, err)

		return
	}

	req := dto.CreateCompanionRequest{
		Name:     request.FormValue("name"),
		Bio:      request.FormValue("bio"),
		Location: request.FormValue("location"),
	}

	if ageStr := request.FormValue("age"); ageStr != "" {
		if age, err := shared.ConvertStringToInt(ageStr); err == nil {
			req.Age = age
		}
	}

	if rateStr := request.FormValue("rate"); rateStr != "" {
		if rate, err := shared.ConvertStringToFloat(rateStr); err == nil {
			req.Rate = rate
		}
	}

	if username := request.FormValue("telegram_username"); username != "" {
		req.TelegramUsername = &username
	}

	if availableStr := request.FormValue("is_available"); availableStr != "" {
		req.IsAvailable = shared.ConvertStringToBool(availableStr)
	}

	file, fileHeader, err := request.FormFile("image")
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create companion")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Companion created successfully by user " + user)

	response.WithMessage(writer, http.StatusCreated, "Companion created successfully")
}

// GetCompanions retrieves all companions based on query parameters.
// @Summary Get all companions
// @Description Retrieve all companions with optional filtering and pagination.
// @Tags Companion
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Param location query string false "Filter by location"
// @Param is_available query boolean false "Filter by availability"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Data[dto.CompanionResponse] "List of companions"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/companions [get]
func (handler *Handler) GetCompanions(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCompanions")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	name := r.URL.Query().Get(model.FieldName)
	location := r.URL.Query().Get(model.FieldLocation)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldName,
				Operator: gDto.FilterOperatorLike,
				Value:    name,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldLocation,
				Operator: gDto.FilterOperatorLike,
				Value:    location,
				Table:    model.TableName,
			},
		},
	}

	if available := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldIsAvailable)); available != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldIsAvailable,
			Operator: gDto.FilterOperatorEq,
			Value:    *available,
			Table:    model.TableName,
		})
	}

	if status := r.URL.Query().Get(model.FieldStatus); status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	companions, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get companions")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Companions retrieved successfully")

	response.WithJSON(w, http.StatusOK, companions)
}

// GetCompanionByID retrieves a companion by its ID.
// @Summary Get a companion by ID
// @Description Retrieve a companion by its unique identifier.
// @Tags Companion
// @Accept json
// @Produce json
// @Param id path string true "Companion ID"
// @Success 200 {object} response.Data[dto.CompanionResponse] "Companion details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/companions/{id} [get]
func (handler *Handler) GetCompanionByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCompanionByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	companion, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get companion by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Companion retrieved successfully")

	response.WithJSON(w, http.StatusOK, companion)
}

// UpdateCompanion updates an existing companion by its ID.
// @Summary Update a companion by ID
// @Description Update the details of an existing companion.
// @Tags Companion
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Companion ID"
// @Param name formData string false "Companion name"
// @Param age formData integer false "Companion age"
// @Param bio formData string false "Companion bio"
// @Param rate formData number false "Hourly rate"
// @Param location formData string false "Companion location"
// @Param telegram_username formData string false "Telegram username"
// @Param status formData string false "Companion status"
// @Param image formData file false "Profile image"
// @Success 200 {object} response.Message "Companion updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/companions/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateCompanion(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateCompanion")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, err)

		return
	}

	req := dto.UpdateCompanionRequest{
		Name:     r.FormValue("name"),
		Bio:      r.FormValue("bio"),
		Location: r.FormValue("location"),
		Status:   r.FormValue("status"),
	}

	if ageStr := r.FormValue("age"); ageStr != "" {
		if age, err := shared.ConvertStringToInt(ageStr); err == nil {
			req.Age = &age
		}
	}

	if rateStr := r.FormValue("rate"); rateStr != "" {
		if rate, err := shared.ConvertStringToFloat(rateStr); err == nil {
			req.Rate = &rate
		}
	}

	if username := r.FormValue("telegram_username"); username != "" {
		req.TelegramUsername = &username
	}

	file, fileHeader, err := r.FormFile("image")
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update companion")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Companion updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Companion updated successfully")
}

// SetAvailability toggles the companion-wide availability switch.
// @Summary Toggle companion availability
// @Description Toggle the companion-wide availability switch. While off, every date resolves as unavailable.
// @Tags Companion
// @Accept json
// @Produce json
// @Param id path string true "Companion ID"
// @Param request body dto.SetAvailabilityRequest true "Availability toggle"
// @Success 200 {object} response.Message "Companion availability updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/companions/{id}/availability [patch]
// @Security BearerAuth
func (handler *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetAvailability")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	var req dto.SetAvailabilityRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.SetAvailability(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to toggle companion availability")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Companion availability updated successfully")

	response.WithMessage(w, http.StatusOK, "Companion availability updated successfully")
}

// AddGalleryImage uploads a new image into the companion gallery.
// @Summary Add a gallery image
// @Description Upload a new image into the companion gallery.
// @Tags Companion
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Companion ID"
// @Param image formData file true "Gallery image"
// @Success 201 {object} response.Message "Gallery image added successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/companions/{id}/gallery [post]
// @Security BearerAuth
func (handler *Handler) AddGalleryImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddGalleryImage")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, err)

		return
	}

	req := dto.AddGalleryImageRequest{}

	file, fileHeader, err := r.FormFile("image")
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	url, err := handler.service.AddGalleryImage(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add gallery image")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Gallery image added successfully")

	response.WithJSON(w, http.StatusCreated, map[string]string{"url": url})
}

// RemoveGalleryImage removes an image from the companion gallery.
// @Summary Remove a gallery image
// @Description Remove an image from the companion gallery by its URL.
// @Tags Companion
// @Accept json
// @Produce json
// @Param id path string true "Companion ID"
// @Param url query string true "Image URL"
// @Success 200 {object} response.Message "Gallery image removed successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/companions/{id}/gallery [delete]
// @Security BearerAuth
func (handler *Handler) RemoveGalleryImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RemoveGalleryImage")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	imageURL := r.URL.Query().Get("url")

	if err := handler.service.RemoveGalleryImage(ctx, id, imageURL); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to remove gallery image")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Gallery image removed successfully")

	response.WithMessage(w, http.StatusOK, "Gallery image removed successfully")
}

// DeleteCompanion deletes a companion by its ID.
// @Summary Delete a companion by ID
// @Description Delete a companion using its unique identifier.
// @Tags Companion
// @Accept json
// @Produce json
// @Param id path string true "Companion ID"
// @Success 200 {object} response.Message "Companion deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/companions/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteCompanion(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteCompanion")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete companion")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Companion deleted successfully")

	response.WithMessage(w, http.StatusOK, "Companion deleted successfully")
}
