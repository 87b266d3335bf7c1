package dto

import (
	"time"

	"velvet/internal/domains/booking/model"
	"velvet/shared"
	"velvet/shared/constant"
	gDto "velvet/shared/dto"
	gModel "velvet/shared/model"
	"velvet/shared/timezone"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	CompanionID   string  `json:"companion_id"   validate:"required,uuid4"`
	CustomerName  string  `json:"customer_name"  validate:"required,max=100"`
	CustomerEmail string  `json:"customer_email" validate:"required,email"`
	CustomerPhone string  `json:"customer_phone" validate:"required,max=32"`
	Date          string  `json:"date"           validate:"required,datetime=2006-01-02"`
	Time          string  `json:"time"           validate:"required,datetime=15:04"`
	Duration      int     `json:"duration"       validate:"required"`
	Location      string  `json:"location"       validate:"required,max=255"`
	Notes         *string `json:"notes"          validate:"omitempty,max=500"`
}

// ToModel freezes the total amount at submission time from the companion's
// current hourly rate.
func (c *CreateBookingRequest) ToModel(userID string, date time.Time, rate float64) model.Booking {
	return model.Booking{
		ID:            uuid.NewString(),
		CompanionID:   c.CompanionID,
		UserID:        userID,
		CustomerName:  c.CustomerName,
		CustomerEmail: c.CustomerEmail,
		CustomerPhone: c.CustomerPhone,
		Date:          date,
		Time:          c.Time,
		Duration:      c.Duration,
		Location:      c.Location,
		TotalAmount:   rate * float64(c.Duration),
		Status:        constant.BookingStatusPending,
		Notes:         c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  userID,
			ModifiedBy: userID,
		},
	}
}

const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
)

// BookingEvent is the payload published to the booking events topic.
type BookingEvent struct {
	EventType   string    `json:"event_type"`
	BookingID   string    `json:"booking_id"`
	CompanionID string    `json:"companion_id"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Duration    int       `json:"duration"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected completed"`
}

type ConflictResponse struct {
	Conflict bool `json:"conflict"`
}

// BookingRow is the compact listing shape used by the companion schedule view.
type BookingRow struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Duration int    `json:"duration"`
	Status   string `json:"status"`
}

type GetBookingRowsResponse struct {
	Bookings []BookingRow `json:"bookings"`
}

func (r *GetBookingRowsResponse) FromModels(models []model.Booking) {
	r.Bookings = make([]BookingRow, len(models))
	for i, mod := range models {
		r.Bookings[i] = BookingRow{
			Date:     mod.Date.Format(constant.DateOnlyFormat),
			Time:     mod.Time,
			Duration: mod.Duration,
			Status:   mod.Status,
		}
	}
}

type BookingResponse struct {
	ID            string  `json:"id"`
	CompanionID   string  `json:"companion_id"`
	CompanionName string  `json:"companion_name"`
	UserID        string  `json:"user_id"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	CustomerPhone string  `json:"customer_phone"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	Duration      int     `json:"duration"`
	Location      string  `json:"location"`
	TotalAmount   float64 `json:"total_amount"`
	Status        string  `json:"status"`
	Notes         *string `json:"notes"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(mod model.Booking) {
	r.ID = mod.ID
	r.CompanionID = mod.CompanionID
	r.CompanionName = mod.CompanionName
	r.UserID = mod.UserID
	r.CustomerName = mod.CustomerName
	r.CustomerEmail = mod.CustomerEmail
	r.CustomerPhone = mod.CustomerPhone
	r.Date = mod.Date.Format(constant.DateOnlyFormat)
	r.Time = mod.Time
	r.Duration = mod.Duration
	r.Location = mod.Location
	r.TotalAmount = mod.TotalAmount
	r.Status = mod.Status
	r.Notes = mod.Notes
	r.Metadata.FromModel(mod.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
