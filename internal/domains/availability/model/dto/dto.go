package dto

import (
	"time"

	"velvet/internal/domains/availability/model"
	"velvet/internal/domains/availability/schedule"
	gModel "velvet/shared/model"
	"velvet/shared/timezone"

	"github.com/google/uuid"
)

type CreateSlotRequest struct {
	Date      string  `json:"date"       validate:"required,datetime=2006-01-02"`
	StartTime string  `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string  `json:"end_time"   validate:"required,datetime=15:04"`
	Notes     *string `json:"notes"      validate:"omitempty,max=255"`
}

func (c *CreateSlotRequest) ToModel(companionID, user string, date time.Time) model.AvailabilitySlot {
	return model.AvailabilitySlot{
		ID:          uuid.NewString(),
		CompanionID: companionID,
		Date:        date,
		StartTime:   c.StartTime,
		EndTime:     c.EndTime,
		IsAvailable: false,
		Notes:       c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateSlotRequest struct {
	StartTime   string  `db:"start_time"   json:"start_time"   validate:"omitempty,datetime=15:04"`
	EndTime     string  `db:"end_time"     json:"end_time"     validate:"omitempty,datetime=15:04"`
	IsAvailable *bool   `db:"is_available" json:"is_available" validate:"omitempty"`
	Notes       *string `db:"notes"        json:"notes"        validate:"omitempty,max=255"`
}

type SlotResponse struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	IsAvailable bool    `json:"is_available"`
	Notes       *string `json:"notes"`
}

func (r *SlotResponse) FromModel(mod model.AvailabilitySlot, dateFormat string) {
	r.ID = mod.ID
	r.Date = mod.Date.Format(dateFormat)
	r.StartTime = mod.StartTime
	r.EndTime = mod.EndTime
	r.IsAvailable = mod.IsAvailable
	r.Notes = mod.Notes
}

type GetSlotsResponse struct {
	Slots []SlotResponse `json:"slots"`
}

func (r *GetSlotsResponse) FromModels(models []model.AvailabilitySlot, dateFormat string) {
	r.Slots = make([]SlotResponse, len(models))
	for i, mod := range models {
		r.Slots[i].FromModel(mod, dateFormat)
	}
}

type CreateBlackoutRequest struct {
	Date   string  `json:"date"   validate:"required,datetime=2006-01-02"`
	Reason *string `json:"reason" validate:"omitempty,max=255"`
}

func (c *CreateBlackoutRequest) ToModel(companionID, user string, date time.Time) model.UnavailableDay {
	return model.UnavailableDay{
		ID:          uuid.NewString(),
		CompanionID: companionID,
		Date:        date,
		Reason:      c.Reason,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type BlackoutResponse struct {
	ID     string  `json:"id"`
	Date   string  `json:"date"`
	Reason *string `json:"reason"`
}

func (r *BlackoutResponse) FromModel(mod model.UnavailableDay, dateFormat string) {
	r.ID = mod.ID
	r.Date = mod.Date.Format(dateFormat)
	r.Reason = mod.Reason
}

type GetBlackoutsResponse struct {
	UnavailableDays []BlackoutResponse `json:"unavailable_days"`
}

func (r *GetBlackoutsResponse) FromModels(models []model.UnavailableDay, dateFormat string) {
	r.UnavailableDays = make([]BlackoutResponse, len(models))
	for i, mod := range models {
		r.UnavailableDays[i].FromModel(mod, dateFormat)
	}
}

type GetTimeSlotsResponse struct {
	Slots []schedule.SlotRow `json:"slots"`
}

type ResolveResponse struct {
	Outcome    string   `json:"outcome"`
	StartTimes []string `json:"start_times"`
	Message    string   `json:"message,omitempty"`
}

func (r *ResolveResponse) FromResolution(res schedule.Resolution, message string) {
	r.Outcome = string(res.Outcome)
	r.StartTimes = res.StartTimes
	r.Message = message

	if r.StartTimes == nil {
		r.StartTimes = []string{}
	}
}
