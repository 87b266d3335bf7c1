package dto

import (
	"mime/multipart"

	"velvet/internal/domains/companion/model"
	"velvet/shared"
	gDto "velvet/shared/dto"
	gModel "velvet/shared/model"
	"velvet/shared/timezone"

	"github.com/google/uuid"
)

type CreateCompanionRequest struct {
	Name             string                `json:"name"              validate:"required,max=100"`
	Age              int                   `json:"age"               validate:"required,min=18,max=99"`
	Bio              string                `json:"bio"               validate:"required"`
	Rate             float64               `json:"rate"              validate:"required,min=0"`
	Location         string                `json:"location"          validate:"required,max=100"`
	TelegramUsername *string               `json:"telegram_username" validate:"omitempty,max=64"`
	IsAvailable      *bool                 `json:"is_available"      validate:"omitempty"`
	Image            *multipart.FileHeader `json:"image"             validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile        multipart.File        `json:"-"`
}

func (c *CreateCompanionRequest) ToModel(user string, imageURL string) model.Companion {
	available := true
	if c.IsAvailable != nil {
		available = *c.IsAvailable
	}

	return model.Companion{
		ID:               uuid.NewString(),
		Name:             c.Name,
		Age:              c.Age,
		Bio:              c.Bio,
		Image:            imageURL,
		Images:           []string{},
		Rate:             c.Rate,
		Location:         c.Location,
		IsAvailable:      available,
		Status:           model.StatusActive,
		TelegramUsername: c.TelegramUsername,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateCompanionRequest struct {
	Name             string                `db:"name"              json:"name"              validate:"omitempty,max=100"`
	Age              *int                  `db:"age"               json:"age"               validate:"omitempty,min=18,max=99"`
	Bio              string                `db:"bio"               json:"bio"               validate:"omitempty"`
	Rate             *float64              `db:"rate"              json:"rate"              validate:"omitempty,min=0"`
	Location         string                `db:"location"          json:"location"          validate:"omitempty,max=100"`
	TelegramUsername *string               `db:"telegram_username" json:"telegram_username" validate:"omitempty,max=64"`
	Status           string                `db:"status"            json:"status"            validate:"omitempty,oneof=active inactive"`
	Image            *multipart.FileHeader `json:"image"           validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile        multipart.File        `json:"-"`
}

// SetAvailabilityRequest flips the companion-wide kill switch. While it is
// off the resolver answers "companion unavailable" for every date.
type SetAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

type AddGalleryImageRequest struct {
	Image     *multipart.FileHeader `json:"image" validate:"required,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
	ImageFile multipart.File        `json:"-"`
}

type CompanionResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Age              int      `json:"age"`
	Bio              string   `json:"bio"`
	Image            string   `json:"image"`
	Images           []string `json:"images"`
	Rate             float64  `json:"rate"`
	Location         string   `json:"location"`
	IsAvailable      bool     `json:"is_available"`
	Status           string   `json:"status"`
	TelegramUsername *string  `json:"telegram_username,omitempty"`
	gDto.Metadata
}

func (r *CompanionResponse) FromModel(model model.Companion) {
	r.ID = model.ID
	r.Name = model.Name
	r.Age = model.Age
	r.Bio = model.Bio
	r.Image = model.Image
	r.Images = model.Images
	r.Rate = model.Rate
	r.Location = model.Location
	r.IsAvailable = model.IsAvailable
	r.Status = model.Status
	r.TelegramUsername = model.TelegramUsername
	r.Metadata.FromModel(model.Metadata)
}

type GetCompanionsResponse struct {
	Companions []CompanionResponse `json:"companions"`
	TotalPage  int                 `json:"total_page"`
	TotalData  int                 `json:"total_data"`
}

func (r *GetCompanionsResponse) FromModels(models []model.Companion, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Companions = make([]CompanionResponse, len(models))
	for i, mod := range models {
		r.Companions[i].FromModel(mod)
	}
}
