package dto

import (
	"velvet/internal/domains/user/model"
	"velvet/shared"
	"velvet/shared/constant"
	gDto "velvet/shared/dto"
	gModel "velvet/shared/model"
	"velvet/shared/timezone"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Email       string  `json:"email"                  validate:"required,email"`
	Password    string  `json:"password"               validate:"required,min=8"`
	Role        string  `json:"role"                   validate:"omitempty,oneof=admin companion user"`
	CompanionID *string `json:"companion_id,omitempty" validate:"omitempty,uuid4"`
	FullName    *string `json:"full_name,omitempty"`
}

func (r *CreateUserRequest) ToModel(username string, hashedPassword string) model.User {
	role := r.Role
	if role == "" {
		role = constant.RoleUser
	}

	return model.User{
		ID:          uuid.NewString(),
		Email:       r.Email,
		Password:    hashedPassword,
		Role:        role,
		CompanionID: r.CompanionID,
		FullName:    r.FullName,
		Active:      true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}
}

type UserResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	CompanionID *string `json:"companion_id,omitempty"`
	FullName    *string `json:"full_name,omitempty"`
	LastLogin   *string `json:"last_login,omitempty"`
	Active      bool    `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.Role = model.Role
	r.CompanionID = model.CompanionID
	r.FullName = model.FullName
	r.LastLogin = model.LastLogin
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type UpdateUserRequest struct {
	Role        *string `json:"role,omitempty"         db:"role"         validate:"omitempty,oneof=admin companion user"`
	CompanionID *string `json:"companion_id,omitempty" db:"companion_id" validate:"omitempty,uuid4"`
	FullName    *string `json:"full_name,omitempty"    db:"full_name"`
	Active      *bool   `json:"active,omitempty"       db:"active"`
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
