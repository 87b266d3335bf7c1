package model

import (
	"velvet/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "companions"
	EntityName = "companion"

	FieldID               = "id"
	FieldName             = "name"
	FieldAge              = "age"
	FieldBio              = "bio"
	FieldImage            = "image"
	FieldImages           = "images"
	FieldRate             = "rate"
	FieldLocation         = "location"
	FieldIsAvailable      = "is_available"
	FieldStatus           = "status"
	FieldTelegramUsername = "telegram_username"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Companion struct {
	ID               string         `db:"id"`
	Name             string         `db:"name"`
	Age              int            `db:"age"`
	Bio              string         `db:"bio"`
	Image            string         `db:"image"`
	Images           pq.StringArray `db:"images"`
	Rate             float64        `db:"rate"`
	Location         string         `db:"location"`
	IsAvailable      bool           `db:"is_available"`
	Status           string         `db:"status"`
	TelegramUsername *string        `db:"telegram_username"`
	model.Metadata
}
