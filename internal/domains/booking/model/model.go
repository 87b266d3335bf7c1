package model

import (
	"time"

	"velvet/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID            = "id"
	FieldCompanionID   = "companion_id"
	FieldUserID        = "user_id"
	FieldCustomerName  = "customer_name"
	FieldCustomerEmail = "customer_email"
	FieldCustomerPhone = "customer_phone"
	FieldDate          = "date"
	FieldTime          = "time"
	FieldDuration      = "duration"
	FieldLocation      = "location"
	FieldStatus        = "status"
	FieldTotalAmount   = "total_amount"
	FieldNotes         = "notes"

	companionTable = "companions"
)

type Booking struct {
	ID            string    `db:"id"`
	CompanionID   string    `db:"companion_id"`
	UserID        string    `db:"user_id"`
	CustomerName  string    `db:"customer_name"`
	CustomerEmail string    `db:"customer_email"`
	CustomerPhone string    `db:"customer_phone"`
	Date          time.Time `db:"date"`
	Time          string    `db:"time"`
	Duration      int       `db:"duration"`
	Location      string    `db:"location"`
	TotalAmount   float64   `db:"total_amount"`
	Status        string    `db:"status"`
	Notes         *string   `db:"notes"`
	CompanionName string    `column:"name" db:"companion_name" table:"companions"`
	CompanionRate float64   `column:"rate" db:"companion_rate" table:"companions"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN " + companionTable + " ON " + companionTable + ".id = " + TableName + ".companion_id"
}
