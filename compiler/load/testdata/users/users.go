package users

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// User is an application user.
//
//autocolumn:derive table_name:users
type User struct {
	ID                   uint64 `autocolumn:"primary_key" json:"id"`
	Email                string `json:"email"`
	ResetPasswordToken   *string
	SignInCount          uint64
	ConfirmedAt          sql.Null[time.Time]
	TrustLevel           *uint16
	ExternalID           uuid.UUID
	Pin                  *string `autocolumn:"type:Char(6); nullable"`
	CreatedAt, UpdatedAt time.Time
	cache                map[string]any `autocolumn:"-"`
}

//autocolumn:table table_name:'sessions'; primary_key:[id]
type Session struct {
	ID     uint64
	UserID uint64
	Token  string `autocolumn:"type=String(64)"`
}

// Plain structs without a directive are not records.
type Plain struct {
	Name string
}
