package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

// Supported interface languages. Learners pick one of these and every
// assistant reply and generated course follows it.
const (
	LangEnglish    = "en"
	LangRussian    = "ru"
	LangKarakalpak = "kaa"
	LangUzbek      = "uz"
)

// swagger:model User
type User struct {
	BaseModel
	Name              string    `gorm:"size:100;not null" json:"name"`
	Email             string    `gorm:"size:100;unique;not null" json:"email"`
	Password          string    `gorm:"size:100;not null" json:"-"`
	Role              UserRole  `gorm:"size:16;default:'student'" json:"role"`
	Age               int       `gorm:"default:0" json:"age"`
	PhoneNumber       string    `gorm:"size:32" json:"phoneNumber"`
	PreferredLanguage string    `gorm:"size:10;default:'en'" json:"preferredLanguage"`
	LastLogin         time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
