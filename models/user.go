package models

import (
	"gorm.io/gorm"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	gorm.Model

	Email    string `json:"email" gorm:"column:email;uniqueIndex;type:varchar(255)"`
	Password string `json:"-" gorm:"column:password;size:255"`
	Name     string `json:"name" gorm:"column:name;size:255"`
	Phone    string `json:"phone,omitempty" gorm:"column:phone;size:32"`
	Role     string `json:"role" gorm:"column:role;size:16;default:USER"`
}
