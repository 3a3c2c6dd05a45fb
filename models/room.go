package models

import (
	"strings"

	"gorm.io/gorm"
)

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "AVAILABLE"
	RoomReserved    RoomStatus = "RESERVED"
	RoomOccupied    RoomStatus = "OCCUPIED"
	RoomCleaning    RoomStatus = "CLEANING"
	RoomMaintenance RoomStatus = "MAINTENANCE"
)

func normalizeStatus(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ParseRoomStatus accepts any casing, e.g. "cleaning".
func ParseRoomStatus(s string) (RoomStatus, bool) {
	switch st := RoomStatus(normalizeStatus(s)); st {
	case RoomAvailable, RoomReserved, RoomOccupied, RoomCleaning, RoomMaintenance:
		return st, true
	}
	return "", false
}

// CanTransitionTo guards manual room-status updates from the catalog side.
// The lifecycle manager flips statuses directly as booking side effects and
// does not go through this table.
func (s RoomStatus) CanTransitionTo(next RoomStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case RoomAvailable:
		return next == RoomReserved || next == RoomMaintenance
	case RoomReserved:
		return next == RoomAvailable || next == RoomOccupied
	case RoomOccupied:
		return next == RoomCleaning
	case RoomCleaning:
		return next == RoomAvailable
	case RoomMaintenance:
		return next == RoomAvailable
	}
	return false
}

type Room struct {
	gorm.Model

	RoomNumber  string `json:"room_number" gorm:"column:room_number;uniqueIndex;type:varchar(50)"`
	FloorNumber int    `json:"floor_number" gorm:"column:floor_number"`

	RoomTypeID uint       `json:"room_type_id" gorm:"column:room_type_id;index"`
	Status     RoomStatus `json:"status" gorm:"column:status;size:32;default:AVAILABLE"`

	HasView         bool   `json:"has_view" gorm:"column:has_view;default:false"`
	IsAccessible    bool   `json:"is_accessible" gorm:"column:is_accessible;default:false"`
	SpecialFeatures string `json:"special_features,omitempty" gorm:"column:special_features;size:500"`

	RoomType RoomType `gorm:"foreignKey:RoomTypeID" json:"room_type,omitempty"`
}
