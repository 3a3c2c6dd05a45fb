package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoomType is a category of rooms sharing price, capacity and amenities.
type RoomType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TypeName      string  `json:"type_name" gorm:"column:type_name;uniqueIndex;type:varchar(100)"`
	Description   string  `json:"description" gorm:"column:description;size:500"`
	PricePerNight float64 `json:"price_per_night" gorm:"column:price_per_night;type:decimal(10,2)"`
	MaxCapacity   int     `json:"max_capacity" gorm:"column:max_capacity"`

	// Amenity tags, stored as a JSON array, e.g. ["wifi","minibar"].
	Amenities datatypes.JSON `json:"amenities,omitempty" gorm:"column:amenities"`

	PhotoURL string `json:"photo_url,omitempty" gorm:"column:photo_url;size:255"`

	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
