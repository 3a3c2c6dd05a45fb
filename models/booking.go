package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "PENDING"
	BookingConfirmed  BookingStatus = "CONFIRMED"
	BookingCancelled  BookingStatus = "CANCELLED"
	BookingCheckedIn  BookingStatus = "CHECKED_IN"
	BookingCheckedOut BookingStatus = "CHECKED_OUT"
	BookingNoShow     BookingStatus = "NO_SHOW"
)

// ParseBookingStatus accepts any casing, e.g. "pending" or "CHECKED_IN".
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch st := BookingStatus(normalizeStatus(s)); st {
	case BookingPending, BookingConfirmed, BookingCancelled,
		BookingCheckedIn, BookingCheckedOut, BookingNoShow:
		return st, true
	}
	return "", false
}

// IsTerminal reports whether no further transitions are allowed.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCancelled || s == BookingCheckedOut || s == BookingNoShow
}

// InactiveBookingStatuses lists the statuses that no longer block a room's
// date range. Everything else counts against availability.
func InactiveBookingStatuses() []BookingStatus {
	return []BookingStatus{BookingCancelled, BookingCheckedOut}
}

// CanTransitionTo encodes the booking state machine. Terminal states never
// transition out; NO_SHOW has no incoming transition either.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch next {
	case BookingConfirmed:
		return s == BookingPending
	case BookingCancelled:
		return s == BookingPending || s == BookingConfirmed
	case BookingCheckedIn:
		return s == BookingPending || s == BookingConfirmed
	case BookingCheckedOut:
		return s == BookingCheckedIn
	}
	return false
}

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ConfirmationCode string `gorm:"column:confirmation_code;size:32;uniqueIndex" json:"confirmation_code"`

	RoomID uint `gorm:"index;column:room_id" json:"room_id"`
	UserID uint `gorm:"index;column:user_id" json:"user_id"`

	CheckInDate  time.Time `gorm:"column:check_in_date;type:date" json:"check_in_date"`
	CheckOutDate time.Time `gorm:"column:check_out_date;type:date" json:"check_out_date"`

	NumAdults      int `gorm:"column:num_adults;default:1" json:"num_adults"`
	NumChildren    int `gorm:"column:num_children;default:0" json:"num_children"`
	NumberOfGuests int `gorm:"column:number_of_guests" json:"number_of_guests"`

	TotalPrice float64 `gorm:"column:total_price;type:decimal(10,2)" json:"total_price"`

	Status          BookingStatus `gorm:"column:status;size:32;index" json:"status"`
	SpecialRequests string        `gorm:"column:special_requests;size:500" json:"special_requests,omitempty"`

	ConfirmedAt *time.Time `gorm:"column:confirmed_at" json:"confirmed_at,omitempty"`
	CancelledAt *time.Time `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`

	Room Room `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
	User User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// Nights is the stay length in whole days, minimum 1.
func (b *Booking) Nights() int {
	n := int(b.CheckOutDate.Sub(b.CheckInDate).Hours() / 24)
	if n < 1 {
		n = 1
	}
	return n
}
