package services

import (
	"time"

	"shalom-hotel/models"
)

const dateLayout = "2006-01-02"

// CreateBookingRequest is the DTO-shaped input the HTTP layer hands in.
// Either RoomID or RoomTypeID must be set; dates are "2006-01-02" strings.
// TotalPrice, when non-nil, overrides the computed nights x price-per-night.
type CreateBookingRequest struct {
	UserID          uint     `json:"user_id"`
	RoomID          uint     `json:"room_id,omitempty"`
	RoomTypeID      uint     `json:"room_type_id,omitempty"`
	CheckInDate     string   `json:"check_in_date"`
	CheckOutDate    string   `json:"check_out_date"`
	NumAdults       int      `json:"num_adults"`
	NumChildren     int      `json:"num_children"`
	NumberOfGuests  int      `json:"number_of_guests,omitempty"`
	TotalPrice      *float64 `json:"total_price,omitempty"`
	SpecialRequests string   `json:"special_requests,omitempty"`
}

// BookingDTO is what leaves the core: the booking plus the flattened room
// and user fields clients actually render.
type BookingDTO struct {
	ID               uint                 `json:"id"`
	ConfirmationCode string               `json:"confirmation_code"`
	CheckInDate      string               `json:"check_in_date"`
	CheckOutDate     string               `json:"check_out_date"`
	NumAdults        int                  `json:"num_adults"`
	NumChildren      int                  `json:"num_children"`
	NumberOfGuests   int                  `json:"number_of_guests"`
	NumberOfNights   int                  `json:"number_of_nights"`
	TotalPrice       float64              `json:"total_price"`
	Status           models.BookingStatus `json:"status"`
	SpecialRequests  string               `json:"special_requests,omitempty"`
	BookingDate      time.Time            `json:"booking_date"`
	ConfirmedAt      *time.Time           `json:"confirmed_at,omitempty"`
	CancelledAt      *time.Time           `json:"cancelled_at,omitempty"`

	RoomID     uint   `json:"room_id"`
	RoomNumber string `json:"room_number,omitempty"`
	RoomType   string `json:"room_type,omitempty"`

	UserID    uint   `json:"user_id"`
	UserEmail string `json:"user_email,omitempty"`
	UserName  string `json:"user_name,omitempty"`
}

func mapBookingToDTO(b *models.Booking) *BookingDTO {
	dto := &BookingDTO{
		ID:               b.ID,
		ConfirmationCode: b.ConfirmationCode,
		CheckInDate:      b.CheckInDate.Format(dateLayout),
		CheckOutDate:     b.CheckOutDate.Format(dateLayout),
		NumAdults:        b.NumAdults,
		NumChildren:      b.NumChildren,
		NumberOfGuests:   b.NumberOfGuests,
		NumberOfNights:   b.Nights(),
		TotalPrice:       b.TotalPrice,
		Status:           b.Status,
		SpecialRequests:  b.SpecialRequests,
		BookingDate:      b.CreatedAt,
		ConfirmedAt:      b.ConfirmedAt,
		CancelledAt:      b.CancelledAt,
		RoomID:           b.RoomID,
		UserID:           b.UserID,
	}
	if b.Room.ID != 0 {
		dto.RoomNumber = b.Room.RoomNumber
		if b.Room.RoomType.ID != 0 {
			dto.RoomType = b.Room.RoomType.TypeName
		}
	}
	if b.User.ID != 0 {
		dto.UserEmail = b.User.Email
		dto.UserName = b.User.Name
	}
	return dto
}

func mapBookingListToDTO(bookings []models.Booking) []*BookingDTO {
	out := make([]*BookingDTO, 0, len(bookings))
	for i := range bookings {
		out = append(out, mapBookingToDTO(&bookings[i]))
	}
	return out
}
