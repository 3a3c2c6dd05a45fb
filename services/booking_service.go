package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"shalom-hotel/models"
	"shalom-hotel/repository"
	"shalom-hotel/utils"
)

// how many times to regenerate a confirmation code when the unique index
// rejects it before giving up
const codeMaxRetries = 5

// BookingService owns the booking state machine and is the only writer of
// Booking and Room status. Every mutating operation runs inside a store
// transaction so Booking and Room updates apply atomically; availability is
// re-checked under the transaction's room lock, which closes the
// check-then-act race between concurrent requests for the same room.
type BookingService struct {
	store repository.Store
	log   *logrus.Logger

	// overridable for tests exercising date rules
	now func() time.Time
}

func NewBookingService(store repository.Store, log *logrus.Logger) *BookingService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &BookingService{store: store, log: log, now: time.Now}
}

// today returns the current date at UTC midnight, comparable against the
// date-only check-in/check-out columns.
func (s *BookingService) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(value))
}

// resolveGuests mirrors the request shape: an explicit total wins,
// otherwise adults + children.
func resolveGuests(req CreateBookingRequest) int {
	if req.NumberOfGuests > 0 {
		return req.NumberOfGuests
	}
	return req.NumAdults + req.NumChildren
}

// CreateBooking validates the request, picks or verifies a room through the
// availability engine and persists the new PENDING booking plus the
// RESERVED room flip in one transaction.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingDTO, error) {
	// fail fast, first failing check wins
	if req.UserID == 0 {
		return nil, ErrValidation("user ID is required")
	}
	if req.RoomID == 0 && req.RoomTypeID == 0 {
		return nil, ErrValidation("either room ID or room type ID is required")
	}
	if strings.TrimSpace(req.CheckInDate) == "" {
		return nil, ErrValidation("check-in date is required")
	}
	checkIn, err := parseDate(req.CheckInDate)
	if err != nil {
		return nil, ErrValidation("invalid check-in date, expected YYYY-MM-DD")
	}
	if strings.TrimSpace(req.CheckOutDate) == "" {
		return nil, ErrValidation("check-out date is required")
	}
	checkOut, err := parseDate(req.CheckOutDate)
	if err != nil {
		return nil, ErrValidation("invalid check-out date, expected YYYY-MM-DD")
	}
	guests := resolveGuests(req)
	if guests <= 0 || req.NumAdults < 0 || req.NumChildren < 0 {
		return nil, ErrValidation("valid number of guests is required")
	}
	if checkIn.Before(s.today()) {
		return nil, ErrValidation("check-in date cannot be in the past")
	}
	if !checkOut.After(checkIn) {
		return nil, ErrValidation("check-out date must be after check-in date")
	}
	if req.TotalPrice != nil && *req.TotalPrice <= 0 {
		return nil, ErrValidation("total price must be positive")
	}

	var created *models.Booking
	var room *models.Room
	var user *models.User

	txErr := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		user, err = tx.FindUserByID(ctx, req.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound("user not found")
			}
			return ErrInternal("failed to load user", err)
		}

		engine := NewAvailabilityEngine(tx)

		if req.RoomID != 0 {
			// lock the room row first: the availability answer must hold
			// until this transaction commits
			room, err = tx.FindRoomByIDForUpdate(ctx, req.RoomID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return ErrNotFound(fmt.Sprintf("room not found with ID %d", req.RoomID))
				}
				return ErrInternal("failed to load room", err)
			}
			ok, err := engine.IsRoomAvailableForDirectBooking(ctx, room, checkIn, checkOut)
			if err != nil {
				return ErrInternal("failed to check availability", err)
			}
			if !ok {
				return ErrConflict(fmt.Sprintf("room %s is not available for the selected dates", room.RoomNumber))
			}
			if guests > room.RoomType.MaxCapacity {
				return ErrValidation(fmt.Sprintf("number of guests (%d) exceeds room capacity (%d)", guests, room.RoomType.MaxCapacity))
			}
		} else {
			candidate, err := engine.FindAvailableRoomInType(ctx, req.RoomTypeID, checkIn, checkOut, guests)
			if err != nil {
				return ErrInternal("failed to search rooms", err)
			}
			if candidate == nil {
				return ErrConflict("no available rooms of this type for the selected dates")
			}
			// lock the chosen room and re-verify; another transaction may
			// have grabbed it between the scan and the lock
			room, err = tx.FindRoomByIDForUpdate(ctx, candidate.ID)
			if err != nil {
				return ErrInternal("failed to lock room", err)
			}
			ok, err := engine.IsRoomAvailable(ctx, room, checkIn, checkOut)
			if err != nil {
				return ErrInternal("failed to check availability", err)
			}
			if !ok {
				return ErrConflict("no available rooms of this type for the selected dates")
			}
		}

		nights := int(checkOut.Sub(checkIn).Hours() / 24)
		if nights < 1 {
			nights = 1
		}
		totalPrice := float64(nights) * room.RoomType.PricePerNight
		if req.TotalPrice != nil {
			totalPrice = *req.TotalPrice
		}

		booking := &models.Booking{
			RoomID:          room.ID,
			UserID:          user.ID,
			CheckInDate:     checkIn,
			CheckOutDate:    checkOut,
			NumAdults:       req.NumAdults,
			NumChildren:     req.NumChildren,
			NumberOfGuests:  guests,
			TotalPrice:      totalPrice,
			Status:          models.BookingPending,
			SpecialRequests: strings.TrimSpace(req.SpecialRequests),
		}

		if err := s.saveWithFreshCode(ctx, tx, booking); err != nil {
			return err
		}

		room.Status = models.RoomReserved
		if err := tx.SaveRoom(ctx, room); err != nil {
			return ErrInternal("failed to reserve room", err)
		}

		created = booking
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.WithFields(logrus.Fields{
		"booking_id":        created.ID,
		"confirmation_code": created.ConfirmationCode,
		"room_id":           room.ID,
		"room_number":       room.RoomNumber,
		"user_id":           user.ID,
		"check_in":          created.CheckInDate.Format(dateLayout),
		"check_out":         created.CheckOutDate.Format(dateLayout),
	}).Info("booking created")

	created.Room = *room
	created.User = *user
	return mapBookingToDTO(created), nil
}

// saveWithFreshCode persists the booking, regenerating the confirmation
// code when the unique index reports a collision. Anything but a duplicate
// is an infrastructure fault.
func (s *BookingService) saveWithFreshCode(ctx context.Context, tx repository.Store, booking *models.Booking) error {
	for attempt := 0; attempt < codeMaxRetries; attempt++ {
		code, err := utils.GenerateConfirmationCode(s.now())
		if err != nil {
			return ErrInternal("failed to generate confirmation code", err)
		}
		booking.ConfirmationCode = code

		err = tx.Save(ctx, booking)
		if err == nil {
			return nil
		}
		if errors.Is(err, repository.ErrDuplicate) {
			s.log.WithFields(logrus.Fields{
				"attempt": attempt + 1,
				"code":    code,
			}).Warn("confirmation code collision, regenerating")
			continue
		}
		return ErrInternal("failed to save booking", err)
	}
	return ErrInternal("failed to generate a unique confirmation code", nil)
}

// findByCode loads the booking or reports not-found.
func findByCode(ctx context.Context, tx repository.Store, code string) (*models.Booking, error) {
	booking, err := tx.FindByConfirmationCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound("booking not found with code: " + code)
		}
		return nil, ErrInternal("failed to load booking", err)
	}
	return booking, nil
}

// ConfirmBooking moves PENDING to CONFIRMED. The room stays RESERVED.
func (s *BookingService) ConfirmBooking(ctx context.Context, code string) (*BookingDTO, error) {
	var confirmed *models.Booking
	txErr := s.store.Transaction(ctx, func(tx repository.Store) error {
		booking, err := findByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		if booking.Status != models.BookingPending {
			return ErrConflict("only pending bookings can be confirmed")
		}
		now := s.now()
		booking.Status = models.BookingConfirmed
		booking.ConfirmedAt = &now
		if err := tx.Save(ctx, booking); err != nil {
			return ErrInternal("failed to confirm booking", err)
		}
		confirmed = booking
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.WithFields(logrus.Fields{
		"booking_id":        confirmed.ID,
		"confirmation_code": confirmed.ConfirmationCode,
	}).Info("booking confirmed")
	return mapBookingToDTO(confirmed), nil
}

// CancelBooking moves PENDING/CONFIRMED to CANCELLED and releases the room,
// but only when the room is still RESERVED — an OCCUPIED or CLEANING room
// belongs to some other activity and must not be clobbered.
func (s *BookingService) CancelBooking(ctx context.Context, code string) (*BookingDTO, error) {
	var cancelled *models.Booking
	txErr := s.store.Transaction(ctx, func(tx repository.Store) error {
		booking, err := findByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		if booking.Status == models.BookingCancelled {
			return ErrConflict("booking is already cancelled")
		}
		if booking.Status == models.BookingCheckedIn || booking.Status == models.BookingCheckedOut {
			return ErrConflict("cannot cancel booking that is already checked in/out")
		}
		if !booking.Status.CanTransitionTo(models.BookingCancelled) {
			return ErrConflict(fmt.Sprintf("cannot cancel booking in status %s", booking.Status))
		}

		now := s.now()
		booking.Status = models.BookingCancelled
		booking.CancelledAt = &now
		if err := tx.Save(ctx, booking); err != nil {
			return ErrInternal("failed to cancel booking", err)
		}

		room, err := tx.FindRoomByIDForUpdate(ctx, booking.RoomID)
		if err != nil {
			return ErrInternal("failed to load room", err)
		}
		if room.Status == models.RoomReserved {
			room.Status = models.RoomAvailable
			if err := tx.SaveRoom(ctx, room); err != nil {
				return ErrInternal("failed to release room", err)
			}
		}
		booking.Room = *room
		cancelled = booking
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.WithFields(logrus.Fields{
		"booking_id":        cancelled.ID,
		"confirmation_code": cancelled.ConfirmationCode,
	}).Info("booking cancelled")
	return mapBookingToDTO(cancelled), nil
}

// CheckIn moves PENDING/CONFIRMED to CHECKED_IN once the check-in date has
// arrived, and flips the room to OCCUPIED.
func (s *BookingService) CheckIn(ctx context.Context, code string) (*BookingDTO, error) {
	var checkedIn *models.Booking
	txErr := s.store.Transaction(ctx, func(tx repository.Store) error {
		booking, err := findByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		if !booking.Status.CanTransitionTo(models.BookingCheckedIn) {
			return ErrConflict("only confirmed or pending bookings can be checked in")
		}
		if booking.CheckInDate.After(s.today()) {
			return ErrConflict("cannot check in before check-in date")
		}

		booking.Status = models.BookingCheckedIn
		if err := tx.Save(ctx, booking); err != nil {
			return ErrInternal("failed to check in booking", err)
		}

		room, err := tx.FindRoomByIDForUpdate(ctx, booking.RoomID)
		if err != nil {
			return ErrInternal("failed to load room", err)
		}
		room.Status = models.RoomOccupied
		if err := tx.SaveRoom(ctx, room); err != nil {
			return ErrInternal("failed to mark room occupied", err)
		}
		booking.Room = *room
		checkedIn = booking
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.WithFields(logrus.Fields{
		"booking_id":        checkedIn.ID,
		"confirmation_code": checkedIn.ConfirmationCode,
		"room_id":           checkedIn.RoomID,
	}).Info("guest checked in")
	return mapBookingToDTO(checkedIn), nil
}

// CheckOut moves CHECKED_IN to CHECKED_OUT and sends the room to CLEANING.
func (s *BookingService) CheckOut(ctx context.Context, code string) (*BookingDTO, error) {
	var checkedOut *models.Booking
	txErr := s.store.Transaction(ctx, func(tx repository.Store) error {
		booking, err := findByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		if booking.Status != models.BookingCheckedIn {
			return ErrConflict("only checked-in bookings can be checked out")
		}

		booking.Status = models.BookingCheckedOut
		if err := tx.Save(ctx, booking); err != nil {
			return ErrInternal("failed to check out booking", err)
		}

		room, err := tx.FindRoomByIDForUpdate(ctx, booking.RoomID)
		if err != nil {
			return ErrInternal("failed to load room", err)
		}
		room.Status = models.RoomCleaning
		if err := tx.SaveRoom(ctx, room); err != nil {
			return ErrInternal("failed to mark room for cleaning", err)
		}
		booking.Room = *room
		checkedOut = booking
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.WithFields(logrus.Fields{
		"booking_id":        checkedOut.ID,
		"confirmation_code": checkedOut.ConfirmationCode,
		"room_id":           checkedOut.RoomID,
	}).Info("guest checked out")
	return mapBookingToDTO(checkedOut), nil
}

// ---------------- reads ----------------

func (s *BookingService) GetBookingByConfirmationCode(ctx context.Context, code string) (*BookingDTO, error) {
	booking, err := findByCode(ctx, s.store, code)
	if err != nil {
		return nil, err
	}
	return mapBookingToDTO(booking), nil
}

func (s *BookingService) GetUserBookings(ctx context.Context, userID uint) ([]*BookingDTO, error) {
	bookings, err := s.store.FindByUserID(ctx, userID)
	if err != nil {
		return nil, ErrInternal("failed to retrieve bookings", err)
	}
	return mapBookingListToDTO(bookings), nil
}

func (s *BookingService) GetAllBookings(ctx context.Context) ([]*BookingDTO, error) {
	bookings, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, ErrInternal("failed to retrieve bookings", err)
	}
	return mapBookingListToDTO(bookings), nil
}

func (s *BookingService) GetBookingsByStatus(ctx context.Context, status string) ([]*BookingDTO, error) {
	parsed, ok := models.ParseBookingStatus(status)
	if !ok {
		return nil, ErrValidation("invalid status: " + status)
	}
	bookings, err := s.store.FindByStatus(ctx, parsed)
	if err != nil {
		return nil, ErrInternal("failed to retrieve bookings", err)
	}
	return mapBookingListToDTO(bookings), nil
}

// SearchBookings is a case-sensitive substring match over confirmation
// code, user email, user name and room number. Pure read.
func (s *BookingService) SearchBookings(ctx context.Context, term string) ([]*BookingDTO, error) {
	bookings, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, ErrInternal("failed to search bookings", err)
	}
	var matched []models.Booking
	for _, b := range bookings {
		if strings.Contains(b.ConfirmationCode, term) ||
			strings.Contains(b.User.Email, term) ||
			strings.Contains(b.User.Name, term) ||
			strings.Contains(b.Room.RoomNumber, term) {
			matched = append(matched, b)
		}
	}
	return mapBookingListToDTO(matched), nil
}
