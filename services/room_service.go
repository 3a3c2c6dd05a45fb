package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"shalom-hotel/models"
	"shalom-hotel/repository"
)

// RoomService covers catalog management: room types and rooms. It never
// touches booking state; the one booking-aware rule here is refusing to
// delete a room that still has active or future bookings.
type RoomService struct {
	store repository.Store
	now   func() time.Time
}

func NewRoomService(store repository.Store) *RoomService {
	return &RoomService{store: store, now: time.Now}
}

type RoomTypeRequest struct {
	TypeName      string   `json:"type_name"`
	Description   string   `json:"description"`
	PricePerNight float64  `json:"price_per_night"`
	MaxCapacity   int      `json:"max_capacity"`
	Amenities     []string `json:"amenities,omitempty"`
	// optional data-URL or raw base64 photo payload
	PhotoBase64 string `json:"photo_base64,omitempty"`
}

type RoomRequest struct {
	RoomNumber      string `json:"room_number"`
	FloorNumber     *int   `json:"floor_number"`
	RoomTypeID      uint   `json:"room_type_id"`
	HasView         *bool  `json:"has_view,omitempty"`
	IsAccessible    *bool  `json:"is_accessible,omitempty"`
	SpecialFeatures string `json:"special_features,omitempty"`
}

func amenitiesJSON(tags []string) (datatypes.JSON, error) {
	if tags == nil {
		return nil, nil
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// ---------------- room types ----------------

func (s *RoomService) AddRoomType(ctx context.Context, req RoomTypeRequest) (*models.RoomType, error) {
	name := strings.TrimSpace(req.TypeName)
	if name == "" {
		return nil, ErrValidation("room type name is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrValidation("description is required")
	}
	if req.PricePerNight <= 0 {
		return nil, ErrValidation("valid price per night is required")
	}
	if req.MaxCapacity <= 0 {
		return nil, ErrValidation("valid max capacity is required")
	}

	if _, err := s.store.FindRoomTypeByName(ctx, name); err == nil {
		return nil, ErrConflict(fmt.Sprintf("room type '%s' already exists", name))
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInternal("failed to check room type name", err)
	}

	amenities, err := amenitiesJSON(req.Amenities)
	if err != nil {
		return nil, ErrValidation("invalid amenities list")
	}

	photoURL := ""
	if strings.TrimSpace(req.PhotoBase64) != "" {
		photoURL, err = SaveBase64Image(req.PhotoBase64, "room-types")
		if err != nil {
			return nil, ErrInternal("failed to store photo", err)
		}
	}

	rt := &models.RoomType{
		TypeName:      name,
		Description:   strings.TrimSpace(req.Description),
		PricePerNight: req.PricePerNight,
		MaxCapacity:   req.MaxCapacity,
		Amenities:     amenities,
		PhotoURL:      photoURL,
	}
	if err := s.store.SaveRoomType(ctx, rt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict(fmt.Sprintf("room type '%s' already exists", name))
		}
		return nil, ErrInternal("failed to add room type", err)
	}
	return rt, nil
}

// UpdateRoomType applies the provided fields only; zero values leave the
// existing value alone, matching the partial-update semantics clients rely
// on.
func (s *RoomService) UpdateRoomType(ctx context.Context, id uint, req RoomTypeRequest) (*models.RoomType, error) {
	rt, err := s.store.FindRoomTypeByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound("room type not found")
		}
		return nil, ErrInternal("failed to load room type", err)
	}

	if desc := strings.TrimSpace(req.Description); desc != "" {
		rt.Description = desc
	}
	if req.PricePerNight > 0 {
		rt.PricePerNight = req.PricePerNight
	}
	if req.MaxCapacity > 0 {
		rt.MaxCapacity = req.MaxCapacity
	}
	if req.Amenities != nil {
		amenities, err := amenitiesJSON(req.Amenities)
		if err != nil {
			return nil, ErrValidation("invalid amenities list")
		}
		rt.Amenities = amenities
	}
	if strings.TrimSpace(req.PhotoBase64) != "" {
		photoURL, err := SaveBase64Image(req.PhotoBase64, "room-types")
		if err != nil {
			return nil, ErrInternal("failed to store photo", err)
		}
		rt.PhotoURL = photoURL
	}

	if err := s.store.SaveRoomType(ctx, rt); err != nil {
		return nil, ErrInternal("failed to update room type", err)
	}
	return rt, nil
}

func (s *RoomService) DeleteRoomType(ctx context.Context, id uint) error {
	rt, err := s.store.FindRoomTypeByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound("room type not found")
		}
		return ErrInternal("failed to load room type", err)
	}

	count, err := s.store.CountRoomsByType(ctx, rt.ID)
	if err != nil {
		return ErrInternal("failed to count rooms", err)
	}
	if count > 0 {
		return ErrConflict(fmt.Sprintf("cannot delete room type: %d rooms are using it", count))
	}

	if err := s.store.DeleteRoomType(ctx, rt.ID); err != nil {
		return ErrInternal("failed to delete room type", err)
	}
	return nil
}

func (s *RoomService) GetRoomTypes(ctx context.Context) ([]models.RoomType, error) {
	types, err := s.store.ListRoomTypes(ctx)
	if err != nil {
		return nil, ErrInternal("failed to retrieve room types", err)
	}
	return types, nil
}

func (s *RoomService) GetRoomTypeByID(ctx context.Context, id uint) (*models.RoomType, error) {
	rt, err := s.store.FindRoomTypeByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound("room type not found")
		}
		return nil, ErrInternal("failed to retrieve room type", err)
	}
	return rt, nil
}

// ---------------- rooms ----------------

func (s *RoomService) AddRoom(ctx context.Context, req RoomRequest) (*models.Room, error) {
	number := strings.TrimSpace(req.RoomNumber)
	if number == "" {
		return nil, ErrValidation("room number is required")
	}
	if req.FloorNumber == nil || *req.FloorNumber < 0 {
		return nil, ErrValidation("valid floor number is required")
	}
	if req.RoomTypeID == 0 {
		return nil, ErrValidation("room type ID is required")
	}

	if _, err := s.store.FindRoomByNumber(ctx, number); err == nil {
		return nil, ErrConflict(fmt.Sprintf("room number '%s' already exists", number))
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInternal("failed to check room number", err)
	}

	rt, err := s.store.FindRoomTypeByID(ctx, req.RoomTypeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound("room type not found")
		}
		return nil, ErrInternal("failed to load room type", err)
	}

	room := &models.Room{
		RoomNumber:      number,
		FloorNumber:     *req.FloorNumber,
		RoomTypeID:      rt.ID,
		Status:          models.RoomAvailable,
		SpecialFeatures: strings.TrimSpace(req.SpecialFeatures),
	}
	if req.HasView != nil {
		room.HasView = *req.HasView
	}
	if req.IsAccessible != nil {
		room.IsAccessible = *req.IsAccessible
	}

	if err := s.store.SaveRoom(ctx, room); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict(fmt.Sprintf("room number '%s' already exists", number))
		}
		return nil, ErrInternal("failed to add room", err)
	}
	room.RoomType = *rt
	return room, nil
}

func (s *RoomService) UpdateRoom(ctx context.Context, id uint, req RoomRequest) (*models.Room, error) {
	room, err := s.store.FindRoomByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound("room not found")
		}
		return nil, ErrInternal("failed to load room", err)
	}

	if number := strings.TrimSpace(req.RoomNumber); number != "" && number != room.RoomNumber {
		if _, err := s.store.FindRoomByNumber(ctx, number); err == nil {
			return nil, ErrConflict(fmt.Sprintf("room number '%s' already exists", number))
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInternal("failed to check room number", err)
		}
		room.RoomNumber = number
	}
	if req.FloorNumber != nil && *req.FloorNumber >= 0 {
		room.FloorNumber = *req.FloorNumber
	}
	if req.RoomTypeID != 0 && req.RoomTypeID != room.RoomTypeID {
		rt, err := s.store.FindRoomTypeByID(ctx, req.RoomTypeID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound("room type not found")
			}
			return nil, ErrInternal("failed to load room type", err)
		}
		room.RoomTypeID = rt.ID
		room.RoomType = *rt
	}
	if req.HasView != nil {
		room.HasView = *req.HasView
	}
	if req.IsAccessible != nil {
		room.IsAccessible = *req.IsAccessible
	}
	if req.SpecialFeatures != "" {
		room.SpecialFeatures = strings.TrimSpace(req.SpecialFeatures)
	}

	if err := s.store.SaveRoom(ctx, room); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict(fmt.Sprintf("room number '%s' already exists", room.RoomNumber))
		}
		return nil, ErrInternal("failed to update room", err)
	}
	return room, nil
}

// UpdateRoomStatus is the manual catalog-side status change (housekeeping,
// maintenance). Booking-driven flips bypass this and go through
// BookingService.
func (s *RoomService) UpdateRoomStatus(ctx context.Context, id uint, status string) (*models.Room, error) {
	next, ok := models.ParseRoomStatus(status)
	if !ok {
		return nil, ErrValidation("invalid status: " + status)
	}

	room, err := s.store.FindRoomByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound("room not found")
		}
		return nil, ErrInternal("failed to load room", err)
	}

	if !room.Status.CanTransitionTo(next) {
		return nil, ErrConflict(fmt.Sprintf("invalid status transition from %s to %s", room.Status, next))
	}

	room.Status = next
	if err := s.store.SaveRoom(ctx, room); err != nil {
		return nil, ErrInternal("failed to update room status", err)
	}
	return room, nil
}

func (s *RoomService) DeleteRoom(ctx context.Context, id uint) error {
	room, err := s.store.FindRoomByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound("room not found")
		}
		return ErrInternal("failed to load room", err)
	}

	y, m, d := s.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	active, err := s.store.HasBookingEndingAfter(ctx, room.ID, today)
	if err != nil {
		return ErrInternal("failed to check bookings", err)
	}
	if active {
		return ErrConflict("cannot delete room with active or future bookings")
	}

	if err := s.store.DeleteRoom(ctx, room.ID); err != nil {
		return ErrInternal("failed to delete room", err)
	}
	return nil
}

func (s *RoomService) GetAllRooms(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, ErrInternal("failed to retrieve rooms", err)
	}
	return rooms, nil
}

func (s *RoomService) GetRoomByID(ctx context.Context, id uint) (*models.Room, error) {
	room, err := s.store.FindRoomByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound("room not found")
		}
		return nil, ErrInternal("failed to retrieve room", err)
	}
	return room, nil
}

// GetAvailableRoomsByDatesAndType lists every room of the named type that
// could take the date range. Read-only; the answer is advisory and gets
// re-verified under lock at booking time.
func (s *RoomService) GetAvailableRoomsByDatesAndType(ctx context.Context, checkInStr, checkOutStr, typeName string) ([]models.Room, error) {
	if strings.TrimSpace(checkInStr) == "" || strings.TrimSpace(checkOutStr) == "" {
		return nil, ErrValidation("check-in and check-out dates are required")
	}
	checkIn, err := parseDate(checkInStr)
	if err != nil {
		return nil, ErrValidation("invalid check-in date, expected YYYY-MM-DD")
	}
	checkOut, err := parseDate(checkOutStr)
	if err != nil {
		return nil, ErrValidation("invalid check-out date, expected YYYY-MM-DD")
	}

	y, m, d := s.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if checkIn.Before(today) {
		return nil, ErrValidation("check-in date cannot be in the past")
	}
	if !checkOut.After(checkIn) {
		return nil, ErrValidation("check-out date must be after check-in date")
	}
	if strings.TrimSpace(typeName) == "" {
		return nil, ErrValidation("room type is required")
	}

	rt, err := s.store.FindRoomTypeByName(ctx, strings.TrimSpace(typeName))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound("room type not found")
		}
		return nil, ErrInternal("failed to load room type", err)
	}

	rooms, err := s.store.FindRoomsByType(ctx, rt.ID)
	if err != nil {
		return nil, ErrInternal("failed to load rooms", err)
	}

	engine := NewAvailabilityEngine(s.store)
	available := make([]models.Room, 0, len(rooms))
	for i := range rooms {
		ok, err := engine.IsRoomAvailable(ctx, &rooms[i], checkIn, checkOut)
		if err != nil {
			return nil, ErrInternal("failed to check availability", err)
		}
		if ok {
			available = append(available, rooms[i])
		}
	}
	return available, nil
}
