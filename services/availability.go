package services

import (
	"context"
	"fmt"
	"time"

	"shalom-hotel/models"
	"shalom-hotel/repository"
)

// AvailabilityEngine answers "can this room take this date range?". It only
// reads; room and booking state is mutated by BookingService alone. The
// overlap rule lives here in code, not in SQL, because "touching dates are
// not overlaps" is a business invariant that must stay unit-testable
// without a database.
//
// Construct it over the transactional store when the answer has to stay
// true until commit; over the base store for plain read paths.
type AvailabilityEngine struct {
	store repository.Store
}

func NewAvailabilityEngine(store repository.Store) *AvailabilityEngine {
	return &AvailabilityEngine{store: store}
}

// rangesOverlap is the half-open interval test: [aIn,aOut) and [bIn,bOut)
// overlap iff aIn < bOut && aOut > bIn. Back-to-back stays sharing a day
// boundary do not overlap.
func rangesOverlap(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}

// IsRoomAvailable reports whether the room can accommodate [checkIn,
// checkOut). Rooms under MAINTENANCE, OCCUPIED or RESERVED are out
// regardless of dates.
func (e *AvailabilityEngine) IsRoomAvailable(ctx context.Context, room *models.Room, checkIn, checkOut time.Time) (bool, error) {
	if room.Status != models.RoomAvailable && room.Status != models.RoomCleaning {
		return false, nil
	}
	return e.dateRangeFree(ctx, room.ID, checkIn, checkOut)
}

// IsRoomAvailableForDirectBooking is the room-specific variant used when
// the caller books an explicit room: a RESERVED room is still considered,
// since the reservation holding it may cover disjoint dates. The overlap
// check rejects any genuine clash.
func (e *AvailabilityEngine) IsRoomAvailableForDirectBooking(ctx context.Context, room *models.Room, checkIn, checkOut time.Time) (bool, error) {
	if room.Status == models.RoomMaintenance || room.Status == models.RoomOccupied {
		return false, nil
	}
	return e.dateRangeFree(ctx, room.ID, checkIn, checkOut)
}

func (e *AvailabilityEngine) dateRangeFree(ctx context.Context, roomID uint, checkIn, checkOut time.Time) (bool, error) {
	existing, err := e.store.FindByRoomIDExcludingStatuses(ctx, roomID, models.InactiveBookingStatuses())
	if err != nil {
		return false, fmt.Errorf("load bookings for room %d: %w", roomID, err)
	}
	for _, b := range existing {
		if rangesOverlap(checkIn, checkOut, b.CheckInDate, b.CheckOutDate) {
			return false, nil
		}
	}
	return true, nil
}

// FindAvailableRoomInType returns the first room of the type (ascending id,
// so the pick is deterministic for a fixed data set) that is available for
// the range and large enough for the party. nil means no match — a
// business outcome, not an error.
func (e *AvailabilityEngine) FindAvailableRoomInType(ctx context.Context, roomTypeID uint, checkIn, checkOut time.Time, requiredCapacity int) (*models.Room, error) {
	rooms, err := e.store.FindRoomsByType(ctx, roomTypeID)
	if err != nil {
		return nil, fmt.Errorf("load rooms of type %d: %w", roomTypeID, err)
	}
	for i := range rooms {
		room := &rooms[i]
		if room.RoomType.MaxCapacity < requiredCapacity {
			continue
		}
		ok, err := e.IsRoomAvailable(ctx, room, checkIn, checkOut)
		if err != nil {
			return nil, err
		}
		if ok {
			return room, nil
		}
	}
	return nil, nil
}
