package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shalom-hotel/models"
)

func intPtr(v int) *int { return &v }

func TestAddRoomTypeValidationAndDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.rooms.AddRoomType(ctx, RoomTypeRequest{Description: "x", PricePerNight: 100, MaxCapacity: 2})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = f.rooms.AddRoomType(ctx, RoomTypeRequest{TypeName: "Suite", Description: "Suite", PricePerNight: 0, MaxCapacity: 2})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = f.rooms.AddRoomType(ctx, RoomTypeRequest{TypeName: "Deluxe", Description: "dup", PricePerNight: 100, MaxCapacity: 2})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))

	rt, err := f.rooms.AddRoomType(ctx, RoomTypeRequest{
		TypeName: "Suite", Description: "Top floor", PricePerNight: 5000, MaxCapacity: 6,
		Amenities: []string{"wifi", "minibar"},
	})
	require.NoError(t, err)
	assert.NotZero(t, rt.ID)
	assert.JSONEq(t, `["wifi","minibar"]`, string(rt.Amenities))
}

func TestUpdateRoomTypePartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	updated, err := f.rooms.UpdateRoomType(ctx, f.roomType.ID, RoomTypeRequest{PricePerNight: 3000})
	require.NoError(t, err)
	assert.Equal(t, 3000.0, updated.PricePerNight)
	assert.Equal(t, f.roomType.Description, updated.Description, "untouched fields keep their value")
	assert.Equal(t, f.roomType.MaxCapacity, updated.MaxCapacity)

	_, err = f.rooms.UpdateRoomType(ctx, 999, RoomTypeRequest{PricePerNight: 1})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestDeleteRoomTypeBlockedWhileReferenced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.rooms.DeleteRoomType(ctx, f.roomType.ID)
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))

	// remove the room, then deletion goes through
	require.NoError(t, f.rooms.DeleteRoom(ctx, f.room.ID))
	require.NoError(t, f.rooms.DeleteRoomType(ctx, f.roomType.ID))

	err = f.rooms.DeleteRoomType(ctx, f.roomType.ID)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestAddRoomDuplicateNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.rooms.AddRoom(ctx, RoomRequest{RoomNumber: "101", FloorNumber: intPtr(1), RoomTypeID: f.roomType.ID})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, "room number '101' already exists", MessageOf(err))

	room, err := f.rooms.AddRoom(ctx, RoomRequest{RoomNumber: "202", FloorNumber: intPtr(2), RoomTypeID: f.roomType.ID})
	require.NoError(t, err)
	assert.Equal(t, models.RoomAvailable, room.Status, "new rooms start AVAILABLE")
}

func TestAddRoomValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.rooms.AddRoom(ctx, RoomRequest{FloorNumber: intPtr(1), RoomTypeID: f.roomType.ID})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = f.rooms.AddRoom(ctx, RoomRequest{RoomNumber: "301", RoomTypeID: f.roomType.ID})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = f.rooms.AddRoom(ctx, RoomRequest{RoomNumber: "301", FloorNumber: intPtr(-1), RoomTypeID: f.roomType.ID})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = f.rooms.AddRoom(ctx, RoomRequest{RoomNumber: "301", FloorNumber: intPtr(3)})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = f.rooms.AddRoom(ctx, RoomRequest{RoomNumber: "301", FloorNumber: intPtr(3), RoomTypeID: 999})
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestUpdateRoomStatusTransitionTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		from    models.RoomStatus
		to      string
		allowed bool
	}{
		{models.RoomAvailable, "MAINTENANCE", true},
		{models.RoomAvailable, "RESERVED", true},
		{models.RoomAvailable, "OCCUPIED", false},
		{models.RoomAvailable, "CLEANING", false},
		{models.RoomReserved, "AVAILABLE", true},
		{models.RoomReserved, "OCCUPIED", true},
		{models.RoomReserved, "MAINTENANCE", false},
		{models.RoomOccupied, "CLEANING", true},
		{models.RoomOccupied, "AVAILABLE", false},
		{models.RoomCleaning, "AVAILABLE", true},
		{models.RoomCleaning, "OCCUPIED", false},
		{models.RoomMaintenance, "AVAILABLE", true},
		{models.RoomMaintenance, "RESERVED", false},
		{models.RoomOccupied, "occupied", true},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+tc.to, func(t *testing.T) {
			room, err := f.store.FindRoomByID(ctx, f.room.ID)
			require.NoError(t, err)
			room.Status = tc.from
			require.NoError(t, f.store.SaveRoom(ctx, room))

			updated, err := f.rooms.UpdateRoomStatus(ctx, f.room.ID, tc.to)
			if tc.allowed {
				require.NoError(t, err)
				want, _ := models.ParseRoomStatus(tc.to)
				assert.Equal(t, want, updated.Status)
			} else {
				require.Error(t, err)
				assert.Equal(t, KindConflict, KindOf(err))
			}
		})
	}

	_, err := f.rooms.UpdateRoomStatus(ctx, f.room.ID, "BROKEN")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestDeleteRoomBlockedByFutureBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.book(t, "2025-06-10", "2025-06-12")

	err := f.rooms.DeleteRoom(ctx, f.room.ID)
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, "cannot delete room with active or future bookings", MessageOf(err))
}

func TestGetAvailableRoomsByDatesAndType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addRoom(t, "102", models.RoomAvailable)
	f.addRoom(t, "103", models.RoomMaintenance)

	rooms, err := f.rooms.GetAvailableRoomsByDatesAndType(ctx, "2025-06-10", "2025-06-12", "Deluxe")
	require.NoError(t, err)
	assert.Len(t, rooms, 2, "maintenance rooms are excluded")

	f.book(t, "2025-06-10", "2025-06-12")
	rooms, err = f.rooms.GetAvailableRoomsByDatesAndType(ctx, "2025-06-10", "2025-06-12", "Deluxe")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "102", rooms[0].RoomNumber)

	_, err = f.rooms.GetAvailableRoomsByDatesAndType(ctx, "2025-06-12", "2025-06-10", "Deluxe")
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = f.rooms.GetAvailableRoomsByDatesAndType(ctx, "2025-06-10", "2025-06-12", "Penthouse")
	assert.Equal(t, KindNotFound, KindOf(err))
}
