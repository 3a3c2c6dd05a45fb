package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"shalom-hotel/models"
	"shalom-hotel/repository"
)

// fixedNow is the reference clock for every booking test: bookings are made
// on 2025-06-01 unless a test moves the clock itself.
var fixedNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func date(value string) time.Time {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		panic(err)
	}
	return t
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fixture struct {
	store    *repository.MemoryStore
	bookings *BookingService
	rooms    *RoomService

	roomType models.RoomType
	room     models.Room
	user     models.User
}

// newFixture seeds one Deluxe room type (capacity 4), one AVAILABLE room
// and one user, and wires the services to a frozen clock.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()

	rt := models.RoomType{TypeName: "Deluxe", Description: "Deluxe Room", PricePerNight: 2500, MaxCapacity: 4}
	require.NoError(t, store.SaveRoomType(ctx, &rt))

	room := models.Room{RoomNumber: "101", FloorNumber: 1, RoomTypeID: rt.ID, Status: models.RoomAvailable}
	require.NoError(t, store.SaveRoom(ctx, &room))

	user := models.User{Email: "guest@example.com", Password: "x", Name: "Guest One", Role: models.RoleUser}
	require.NoError(t, store.SaveUser(ctx, &user))

	bookings := NewBookingService(store, quietLogger())
	bookings.now = func() time.Time { return fixedNow }

	rooms := NewRoomService(store)
	rooms.now = func() time.Time { return fixedNow }

	return &fixture{
		store:    store,
		bookings: bookings,
		rooms:    rooms,
		roomType: rt,
		room:     room,
		user:     user,
	}
}

// addRoom seeds another room of the fixture's room type.
func (f *fixture) addRoom(t *testing.T, number string, status models.RoomStatus) models.Room {
	t.Helper()
	room := models.Room{RoomNumber: number, FloorNumber: 1, RoomTypeID: f.roomType.ID, Status: status}
	require.NoError(t, f.store.SaveRoom(context.Background(), &room))
	return room
}

// book creates a booking through the service and fails the test on error.
func (f *fixture) book(t *testing.T, checkIn, checkOut string) *BookingDTO {
	t.Helper()
	dto, err := f.bookings.CreateBooking(context.Background(), CreateBookingRequest{
		UserID:       f.user.ID,
		RoomID:       f.room.ID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		NumAdults:    2,
	})
	require.NoError(t, err)
	return dto
}

func (f *fixture) roomStatus(t *testing.T, id uint) models.RoomStatus {
	t.Helper()
	room, err := f.store.FindRoomByID(context.Background(), id)
	require.NoError(t, err)
	return room.Status
}
