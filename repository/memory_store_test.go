package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shalom-hotel/models"
)

func TestTransactionRollbackOnError(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rt := models.RoomType{TypeName: "Standard", PricePerNight: 1000, MaxCapacity: 2}
	require.NoError(t, store.SaveRoomType(ctx, &rt))

	boom := errors.New("boom")
	err := store.Transaction(ctx, func(tx Store) error {
		room := models.Room{RoomNumber: "101", RoomTypeID: rt.ID, Status: models.RoomAvailable}
		if err := tx.SaveRoom(ctx, &room); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	rooms, err := store.ListRooms(ctx)
	require.NoError(t, err)
	assert.Empty(t, rooms, "the room written inside the failed transaction is gone")

	// the pre-existing room type survives the rollback
	_, err = store.FindRoomTypeByID(ctx, rt.ID)
	require.NoError(t, err)
}

func TestTransactionCommit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	err := store.Transaction(ctx, func(tx Store) error {
		return tx.SaveRoomType(ctx, &models.RoomType{TypeName: "Standard", PricePerNight: 1000, MaxCapacity: 2})
	})
	require.NoError(t, err)

	types, err := store.ListRoomTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 1)
}

func TestUniqueConfirmationCodeEmulation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := models.Booking{ConfirmationCode: "SHB20250601-AAAAAA", RoomID: 1, UserID: 1, Status: models.BookingPending}
	require.NoError(t, store.Save(ctx, &first))

	dup := models.Booking{ConfirmationCode: "SHB20250601-AAAAAA", RoomID: 2, UserID: 2, Status: models.BookingPending}
	err := store.Save(ctx, &dup)
	require.ErrorIs(t, err, ErrDuplicate)

	// updating the same record under its own code is fine
	first.Status = models.BookingConfirmed
	require.NoError(t, store.Save(ctx, &first))
}

func TestUniqueRoomNumberAndEmailEmulation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SaveRoom(ctx, &models.Room{RoomNumber: "101"}))
	err := store.SaveRoom(ctx, &models.Room{RoomNumber: "101"})
	assert.ErrorIs(t, err, ErrDuplicate)

	require.NoError(t, store.SaveUser(ctx, &models.User{Email: "a@b.com"}))
	err = store.SaveUser(ctx, &models.User{Email: "a@b.com"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestFindByRoomIDExcludingStatuses(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	mk := func(code string, status models.BookingStatus) {
		require.NoError(t, store.Save(ctx, &models.Booking{ConfirmationCode: code, RoomID: 7, Status: status}))
	}
	mk("SHB20250601-AAAAA1", models.BookingPending)
	mk("SHB20250601-AAAAA2", models.BookingCancelled)
	mk("SHB20250601-AAAAA3", models.BookingCheckedOut)
	mk("SHB20250601-AAAAA4", models.BookingConfirmed)

	active, err := store.FindByRoomIDExcludingStatuses(ctx, 7, models.InactiveBookingStatuses())
	require.NoError(t, err)
	require.Len(t, active, 2)
	for _, b := range active {
		assert.NotEqual(t, models.BookingCancelled, b.Status)
		assert.NotEqual(t, models.BookingCheckedOut, b.Status)
	}
}

func TestHasBookingEndingAfter(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	out := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, &models.Booking{
		ConfirmationCode: "SHB20250601-AAAAA1",
		RoomID:           3,
		CheckOutDate:     out,
		Status:           models.BookingConfirmed,
	}))

	has, err := store.HasBookingEndingAfter(ctx, 3, out.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.True(t, has)

	has, err = store.HasBookingEndingAfter(ctx, 3, out)
	require.NoError(t, err)
	assert.False(t, has, "a stay ending exactly on the cutoff does not block")

	has, err = store.HasBookingEndingAfter(ctx, 99, out.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBookingListsNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i, code := range []string{"SHB20250601-AAAAA1", "SHB20250601-AAAAA2", "SHB20250601-AAAAA3"} {
		require.NoError(t, store.Save(ctx, &models.Booking{ConfirmationCode: code, RoomID: 1, UserID: uint(i + 1), Status: models.BookingPending}))
	}

	all, err := store.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "SHB20250601-AAAAA3", all[0].ConfirmationCode)
	assert.Equal(t, "SHB20250601-AAAAA1", all[2].ConfirmationCode)
}
