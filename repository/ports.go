package repository

import (
	"context"
	"errors"
	"time"

	"shalom-hotel/models"
)

// Sentinel errors the service layer switches on. Implementations translate
// their driver errors into these.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// CatalogStore holds Room and RoomType records. Pure data access; lookups
// return rooms in ascending id order so callers stay deterministic.
type CatalogStore interface {
	FindRoomByID(ctx context.Context, id uint) (*models.Room, error)
	// FindRoomByIDForUpdate takes a row-level lock on the room. Only
	// meaningful inside a Transaction; the lock is held until commit.
	FindRoomByIDForUpdate(ctx context.Context, id uint) (*models.Room, error)
	FindRoomByNumber(ctx context.Context, number string) (*models.Room, error)
	FindRoomsByType(ctx context.Context, roomTypeID uint) ([]models.Room, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	SaveRoom(ctx context.Context, room *models.Room) error
	DeleteRoom(ctx context.Context, id uint) error

	FindRoomTypeByID(ctx context.Context, id uint) (*models.RoomType, error)
	FindRoomTypeByName(ctx context.Context, name string) (*models.RoomType, error)
	ListRoomTypes(ctx context.Context) ([]models.RoomType, error)
	SaveRoomType(ctx context.Context, rt *models.RoomType) error
	DeleteRoomType(ctx context.Context, id uint) error
	CountRoomsByType(ctx context.Context, roomTypeID uint) (int64, error)
}

type BookingStore interface {
	FindByConfirmationCode(ctx context.Context, code string) (*models.Booking, error)
	FindByUserID(ctx context.Context, userID uint) ([]models.Booking, error)
	FindByRoomIDExcludingStatuses(ctx context.Context, roomID uint, excluded []models.BookingStatus) ([]models.Booking, error)
	FindByStatus(ctx context.Context, status models.BookingStatus) ([]models.Booking, error)
	FindAll(ctx context.Context) ([]models.Booking, error)
	Save(ctx context.Context, booking *models.Booking) error
	// HasBookingEndingAfter reports whether the room has any non-deleted
	// booking whose check-out date falls after the given date.
	HasBookingEndingAfter(ctx context.Context, roomID uint, date time.Time) (bool, error)
}

type UserStore interface {
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id uint) error
}

// Store is the unit-of-work boundary. Transaction runs fn against a store
// whose writes apply atomically; any error rolls everything back. Row locks
// taken through the transactional store are released on commit/rollback.
type Store interface {
	CatalogStore
	BookingStore
	UserStore
	Transaction(ctx context.Context, fn func(Store) error) error
}
