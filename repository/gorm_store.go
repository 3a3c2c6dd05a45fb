package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shalom-hotel/models"
)

// GormStore is the MySQL-backed Store. Transaction wraps gorm's own
// transaction so every method called on the inner store runs on the same
// connection and sees the same locks.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// translateErr maps driver/gorm errors onto the repository sentinels.
// MySQL error 1062 is ER_DUP_ENTRY.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var my *mysqldrv.MySQLError
	if errors.As(err, &my) && my.Number == 1062 {
		return ErrDuplicate
	}
	// sqlite and friends in dev setups word it differently
	if strings.Contains(err.Error(), "Duplicate entry") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicate
	}
	return err
}

// ---------------- Catalog ----------------

func (s *GormStore) FindRoomByID(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	err := s.db.WithContext(ctx).Preload("RoomType").First(&room, id).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &room, nil
}

func (s *GormStore) FindRoomByIDForUpdate(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&room, id).Error
	if err != nil {
		return nil, translateErr(err)
	}
	// relation loaded outside the locking query; the lock is on rooms only
	if room.RoomTypeID != 0 {
		if err := s.db.WithContext(ctx).First(&room.RoomType, room.RoomTypeID).Error; err != nil {
			return nil, translateErr(err)
		}
	}
	return &room, nil
}

func (s *GormStore) FindRoomByNumber(ctx context.Context, number string) (*models.Room, error) {
	var room models.Room
	err := s.db.WithContext(ctx).Preload("RoomType").
		Where("room_number = ?", number).First(&room).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &room, nil
}

func (s *GormStore) FindRoomsByType(ctx context.Context, roomTypeID uint) ([]models.Room, error) {
	var rooms []models.Room
	err := s.db.WithContext(ctx).Preload("RoomType").
		Where("room_type_id = ?", roomTypeID).
		Order("id ASC").
		Find(&rooms).Error
	return rooms, translateErr(err)
}

func (s *GormStore) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := s.db.WithContext(ctx).Preload("RoomType").Order("id ASC").Find(&rooms).Error
	return rooms, translateErr(err)
}

func (s *GormStore) SaveRoom(ctx context.Context, room *models.Room) error {
	return translateErr(s.db.WithContext(ctx).Omit(clause.Associations).Save(room).Error)
}

func (s *GormStore) DeleteRoom(ctx context.Context, id uint) error {
	return translateErr(s.db.WithContext(ctx).Delete(&models.Room{}, id).Error)
}

func (s *GormStore) FindRoomTypeByID(ctx context.Context, id uint) (*models.RoomType, error) {
	var rt models.RoomType
	if err := s.db.WithContext(ctx).First(&rt, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &rt, nil
}

func (s *GormStore) FindRoomTypeByName(ctx context.Context, name string) (*models.RoomType, error) {
	var rt models.RoomType
	if err := s.db.WithContext(ctx).Where("type_name = ?", name).First(&rt).Error; err != nil {
		return nil, translateErr(err)
	}
	return &rt, nil
}

func (s *GormStore) ListRoomTypes(ctx context.Context) ([]models.RoomType, error) {
	var types []models.RoomType
	err := s.db.WithContext(ctx).Order("id ASC").Find(&types).Error
	return types, translateErr(err)
}

func (s *GormStore) SaveRoomType(ctx context.Context, rt *models.RoomType) error {
	return translateErr(s.db.WithContext(ctx).Save(rt).Error)
}

func (s *GormStore) DeleteRoomType(ctx context.Context, id uint) error {
	return translateErr(s.db.WithContext(ctx).Delete(&models.RoomType{}, id).Error)
}

func (s *GormStore) CountRoomsByType(ctx context.Context, roomTypeID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Room{}).
		Where("room_type_id = ?", roomTypeID).Count(&count).Error
	return count, translateErr(err)
}

// ---------------- Bookings ----------------

func (s *GormStore) bookingQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Room").
		Preload("Room.RoomType").
		Preload("User")
}

func (s *GormStore) FindByConfirmationCode(ctx context.Context, code string) (*models.Booking, error) {
	var booking models.Booking
	err := s.bookingQuery(ctx).Where("confirmation_code = ?", code).First(&booking).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &booking, nil
}

func (s *GormStore) FindByUserID(ctx context.Context, userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.bookingQuery(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, translateErr(err)
}

func (s *GormStore) FindByRoomIDExcludingStatuses(ctx context.Context, roomID uint, excluded []models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	q := s.db.WithContext(ctx).Where("room_id = ?", roomID)
	if len(excluded) > 0 {
		q = q.Where("status NOT IN ?", excluded)
	}
	err := q.Order("id ASC").Find(&bookings).Error
	return bookings, translateErr(err)
}

func (s *GormStore) FindByStatus(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.bookingQuery(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, translateErr(err)
}

func (s *GormStore) FindAll(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.bookingQuery(ctx).Order("created_at DESC").Find(&bookings).Error
	return bookings, translateErr(err)
}

func (s *GormStore) Save(ctx context.Context, booking *models.Booking) error {
	return translateErr(s.db.WithContext(ctx).Omit(clause.Associations).Save(booking).Error)
}

func (s *GormStore) HasBookingEndingAfter(ctx context.Context, roomID uint, date time.Time) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("room_id = ? AND check_out_date > ?", roomID, date).
		Count(&count).Error
	return count > 0, translateErr(err)
}

// ---------------- Users ----------------

func (s *GormStore) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (s *GormStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("id ASC").Find(&users).Error
	return users, translateErr(err)
}

func (s *GormStore) SaveUser(ctx context.Context, user *models.User) error {
	return translateErr(s.db.WithContext(ctx).Save(user).Error)
}

func (s *GormStore) DeleteUser(ctx context.Context, id uint) error {
	return translateErr(s.db.WithContext(ctx).Delete(&models.User{}, id).Error)
}
