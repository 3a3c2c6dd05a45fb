package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"shalom-hotel/models"
)

// MemoryStore is an in-process Store with the same contract as the MySQL
// implementation: serialized transactions, snapshot rollback on error and
// unique-index emulation. The service test suites run on it; it also backs
// local development without a database.
type MemoryStore struct {
	mu sync.Mutex
	d  *memData
}

type memData struct {
	rooms     map[uint]models.Room
	roomTypes map[uint]models.RoomType
	bookings  map[uint]models.Booking
	users     map[uint]models.User

	nextRoom     uint
	nextRoomType uint
	nextBooking  uint
	nextUser     uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{d: &memData{
		rooms:     map[uint]models.Room{},
		roomTypes: map[uint]models.RoomType{},
		bookings:  map[uint]models.Booking{},
		users:     map[uint]models.User{},
	}}
}

func (d *memData) clone() *memData {
	c := &memData{
		rooms:        make(map[uint]models.Room, len(d.rooms)),
		roomTypes:    make(map[uint]models.RoomType, len(d.roomTypes)),
		bookings:     make(map[uint]models.Booking, len(d.bookings)),
		users:        make(map[uint]models.User, len(d.users)),
		nextRoom:     d.nextRoom,
		nextRoomType: d.nextRoomType,
		nextBooking:  d.nextBooking,
		nextUser:     d.nextUser,
	}
	for k, v := range d.rooms {
		c.rooms[k] = v
	}
	for k, v := range d.roomTypes {
		c.roomTypes[k] = v
	}
	for k, v := range d.bookings {
		c.bookings[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	return c
}

// Transaction holds the store lock for the whole callback, which makes the
// overlap check and the insert atomic with respect to other transactions —
// the discipline the MySQL store gets from its room row lock.
func (s *MemoryStore) Transaction(ctx context.Context, fn func(Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.d.clone()
	if err := fn(&memView{d: s.d}); err != nil {
		s.d = snapshot
		return err
	}
	return nil
}

// memView accesses the data without locking; only reachable while the
// MemoryStore mutex is held.
type memView struct {
	d *memData
}

// Nested transactions just run in the enclosing one.
func (v *memView) Transaction(ctx context.Context, fn func(Store) error) error {
	return fn(v)
}

// ---------------- Catalog ----------------

func (v *memView) hydrateRoom(room models.Room) models.Room {
	if rt, ok := v.d.roomTypes[room.RoomTypeID]; ok {
		room.RoomType = rt
	}
	return room
}

func (v *memView) FindRoomByID(ctx context.Context, id uint) (*models.Room, error) {
	room, ok := v.d.rooms[id]
	if !ok {
		return nil, ErrNotFound
	}
	room = v.hydrateRoom(room)
	return &room, nil
}

// The lock is already store-wide here, so ForUpdate is a plain lookup.
func (v *memView) FindRoomByIDForUpdate(ctx context.Context, id uint) (*models.Room, error) {
	return v.FindRoomByID(ctx, id)
}

func (v *memView) FindRoomByNumber(ctx context.Context, number string) (*models.Room, error) {
	for _, room := range v.d.rooms {
		if room.RoomNumber == number {
			room = v.hydrateRoom(room)
			return &room, nil
		}
	}
	return nil, ErrNotFound
}

func (v *memView) FindRoomsByType(ctx context.Context, roomTypeID uint) ([]models.Room, error) {
	var rooms []models.Room
	for _, room := range v.d.rooms {
		if room.RoomTypeID == roomTypeID {
			rooms = append(rooms, v.hydrateRoom(room))
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

func (v *memView) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	for _, room := range v.d.rooms {
		rooms = append(rooms, v.hydrateRoom(room))
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

func (v *memView) SaveRoom(ctx context.Context, room *models.Room) error {
	for id, existing := range v.d.rooms {
		if existing.RoomNumber == room.RoomNumber && id != room.ID {
			return ErrDuplicate
		}
	}
	if room.ID == 0 {
		v.d.nextRoom++
		room.ID = v.d.nextRoom
		room.CreatedAt = time.Now()
	}
	room.UpdatedAt = time.Now()
	stored := *room
	stored.RoomType = models.RoomType{}
	v.d.rooms[room.ID] = stored
	return nil
}

func (v *memView) DeleteRoom(ctx context.Context, id uint) error {
	delete(v.d.rooms, id)
	return nil
}

func (v *memView) FindRoomTypeByID(ctx context.Context, id uint) (*models.RoomType, error) {
	rt, ok := v.d.roomTypes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rt, nil
}

func (v *memView) FindRoomTypeByName(ctx context.Context, name string) (*models.RoomType, error) {
	for _, rt := range v.d.roomTypes {
		if rt.TypeName == name {
			return &rt, nil
		}
	}
	return nil, ErrNotFound
}

func (v *memView) ListRoomTypes(ctx context.Context) ([]models.RoomType, error) {
	var types []models.RoomType
	for _, rt := range v.d.roomTypes {
		types = append(types, rt)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].ID < types[j].ID })
	return types, nil
}

func (v *memView) SaveRoomType(ctx context.Context, rt *models.RoomType) error {
	for id, existing := range v.d.roomTypes {
		if existing.TypeName == rt.TypeName && id != rt.ID {
			return ErrDuplicate
		}
	}
	if rt.ID == 0 {
		v.d.nextRoomType++
		rt.ID = v.d.nextRoomType
		rt.CreatedAt = time.Now()
	}
	rt.UpdatedAt = time.Now()
	v.d.roomTypes[rt.ID] = *rt
	return nil
}

func (v *memView) DeleteRoomType(ctx context.Context, id uint) error {
	delete(v.d.roomTypes, id)
	return nil
}

func (v *memView) CountRoomsByType(ctx context.Context, roomTypeID uint) (int64, error) {
	var count int64
	for _, room := range v.d.rooms {
		if room.RoomTypeID == roomTypeID {
			count++
		}
	}
	return count, nil
}

// ---------------- Bookings ----------------

func (v *memView) hydrateBooking(b models.Booking) models.Booking {
	if room, ok := v.d.rooms[b.RoomID]; ok {
		b.Room = v.hydrateRoom(room)
	}
	if user, ok := v.d.users[b.UserID]; ok {
		b.User = user
	}
	return b
}

func sortBookingsNewestFirst(bookings []models.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].ID > bookings[j].ID
		}
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
}

func (v *memView) FindByConfirmationCode(ctx context.Context, code string) (*models.Booking, error) {
	for _, b := range v.d.bookings {
		if b.ConfirmationCode == code {
			b = v.hydrateBooking(b)
			return &b, nil
		}
	}
	return nil, ErrNotFound
}

func (v *memView) FindByUserID(ctx context.Context, userID uint) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range v.d.bookings {
		if b.UserID == userID {
			out = append(out, v.hydrateBooking(b))
		}
	}
	sortBookingsNewestFirst(out)
	return out, nil
}

func (v *memView) FindByRoomIDExcludingStatuses(ctx context.Context, roomID uint, excluded []models.BookingStatus) ([]models.Booking, error) {
	skip := make(map[models.BookingStatus]bool, len(excluded))
	for _, st := range excluded {
		skip[st] = true
	}
	var out []models.Booking
	for _, b := range v.d.bookings {
		if b.RoomID == roomID && !skip[b.Status] {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (v *memView) FindByStatus(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range v.d.bookings {
		if b.Status == status {
			out = append(out, v.hydrateBooking(b))
		}
	}
	sortBookingsNewestFirst(out)
	return out, nil
}

func (v *memView) FindAll(ctx context.Context) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range v.d.bookings {
		out = append(out, v.hydrateBooking(b))
	}
	sortBookingsNewestFirst(out)
	return out, nil
}

func (v *memView) Save(ctx context.Context, booking *models.Booking) error {
	for id, existing := range v.d.bookings {
		if existing.ConfirmationCode == booking.ConfirmationCode && id != booking.ID {
			return ErrDuplicate
		}
	}
	if booking.ID == 0 {
		v.d.nextBooking++
		booking.ID = v.d.nextBooking
		booking.CreatedAt = time.Now()
	}
	booking.UpdatedAt = time.Now()
	stored := *booking
	stored.Room = models.Room{}
	stored.User = models.User{}
	v.d.bookings[booking.ID] = stored
	return nil
}

func (v *memView) HasBookingEndingAfter(ctx context.Context, roomID uint, date time.Time) (bool, error) {
	for _, b := range v.d.bookings {
		if b.RoomID == roomID && b.CheckOutDate.After(date) {
			return true, nil
		}
	}
	return false, nil
}

// ---------------- Users ----------------

func (v *memView) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, ok := v.d.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (v *memView) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range v.d.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (v *memView) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	for _, user := range v.d.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (v *memView) SaveUser(ctx context.Context, user *models.User) error {
	for id, existing := range v.d.users {
		if existing.Email == user.Email && id != user.ID {
			return ErrDuplicate
		}
	}
	if user.ID == 0 {
		v.d.nextUser++
		user.ID = v.d.nextUser
		user.CreatedAt = time.Now()
	}
	user.UpdatedAt = time.Now()
	v.d.users[user.ID] = *user
	return nil
}

func (v *memView) DeleteUser(ctx context.Context, id uint) error {
	delete(v.d.users, id)
	return nil
}

// ---------------- locked wrappers ----------------

func (s *MemoryStore) view() *memView { return &memView{d: s.d} }

func (s *MemoryStore) FindRoomByID(ctx context.Context, id uint) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().FindRoomByID(ctx, id)
}

func (s *MemoryStore) FindRoomByIDForUpdate(ctx context.Context, id uint) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().FindRoomByIDForUpdate(ctx, id)
}

func (s *MemoryStore) FindRoomByNumber(ctx context.Context, number string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().FindRoomByNumber(ctx, number)
}

func (s *MemoryStore) FindRoomsByType(ctx context.Context, roomTypeID uint) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().FindRoomsByType(ctx, roomTypeID)
}

func (s *MemoryStore) ListRooms(ctx context.Context) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().ListRooms(ctx)
}

func (s *MemoryStore) SaveRoom(ctx context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().SaveRoom(ctx, room)
}

func (s *MemoryStore) DeleteRoom(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().DeleteRoom(ctx, id)
}

func (s *MemoryStore) FindRoomTypeByID(ctx context.Context, id uint) (*models.RoomType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().FindRoomTypeByID(ctx, id)
}

func (s *MemoryStore) FindRoomTypeByName(ctx context.Context, name string) (*models.RoomType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().FindRoomTypeByName(ctx, name)
}

func (s *MemoryStore) ListRoomTypes(ctx context.Context) ([]models.RoomType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().ListRoomTypes(ctx)
}

func (s *MemoryStore) SaveRoomType(ctx context.Context, rt *models.RoomType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().SaveRoomType(ctx, rt)
}

func (s *MemoryStore) DeleteRoomType(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().DeleteRoomType(ctx, id)
}

func (s *MemoryStore) CountRoomsByType(ctx context.Context, roomTypeID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().CountRoomsByType(ctx, roomTypeID)
}

func (s *MemoryStore) FindByConfirmationCode(ctx context.Context, code string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().FindByConfirmationCode(ctx, code)
}

func (s *MemoryStore) FindByUserID(ctx context.Context, userID uint) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().FindByUserID(ctx, userID)
}

func (s *MemoryStore) FindByRoomIDExcludingStatuses(ctx context.Context, roomID uint, excluded []models.BookingStatus) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().FindByRoomIDExcludingStatuses(ctx, roomID, excluded)
}

func (s *MemoryStore) FindByStatus(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().FindByStatus(ctx, status)
}

func (s *MemoryStore) FindAll(ctx context.Context) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().FindAll(ctx)
}

func (s *MemoryStore) Save(ctx context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().Save(ctx, booking)
}

func (s *MemoryStore) HasBookingEndingAfter(ctx context.Context, roomID uint, date time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().HasBookingEndingAfter(ctx, roomID, date)
}

func (s *MemoryStore) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().FindUserByID(ctx, id)
}

func (s *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().FindUserByEmail(ctx, email)
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().ListUsers(ctx)
}

func (s *MemoryStore) SaveUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().SaveUser(ctx, user)
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().DeleteUser(ctx, id)
}
