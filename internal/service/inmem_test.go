package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/campuspool/campuspool/internal/errors"
	"github.com/campuspool/campuspool/internal/models"
	"github.com/jmoiron/sqlx"
)

// memStore backs the in-memory repository fakes. A single mutex stands in
// for the database: each repository call locks it, which mirrors the
// row-level atomicity the real queries get from postgres.
type memStore struct {
	mu       sync.Mutex
	seq      int
	users    map[string]*models.User
	rides    map[string]*models.Ride
	bookings map[string]*models.Booking
	ratings  []*models.Rating
	rated    map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*models.User),
		rides:    make(map[string]*models.Ride),
		bookings: make(map[string]*models.Booking),
		rated:    make(map[string]bool),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// addUser and addRide seed fixtures directly, outside any service path.
func (s *memStore) addUser(role string, enabled bool) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := &models.User{
		ID:           s.nextID("user"),
		UniversityID: s.nextID("S"),
		Email:        s.nextID("mail") + "@university.edu",
		FullName:     "Test User",
		Role:         role,
		Enabled:      enabled,
		CreatedAt:    time.Now(),
	}
	s.users[user.ID] = user
	return user
}

func (s *memStore) addRide(driverID string, totalSeats int, basePrice models.Money, departure time.Time) *models.Ride {
	s.mu.Lock()
	defer s.mu.Unlock()
	ride := &models.Ride{
		ID:             s.nextID("ride"),
		DriverID:       driverID,
		Vehicle:        "Test Car",
		Origin:         "Campus",
		Destination:    "Downtown",
		DepartureTime:  departure,
		TotalSeats:     totalSeats,
		AvailableSeats: totalSeats,
		BasePrice:      basePrice,
		PricePerSeat:   basePrice.Div(totalSeats),
		Status:         models.RideStatusPosted,
		CreatedAt:      time.Now(),
	}
	s.rides[ride.ID] = ride
	return ride
}

// memTxManager runs the unit directly; the per-call store mutex provides
// the atomicity the tests rely on.
type memTxManager struct{}

func (memTxManager) WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

type memUserRepo struct{ store *memStore }

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user.ID = r.store.nextID("user")
	user.Enabled = true
	user.CreatedAt = time.Now()
	r.store.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) GetByUniversityID(ctx context.Context, universityID string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.UniversityID == universityID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *user
	r.store.users[user.ID] = &copied
	return nil
}

type memRideRepo struct{ store *memStore }

func (r *memRideRepo) Create(ctx context.Context, ride *models.Ride) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	ride.ID = r.store.nextID("ride")
	ride.Status = models.RideStatusPosted
	ride.AvailableSeats = ride.TotalSeats
	ride.CreatedAt = time.Now()
	copied := *ride
	r.store.rides[ride.ID] = &copied
	return nil
}

func (r *memRideRepo) GetByID(ctx context.Context, id string) (*models.Ride, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	ride, ok := r.store.rides[id]
	if !ok {
		return nil, nil
	}
	copied := *ride
	return &copied, nil
}

func (r *memRideRepo) ListUpcoming(ctx context.Context, from, until time.Time) ([]models.Ride, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rides := []models.Ride{}
	for _, ride := range r.store.rides {
		if ride.Status != models.RideStatusPosted {
			continue
		}
		if ride.DepartureTime.Before(from) || ride.DepartureTime.After(until) {
			continue
		}
		rides = append(rides, *ride)
	}
	return rides, nil
}

func (r *memRideRepo) ListByDriver(ctx context.Context, driverID string) ([]models.Ride, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rides := []models.Ride{}
	for _, ride := range r.store.rides {
		if ride.DriverID == driverID {
			rides = append(rides, *ride)
		}
	}
	return rides, nil
}

func (r *memRideRepo) UpdateStatus(ctx context.Context, id string, status models.RideStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	ride, ok := r.store.rides[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	ride.Status = status
	ride.UpdatedAt = time.Now()
	return nil
}

// ReserveSeats mirrors the conditional-decrement semantics of the SQL
// version: the check and the decrement happen under one lock.
func (r *memRideRepo) ReserveSeats(ctx context.Context, tx *sqlx.Tx, rideID string, seats int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	ride, ok := r.store.rides[rideID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if !ride.IsBookable() {
		return apperrors.ErrRideNotBookable
	}
	if ride.AvailableSeats < seats {
		return apperrors.ErrInsufficientSeats
	}
	ride.AvailableSeats -= seats
	return nil
}

func (r *memRideRepo) ReleaseSeats(ctx context.Context, tx *sqlx.Tx, rideID string, seats int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	ride, ok := r.store.rides[rideID]
	if !ok {
		return apperrors.ErrNotFound
	}
	ride.AvailableSeats += seats
	if ride.AvailableSeats > ride.TotalSeats {
		ride.AvailableSeats = ride.TotalSeats
	}
	return nil
}

type memBookingRepo struct{ store *memStore }

func (r *memBookingRepo) Create(ctx context.Context, tx *sqlx.Tx, booking *models.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	booking.ID = r.store.nextID("booking")
	booking.Status = models.BookingStatusConfirmed
	booking.CreatedAt = time.Now()
	copied := *booking
	r.store.bookings[booking.ID] = &copied
	return nil
}

func (r *memBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	booking, ok := r.store.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *booking
	return &copied, nil
}

func (r *memBookingRepo) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*models.Booking, error) {
	return r.GetByID(ctx, id)
}

// MarkCancelled flips the status at most once, like the guarded UPDATE it
// stands in for.
func (r *memBookingRepo) MarkCancelled(ctx context.Context, tx *sqlx.Tx, id string, at time.Time) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	booking, ok := r.store.bookings[id]
	if !ok {
		return false, nil
	}
	if booking.Status == models.BookingStatusCancelled {
		return false, nil
	}
	booking.Status = models.BookingStatusCancelled
	booking.CancelledAt = &at
	return true, nil
}

func (r *memBookingRepo) ListByRider(ctx context.Context, riderID string) ([]models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	bookings := []models.Booking{}
	for _, booking := range r.store.bookings {
		if booking.RiderID == riderID {
			bookings = append(bookings, *booking)
		}
	}
	return bookings, nil
}

func (r *memBookingRepo) ListByRide(ctx context.Context, rideID string) ([]models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	bookings := []models.Booking{}
	for _, booking := range r.store.bookings {
		if booking.RideID == rideID {
			bookings = append(bookings, *booking)
		}
	}
	return bookings, nil
}

func (r *memBookingRepo) ListConfirmedByRide(ctx context.Context, rideID string) ([]models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	bookings := []models.Booking{}
	for _, booking := range r.store.bookings {
		if booking.RideID == rideID && booking.Status == models.BookingStatusConfirmed {
			bookings = append(bookings, *booking)
		}
	}
	return bookings, nil
}

type memRatingRepo struct{ store *memStore }

func (r *memRatingRepo) Create(ctx context.Context, tx *sqlx.Tx, rating *models.Rating) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.rated[rating.BookingID] {
		return apperrors.ErrBookingRated
	}
	r.store.rated[rating.BookingID] = true
	rating.ID = r.store.nextID("rating")
	rating.CreatedAt = time.Now()
	copied := *rating
	r.store.ratings = append(r.store.ratings, &copied)
	return nil
}

func (r *memRatingRepo) RecomputeUserAverage(ctx context.Context, tx *sqlx.Tx, userID string, role models.RatingRole) (float64, int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sum, count := 0, 0
	for _, rating := range r.store.ratings {
		if rating.ToUserID == userID && rating.RatedRole == role {
			sum += rating.Score
			count++
		}
	}
	avg := 0.0
	if count > 0 {
		avg = float64(sum) / float64(count)
	}
	if user, ok := r.store.users[userID]; ok {
		if role == models.RatingRoleDriver {
			user.AvgRatingAsDriver = avg
			user.RatingCountAsDriver = count
		} else {
			user.AvgRatingAsRider = avg
			user.RatingCountAsRider = count
		}
	}
	return avg, count, nil
}

func (r *memRatingRepo) ListByToUser(ctx context.Context, toUserID string) ([]models.Rating, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	ratings := []models.Rating{}
	for _, rating := range r.store.ratings {
		if rating.ToUserID == toUserID {
			ratings = append(ratings, *rating)
		}
	}
	return ratings, nil
}

// memNotifier records deliveries instead of writing rows or publishing.
type memNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (n *memNotifier) Notify(ctx context.Context, userID, notificationType, title, body string) (*models.Notification, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	notification := models.Notification{
		ID:        fmt.Sprintf("notification-%d", len(n.sent)+1),
		UserID:    userID,
		Type:      notificationType,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now(),
	}
	n.sent = append(n.sent, notification)
	return &notification, nil
}

func (n *memNotifier) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	notifications := []models.Notification{}
	for _, notification := range n.sent {
		if notification.UserID == userID {
			notifications = append(notifications, notification)
		}
	}
	return notifications, nil
}

func (n *memNotifier) MarkRead(ctx context.Context, callerID, notificationID string) error {
	return nil
}

func (n *memNotifier) MarkAllRead(ctx context.Context, userID string) error {
	return nil
}

func (n *memNotifier) sentTo(userID string) []models.Notification {
	notifications, _ := n.ListForUser(context.Background(), userID)
	return notifications
}

// memReminderCache dedupes by ride ID, ignoring the TTL.
type memReminderCache struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newMemReminderCache() *memReminderCache {
	return &memReminderCache{seen: make(map[string]bool)}
}

func (c *memReminderCache) MarkReminded(ctx context.Context, rideID string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seen[rideID] {
		return false, nil
	}
	c.seen[rideID] = true
	return true, nil
}
