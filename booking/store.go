package booking

import (
	"context"
	"time"

	"enorae-backend/models"

	"github.com/google/uuid"
)

// Store is the persistence the booking flow needs. Lookups that match
// nothing return ErrNoRows.
type Store interface {
	FindSalon(ctx context.Context, id uuid.UUID) (*models.Salon, error)
	FindService(ctx context.Context, id uuid.UUID) (*models.Service, error)
	// CountConfirmedOverlaps counts confirmed appointments of staffID with
	// start_time < end and end_time > start.
	CountConfirmedOverlaps(ctx context.Context, staffID uuid.UUID, start, end time.Time) (int64, error)
	InsertAppointment(ctx context.Context, a *models.Appointment) error
	InsertAppointmentService(ctx context.Context, s *models.AppointmentService) error
	DeleteAppointment(ctx context.Context, id uuid.UUID) error
}

// Transactor is implemented by stores that can run several writes atomically.
// fn receives a Store bound to the transaction; a non-nil return rolls back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

// Notifier is told about bookings that completed.
type Notifier interface {
	AppointmentBooked(ctx context.Context, a *models.Appointment)
}
