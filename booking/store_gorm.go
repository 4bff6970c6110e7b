package booking

import (
	"context"
	"errors"
	"time"

	"enorae-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// GormStore is the PostgreSQL-backed Store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindSalon(ctx context.Context, id uuid.UUID) (*models.Salon, error) {
	var salon models.Salon
	err := s.db.WithContext(ctx).
		Select("id", "is_active").
		First(&salon, "id = ?", id).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &salon, nil
}

func (s *GormStore) FindService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var svc models.Service
	err := s.db.WithContext(ctx).
		Select("id", "salon_id", "duration_minutes", "buffer_minutes", "price").
		First(&svc, "id = ?", id).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &svc, nil
}

func (s *GormStore) CountConfirmedOverlaps(ctx context.Context, staffID uuid.UUID, start, end time.Time) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("staff_id = ? AND status = ?", staffID, models.StatusConfirmed).
		Where("start_time < ? AND end_time > ?", end, start).
		Count(&n).Error
	return n, err
}

func (s *GormStore) InsertAppointment(ctx context.Context, a *models.Appointment) error {
	return mapError(s.db.WithContext(ctx).Omit("Services").Create(a).Error)
}

func (s *GormStore) InsertAppointmentService(ctx context.Context, link *models.AppointmentService) error {
	return mapError(s.db.WithContext(ctx).Create(link).Error)
}

func (s *GormStore) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id).Error
}

func (s *GormStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNoRows
	}
	if IsExclusionViolation(err) {
		return ErrOverlap
	}
	return err
}

// IsExclusionViolation reports a PostgreSQL exclusion constraint failure.
func IsExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}

var (
	_ Store      = (*GormStore)(nil)
	_ Transactor = (*GormStore)(nil)
)
