package services

import (
	"errors"
	"sort"

	"enorae-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidMovement   = errors.New("invalid stock movement")
)

// ValidateManualMovement checks a movement entered by hand. Usage movements
// only come from completed appointments.
func ValidateManualMovement(movementType string, quantity float64) error {
	switch movementType {
	case models.MovementIn, models.MovementOut:
		if quantity <= 0 {
			return ErrInvalidMovement
		}
	case models.MovementAdjustment:
		if quantity == 0 {
			return ErrInvalidMovement
		}
	default:
		return ErrInvalidMovement
	}
	return nil
}

// UsageMovements turns the services performed in an appointment into one
// usage movement per product. A service listed twice consumes twice.
func UsageMovements(appt *models.Appointment, serviceIDs []uuid.UUID, usages []models.ServiceProductUsage, by uuid.UUID) []models.StockMovement {
	performed := make(map[uuid.UUID]int, len(serviceIDs))
	for _, id := range serviceIDs {
		performed[id]++
	}

	totals := map[uuid.UUID]float64{}
	for _, u := range usages {
		if n := performed[u.ServiceID]; n > 0 {
			totals[u.ProductID] += u.QuantityPerService * float64(n)
		}
	}

	products := make([]uuid.UUID, 0, len(totals))
	for id, qty := range totals {
		if qty > 0 {
			products = append(products, id)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].String() < products[j].String() })

	apptID := appt.ID
	out := make([]models.StockMovement, 0, len(products))
	for _, id := range products {
		out = append(out, models.StockMovement{
			SalonID:       appt.SalonID,
			ProductID:     id,
			MovementType:  models.MovementUsage,
			Quantity:      totals[id],
			AppointmentID: &apptID,
			Notes:         "Used in appointment " + appt.ConfirmationCode,
			PerformedByID: by,
		})
	}
	return out
}

// ApplyMovement records m and moves the product's quantity on hand by its
// delta. Manual movements may not take stock below zero; usage may, so a
// completed service is never refused over the stock count.
func ApplyMovement(tx *gorm.DB, m *models.StockMovement) (*models.Product, error) {
	var product models.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("salon_id = ? AND id = ?", m.SalonID, m.ProductID).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	next := product.QuantityOnHand + m.Delta()
	if next < 0 && m.MovementType != models.MovementUsage {
		return nil, ErrInsufficientStock
	}

	if err := tx.Create(m).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&product).Update("quantity_on_hand", next).Error; err != nil {
		return nil, err
	}
	product.QuantityOnHand = next
	return &product, nil
}

// ConsumeForAppointment books the product usage of a completed appointment.
// Products deleted since the mapping was made are skipped.
func ConsumeForAppointment(tx *gorm.DB, appt *models.Appointment, by uuid.UUID) ([]models.StockMovement, error) {
	var serviceIDs []uuid.UUID
	if err := tx.Model(&models.AppointmentService{}).
		Where("appointment_id = ?", appt.ID).
		Pluck("service_id", &serviceIDs).Error; err != nil {
		return nil, err
	}
	if len(serviceIDs) == 0 {
		return nil, nil
	}

	var usages []models.ServiceProductUsage
	if err := tx.Where("salon_id = ? AND service_id IN ?", appt.SalonID, serviceIDs).
		Find(&usages).Error; err != nil {
		return nil, err
	}

	movements := UsageMovements(appt, serviceIDs, usages, by)
	applied := movements[:0]
	for i := range movements {
		_, err := ApplyMovement(tx, &movements[i])
		if errors.Is(err, ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		applied = append(applied, movements[i])
	}
	return applied, nil
}
