package booking

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"enorae-backend/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	msgUnexpected    = "An unexpected error occurred. Please try again."
	msgAttachFailed  = "Failed to attach service to appointment. Please try again."
	msgCreateFailed  = "Failed to create appointment. Please try again."
	msgAvailability  = "Error checking staff availability"
	msgStaffBusy     = "This staff member is not available at the selected time"
	msgSalonNotFound = "Salon not found"
	msgSalonClosed   = "This salon is not currently accepting bookings"
	msgNoService     = "Service not found"
)

// Booker runs the booking creation flow.
type Booker struct {
	store    Store
	now      func() time.Time
	rand     io.Reader
	loc      *time.Location
	maxDays  int
	logger   *slog.Logger
	notifier Notifier
	tracer   trace.Tracer
}

type Option func(*Booker)

func WithClock(now func() time.Time) Option { return func(b *Booker) { b.now = now } }

func WithRand(r io.Reader) Option { return func(b *Booker) { b.rand = r } }

func WithLocation(loc *time.Location) Option { return func(b *Booker) { b.loc = loc } }

func WithMaxDaysAhead(days int) Option { return func(b *Booker) { b.maxDays = days } }

func WithLogger(l *slog.Logger) Option { return func(b *Booker) { b.logger = l } }

func WithNotifier(n Notifier) Option { return func(b *Booker) { b.notifier = n } }

func NewBooker(store Store, opts ...Option) *Booker {
	b := &Booker{
		store:   store,
		now:     time.Now,
		rand:    rand.Reader,
		loc:     time.UTC,
		maxDays: DefaultMaxDaysAhead,
		logger:  slog.Default(),
		tracer:  otel.Tracer("enorae-backend/booking"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Result is a completed booking.
type Result struct {
	Appointment *models.Appointment
	Link        *models.AppointmentService
}

// flow tracks one pass through the booking steps.
type flow struct {
	state  State
	logger *slog.Logger
}

func (f *flow) advance(to State) {
	f.logger.Debug("booking step", "from", f.state, "to", to)
	f.state = to
}

func (f *flow) fail(kind Kind, msg string, cause error) *Error {
	return newError(kind, failState(f.state), msg, cause)
}

// Create validates the form and writes a pending appointment for customerID.
// Every failure is a *Error; StateOf reports where the flow ended.
func (b *Booker) Create(ctx context.Context, customerID uuid.UUID, form Form) (res *Result, err error) {
	ctx, span := b.tracer.Start(ctx, "booking.Create")
	defer span.End()

	logger := b.logger.With(
		"userId", customerID.String(),
		"salonId", form.SalonID,
		"serviceId", form.ServiceID,
		"staffId", form.StaffID,
	)
	f := &flow{state: StateValidating, logger: logger}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("booking unexpected error", "panic", fmt.Sprint(r), "state", f.state)
			res, err = nil, f.fail(KindSystem, msgUnexpected, fmt.Errorf("panic: %v", r))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(attribute.String("booking.state", string(StateOf(err))))
		}
	}()

	logger.Info("booking started")

	req, err := ParseRequest(form)
	if err != nil {
		logger.Warn("booking validation failed", "error", err.Error())
		return nil, err
	}

	if err := b.checkSalon(ctx, f, req.SalonID); err != nil {
		return nil, err
	}
	f.advance(StateSalonChecked)

	svc, err := b.checkService(ctx, f, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc.SalonID != req.SalonID {
		logger.Warn("booking service belongs to another salon")
		return nil, f.fail(KindNotFound, msgNoService, nil)
	}
	f.advance(StateServiceChecked)

	start, err := req.StartIn(b.loc)
	if err != nil {
		return nil, f.fail(KindValidation, "Invalid date or time", err)
	}
	slot := NewSlot(start, svc.DurationMinutes, svc.BufferMinutes)
	if err := b.checkAvailability(ctx, f, req.StaffID, slot); err != nil {
		return nil, err
	}
	f.advance(StateTimeValidated)

	span.SetAttributes(
		attribute.String("salon.id", req.SalonID.String()),
		attribute.String("staff.id", req.StaffID.String()),
	)

	code, err := GenerateConfirmationCode(b.rand)
	if err != nil {
		logger.Error("booking confirmation code failed", "error", err)
		return nil, f.fail(KindSystem, msgUnexpected, err)
	}

	appt := &models.Appointment{
		ID:               uuid.New(),
		SalonID:          req.SalonID,
		CustomerID:       customerID,
		StaffID:          req.StaffID,
		StartTime:        slot.Start,
		EndTime:          slot.End,
		Status:           models.StatusPending,
		DurationMinutes:  slot.DurationMinutes,
		ConfirmationCode: code,
		TotalPrice:       svc.Price,
		Notes:            req.Notes,
		CreatedByID:      customerID,
		UpdatedByID:      customerID,
	}
	link := &models.AppointmentService{
		ID:              uuid.New(),
		ServiceID:       req.ServiceID,
		StaffID:         req.StaffID,
		StartTime:       slot.Start,
		EndTime:         slot.End,
		DurationMinutes: slot.DurationMinutes,
		CreatedByID:     customerID,
		UpdatedByID:     customerID,
	}

	if err := b.write(ctx, f, appt, link); err != nil {
		return nil, err
	}
	f.advance(StateServiceAttached)

	logger.Info("booking completed",
		"appointmentId", appt.ID.String(),
		"confirmationCode", code,
		"startTime", slot.Start.Format(time.RFC3339),
		"totalDuration", slot.DurationMinutes+slot.BufferMinutes,
	)

	if b.notifier != nil {
		b.notifier.AppointmentBooked(ctx, appt)
	}
	return &Result{Appointment: appt, Link: link}, nil
}

func (b *Booker) checkSalon(ctx context.Context, f *flow, id uuid.UUID) error {
	salon, err := b.store.FindSalon(ctx, id)
	if errors.Is(err, ErrNoRows) {
		f.logger.Warn("booking salon not found")
		return f.fail(KindNotFound, msgSalonNotFound, err)
	}
	if err != nil {
		f.logger.Error("booking salon lookup failed", "error", err)
		return f.fail(KindDatabase, msgSalonNotFound, err)
	}
	if !salon.IsActive {
		f.logger.Warn("booking attempted on inactive salon")
		return f.fail(KindPolicy, msgSalonClosed, nil)
	}
	return nil
}

func (b *Booker) checkService(ctx context.Context, f *flow, id uuid.UUID) (*models.Service, error) {
	svc, err := b.store.FindService(ctx, id)
	if errors.Is(err, ErrNoRows) {
		f.logger.Warn("booking service not found")
		return nil, f.fail(KindNotFound, msgNoService, err)
	}
	if err != nil {
		f.logger.Error("booking service lookup failed", "error", err)
		return nil, f.fail(KindDatabase, msgNoService, err)
	}
	f.logger.Info("booking service details retrieved",
		"durationMinutes", svc.DurationMinutes,
		"bufferMinutes", svc.BufferMinutes,
	)
	return svc, nil
}

func (b *Booker) checkAvailability(ctx context.Context, f *flow, staffID uuid.UUID, slot Slot) error {
	now := b.now().In(b.loc)
	if err := CheckWindow(slot.Start, now, b.maxDays); err != nil {
		f.logger.Warn("booking outside allowed window",
			"requestedTime", slot.Start.Format(time.RFC3339),
			"currentTime", now.Format(time.RFC3339),
		)
		return err
	}

	n, err := b.store.CountConfirmedOverlaps(ctx, staffID, slot.Start, slot.End)
	if err != nil {
		f.logger.Error("booking availability check failed", "error", err)
		return f.fail(KindDatabase, msgAvailability, err)
	}
	if n > 0 {
		f.logger.Warn("booking conflict detected",
			"requestedStart", slot.Start.Format(time.RFC3339),
			"requestedEnd", slot.End.Format(time.RFC3339),
			"conflictCount", n,
		)
		return f.fail(KindConflict, msgStaffBusy, nil)
	}
	return nil
}

// write inserts the appointment and its service link. With a Transactor both
// inserts share a transaction; otherwise a failed link insert deletes the
// appointment again, and a failed delete is only logged.
func (b *Booker) write(ctx context.Context, f *flow, appt *models.Appointment, link *models.AppointmentService) error {
	if tx, ok := b.store.(Transactor); ok {
		var linkErr error
		err := tx.WithinTx(ctx, func(s Store) error {
			if err := s.InsertAppointment(ctx, appt); err != nil {
				return err
			}
			f.advance(StateAppointmentWritten)
			link.AppointmentID = appt.ID
			if err := s.InsertAppointmentService(ctx, link); err != nil {
				linkErr = err
				return err
			}
			return nil
		})
		switch {
		case err == nil:
			return nil
		case linkErr != nil:
			f.logger.Error("booking service attachment failed, transaction rolled back",
				"appointmentId", appt.ID.String(), "error", linkErr)
			return newError(KindDatabase, StateRolledBack, msgAttachFailed, linkErr)
		default:
			f.logger.Error("booking appointment creation failed", "error", err)
			return f.fail(KindDatabase, msgCreateFailed, err)
		}
	}

	if err := b.store.InsertAppointment(ctx, appt); err != nil {
		f.logger.Error("booking appointment creation failed", "error", err)
		return f.fail(KindDatabase, msgCreateFailed, err)
	}
	f.advance(StateAppointmentWritten)
	f.logger.Info("booking appointment created",
		"appointmentId", appt.ID.String(), "confirmationCode", appt.ConfirmationCode)

	link.AppointmentID = appt.ID
	if err := b.store.InsertAppointmentService(ctx, link); err != nil {
		f.logger.Error("booking service attachment failed, rolling back",
			"appointmentId", appt.ID.String(), "error", err)
		if delErr := b.store.DeleteAppointment(ctx, appt.ID); delErr != nil {
			f.logger.Error("booking rollback failed, appointment left orphaned",
				"appointmentId", appt.ID.String(), "error", delErr)
		} else {
			f.logger.Info("booking rollback completed", "appointmentId", appt.ID.String())
		}
		return f.fail(KindDatabase, msgAttachFailed, err)
	}
	return nil
}
