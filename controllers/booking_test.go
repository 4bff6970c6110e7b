package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"enorae-backend/booking"
	"enorae-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSalon    = uuid.MustParse("0b6c9d8e-0000-4000-8000-000000000001")
	closedSalon  = uuid.MustParse("0b6c9d8e-0000-4000-8000-000000000002")
	testService  = uuid.MustParse("0b6c9d8e-0000-4000-8000-000000000011")
	testStaff    = uuid.MustParse("0b6c9d8e-0000-4000-8000-000000000021")
	testCustomer = uuid.MustParse("0b6c9d8e-0000-4000-8000-000000000031")
)

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

type fakeStore struct {
	overlaps int64
	created  []*models.Appointment
}

func (f *fakeStore) FindSalon(_ context.Context, id uuid.UUID) (*models.Salon, error) {
	switch id {
	case testSalon:
		return &models.Salon{ID: id, IsActive: true}, nil
	case closedSalon:
		return &models.Salon{ID: id, IsActive: false}, nil
	}
	return nil, booking.ErrNoRows
}

func (f *fakeStore) FindService(_ context.Context, id uuid.UUID) (*models.Service, error) {
	if id != testService {
		return nil, booking.ErrNoRows
	}
	return &models.Service{ID: id, SalonID: testSalon, Price: 50}, nil
}

func (f *fakeStore) CountConfirmedOverlaps(context.Context, uuid.UUID, time.Time, time.Time) (int64, error) {
	return f.overlaps, nil
}

func (f *fakeStore) InsertAppointment(_ context.Context, a *models.Appointment) error {
	f.created = append(f.created, a)
	return nil
}

func (f *fakeStore) InsertAppointmentService(context.Context, *models.AppointmentService) error {
	return nil
}

func (f *fakeStore) DeleteAppointment(context.Context, uuid.UUID) error { return nil }

func setupBookingRouter(store booking.Store, asUser bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	booker := booking.NewBooker(store,
		booking.WithClock(func() time.Time { return time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC) }),
		booking.WithRand(zeroReader{}),
	)
	bc := &BookingController{Booker: booker}

	r := gin.New()
	if asUser {
		r.Use(func(c *gin.Context) {
			c.Set("userId", testCustomer.String())
			c.Next()
		})
	}
	r.POST("/book", bc.Book)
	return r
}

func bookingForm(overrides map[string]string) url.Values {
	form := url.Values{
		"salonId":   {testSalon.String()},
		"serviceId": {testService.String()},
		"staffId":   {testStaff.String()},
		"date":      {"2025-06-01"},
		"time":      {"10:00"},
	}
	for k, v := range overrides {
		form.Set(k, v)
	}
	return form
}

func postForm(r *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/book", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestBook_RedirectsWithConfirmationCode(t *testing.T) {
	store := &fakeStore{}
	w := postForm(setupBookingRouter(store, true), bookingForm(nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/customer/profile?confirmation=AAA-0000", w.Header().Get("Location"))

	require.Len(t, store.created, 1)
	a := store.created[0]
	assert.Equal(t, testCustomer, a.CustomerID)
	assert.Equal(t, models.StatusPending, a.Status)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), a.StartTime.UTC())
}

func TestBook_Failures(t *testing.T) {
	tests := []struct {
		name     string
		form     url.Values
		overlaps int64
		status   int
		message  string
	}{
		{"missing salon", bookingForm(map[string]string{"salonId": ""}), 0, http.StatusBadRequest, "Salon is required"},
		{"bad time", bookingForm(map[string]string{"time": "25:99"}), 0, http.StatusBadRequest, "Invalid time format. Use HH:MM"},
		{"unknown salon", bookingForm(map[string]string{"salonId": uuid.NewString()}), 0, http.StatusNotFound, "Salon not found"},
		{"closed salon", bookingForm(map[string]string{"salonId": closedSalon.String()}), 0, http.StatusUnprocessableEntity, "This salon is not currently accepting bookings"},
		{"past slot", bookingForm(map[string]string{"date": "2025-05-01"}), 0, http.StatusUnprocessableEntity, "Appointment time must be in the future"},
		{"staff busy", bookingForm(nil), 1, http.StatusConflict, "This staff member is not available at the selected time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{overlaps: tt.overlaps}
			w := postForm(setupBookingRouter(store, true), tt.form)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, errorMessage(t, w))
			assert.Empty(t, store.created)
		})
	}
}

func TestBook_RequiresUser(t *testing.T) {
	w := postForm(setupBookingRouter(&fakeStore{}, false), bookingForm(nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, BookingStatus(booking.ErrValidation))
	assert.Equal(t, http.StatusNotFound, BookingStatus(booking.ErrNotFound))
	assert.Equal(t, http.StatusConflict, BookingStatus(booking.ErrConflict))
	assert.Equal(t, http.StatusUnprocessableEntity, BookingStatus(booking.ErrPolicy))
	assert.Equal(t, http.StatusInternalServerError, BookingStatus(booking.ErrDatabase))
	assert.Equal(t, http.StatusInternalServerError, BookingStatus(errors.New("boom")))
}
