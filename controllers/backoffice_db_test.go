package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"enorae-backend/booking"
	"enorae-backend/config"
	"enorae-backend/models"
	"enorae-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (f statusFixture) service(t *testing.T, name string) models.Service {
	duration := 30
	svc := models.Service{SalonID: f.salon.ID, Name: name, Price: 40, DurationMinutes: &duration, IsActive: true}
	require.NoError(t, config.DB.Create(&svc).Error)
	return svc
}

func TestServiceCRUD(t *testing.T) {
	setupTestDB(t)
	f := newStatusFixture(t)
	r := backOfficeRouter(&f.salon.ID, uuid.New(), utils.RoleSalonOwner)

	w := sendJSON(r, http.MethodPost, "/api/services", `{"name":"Colour","price":85,"durationMinutes":90}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Service
	decodeJSON(t, w, &created)
	assert.Equal(t, "General", created.Category)
	require.NotNil(t, created.DurationMinutes)
	assert.Equal(t, 90, *created.DurationMinutes)

	path := "/api/services/" + created.ID.String()
	w = sendJSON(r, http.MethodPut, path, `{"price":95,"isActive":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Service
	decodeJSON(t, w, &updated)
	assert.Equal(t, 95.0, updated.Price)
	assert.False(t, updated.IsActive)

	// Inactive services stay off the public catalog; staff are listed.
	w = sendJSON(r, http.MethodGet, "/salons/"+f.salon.ID.String()+"/catalog", "")
	require.Equal(t, http.StatusOK, w.Code)
	var catalog struct {
		Services []models.Service         `json:"services"`
		Staff    []map[string]interface{} `json:"staff"`
	}
	decodeJSON(t, w, &catalog)
	assert.Empty(t, catalog.Services)
	require.Len(t, catalog.Staff, 1)
	assert.Equal(t, f.staff.ID.String(), catalog.Staff[0]["id"])

	w = sendJSON(r, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, sendJSON(r, http.MethodGet, path, "").Code)
	assert.Equal(t, http.StatusNotFound, sendJSON(r, http.MethodDelete, path, "").Code)

	// Soft deleted: the row is still there for past appointments.
	var count int64
	config.DB.Unscoped().Model(&models.Service{}).Where("id = ?", created.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	other := uuid.New()
	foreign := backOfficeRouter(&other, uuid.New(), utils.RoleSalonOwner)
	assert.Equal(t, http.StatusNotFound, sendJSON(foreign, http.MethodPut, path, `{"price":1}`).Code)
}

func TestUpdateProfileAndBookingAvailability(t *testing.T) {
	setupTestDB(t)
	f := newStatusFixture(t)
	r := backOfficeRouter(&f.salon.ID, uuid.New(), utils.RoleSalonOwner)

	w := sendJSON(r, http.MethodPut, "/api/profile", `{"name":"Renamed","phone":"12"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid phone number", errorMessage(t, w))

	w = sendJSON(r, http.MethodPut, "/api/profile", `{"name":"Renamed","email":"Desk@Salon.TEST"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var salon models.Salon
	require.NoError(t, config.DB.First(&salon, "id = ?", f.salon.ID).Error)
	assert.Equal(t, "Renamed", salon.Name)
	assert.Equal(t, "desk@salon.test", salon.Email)

	w = sendJSON(r, http.MethodPut, "/api/profile/bookings", `{"isAcceptingBookings":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, config.DB.First(&salon, "id = ?", f.salon.ID).Error)
	assert.False(t, salon.IsActive)

	w = sendJSON(r, http.MethodGet, "/salons/"+f.salon.ID.String()+"/catalog", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestModeratedSalonStopsTakingBookings(t *testing.T) {
	setupTestDB(t)
	f := newStatusFixture(t)
	svc := f.service(t, "Blow dry")

	admin := backOfficeRouter(nil, uuid.New(), utils.RolePlatformAdmin)
	book := setupBookingRouter(booking.NewGormStore(config.DB), true)
	form := bookingForm(map[string]string{
		"salonId":   f.salon.ID.String(),
		"serviceId": svc.ID.String(),
		"staffId":   f.staff.ID.String(),
	})
	moderation := "/api/admin/salons/" + f.salon.ID.String() + "/moderation"

	w := sendJSON(admin, http.MethodPut, moderation, `{"isActive":false,"reason":"chargebacks"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = postForm(book, form)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "This salon is not currently accepting bookings", errorMessage(t, w))

	w = sendJSON(admin, http.MethodPut, moderation, `{"isActive":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = postForm(book, form)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = sendJSON(admin, http.MethodPut, "/api/admin/salons/"+uuid.NewString()+"/moderation", `{"isActive":false}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTeamManagement(t *testing.T) {
	setupTestDB(t)
	f := newStatusFixture(t)
	r := backOfficeRouter(&f.salon.ID, uuid.New(), utils.RoleSalonManager)

	w := sendJSON(r, http.MethodPost, "/api/team",
		`{"email":"Senior@Salon.test","name":"Senior","password":"password1","role":"senior_staff","commissionRate":15}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var member map[string]interface{}
	decodeJSON(t, w, &member)
	assert.Equal(t, "senior@salon.test", member["email"])
	memberPath := "/api/team/" + member["id"].(string)

	w = sendJSON(r, http.MethodPost, "/api/team", `{"email":"senior@salon.test","name":"Twin","password":"password1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = sendJSON(r, http.MethodPut, memberPath, `{"role":"salon_owner"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = sendJSON(r, http.MethodPut, memberPath, `{"role":"junior_staff","commissionRate":20}`)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &member)
	assert.Equal(t, utils.RoleJuniorStaff, member["role"])
	assert.Equal(t, 20.0, member["commissionRate"])

	owner := models.User{Email: uuid.NewString() + "@owner.test", Name: "Owner", Password: "password1",
		Role: utils.RoleSalonOwner, SalonID: &f.salon.ID, IsActive: true}
	require.NoError(t, config.DB.Create(&owner).Error)
	ownerPath := "/api/team/" + owner.ID.String()

	w = sendJSON(r, http.MethodPut, ownerPath, `{"role":"staff"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, http.StatusNotFound, sendJSON(r, http.MethodDelete, ownerPath, "").Code)

	w = sendJSON(r, http.MethodDelete, memberPath, "")
	require.Equal(t, http.StatusOK, w.Code)
	var stored models.User
	require.NoError(t, config.DB.First(&stored, "id = ?", member["id"]).Error)
	assert.False(t, stored.IsActive)
}

func TestReviewTimeOffOnlyOnce(t *testing.T) {
	setupTestDB(t)
	f := newStatusFixture(t)
	reviewer := uuid.New()
	r := backOfficeRouter(&f.salon.ID, reviewer, utils.RoleSalonOwner)

	req := models.TimeOffRequest{
		SalonID:   f.salon.ID,
		StaffID:   f.staff.ID,
		StartDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC),
		Status:    models.TimeOffPending,
	}
	require.NoError(t, config.DB.Create(&req).Error)
	path := "/api/time-off/" + req.ID.String() + "/review"

	w := sendJSON(r, http.MethodPut, path, `{"status":"approved","note":"enjoy"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = sendJSON(r, http.MethodPut, path, `{"status":"rejected"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	var stored models.TimeOffRequest
	require.NoError(t, config.DB.First(&stored, "id = ?", req.ID).Error)
	assert.Equal(t, models.TimeOffApproved, stored.Status)
	require.NotNil(t, stored.ReviewedByID)
	assert.Equal(t, reviewer, *stored.ReviewedByID)
	assert.Equal(t, "enjoy", stored.ReviewNote)

	w = sendJSON(r, http.MethodPut, "/api/time-off/"+uuid.NewString()+"/review", `{"status":"approved"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBlockedTimes(t *testing.T) {
	setupTestDB(t)
	f := newStatusFixture(t)
	r := backOfficeRouter(&f.salon.ID, uuid.New(), utils.RoleSalonOwner)

	w := sendJSON(r, http.MethodPost, "/api/blocked-times",
		`{"blockType":"holiday","startTime":"2025-12-25T00:00:00Z","endTime":"2025-12-26T00:00:00Z","reason":"Closed"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var salonWide models.BlockedTime
	decodeJSON(t, w, &salonWide)
	assert.Nil(t, salonWide.StaffID)

	w = sendJSON(r, http.MethodPost, "/api/blocked-times",
		`{"staffId":"`+f.staff.ID.String()+`","blockType":"break","startTime":"2025-12-01T12:00:00Z","endTime":"2025-12-01T13:00:00Z"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = sendJSON(r, http.MethodPost, "/api/blocked-times",
		`{"staffId":"`+uuid.NewString()+`","blockType":"break","startTime":"2025-12-01T12:00:00Z","endTime":"2025-12-01T13:00:00Z"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = sendJSON(r, http.MethodGet, "/api/blocked-times?staffId="+f.staff.ID.String()+"&from=2025-12-20", "")
	require.Equal(t, http.StatusOK, w.Code)
	var listed []models.BlockedTime
	decodeJSON(t, w, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, salonWide.ID, listed[0].ID)

	path := "/api/blocked-times/" + salonWide.ID.String()
	w = sendJSON(r, http.MethodPut, path, `{"endTime":"2025-12-24T00:00:00Z"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusOK, sendJSON(r, http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, sendJSON(r, http.MethodDelete, path, "").Code)
}

func TestInventoryAndProductUsage(t *testing.T) {
	setupTestDB(t)
	f := newStatusFixture(t)
	r := backOfficeRouter(&f.salon.ID, uuid.New(), utils.RoleSalonOwner)

	w := sendJSON(r, http.MethodPost, "/api/inventory/products",
		`{"name":"Toner","unitOfMeasure":"ml","reorderPoint":3,"initialStock":10}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var product models.Product
	decodeJSON(t, w, &product)
	assert.Equal(t, 10.0, product.QuantityOnHand)
	movements := "/api/inventory/products/" + product.ID.String() + "/movements"

	w = sendJSON(r, http.MethodPost, movements, `{"movementType":"out","quantity":15}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = sendJSON(r, http.MethodPost, movements, `{"movementType":"out","quantity":4,"notes":"damaged"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = sendJSON(r, http.MethodPost, "/api/inventory/products/"+uuid.NewString()+"/movements", `{"movementType":"in","quantity":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = sendJSON(r, http.MethodGet, "/api/inventory/movements?productId="+product.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	var ledger []models.StockMovement
	decodeJSON(t, w, &ledger)
	assert.Len(t, ledger, 2)

	// Completing an appointment for a mapped service draws the product down.
	svc := f.service(t, "Gloss")
	usage := `{"serviceId":"` + svc.ID.String() + `","productId":"` + product.ID.String() + `","quantityPerService":2.5}`
	require.Equal(t, http.StatusCreated, sendJSON(r, http.MethodPost, "/api/inventory/usage", usage).Code)
	assert.Equal(t, http.StatusConflict, sendJSON(r, http.MethodPost, "/api/inventory/usage", usage).Code)

	w = sendJSON(r, http.MethodPost, "/api/inventory/usage",
		`{"serviceId":"`+svc.ID.String()+`","productId":"`+uuid.NewString()+`","quantityPerService":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	appt := f.appointment(t, time.Now().Add(-time.Hour), models.StatusInProgress)
	require.NoError(t, config.DB.Create(&models.AppointmentService{
		AppointmentID: appt.ID, ServiceID: svc.ID, StaffID: f.staff.ID,
		StartTime: appt.StartTime, EndTime: appt.EndTime, DurationMinutes: 30,
		CreatedByID: f.customer.ID, UpdatedByID: f.customer.ID,
	}).Error)

	require.Equal(t, http.StatusOK, putStatus(statusRouter(f), appt.ID, models.StatusCompleted).Code)

	require.NoError(t, config.DB.First(&product, "id = ?", product.ID).Error)
	assert.Equal(t, 3.5, product.QuantityOnHand)

	var used models.StockMovement
	require.NoError(t, config.DB.Where("appointment_id = ?", appt.ID).First(&used).Error)
	assert.Equal(t, models.MovementUsage, used.MovementType)
	assert.Equal(t, 2.5, used.Quantity)

	w = sendJSON(r, http.MethodGet, "/api/inventory/products?lowStock=true", "")
	var low []models.Product
	decodeJSON(t, w, &low)
	assert.Empty(t, low)

	require.Equal(t, http.StatusCreated, sendJSON(r, http.MethodPost, movements, `{"movementType":"adjustment","quantity":-1}`).Code)
	w = sendJSON(r, http.MethodGet, "/api/inventory/products?lowStock=true", "")
	decodeJSON(t, w, &low)
	require.Len(t, low, 1)
	assert.Equal(t, 2.5, low[0].QuantityOnHand)
}
