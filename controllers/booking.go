// controllers/booking.go
package controllers

import (
	"net/http"
	"net/url"

	"enorae-backend/booking"
	"enorae-backend/utils"

	"github.com/gin-gonic/gin"
)

const bookingConfirmedPath = "/customer/profile"

// BookingController accepts booking form submissions.
type BookingController struct {
	Booker *booking.Booker
}

// BookingStatus maps a booking failure to an HTTP status. Failures do not
// share one status: each error kind gets its own (400, 404, 409, 422 or 500)
// and the body always carries the user-facing message.
func BookingStatus(err error) int {
	switch booking.KindOf(err) {
	case booking.KindValidation:
		return http.StatusBadRequest
	case booking.KindNotFound:
		return http.StatusNotFound
	case booking.KindConflict:
		return http.StatusConflict
	case booking.KindPolicy:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Book handles POST /book. Success redirects to the customer's profile with
// the confirmation code.
func (bc *BookingController) Book(c *gin.Context) {
	userID, ok := userFromContext(c)
	if !ok {
		return
	}

	form := booking.Form{
		SalonID:   c.PostForm("salonId"),
		ServiceID: c.PostForm("serviceId"),
		StaffID:   c.PostForm("staffId"),
		Date:      c.PostForm("date"),
		Time:      c.PostForm("time"),
		Notes:     c.PostForm("notes"),
	}

	res, err := bc.Booker.Create(c.Request.Context(), userID, form)
	if err != nil {
		utils.RespondWithError(c, BookingStatus(err), err.Error())
		return
	}

	q := url.Values{"confirmation": {res.Appointment.ConfirmationCode}}
	c.Redirect(http.StatusSeeOther, bookingConfirmedPath+"?"+q.Encode())
}
