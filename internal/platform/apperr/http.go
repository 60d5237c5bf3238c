package apperr

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPStatus maps an error to the status code its kind implies.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// HTTP converts a taxonomy error into an echo HTTP error. Internal
// causes are not leaked to the client.
func HTTP(err error) *echo.HTTPError {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		return echo.NewHTTPError(status, "internal server error")
	}
	return echo.NewHTTPError(status, err.Error())
}
