package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health answers liveness probes.  It reports that the process is up
// and serving; it does not touch the database or the broker, so a
// degraded dependency never takes the whole service out of rotation.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
