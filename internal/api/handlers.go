// Package api exposes a board.Service over HTTP.
package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"weekboard/internal/board"
	"weekboard/internal/model"
)

const maxBodySize = 64 << 10

// Error codes carried in error bodies so clients can rebuild typed errors.
const (
	CodeNotFound     = "not_found"
	CodeInvalidValue = "invalid_value"
	CodeNoDate       = "no_date"
	CodeInternal     = "internal"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Kind  string `json:"kind,omitempty"`
	ID    string `json:"id,omitempty"`
}

type WeekRequest struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

type ShiftRequest struct {
	Weeks int `json:"weeks"`
}

type FieldRequest struct {
	Value string `json:"value"`
}

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, svc board.Service, logger *log.Logger) {
	e.GET("/api/years/:year/tasks", getYearTasks(svc, logger))
	e.GET("/api/projects", getProjects(svc, logger))
	e.POST("/api/tasks/:id/week", postWeek(svc, logger))
	e.POST("/api/tasks/:id/shift", postShift(svc, logger))
	e.PATCH("/api/tasks/:id/fields/:field", patchField(svc, logger))
	e.GET("/healthz", healthz(svc))
}

func healthz(svc board.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := svc.FetchProjects(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), Code: CodeInternal})
		}
		return c.NoContent(http.StatusOK)
	}
}

func getYearTasks(svc board.Service, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		year, err := strconv.Atoi(c.Param("year"))
		if err != nil || year <= 0 {
			return badRequest(c, "invalid year")
		}
		res, err := svc.FetchTasksForYear(c.Request().Context(), year)
		if err != nil {
			return writeError(c, logger, err)
		}
		return c.JSON(http.StatusOK, res)
	}
}

func getProjects(svc board.Service, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ps, err := svc.FetchProjects(c.Request().Context())
		if err != nil {
			return writeError(c, logger, err)
		}
		if ps == nil {
			ps = []model.Project{}
		}
		return c.JSON(http.StatusOK, ps)
	}
}

func postWeek(svc board.Service, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body WeekRequest
		if err := decodeBody(c, &body); err != nil {
			return badRequest(c, "invalid body")
		}
		t, err := svc.SetTaskDateToWeekStart(c.Request().Context(), c.Param("id"), body.Year, body.Week)
		if err != nil {
			return writeError(c, logger, err)
		}
		return c.JSON(http.StatusOK, t)
	}
}

func postShift(svc board.Service, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body ShiftRequest
		if err := decodeBody(c, &body); err != nil {
			return badRequest(c, "invalid body")
		}
		t, err := svc.ShiftTaskByWeeks(c.Request().Context(), c.Param("id"), body.Weeks)
		if err != nil {
			return writeError(c, logger, err)
		}
		return c.JSON(http.StatusOK, t)
	}
}

func patchField(svc board.Service, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		field, err := model.ParseField(c.Param("field"))
		if err != nil {
			return writeError(c, logger, err)
		}
		var body FieldRequest
		if err := decodeBody(c, &body); err != nil {
			return badRequest(c, "invalid body")
		}
		t, err := svc.UpdateTaskField(c.Request().Context(), c.Param("id"), field, body.Value)
		if err != nil {
			return writeError(c, logger, err)
		}
		return c.JSON(http.StatusOK, t)
	}
}

func decodeBody(c echo.Context, v any) error {
	lr := io.LimitReader(c.Request().Body, maxBodySize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: CodeInvalidValue})
}

// writeError maps service errors onto status codes: unknown ids are 404, rejected
// values 400, everything else 500.
func writeError(c echo.Context, logger *log.Logger, err error) error {
	var nf model.NotFoundError
	switch {
	case errors.As(err, &nf):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: CodeNotFound, Kind: nf.Kind, ID: nf.ID})
	case errors.Is(err, model.ErrNoDate):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeNoDate})
	case errors.Is(err, model.ErrInvalidValue):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeInvalidValue})
	}
	if logger != nil {
		logger.WithError(err).WithField("path", c.Path()).Error("request failed")
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: CodeInternal})
}
