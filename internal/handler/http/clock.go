package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/arthurobs542/clock-timer/internal/domain/clock"
	"github.com/arthurobs542/clock-timer/internal/handler/http/middleware"
	"github.com/arthurobs542/clock-timer/internal/handler/http/response"
	"github.com/arthurobs542/clock-timer/internal/pkg/metrics"
	"github.com/arthurobs542/clock-timer/internal/pkg/validator"
)

// ClockHandler exposes the work-session endpoints
type ClockHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	StartBreak(w http.ResponseWriter, r *http.Request)
	EndBreak(w http.ResponseWriter, r *http.Request)
	CurrentStatus(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	MyRecords(w http.ResponseWriter, r *http.Request)
	AllRecords(w http.ResponseWriter, r *http.Request)
	RecordByID(w http.ResponseWriter, r *http.Request)
}

type clockHandlerImpl struct {
	clockService clock.ClockService
}

func NewClockHandler(clockService clock.ClockService) ClockHandler {
	return &clockHandlerImpl{clockService: clockService}
}

// decodeEventRequest reads the optional notes body. An empty body is a
// valid request.
func decodeEventRequest(r *http.Request) (clock.ClockEventRequest, error) {
	var req clock.ClockEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return clock.ClockEventRequest{}, err
	}
	return req, nil
}

func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	return "rejected"
}

// ClockIn opens today's work session
func (h *clockHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	req, err := decodeEventRequest(r)
	if err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	record, err := h.clockService.ClockIn(r.Context(), employeeID, req)
	metrics.ClockEvents.WithLabelValues("clock_in", outcomeLabel(err)).Inc()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clocked in successfully", record)
}

// ClockOut closes today's work session
func (h *clockHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	req, err := decodeEventRequest(r)
	if err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	record, err := h.clockService.ClockOut(r.Context(), employeeID, req)
	metrics.ClockEvents.WithLabelValues("clock_out", outcomeLabel(err)).Inc()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clocked out successfully", record)
}

// StartBreak opens the break interval
func (h *clockHandlerImpl) StartBreak(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	req, err := decodeEventRequest(r)
	if err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	record, err := h.clockService.StartBreak(r.Context(), employeeID, req)
	metrics.ClockEvents.WithLabelValues("break_start", outcomeLabel(err)).Inc()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break started", record)
}

// EndBreak closes the break interval
func (h *clockHandlerImpl) EndBreak(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	req, err := decodeEventRequest(r)
	if err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	record, err := h.clockService.EndBreak(r.Context(), employeeID, req)
	metrics.ClockEvents.WithLabelValues("break_end", outcomeLabel(err)).Inc()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break ended", record)
}

// CurrentStatus reports whether the employee is clocked in or on break
func (h *clockHandlerImpl) CurrentStatus(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	status, err := h.clockService.GetCurrentStatus(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

// Stats aggregates completed records into worked-hours statistics
func (h *clockHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	filter := clock.StatsFilter{
		StartDate: optionalQueryParam(r, "start_date"),
		EndDate:   optionalQueryParam(r, "end_date"),
	}

	stats, err := h.clockService.GetStats(r.Context(), employeeID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// MyRecords lists the authenticated employee's own records
func (h *clockHandlerImpl) MyRecords(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	filter := recordFilterFromQuery(r)
	filter.EmployeeID = &employeeID

	h.listRecords(w, r, filter)
}

// AllRecords lists records across employees, optionally filtered. Admin
// access is enforced by the route middleware.
func (h *clockHandlerImpl) AllRecords(w http.ResponseWriter, r *http.Request) {
	filter := recordFilterFromQuery(r)

	if filter.EmployeeID != nil && !validator.IsValidUUID(*filter.EmployeeID) {
		response.BadRequest(w, "employee_id must be a valid UUID", nil)
		return
	}

	h.listRecords(w, r, filter)
}

// RecordByID returns a single record for the admin detail view. Admin
// access is enforced by the route middleware.
func (h *clockHandlerImpl) RecordByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "id must be a valid UUID", nil)
		return
	}

	record, err := h.clockService.GetRecord(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

func (h *clockHandlerImpl) listRecords(w http.ResponseWriter, r *http.Request, filter clock.RecordFilter) {
	result, err := h.clockService.ListRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Records, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.Total,
		TotalPages: result.Pages,
	})
}

func recordFilterFromQuery(r *http.Request) clock.RecordFilter {
	return clock.RecordFilter{
		EmployeeID: optionalQueryParam(r, "employee_id"),
		StartDate:  optionalQueryParam(r, "start_date"),
		EndDate:    optionalQueryParam(r, "end_date"),
		Status:     optionalQueryParam(r, "status"),
		Page:       getIntQueryParam(r, "page", 0),
		Limit:      getIntQueryParam(r, "limit", 0),
	}
}

func optionalQueryParam(r *http.Request, key string) *string {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	return &val
}

func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

func getBoolQueryParam(r *http.Request, key string, defaultVal bool) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	return val == "true" || val == "1"
}
