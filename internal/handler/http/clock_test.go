package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthurobs542/clock-timer/internal/domain/clock"
	"github.com/arthurobs542/clock-timer/internal/domain/user"
	"github.com/arthurobs542/clock-timer/internal/handler/http/middleware"
	"github.com/arthurobs542/clock-timer/internal/handler/http/response"
)

type stubClockService struct {
	record clock.ClockRecordResponse
	status clock.CurrentStatusResponse
	stats  clock.ClockStatsResponse
	list   clock.ListRecordsResponse
	err    error

	lastFilter clock.RecordFilter
}

func (s *stubClockService) ClockIn(ctx context.Context, employeeID string, req clock.ClockEventRequest) (clock.ClockRecordResponse, error) {
	return s.record, s.err
}

func (s *stubClockService) ClockOut(ctx context.Context, employeeID string, req clock.ClockEventRequest) (clock.ClockRecordResponse, error) {
	return s.record, s.err
}

func (s *stubClockService) StartBreak(ctx context.Context, employeeID string, req clock.ClockEventRequest) (clock.ClockRecordResponse, error) {
	return s.record, s.err
}

func (s *stubClockService) EndBreak(ctx context.Context, employeeID string, req clock.ClockEventRequest) (clock.ClockRecordResponse, error) {
	return s.record, s.err
}

func (s *stubClockService) GetCurrentStatus(ctx context.Context, employeeID string) (clock.CurrentStatusResponse, error) {
	return s.status, s.err
}

func (s *stubClockService) GetStats(ctx context.Context, employeeID string, filter clock.StatsFilter) (clock.ClockStatsResponse, error) {
	return s.stats, s.err
}

func (s *stubClockService) ListRecords(ctx context.Context, filter clock.RecordFilter) (clock.ListRecordsResponse, error) {
	s.lastFilter = filter
	return s.list, s.err
}

func (s *stubClockService) GetRecord(ctx context.Context, id string) (clock.ClockRecordResponse, error) {
	return s.record, s.err
}

func authedRequest(method, target, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := middleware.WithIdentity(r.Context(), "7c9f4a1e-3d2b-4f6a-9e8c-1b5d7a3f2e4c", user.RoleEmployee)
	return r.WithContext(ctx)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestClockInHandler(t *testing.T) {
	svc := &stubClockService{record: clock.ClockRecordResponse{ID: "rec-1", Status: clock.StatusActive}}
	handler := NewClockHandler(svc)

	w := httptest.NewRecorder()
	handler.ClockIn(w, authedRequest(http.MethodPost, "/api/v1/clock/in", `{"notes":"hello"}`))

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeBody(t, w)
	assert.True(t, resp.Success)
}

func TestClockInHandlerEmptyBody(t *testing.T) {
	svc := &stubClockService{record: clock.ClockRecordResponse{ID: "rec-1"}}
	handler := NewClockHandler(svc)

	w := httptest.NewRecorder()
	handler.ClockIn(w, authedRequest(http.MethodPost, "/api/v1/clock/in", ""))

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestClockInHandlerUnauthenticated(t *testing.T) {
	handler := NewClockHandler(&stubClockService{})

	w := httptest.NewRecorder()
	handler.ClockIn(w, httptest.NewRequest(http.MethodPost, "/api/v1/clock/in", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestClockInHandlerConflict(t *testing.T) {
	svc := &stubClockService{err: clock.ErrAlreadyClockedIn}
	handler := NewClockHandler(svc)

	w := httptest.NewRecorder()
	handler.ClockIn(w, authedRequest(http.MethodPost, "/api/v1/clock/in", ""))

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeBody(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
}

func TestClockOutHandlerNoSession(t *testing.T) {
	svc := &stubClockService{err: clock.ErrNoActiveSession}
	handler := NewClockHandler(svc)

	w := httptest.NewRecorder()
	handler.ClockOut(w, authedRequest(http.MethodPost, "/api/v1/clock/out", ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEndBreakHandlerNoBreak(t *testing.T) {
	svc := &stubClockService{err: clock.ErrNoActiveBreak}
	handler := NewClockHandler(svc)

	w := httptest.NewRecorder()
	handler.EndBreak(w, authedRequest(http.MethodPost, "/api/v1/clock/break/end", ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStartBreakHandlerConflict(t *testing.T) {
	svc := &stubClockService{err: clock.ErrBreakAlreadyActive}
	handler := NewClockHandler(svc)

	w := httptest.NewRecorder()
	handler.StartBreak(w, authedRequest(http.MethodPost, "/api/v1/clock/break/start", ""))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCurrentStatusHandler(t *testing.T) {
	svc := &stubClockService{status: clock.CurrentStatusResponse{IsClockedIn: true}}
	handler := NewClockHandler(svc)

	w := httptest.NewRecorder()
	handler.CurrentStatus(w, authedRequest(http.MethodGet, "/api/v1/clock/status", ""))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMyRecordsScopedToAuthenticatedEmployee(t *testing.T) {
	svc := &stubClockService{list: clock.ListRecordsResponse{Page: 1, Limit: 10}}
	handler := NewClockHandler(svc)

	w := httptest.NewRecorder()
	// An employee_id query parameter must not widen the scope.
	handler.MyRecords(w, authedRequest(http.MethodGet, "/api/v1/clock/records?employee_id=someone-else&page=2", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastFilter.EmployeeID)
	assert.Equal(t, "7c9f4a1e-3d2b-4f6a-9e8c-1b5d7a3f2e4c", *svc.lastFilter.EmployeeID)
	assert.Equal(t, 2, svc.lastFilter.Page)
}

func TestAllRecordsRejectsMalformedEmployeeID(t *testing.T) {
	handler := NewClockHandler(&stubClockService{})

	w := httptest.NewRecorder()
	handler.AllRecords(w, authedRequest(http.MethodGet, "/api/v1/admin/clock/records?employee_id=not-a-uuid", ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordByIDRejectsMalformedID(t *testing.T) {
	handler := NewClockHandler(&stubClockService{})

	r := authedRequest(http.MethodGet, "/api/v1/admin/clock/records/not-a-uuid", "")
	r = withURLParam(r, "id", "not-a-uuid")

	w := httptest.NewRecorder()
	handler.RecordByID(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordByIDNotFound(t *testing.T) {
	handler := NewClockHandler(&stubClockService{err: clock.ErrRecordNotFound})

	id := "7c9f4a1e-3d2b-4f6a-9e8c-1b5d7a3f2e4c"
	r := withURLParam(authedRequest(http.MethodGet, "/api/v1/admin/clock/records/"+id, ""), "id", id)

	w := httptest.NewRecorder()
	handler.RecordByID(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeBody(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestRecordByIDReturnsRecord(t *testing.T) {
	svc := &stubClockService{record: clock.ClockRecordResponse{ID: "rec-1", Status: clock.StatusCompleted}}
	handler := NewClockHandler(svc)

	id := "7c9f4a1e-3d2b-4f6a-9e8c-1b5d7a3f2e4c"
	r := withURLParam(authedRequest(http.MethodGet, "/api/v1/admin/clock/records/"+id, ""), "id", id)

	w := httptest.NewRecorder()
	handler.RecordByID(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.True(t, resp.Success)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestAllRecordsReturnsMeta(t *testing.T) {
	svc := &stubClockService{list: clock.ListRecordsResponse{
		Records: []clock.ClockRecordResponse{{ID: "rec-1"}},
		Total:   25,
		Page:    1,
		Limit:   10,
		Pages:   3,
	}}
	handler := NewClockHandler(svc)

	w := httptest.NewRecorder()
	handler.AllRecords(w, authedRequest(http.MethodGet, "/api/v1/admin/clock/records", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(25), resp.Meta.TotalItems)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
