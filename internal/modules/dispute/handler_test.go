package dispute

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"landshare/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupRouter(svc *Service, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	if userID > 0 {
		api.Use(func(c *gin.Context) {
			c.Set("user_id", userID)
			c.Next()
		})
	}
	NewHandler(svc).RegisterRoutes(api)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_FileDispute_Created(t *testing.T) {
	svc, m := newTestService()
	r := setupRouter(svc, renterID)

	m.bookings.On("GetByID", mock.Anything, int64(7)).Return(testBooking(), nil)
	m.disputes.On("HasOpenDispute", mock.Anything, int64(7)).Return(false, nil)
	m.disputes.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.notifs.On("NotifyDisputeFiled", mock.Anything, ownerID, int64(301), int64(7)).Return(nil)

	w := doJSON(t, r, http.MethodPost, "/api/v1/disputes", gin.H{
		"booking_id":  7,
		"reason":      "access_issues",
		"description": "The gate code does not work.",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), `"status":"open"`)
}

func TestHandler_Unauthenticated(t *testing.T) {
	svc, _ := newTestService()
	r := setupRouter(svc, 0)

	w := doJSON(t, r, http.MethodGet, "/api/v1/disputes", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestHandler_GetDispute_InvalidID(t *testing.T) {
	svc, _ := newTestService()
	r := setupRouter(svc, renterID)

	w := doJSON(t, r, http.MethodGet, "/api/v1/disputes/abc", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_ID")
}

func TestHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"not found", ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"forbidden", ErrNotAuthorized, http.StatusForbidden, "FORBIDDEN"},
		{"validation", ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"invalid content", ErrInvalidContent, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"invalid resolution", ErrInvalidResolution, http.StatusBadRequest, "INVALID_RESOLUTION"},
		{"illegal transition", illegalTransition(domain.DisputeResolved, domain.DisputeClosed), http.StatusConflict, "ILLEGAL_TRANSITION"},
		{"dispute closed", ErrDisputeClosed, http.StatusConflict, "DISPUTE_CLOSED"},
		{"dispute exists", ErrDisputeExists, http.StatusConflict, "DISPUTE_EXISTS"},
		{"version conflict", ErrConflict, http.StatusConflict, "CONFLICT"},
		{"reconciliation failed", ErrReconciliationFailed, http.StatusBadGateway, "RECONCILIATION_FAILED"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondError(c, tc.err)

			assert.Equal(t, tc.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tc.wantBody)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestHandler_Resolve_ReconciliationFailureMapsTo502(t *testing.T) {
	svc, m := newTestService()
	r := setupRouter(svc, staffID)

	m.disputes.On("GetByID", mock.Anything, int64(301)).Return(underReviewDispute(), nil)
	m.bookings.On("GetByID", mock.Anything, int64(7)).Return(testBooking(), nil)
	m.identity.On("HasStaffCapability", mock.Anything, staffID).Return(true, nil)
	m.reconciler.On("ApplyResolution", mock.Anything, int64(301), int64(7), 200.00, domain.ResolutionPartialRefund).
		Return(errors.New("connection refused"))

	w := doJSON(t, r, http.MethodPost, "/api/v1/disputes/301/resolve", gin.H{
		"resolution":      "partial_refund",
		"resolved_amount": 200.00,
	})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "RECONCILIATION_FAILED")
}

func TestHandler_ListDisputes_UnknownStatus(t *testing.T) {
	svc, _ := newTestService()
	r := setupRouter(svc, renterID)

	w := doJSON(t, r, http.MethodGet, "/api/v1/disputes?status=pending", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}
