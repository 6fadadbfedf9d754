package db

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestExtractClinicID_FromHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Clinic-ID", "5f1c9a3e-0000-4000-8000-000000000001")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	cid := extractClinicID(c, "default")
	if cid != "5f1c9a3e-0000-4000-8000-000000000001" {
		t.Errorf("expected header clinic, got %s", cid)
	}
}

func TestExtractClinicID_FromQuery(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?clinic_id=query_clinic", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	cid := extractClinicID(c, "default")
	if cid != "query_clinic" {
		t.Errorf("expected query_clinic, got %s", cid)
	}
}

func TestExtractClinicID_FromJWT(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("jwt_clinic_id", "jwt_clinic")

	cid := extractClinicID(c, "default")
	if cid != "jwt_clinic" {
		t.Errorf("expected jwt_clinic, got %s", cid)
	}
}

func TestExtractClinicID_Default(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	cid := extractClinicID(c, "default")
	if cid != "default" {
		t.Errorf("expected default, got %s", cid)
	}
}

func TestExtractClinicID_Priority(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?clinic_id=query", nil)
	req.Header.Set("X-Clinic-ID", "header")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("jwt_clinic_id", "jwt")

	// JWT takes highest priority
	cid := extractClinicID(c, "default")
	if cid != "jwt" {
		t.Errorf("expected jwt (highest priority), got %s", cid)
	}
}

func TestExtractClinicID_EmptyJWT(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Clinic-ID", "header_clinic")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	// Empty claim falls through to the header
	c.Set("jwt_clinic_id", "")

	cid := extractClinicID(c, "default")
	if cid != "header_clinic" {
		t.Errorf("expected header_clinic when JWT is empty, got %s", cid)
	}
}

func runClinicMiddleware(t *testing.T, defaultClinic string, req *http.Request) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	handler := ClinicMiddleware(nil, defaultClinic)(func(c echo.Context) error {
		seen = ClinicFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, seen
}

func TestClinicMiddleware_AcceptsDefaultClinic(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, seen := runClinicMiddleware(t, "default", req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if seen != "default" {
		t.Errorf("clinic in context = %q, want default", seen)
	}
}

func TestClinicMiddleware_AcceptsNonUUIDHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Clinic-ID", "westside_asc")
	rec, seen := runClinicMiddleware(t, "default", req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if seen != "westside_asc" {
		t.Errorf("clinic in context = %q, want westside_asc", seen)
	}
}

func TestClinicMiddleware_RejectsEmptyClinic(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, _ := runClinicMiddleware(t, "", req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestConnFromContext_Nil(t *testing.T) {
	conn := ConnFromContext(context.Background())
	if conn != nil {
		t.Error("expected nil conn from empty context")
	}
}

func TestConnFromContext_WithWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), DBConnKey, "not-a-conn")
	conn := ConnFromContext(ctx)
	if conn != nil {
		t.Error("expected nil when context value is wrong type")
	}
}

func TestClinicFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), ClinicIDKey, "test_clinic")
	cid := ClinicFromContext(ctx)
	if cid != "test_clinic" {
		t.Errorf("expected test_clinic, got %s", cid)
	}

	empty := ClinicFromContext(context.Background())
	if empty != "" {
		t.Errorf("expected empty string, got %s", empty)
	}
}

func TestClinicFromContext_WithWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), ClinicIDKey, 12345)
	cid := ClinicFromContext(ctx)
	if cid != "" {
		t.Errorf("expected empty string when context value is wrong type, got %q", cid)
	}
}

func TestTxFromContext_Nil(t *testing.T) {
	tx := TxFromContext(context.Background())
	if tx != nil {
		t.Error("expected nil tx from empty context")
	}
}

func TestTxFromContext_WithWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), DBTxKey, "not-a-tx")
	tx := TxFromContext(ctx)
	if tx != nil {
		t.Error("expected nil when context value is wrong type")
	}
}

func TestWithTx_NoConnection(t *testing.T) {
	ctx := context.Background()
	_, _, err := WithTx(ctx)
	if err == nil {
		t.Error("expected error when no connection in context")
	}
	if err.Error() != "no database connection in context" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}
