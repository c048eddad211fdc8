package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	worklistsvc "stockroom-backend/internal/worklist"
	pkgerrors "stockroom-backend/pkg/errors"
	"stockroom-backend/pkg/logger"
)

type stubWorklistService struct {
	line  *worklistsvc.Line
	lines []worklistsvc.Line
	dept  *int
	err   error
}

func (s stubWorklistService) AddLine(ctx context.Context, userID int64, productID uuid.UUID, quantity int) (*worklistsvc.Line, error) {
	return s.line, s.err
}

func (s stubWorklistService) GetLines(ctx context.Context, userID int64) ([]worklistsvc.Line, error) {
	return s.lines, s.err
}

func (s stubWorklistService) Department(ctx context.Context, userID int64) (*int, error) {
	return s.dept, nil
}

func (s stubWorklistService) UpdateLineQuantity(ctx context.Context, userID int64, productID uuid.UUID, quantity int) (*worklistsvc.Line, error) {
	return s.line, s.err
}

func (s stubWorklistService) RemoveLine(ctx context.Context, userID int64, productID uuid.UUID) error {
	return s.err
}

func (s stubWorklistService) Clear(ctx context.Context, userID int64) error {
	return s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "api-test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func TestWorklistAddLineSuccess(t *testing.T) {
	line := &worklistsvc.Line{
		ProductID: uuid.New(),
		Article:   "10000001",
		Name:      "10000001 Copper wire",
		Quantity:  3,
	}
	handler := WorklistAddLine(stubWorklistService{line: line}, testLogger())

	body := `{"user_id":42,"product_id":"` + line.ProductID.String() + `","quantity":3}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/worklist/lines", strings.NewReader(body))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data worklistsvc.Line `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Quantity != 3 {
		t.Fatalf("unexpected quantity %d", envelope.Data.Quantity)
	}
}

func TestWorklistAddLineValidation(t *testing.T) {
	handler := WorklistAddLine(stubWorklistService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/worklist/lines", strings.NewReader(`{"user_id":42}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestWorklistAddLineDepartmentMismatch(t *testing.T) {
	svcErr := pkgerrors.New(pkgerrors.CodeDepartmentMismatch, "working list is pinned to another department").
		WithDetails(map[string]int{"list_department": 1, "product_department": 2})
	handler := WorklistAddLine(stubWorklistService{err: svcErr}, testLogger())

	body := `{"user_id":42,"product_id":"` + uuid.NewString() + `","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/worklist/lines", strings.NewReader(body))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]int `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeDepartmentMismatch) {
		t.Fatalf("unexpected code %q", envelope.Error.Code)
	}
	if envelope.Error.Details["product_department"] != 2 {
		t.Fatalf("expected details to survive, got %+v", envelope.Error.Details)
	}
}

func TestWorklistGetRequiresUserID(t *testing.T) {
	handler := WorklistGet(stubWorklistService{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/worklist", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestWorklistGetReturnsLinesAndDepartment(t *testing.T) {
	dept := 4
	svc := stubWorklistService{
		lines: []worklistsvc.Line{{Article: "10000001", Quantity: 2, Department: 4}},
		dept:  &dept,
	}
	handler := WorklistGet(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/worklist?user_id=42", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Lines      []worklistsvc.Line `json:"lines"`
			Department *int               `json:"department"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Lines) != 1 || envelope.Data.Department == nil || *envelope.Data.Department != 4 {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}
