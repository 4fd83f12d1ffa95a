package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mesworks/go-mes-backend/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := db.AutoMigrate(
		&domain.EquipmentType{},
		&domain.Equipment{},
		&domain.ModeGroup{},
		&domain.Mode{},
		&domain.StateGroup{},
		&domain.State{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newStateRouter(t *testing.T) (*gin.Engine, *Handlers) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := New(newTestDB(t))

	r := gin.New()
	r.POST("/state-groups", h.CreateStateGroup)
	r.GET("/state-groups/:id/states", h.ListStatesOfGroup)
	r.POST("/states", h.CreateState)
	r.GET("/states", h.ListStates)
	r.PUT("/states/:id/code", h.UpdateStateCode)
	r.DELETE("/states/:id", h.DeleteState)
	return r, h
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateState_FullFlow(t *testing.T) {
	r, _ := newStateRouter(t)

	w := doJSON(t, r, http.MethodPost, "/state-groups", CreateGroupRequest{
		Name:        "Line States",
		Description: "Run states",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create group expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var group domain.StateGroup
	if err := json.Unmarshal(w.Body.Bytes(), &group); err != nil {
		t.Fatalf("json: %v", err)
	}

	w = doJSON(t, r, http.MethodPost, "/states", CreateStateRequest{
		GroupID:     group.ID,
		Code:        1,
		Description: "Running",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create state expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var st domain.State
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("json: %v", err)
	}

	// Duplicate code in the group -> 409 already_exists.
	w = doJSON(t, r, http.MethodPost, "/states", CreateStateRequest{
		GroupID:     group.ID,
		Code:        1,
		Description: "Other",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json: %v", err)
	}
	if er.Code != ErrCodeConflict {
		t.Fatalf("expected code %q, got %q", ErrCodeConflict, er.Code)
	}

	// Missing group -> 422 reference_not_found.
	w = doJSON(t, r, http.MethodPost, "/states", CreateStateRequest{
		GroupID:     "missing",
		Code:        2,
		Description: "Starved",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}

	// Negative code -> 400 validation_failed.
	w = doJSON(t, r, http.MethodPost, "/states", CreateStateRequest{
		GroupID:     group.ID,
		Code:        -1,
		Description: "Broken",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json: %v", err)
	}
	if er.Code != ErrCodeValidation {
		t.Fatalf("expected code %q, got %q", ErrCodeValidation, er.Code)
	}

	// Delete, then 404 on repeat.
	w = doJSON(t, r, http.MethodDelete, "/states/"+st.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	w = doJSON(t, r, http.MethodDelete, "/states/"+st.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestListStates_FilterAndPagination(t *testing.T) {
	r, _ := newStateRouter(t)

	w := doJSON(t, r, http.MethodPost, "/state-groups", CreateGroupRequest{Name: "Line States", Description: "d"})
	var group domain.StateGroup
	if err := json.Unmarshal(w.Body.Bytes(), &group); err != nil {
		t.Fatalf("json: %v", err)
	}

	for code, desc := range map[int]string{0: "Stopped", 1: "Running", 2: "Starved", 8: "Blocked"} {
		w = doJSON(t, r, http.MethodPost, "/states", CreateStateRequest{GroupID: group.ID, Code: code, Description: desc})
		if w.Code != http.StatusCreated {
			t.Fatalf("seed state: %d %s", w.Code, w.Body.String())
		}
	}

	w = doJSON(t, r, http.MethodGet, "/states?group_id="+group.ID+"&min_code=0&max_code=5&per_page=2&page=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Items      []domain.State `json:"items"`
		Pagination Pagination     `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.Pagination.Total != 3 {
		t.Fatalf("expected total 3 in range, got %d", resp.Pagination.Total)
	}
	if len(resp.Items) != 2 || !resp.Pagination.HasNext {
		t.Fatalf("expected a full first page with more to come: %+v", resp.Pagination)
	}

	// Invalid per_page flows through as a validation error.
	w = doJSON(t, r, http.MethodGet, "/states?per_page=5000", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	// Group-scoped listing endpoint with a code range.
	w = doJSON(t, r, http.MethodGet, "/state-groups/"+group.ID+"/states?min_code=1&max_code=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var rangeResp struct {
		Items []domain.State `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &rangeResp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(rangeResp.Items) != 2 {
		t.Fatalf("expected 2 states in [1,2], got %d", len(rangeResp.Items))
	}
}

func TestUpdateStateCode_Conflict(t *testing.T) {
	r, _ := newStateRouter(t)

	w := doJSON(t, r, http.MethodPost, "/state-groups", CreateGroupRequest{Name: "Line States", Description: "d"})
	var group domain.StateGroup
	if err := json.Unmarshal(w.Body.Bytes(), &group); err != nil {
		t.Fatalf("json: %v", err)
	}

	w = doJSON(t, r, http.MethodPost, "/states", CreateStateRequest{GroupID: group.ID, Code: 1, Description: "Running"})
	var running domain.State
	if err := json.Unmarshal(w.Body.Bytes(), &running); err != nil {
		t.Fatalf("json: %v", err)
	}
	doJSON(t, r, http.MethodPost, "/states", CreateStateRequest{GroupID: group.ID, Code: 2, Description: "Starved"})

	w = doJSON(t, r, http.MethodPut, "/states/"+running.ID+"/code", UpdateStateCodeRequest{Code: 2})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPut, "/states/"+running.ID+"/code", UpdateStateCodeRequest{Code: 7})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated domain.State
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("json: %v", err)
	}
	if updated.Code != 7 {
		t.Fatalf("expected code 7, got %d", updated.Code)
	}
}
