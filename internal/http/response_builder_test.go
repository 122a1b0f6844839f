package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

func TestJSONResponseBuilder_Envelope(t *testing.T) {
	w := httptest.NewRecorder()

	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/x").
		Display(NewDisplaySettings("EUR", true), "Home").
		Data(map[string]int{"n": 1}).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if got := w.Header().Get("Location"); got != "/api/x" {
		t.Errorf("Location = %q", got)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}

	var body struct {
		Title   string          `json:"title"`
		Display DisplaySettings `json:"display"`
		Data    map[string]int  `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Title != "Home" || body.Display.Symbol != "€" || body.Data["n"] != 1 {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestJSONResponseBuilder_TitlesOff(t *testing.T) {
	w := httptest.NewRecorder()
	NewJSONResponse().Display(NewDisplaySettings("USD", false), "Home").Data([]int{}).Write(w)

	if strings.Contains(w.Body.String(), `"title"`) {
		t.Errorf("title should be omitted: %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"data":[]`) {
		t.Errorf("empty data should be an array: %s", w.Body.String())
	}
}

func TestJSONResponseBuilder_NoContent(t *testing.T) {
	w := httptest.NewRecorder()
	NewJSONResponse().Status(http.StatusNoContent).Data("ignored").Write(w)

	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Errorf("got %d with body %q", w.Code, w.Body.String())
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{badRequest("bad"), http.StatusBadRequest},
		{core.ErrInvalidAmount, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", core.ErrInvalidInterval), http.StatusBadRequest},
		{core.ErrInvalidColor, http.StatusBadRequest},
		{store.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("delete: %w", store.ErrNotFound), http.StatusNotFound},
		{errors.New("disk on fire"), http.StatusInternalServerError},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", core.ErrEmptyCategory, http.StatusBadRequest, "empty category"},
		{"not found", store.ErrNotFound, http.StatusNotFound, "record not found"},
		{"internal hides details", errors.New("sqlite: database is locked"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
			ErrorResponse(w, r, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("Status code = %d, want %d", w.Code, tt.wantStatus)
			}
			var body errorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", body.Error.Message, tt.wantMsg)
			}
		})
	}
}
