package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/pie/internal/preferences"
)

func TestExclusionEndpoints(t *testing.T) {
	service, _ := setupTestService(t)
	router := setupTestRouter(service, stubDetector{})

	t.Run("add", func(t *testing.T) {
		for _, p := range []string{"/media/a", "/media/b", "/media/c"} {
			w := doJSON(t, router, http.MethodPost, "/api/settings/exclusions", ExclusionRequest{Path: p})
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		}

		w := doJSON(t, router, http.MethodGet, "/api/settings/exclusions", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"/media/a", "/media/b", "/media/c"}, decode[ExclusionListResponse](t, w).Exclusions)
	})

	t.Run("add duplicate", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/settings/exclusions", ExclusionRequest{Path: "/media/a"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "duplicate_path", decode[ErrorResponse](t, w).Error)
	})

	t.Run("add blank", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/settings/exclusions", ExclusionRequest{Path: "  "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "empty_path", decode[ErrorResponse](t, w).Error)
	})

	t.Run("remove missing", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/api/settings/exclusions", ExclusionRequest{Path: "/media/z"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("remove with empty selection", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/api/settings/exclusions", ExclusionRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "empty_selection", decode[ErrorResponse](t, w).Error)
	})

	t.Run("remove one", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/api/settings/exclusions", ExclusionRequest{Path: "/media/b"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"/media/a", "/media/c"}, decode[ExclusionListResponse](t, w).Exclusions)
	})

	t.Run("remove selection", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/api/settings/exclusions",
			ExclusionRequest{Paths: []string{"/media/a", "/media/c"}})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[ExclusionListResponse](t, w).Exclusions)
	})
}

func TestGetSelection(t *testing.T) {
	service, _ := setupTestService(t)
	router := setupTestRouter(service, stubDetector{})

	tests := []struct {
		query      string
		wantStatus int
		wantAllow  bool
	}{
		{"", http.StatusOK, false},
		{"?count=0", http.StatusOK, false},
		{"?count=2", http.StatusOK, true},
		{"?count=two", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := doJSON(t, router, http.MethodGet, "/api/settings/exclusions/selection"+tt.query, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantAllow, decode[preferences.SelectionState](t, w).AllowRemove)
			}
		})
	}
}
