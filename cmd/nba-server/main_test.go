package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWithAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		name   string
		apiKey string
		header map[string]string
		want   int
	}{
		{"no key configured", "", nil, http.StatusOK},
		{"missing key", "secret", nil, http.StatusUnauthorized},
		{"wrong key", "secret", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"header key", "secret", map[string]string{"X-API-Key": "secret"}, http.StatusOK},
		{"bearer key", "secret", map[string]string{"Authorization": "Bearer secret"}, http.StatusOK},
		{"bearer case insensitive", "secret", map[string]string{"Authorization": "bearer secret"}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			withAuth(tc.apiKey, "X-API-Key", next).ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	healthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestToolsHandler(t *testing.T) {
	registry := []toolInfo{
		{Name: "get_lineup_shifts", Description: "lineup shifts"},
		{Name: "get_box_score", Description: "box score"},
	}
	rec := httptest.NewRecorder()
	toolsHandler(registry).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tools", nil))

	var body struct {
		Tools []toolInfo `json:"tools"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Tools) != 2 || body.Tools[0].Name != "get_lineup_shifts" {
		t.Fatalf("tools = %+v", body.Tools)
	}
}
