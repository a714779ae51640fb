package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHexDump(t *testing.T) {
	tests := []struct {
		in    []byte
		limit int
		want  string
	}{
		{in: nil, limit: 0, want: ""},
		{in: []byte{0x04, 0x00}, limit: 0, want: "0400"},
		{in: []byte{0xDE, 0xAD, 0xbe, 0xef}, limit: 4, want: "DEADBEEF"},
		{in: []byte{0xDE, 0xAD, 0xbe, 0xef}, limit: 2, want: "DEAD..(+2)"},
	}
	for _, tt := range tests {
		if got := HexDump(tt.in, tt.limit); got != tt.want {
			t.Errorf("HexDump(% X, %d) = %q; want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusCreated, map[string]string{"foo": "bar"})

	if got := w.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q; want application/json; charset=utf-8", got)
	}
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q; want no-store", got)
	}
	if w.Code != http.StatusCreated {
		t.Errorf("Code = %d; want %d", w.Code, http.StatusCreated)
	}
	var got map[string]string
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if got["foo"] != "bar" {
		t.Errorf("body[foo] = %q; want bar", got["foo"])
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusServiceUnavailable, "store unreachable")

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Code = %d; want %d", w.Code, http.StatusServiceUnavailable)
	}
	var got map[string]any
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if got["status"] != float64(http.StatusServiceUnavailable) {
		t.Errorf("status = %v", got["status"])
	}
	if got["error"] != http.StatusText(http.StatusServiceUnavailable) {
		t.Errorf("error = %q", got["error"])
	}
	if got["message"] != "store unreachable" {
		t.Errorf("message = %q", got["message"])
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{query: "", want: 50},
		{query: "limit=1", want: 1},
		{query: "limit=1000", want: 1000},
		{query: "limit=0", wantErr: true},
		{query: "limit=1001", wantErr: true},
		{query: "limit=ten", wantErr: true},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/x?"+tt.query, nil)
		got, err := QueryInt(r, "limit", 50, 1, 1000)
		if (err != nil) != tt.wantErr {
			t.Errorf("QueryInt(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("QueryInt(%q) = %d; want %d", tt.query, got, tt.want)
		}
	}
}
