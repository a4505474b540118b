package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "ytmgrab" {
			t.Errorf("User-Agent = %q, want ytmgrab", ua)
		}
		w.Write([]byte("image-bytes"))
	}))
	defer server.Close()

	client := NewClient()
	data, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("body = %q", data)
	}
}

func TestGetNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient()
	if _, err := client.Get(context.Background(), server.URL); err == nil {
		t.Error("Get should fail on 404")
	}
}
