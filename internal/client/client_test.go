package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestListImages_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/v1/images" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"id":"2","image_url":"/api/v1/images/2.png","caption":"newer","created_at":"2024-05-02T10:00:00Z","likes":3},
			{"id":"1","image_url":"/api/v1/images/1.png","caption":null,"created_at":"2024-05-01T10:00:00"}
		]`)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	records, err := c.ListImages(context.Background())
	if err != nil {
		t.Fatalf("ListImages returned error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].ID != "2" || records[1].ID != "1" {
		t.Errorf("Expected server order to be kept, got %s, %s", records[0].ID, records[1].ID)
	}
	if records[0].LikeCount() != 3 {
		t.Errorf("Expected 3 likes, got %d", records[0].LikeCount())
	}
}

func TestListImages_EmptyArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	records, err := New(srv.URL, nil).ListImages(context.Background())
	if err != nil {
		t.Fatalf("ListImages returned error: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", records)
	}
}

func TestListImages_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).ListImages(context.Background())

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", statusErr.StatusCode)
	}
}

func TestListImages_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	if _, err := New(url, nil).ListImages(context.Background()); err == nil {
		t.Error("Expected error when server is unreachable")
	}
}

func TestUploadImage_SendsFileAndCaption(t *testing.T) {
	tests := []struct {
		name    string
		caption string
	}{
		{"with caption", "hello world"},
		{"empty caption is still sent", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/api/v1/images" {
					t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
				}
				if err := r.ParseMultipartForm(1 << 20); err != nil {
					t.Errorf("Failed to parse multipart form: %v", err)
					w.WriteHeader(http.StatusBadRequest)
					return
				}

				values, ok := r.MultipartForm.Value["caption"]
				if !ok {
					t.Error("Expected caption field to be present")
				} else if values[0] != tt.caption {
					t.Errorf("Expected caption %q, got %q", tt.caption, values[0])
				}

				file, header, err := r.FormFile("file")
				if err != nil {
					t.Errorf("Expected file part: %v", err)
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				defer file.Close()
				data, _ := io.ReadAll(file)
				if string(data) != "PNGDATA" {
					t.Errorf("Unexpected file body %q", data)
				}
				if header.Filename != "cat.png" {
					t.Errorf("Expected filename cat.png, got %s", header.Filename)
				}
				if ct := header.Header.Get("Content-Type"); ct != "image/png" {
					t.Errorf("Expected part content type image/png, got %s", ct)
				}

				w.WriteHeader(http.StatusCreated)
			}))
			defer srv.Close()

			err := New(srv.URL, nil).UploadImage(context.Background(), Upload{
				Filename:    "cat.png",
				ContentType: "image/png",
				Body:        strings.NewReader("PNGDATA"),
				Caption:     tt.caption,
			})
			if err != nil {
				t.Fatalf("UploadImage returned error: %v", err)
			}
		})
	}
}

func TestUploadImage_NonSuccessStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := New(srv.URL, nil).UploadImage(context.Background(), Upload{
		Filename:    "cat.png",
		ContentType: "image/png",
		Body:        strings.NewReader("x"),
	})

	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected StatusError 400, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("Expected exactly one request (no retries), got %d", n)
	}
}

func TestUploadImage_NoBody(t *testing.T) {
	err := New("http://127.0.0.1:1", nil).UploadImage(context.Background(), Upload{Filename: "x.png"})
	if !errors.Is(err, ErrEmptyUpload) {
		t.Errorf("Expected ErrEmptyUpload, got %v", err)
	}
}
