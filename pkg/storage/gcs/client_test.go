package gcs

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := &Client{
		httpClient:    srv.Client(),
		defaultBucket: "smallwonder-media",
		apiBase:       srv.URL,
		tokenSource: &tokenSource{
			fetch: func(context.Context) (string, time.Time, error) {
				return "test-token", time.Now().Add(time.Hour), nil
			},
		},
	}
	return client, srv
}

func TestSignedURLSuccess(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}

	client := &Client{
		defaultBucket: "smallwonder-media",
		apiBase:       defaultAPIBase,
		serviceAccount: &serviceAccountInfo{
			clientEmail: "uploader@project.iam.gserviceaccount.com",
			privateKey:  key,
		},
	}

	signed, err := client.SignedURL("", "review-images/abc.jpg", "image/jpeg", 15*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("parsing signed url: %v", err)
	}
	query := parsed.Query()
	if got := query.Get("GoogleAccessId"); got != "uploader@project.iam.gserviceaccount.com" {
		t.Fatalf("unexpected GoogleAccessId %q", got)
	}
	expires := query.Get("Expires")
	if expires == "" {
		t.Fatal("expected Expires param")
	}

	signature, err := base64.StdEncoding.DecodeString(query.Get("Signature"))
	if err != nil {
		t.Fatalf("decoding signature: %v", err)
	}

	data := "PUT\n\nimage/jpeg\n" + expires + "\n/smallwonder-media/review-images/abc.jpg"
	hash := sha256.Sum256([]byte(data))
	if err := rsa.VerifyPKCS1v15(&key.PublicKey, crypto.SHA256, hash[:], signature); err != nil {
		t.Fatalf("signature does not verify: %v", err)
	}
}

func TestSignedURLRequiresServiceAccount(t *testing.T) {
	client := &Client{defaultBucket: "smallwonder-media"}
	if _, err := client.SignedURL("", "o.jpg", "image/jpeg", time.Minute); err == nil {
		t.Fatal("expected error without service account credentials")
	}
}

func TestDownloadNotFound(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := client.Download(context.Background(), "", "missing/reviews.csv")
	if !errors.Is(err, ErrObjectNotExist) {
		t.Fatalf("expected ErrObjectNotExist, got %v", err)
	}
}

func TestDownloadSuccess(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected auth header %q", got)
		}
		if !strings.Contains(r.URL.RawQuery, "alt=media") {
			t.Errorf("expected alt=media query, got %q", r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, "a,b,c\n")
	}))

	data, err := client.Download(context.Background(), "", "crib/reviews.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "a,b,c\n" {
		t.Fatalf("unexpected body %q", data)
	}
}

func TestUploadSendsBodyAndContentType(t *testing.T) {
	var gotBody string
	var gotContentType string
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))

	err := client.Upload(context.Background(), "", "crib/reviews.csv", "text/csv", []byte("header\nrow\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody != "header\nrow\n" {
		t.Fatalf("unexpected body %q", gotBody)
	}
	if gotContentType != "text/csv" {
		t.Fatalf("unexpected content type %q", gotContentType)
	}
}

func TestExists(t *testing.T) {
	status := http.StatusOK
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))

	ok, err := client.Exists(context.Background(), "", "crib/reviews.csv")
	if err != nil || !ok {
		t.Fatalf("expected exists, got ok=%v err=%v", ok, err)
	}

	status = http.StatusNotFound
	ok, err = client.Exists(context.Background(), "", "crib/reviews.csv")
	if err != nil || ok {
		t.Fatalf("expected missing, got ok=%v err=%v", ok, err)
	}
}
