package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/telexlabs/go-prodcalc/internal/db"
	"github.com/telexlabs/go-prodcalc/internal/migrations"
	"github.com/telexlabs/go-prodcalc/internal/store"
	"github.com/telexlabs/go-prodcalc/internal/uploads"
	"github.com/telexlabs/go-prodcalc/pkg/gateway"
	"github.com/telexlabs/go-prodcalc/pkg/model"
	"github.com/telexlabs/go-prodcalc/pkg/render"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	st := store.New(database)

	up, err := uploads.New(t.TempDir(), "https://shop.example")
	if err != nil {
		t.Fatalf("create upload service: %v", err)
	}

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("create renderer: %v", err)
	}

	logger := log.New(io.Discard, "", 0)
	return New(st, up, renderer, "https://shop.example", logger), st
}

func seedProduct(t *testing.T, st *store.Store) int64 {
	t.Helper()

	cfg := model.CalculatorConfig{
		Title:      "Banner Calculator",
		ButtonText: "Add to Cart",
		ProductID:  1,
		Steps: []model.Step{
			{Title: "Size", Fields: []model.Field{
				{Name: "width", Type: model.FieldTypeNumber, Label: "Width", Required: true},
			}},
		},
		PriceCalculation: model.PriceCalculation{Enabled: true, Formula: "width * 2"},
	}
	id, err := st.CreateProduct(context.Background(), "Custom Banner", 25, cfg)
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return id
}

func TestWidgetPageRendersInitialStep(t *testing.T) {
	srv, st := newTestServer(t)
	id := seedProduct(t, st)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodGet, "/products/"+strconv.FormatInt(id, 10), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body:\n%s", rec.Code, rec.Body)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"Banner Calculator",
		`data-field-name="width"`,
		`class="btn-next"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in:\n%s", want, body)
		}
	}
}

func TestWidgetPageUnknownProduct(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodGet, "/products/999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func multipartUpload(t *testing.T, fieldName, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("build multipart: %v", err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		t.Fatalf("build multipart: %v", err)
	}
	if err := writer.WriteField("field", fieldName); err != nil {
		t.Fatalf("build multipart: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("build multipart: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func TestUploadEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	body, contentType := multipartUpload(t, "artwork", "design.pdf", "%PDF-1.4\n")
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var result gateway.UploadResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !result.OK {
		t.Fatalf("result = %+v", result)
	}
	if result.Name != "design.pdf" || !strings.Contains(result.URL, "/uploads/") {
		t.Fatalf("result = %+v", result)
	}

	// The stored file must be retrievable through the static route.
	fileReq := httptest.NewRequest(http.MethodGet, strings.TrimPrefix(result.URL, "https://shop.example"), nil)
	fileRec := httptest.NewRecorder()
	router.ServeHTTP(fileRec, fileReq)
	if fileRec.Code != http.StatusOK || fileRec.Body.String() != "%PDF-1.4\n" {
		t.Fatalf("stored file fetch: status %d body %q", fileRec.Code, fileRec.Body)
	}
}

func TestUploadEndpointRejectsBadExtension(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	body, contentType := multipartUpload(t, "artwork", "malware.exe", "data")
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var result gateway.UploadResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.OK {
		t.Fatal("expected ok=false for disallowed extension")
	}
	if result.Message == "" {
		t.Fatal("expected a user-facing message")
	}
}

func postCart(t *testing.T, router http.Handler, payload gateway.SubmitRequest) gateway.SubmitResult {
	t.Helper()

	encoded, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/cart", bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var result gateway.SubmitResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return result
}

func TestAddToCartEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	id := seedProduct(t, st)
	router := srv.Router()

	result := postCart(t, router, gateway.SubmitRequest{
		ProductID: id,
		Quantity:  2,
		Values:    map[string]any{"width": "12"},
	})
	if !result.OK {
		t.Fatalf("result = %+v", result)
	}
	if result.Message != "Product added to cart successfully!" {
		t.Fatalf("message = %q", result.Message)
	}
	if result.CartURL != "https://shop.example/cart" {
		t.Fatalf("cart url = %q", result.CartURL)
	}
	if result.CartItemCount != 2 {
		t.Fatalf("cart count = %d, want 2", result.CartItemCount)
	}

	// Identical resubmission merges into the same line.
	result = postCart(t, router, gateway.SubmitRequest{
		ProductID: id,
		Quantity:  1,
		Values:    map[string]any{"width": "12"},
	})
	if !result.OK || result.CartItemCount != 3 {
		t.Fatalf("result = %+v", result)
	}
}

func TestAddToCartRejections(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	result := postCart(t, router, gateway.SubmitRequest{ProductID: 0, Quantity: 1})
	if result.OK || result.Message != "Invalid product ID" {
		t.Fatalf("result = %+v", result)
	}

	result = postCart(t, router, gateway.SubmitRequest{ProductID: 999, Quantity: 1})
	if result.OK || result.Message != "Product not found" {
		t.Fatalf("result = %+v", result)
	}
}

func TestCartPageShowsFormattedMeta(t *testing.T) {
	srv, st := newTestServer(t)
	id := seedProduct(t, st)
	router := srv.Router()

	err := st.AddCartItem(context.Background(), id, 2, map[string]any{"width": "12"})
	if err != nil {
		t.Fatalf("seed cart item: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Custom Banner", "Width", "12"} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in:\n%s", want, body)
		}
	}
}
