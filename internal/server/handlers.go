package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/telexlabs/go-prodcalc/internal/store"
	"github.com/telexlabs/go-prodcalc/pkg/calculator"
	"github.com/telexlabs/go-prodcalc/pkg/gateway"
	"github.com/telexlabs/go-prodcalc/pkg/validate"
)

// uploadFormLimit bounds in-memory multipart parsing; the per-file cap is
// enforced separately by the upload service.
const uploadFormLimit = validate.MaxUploadBytes + 1<<20

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
</head>
<body>
{{.Body}}
</body>
</html>
`))

type pageData struct {
	Title string
	Body  template.HTML
}

var cartTemplate = template.Must(template.New("cart").Parse(`<div class="cart-page">
<h2>Your Cart</h2>
{{if not .Items}}<p>Your cart is empty.</p>{{end}}
{{range .Items}}
<div class="cart-line">
    <h3>{{.Name}} &times; {{.Quantity}}</h3>
    <dl>
    {{range .Meta}}
        <dt>{{.Label}}</dt>
        {{if .URL}}<dd><a href="{{.URL}}" target="_blank">{{.Value}}</a></dd>{{else}}<dd>{{.Value}}</dd>{{end}}
    {{end}}
    </dl>
</div>
{{end}}
</div>
`))

type cartLineView struct {
	Name     string
	Quantity int
	Meta     []store.MetaEntry
}

// handleWidgetPage renders a fresh calculator session for the product.
func (s *Server) handleWidgetPage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}

	product, err := s.store.Product(r.Context(), id)
	if errors.Is(err, store.ErrProductNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.logger.Printf("widget page: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// The page only needs the initial snapshot; gateway calls happen via
	// the JSON endpoints.
	calc, err := calculator.New(product.Config, nil, nil)
	if err != nil {
		s.logger.Printf("widget page: product %d: %v", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	markup, err := s.renderer.Render(calc.Snapshot(), product.ID)
	if err != nil {
		s.logger.Printf("widget page: render product %d: %v", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, pageData{Title: product.Name, Body: template.HTML(markup)}); err != nil {
		s.logger.Printf("widget page: write response: %v", err)
	}
}

// handleUpload accepts a multipart upload ("file" part plus the originating
// "field" name) and answers with the upload envelope.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploadFormLimit); err != nil {
		writeJSON(w, s.logger, gateway.UploadResult{OK: false, Message: "No file uploaded"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, s.logger, gateway.UploadResult{OK: false, Message: "No file uploaded"})
		return
	}
	defer file.Close()

	ref, err := s.uploads.Save(header.Filename, header.Size, file)
	if err != nil {
		writeJSON(w, s.logger, gateway.UploadResult{OK: false, Message: capitalize(err.Error())})
		return
	}

	writeJSON(w, s.logger, gateway.UploadResult{OK: true, URL: ref.URL, Name: ref.Name})
}

// handleAddToCart accepts the final submission payload and records a cart
// line, merging with an existing identical line.
func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req gateway.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, s.logger, gateway.SubmitResult{OK: false, Message: "Invalid request"})
		return
	}
	if req.ProductID <= 0 {
		writeJSON(w, s.logger, gateway.SubmitResult{OK: false, Message: "Invalid product ID"})
		return
	}

	if _, err := s.store.Product(r.Context(), req.ProductID); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			writeJSON(w, s.logger, gateway.SubmitResult{OK: false, Message: "Product not found"})
			return
		}
		s.logger.Printf("add to cart: %v", err)
		writeJSON(w, s.logger, gateway.SubmitResult{OK: false, Message: "Failed to add product to cart"})
		return
	}

	if err := s.store.AddCartItem(r.Context(), req.ProductID, req.Quantity, req.Values); err != nil {
		s.logger.Printf("add to cart: %v", err)
		writeJSON(w, s.logger, gateway.SubmitResult{OK: false, Message: "Failed to add product to cart"})
		return
	}

	count, err := s.store.CartCount(r.Context())
	if err != nil {
		s.logger.Printf("add to cart: count: %v", err)
	}

	writeJSON(w, s.logger, gateway.SubmitResult{
		OK:            true,
		Message:       "Product added to cart successfully!",
		CartURL:       s.baseURL + "/cart",
		CartItemCount: count,
	})
}

// handleCartPage lists the stored cart lines with their configured values.
func (s *Server) handleCartPage(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.CartItems(r.Context())
	if err != nil {
		s.logger.Printf("cart page: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	lines := make([]cartLineView, 0, len(items))
	for _, item := range items {
		product, err := s.store.Product(r.Context(), item.ProductID)
		if err != nil {
			s.logger.Printf("cart page: product %d: %v", item.ProductID, err)
			continue
		}
		order := make([]string, 0, len(product.Config.Fields()))
		for _, field := range product.Config.Fields() {
			order = append(order, field.Name)
		}
		lines = append(lines, cartLineView{
			Name:     product.Name,
			Quantity: item.Quantity,
			Meta:     store.FormatMeta(item.Values, order),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderCartPage(w, lines); err != nil {
		s.logger.Printf("cart page: write response: %v", err)
	}
}

func renderCartPage(w http.ResponseWriter, lines []cartLineView) error {
	var inner bytes.Buffer
	if err := cartTemplate.Execute(&inner, struct{ Items []cartLineView }{Items: lines}); err != nil {
		return err
	}
	return pageTemplate.Execute(w, pageData{Title: "Your Cart", Body: template.HTML(inner.String())})
}

func writeJSON(w http.ResponseWriter, logger interface{ Printf(string, ...any) }, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Printf("write json response: %v", err)
	}
}

// capitalize upper-cases the leading letter of a service error so it reads
// as a user-facing message.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
