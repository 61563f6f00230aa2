package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/telexlabs/go-prodcalc/internal/db"
	"github.com/telexlabs/go-prodcalc/internal/migrations"
	"github.com/telexlabs/go-prodcalc/pkg/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return New(database)
}

func testConfig() model.CalculatorConfig {
	return model.CalculatorConfig{
		Title:     "Banner Calculator",
		ProductID: 1,
		Steps: []model.Step{
			{Title: "Size", Fields: []model.Field{
				{Name: "width", Type: model.FieldTypeNumber, Required: true},
			}},
		},
		PriceCalculation: model.PriceCalculation{Enabled: true, Formula: "width * 2"},
	}
}

func TestProductRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateProduct(ctx, "Custom Banner", 25, testConfig())
	if err != nil {
		t.Fatalf("CreateProduct returned error: %v", err)
	}

	product, err := store.Product(ctx, id)
	if err != nil {
		t.Fatalf("Product returned error: %v", err)
	}
	if product.Name != "Custom Banner" || product.Price != 25 {
		t.Fatalf("product = %+v", product)
	}
	if product.Config.Title != "Banner Calculator" {
		t.Fatalf("config title = %q", product.Config.Title)
	}
	if got := product.Config.Steps[0].Fields[0].Name; got != "width" {
		t.Fatalf("config field = %q", got)
	}
}

func TestProductNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Product(context.Background(), 999)
	if err != ErrProductNotFound {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}
}

func TestAddCartItemMergesIdenticalConfigurations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateProduct(ctx, "Custom Banner", 25, testConfig())
	if err != nil {
		t.Fatalf("CreateProduct returned error: %v", err)
	}

	values := map[string]any{"width": "12"}
	if err := store.AddCartItem(ctx, id, 2, values); err != nil {
		t.Fatalf("first AddCartItem returned error: %v", err)
	}
	if err := store.AddCartItem(ctx, id, 3, values); err != nil {
		t.Fatalf("second AddCartItem returned error: %v", err)
	}

	items, err := store.CartItems(ctx)
	if err != nil {
		t.Fatalf("CartItems returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1 merged line", len(items))
	}
	if items[0].Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", items[0].Quantity)
	}

	count, err := store.CartCount(ctx)
	if err != nil {
		t.Fatalf("CartCount returned error: %v", err)
	}
	if count != 5 {
		t.Fatalf("cart count = %d, want 5", count)
	}
}

func TestAddCartItemKeepsDistinctConfigurationsApart(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateProduct(ctx, "Custom Banner", 25, testConfig())
	if err != nil {
		t.Fatalf("CreateProduct returned error: %v", err)
	}

	if err := store.AddCartItem(ctx, id, 1, map[string]any{"width": "12"}); err != nil {
		t.Fatalf("AddCartItem returned error: %v", err)
	}
	if err := store.AddCartItem(ctx, id, 1, map[string]any{"width": "24"}); err != nil {
		t.Fatalf("AddCartItem returned error: %v", err)
	}

	items, err := store.CartItems(ctx)
	if err != nil {
		t.Fatalf("CartItems returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2 distinct lines", len(items))
	}
}

func TestDedupeKeyStableAcrossKeyOrder(t *testing.T) {
	t.Parallel()

	a := DedupeKey(map[string]any{"width": "12", "material": "vinyl"})
	b := DedupeKey(map[string]any{"material": "vinyl", "width": "12"})
	if a == "" || a != b {
		t.Fatalf("keys differ: %q vs %q", a, b)
	}

	c := DedupeKey(map[string]any{"width": "24", "material": "vinyl"})
	if a == c {
		t.Fatal("different values must produce different keys")
	}
}

func TestFormatMeta(t *testing.T) {
	t.Parallel()

	values := map[string]any{
		"banner_width": "12",
		"print-sides":  []string{"front", "back"},
		"artwork":      "https://cdn.example/files/design.pdf",
		"notes":        "",
	}
	order := []string{"banner_width", "print-sides", "artwork", "notes", "absent"}

	got := FormatMeta(values, order)
	want := []MetaEntry{
		{Label: "Banner Width", Value: "12"},
		{Label: "Print Sides", Value: "front, back"},
		{Label: "Artwork", Value: "design.pdf", URL: "https://cdn.example/files/design.pdf"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("meta mismatch (-want +got):\n%s", diff)
	}
}
