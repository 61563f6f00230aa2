// Package seed inserts a demo product so fresh development databases render
// a working widget immediately.
package seed

import (
	"context"
	"fmt"

	"github.com/telexlabs/go-prodcalc/internal/store"
	"github.com/telexlabs/go-prodcalc/pkg/model"
)

// Run inserts the demo product when the products table is empty. It is
// idempotent across restarts.
func Run(ctx context.Context, st *store.Store) (int64, error) {
	count, err := st.ProductCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	id, err := st.CreateProduct(ctx, "Custom Banner", 25, demoConfig())
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	return id, nil
}

func demoConfig() model.CalculatorConfig {
	min := 1.0
	max := 500.0

	return model.CalculatorConfig{
		Title:      "Custom Banner Calculator",
		ButtonText: "Add to Cart",
		ProductID:  1,
		Steps: []model.Step{
			{
				Title: "Dimensions",
				Fields: []model.Field{
					{Name: "width", Type: model.FieldTypeNumber, Label: "Width (cm)", Required: true, Min: &min, Max: &max},
					{Name: "height", Type: model.FieldTypeNumber, Label: "Height (cm)", Required: true, Min: &min, Max: &max},
					{Name: "quantity", Type: model.FieldTypeNumber, Label: "Quantity", Min: &min},
				},
			},
			{
				Title: "Material",
				Fields: []model.Field{
					{Name: "material", Type: model.FieldTypeSelect, Label: "Material", Required: true, Options: []model.Option{
						{Label: "Vinyl", Value: "vinyl"},
						{Label: "Mesh", Value: "mesh"},
						{Label: "Fabric", Value: "fabric"},
					}},
					{Name: "finishing", Type: model.FieldTypeCheckbox, Label: "Finishing", Options: []model.Option{
						{Label: "Hemmed edges", Value: "hemmed_edges"},
						{Label: "Grommets", Value: "grommets"},
					}},
				},
			},
			{
				Title: "Artwork",
				Fields: []model.Field{
					{Name: "artwork", Type: model.FieldTypeFile, Label: "Artwork file"},
					{Name: "notes", Type: model.FieldTypeTextarea, Label: "Production notes"},
				},
			},
		},
		PriceCalculation: model.PriceCalculation{
			Enabled: true,
			Formula: "width * height * 0.02 + 5",
		},
	}
}
