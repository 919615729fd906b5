package service

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ruda-paints/internal/models"
)

func TestParsePaintFormFields(t *testing.T) {
	in, err := ParsePaintForm(map[string][]string{
		"name":          {"  Silk Emulsion "},
		"features":      {"Washable, Low odour", "Quick dry,"},
		"price":         {"4500"},
		"originalPrice": {"5000"},
		"stockQuantity": {"12"},
		"available":     {"yes"},
		"featured":      {"on"},
		"new_arrival":   {"maybe"},
	})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if *in.Name != "Silk Emulsion" {
		t.Fatalf("name should be trimmed, got %q", *in.Name)
	}
	if !reflect.DeepEqual(*in.Features, []string{"Washable", "Low odour", "Quick dry"}) {
		t.Fatalf("unexpected features %v", *in.Features)
	}
	if in.Price.Float64() != 4500 || in.OriginalPrice.Float64() != 5000 || *in.StockQuantity != 12 {
		t.Fatalf("unexpected numbers %+v", in)
	}
	if !*in.Available || !*in.Featured || *in.NewArrival {
		t.Fatalf("unexpected flags available=%v featured=%v new=%v", *in.Available, *in.Featured, *in.NewArrival)
	}
	if in.Category != nil || in.Brand != nil {
		t.Fatalf("absent fields must stay nil")
	}
}

func TestParsePaintFormRejectsBadNumbers(t *testing.T) {
	_, err := ParsePaintForm(map[string][]string{"price": {"abc"}, "stock_quantity": {"1.5"}})
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 2 {
		t.Fatalf("expected two field errors, got %v", err)
	}
	if verr.Fields[0].Message != "price must be a positive number" {
		t.Fatalf("unexpected message %q", verr.Fields[0].Message)
	}
}

func TestPaintInputApplyReportsChangedColumns(t *testing.T) {
	in, _ := ParsePaintForm(map[string][]string{"price": {"100"}, "original_price": {""}, "available": {"false"}})
	paint := &models.Paint{Name: "Keep", Available: true}
	cols := in.apply(paint)
	if !reflect.DeepEqual(cols, []string{"price", "original_price", "available"}) {
		t.Fatalf("unexpected columns %v", cols)
	}
	if paint.Name != "Keep" || paint.Available || paint.OriginalPrice != nil {
		t.Fatalf("unexpected paint %+v", paint)
	}
}

func TestFormatSKU(t *testing.T) {
	cases := []struct {
		brand, category string
		want            string
	}{
		{"Acme", "Interior", "ACM-IN-0042"},
		{"3M", "Primer", "3M-PR-0042"},
		{"", "", "GEN-XX-0042"},
		{"  ruda paints", "exterior", "RUD-EX-0042"},
	}
	for _, tc := range cases {
		if got := FormatSKU(tc.brand, tc.category, 42); got != tc.want {
			t.Fatalf("FormatSKU(%q,%q) want %s got %s", tc.brand, tc.category, tc.want, got)
		}
	}
}
