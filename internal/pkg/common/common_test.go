package common

import (
	"testing"
)

func TestIsAvailable(t *testing.T) {
	tests := []struct {
		name    string
		product Product
		want    bool
	}{
		{name: "unset treated as available", product: Product{Name: "Basil"}, want: true},
		{name: "explicitly available", product: Product{Name: "Basil", Available: Bool(true)}, want: true},
		{name: "explicitly unavailable", product: Product{Name: "Basil", Available: Bool(false)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.product.IsAvailable(); got != tt.want {
				t.Errorf("IsAvailable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContainsName(t *testing.T) {
	names := []string{"Sea Salt", "Basil"}

	tests := []struct {
		name string
		want bool
	}{
		{"Sea Salt", true},
		{"sea salt", true},
		{"BASIL", true},
		{"Mint", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsName(names, tt.name); got != tt.want {
				t.Errorf("ContainsName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestFormatProducts(t *testing.T) {
	products := []Product{
		{Name: "Basil", Category: "Herb"},
		{Name: "Mystery Item"},
	}

	got := FormatProducts(products)
	want := "Basil(Herb), Mystery Item"
	if got != want {
		t.Errorf("FormatProducts() = %q, want %q", got, want)
	}

	if got := FormatProducts(nil); got != "" {
		t.Errorf("FormatProducts(nil) = %q, want empty", got)
	}
}

func TestParseJSON(t *testing.T) {
	type payload struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}

	var p payload
	if err := ParseJSON(`{"name":"Basil","price":2.5}`, &p); err != nil {
		t.Fatalf("ParseJSON returned error: %v", err)
	}
	if p.Name != "Basil" || p.Price != 2.5 {
		t.Errorf("unexpected payload: %+v", p)
	}

	if err := ParseJSON(`{"name":"Basil"} trailing`, &p); err == nil {
		t.Error("expected error for trailing data")
	}

	if err := ParseJSONStrict(`{"name":"Basil","extra":1}`, &p); err == nil {
		t.Error("expected error for unknown field in strict mode")
	}
	if err := ParseJSON(`{"name":"Basil","extra":1}`, &p); err != nil {
		t.Errorf("unknown field should pass in lenient mode: %v", err)
	}
}

func TestToJSONRoundTrip(t *testing.T) {
	recipe := Recipe{
		Title:       "Salad • Tomato",
		Ingredients: []string{"tomato"},
		Steps:       []string{"a", "b"},
		Dietary:     []string{},
		DishType:    "Salad",
	}

	data, err := ToJSON(recipe)
	if err != nil {
		t.Fatalf("ToJSON returned error: %v", err)
	}

	var decoded Recipe
	if err := ParseJSONBytes([]byte(data), &decoded); err != nil {
		t.Fatalf("ParseJSONBytes returned error: %v", err)
	}
	if decoded.Title != recipe.Title || decoded.DishType != recipe.DishType {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
}
