package catalog

import (
	"reflect"
	"testing"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "plain fields",
			line: "a,b,c",
			want: []string{"a", "b", "c"},
		},
		{
			name: "quoted comma",
			line: `"a,b",c`,
			want: []string{"a,b", "c"},
		},
		{
			name: "doubled quote inside quotes",
			line: `"say ""hi""",x`,
			want: []string{`say "hi"`, "x"},
		},
		{
			name: "unterminated quote",
			line: `"a,b`,
			want: []string{"a,b"},
		},
		{
			name: "empty fields",
			line: ",,",
			want: []string{"", "", ""},
		},
		{
			name: "quote in the middle",
			line: `Cabernet "Reserve, 2020",Wine`,
			want: []string{"Cabernet Reserve, 2020", "Wine"},
		},
		{
			name: "empty line",
			line: "",
			want: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLine(tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitLine(%q) = %#v, want %#v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseCSV_RowCount(t *testing.T) {
	csv := "name,category,price\nBasil,Herb,2.50\nEVOO,Oil,24.99\nSea Salt,Seasoning,8"
	products := ParseCSV(csv)

	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	for i, p := range products {
		wantID := string(rune('1' + i))
		if p.ID != wantID {
			t.Errorf("product %d: id = %q, want %q", i, p.ID, wantID)
		}
		if !p.IsAvailable() {
			t.Errorf("product %d: expected available", i)
		}
	}
}

func TestParseCSV_QuoteRoundTrip(t *testing.T) {
	csv := "name,category,price\n" + `Cabernet "Reserve, 2020",Wine,"$24.99"`
	products := ParseCSV(csv)

	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	p := products[0]
	if p.Name != "Cabernet Reserve, 2020" {
		t.Errorf("name = %q, want %q", p.Name, "Cabernet Reserve, 2020")
	}
	if p.Category != "Wine" {
		t.Errorf("category = %q, want %q", p.Category, "Wine")
	}
	if len(p.Prices) != 1 || p.Prices[0] != 24.99 {
		t.Errorf("prices = %v, want [24.99]", p.Prices)
	}
}

func TestParseCSV_MissingNameFallback(t *testing.T) {
	csv := "name,category\nBasil,Herb\nMint,Herb\n,Herb"
	products := ParseCSV(csv)

	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	if products[2].Name != "Item 3" {
		t.Errorf("name = %q, want %q", products[2].Name, "Item 3")
	}
}

func TestParseCSV_Idempotent(t *testing.T) {
	csv := "name,category,price\nBasil,Herb,2.50\n,Oil,not-a-price\nSalt,,\"$8.00\""
	first := ParseCSV(csv)
	second := ParseCSV(csv)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("two ingestions of the same text differ:\n%+v\n%+v", first, second)
	}
}

func TestParseCSV_PriceHandling(t *testing.T) {
	tests := []struct {
		name       string
		csv        string
		wantPrices []float64
	}{
		{
			name:       "currency symbols stripped",
			csv:        "name,price\nOil,\"$ 12.99 USD\"",
			wantPrices: []float64{12.99},
		},
		{
			name:       "unparseable price omitted",
			csv:        "name,price\nOil,call us",
			wantPrices: nil,
		},
		{
			name:       "empty price omitted",
			csv:        "name,price\nOil,",
			wantPrices: nil,
		},
		{
			name:       "price column absent",
			csv:        "name,category\nOil,Pantry",
			wantPrices: nil,
		},
		{
			name:       "multiple dots omitted",
			csv:        "name,price\nOil,1.2.3",
			wantPrices: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := ParseCSV(tt.csv)
			if len(products) != 1 {
				t.Fatalf("expected 1 product, got %d", len(products))
			}
			if !reflect.DeepEqual(products[0].Prices, tt.wantPrices) {
				t.Errorf("prices = %v, want %v", products[0].Prices, tt.wantPrices)
			}
		})
	}
}

func TestParseCSV_ShortRowPadded(t *testing.T) {
	csv := "name,category,price\nBasil"
	products := ParseCSV(csv)

	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	p := products[0]
	if p.Name != "Basil" || p.Category != "" || p.Prices != nil {
		t.Errorf("unexpected product: %+v", p)
	}
}

func TestParseCSV_EmptyInput(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{name: "empty string", csv: ""},
		{name: "only newlines", csv: "\n\r\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := ParseCSV(tt.csv)
			if len(products) != 0 {
				t.Errorf("expected empty result, got %d products", len(products))
			}
		})
	}
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	products := ParseCSV("name,category,price")
	if len(products) != 0 {
		t.Errorf("expected no products for header-only input, got %d", len(products))
	}
}

func TestParseCSV_CRLFAndBlankLines(t *testing.T) {
	csv := "name,category\r\n\r\nBasil,Herb\r\n\r\nMint,Herb\r\n"
	products := ParseCSV(csv)

	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	// 空行被丟棄後才編 id，所以依然是 1、2
	if products[0].ID != "1" || products[1].ID != "2" {
		t.Errorf("ids = %q, %q, want 1, 2", products[0].ID, products[1].ID)
	}
}

func TestParseCSV_HeaderCaseInsensitive(t *testing.T) {
	csv := "NAME , Category ,PRICE\nBasil,Herb,2.50"
	products := ParseCSV(csv)

	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	p := products[0]
	if p.Name != "Basil" || p.Category != "Herb" {
		t.Errorf("unexpected product: %+v", p)
	}
	if len(p.Prices) != 1 || p.Prices[0] != 2.50 {
		t.Errorf("prices = %v, want [2.5]", p.Prices)
	}
}
