package casing

import (
	"reflect"
	"testing"
)

func TestToCamel(t *testing.T) {
	cases := map[string]string{
		"consignor_id":      "consignorId",
		"total_sales":       "totalSales",
		"commission_rate":   "commissionRate",
		"name":              "name",
		"account_last_four": "accountLastFour", // override table
	}
	for in, want := range cases {
		if got := ToCamel(in); got != want {
			t.Errorf("ToCamel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestToSnake(t *testing.T) {
	cases := map[string]string{
		"consignorId":     "consignor_id",
		"totalSales":      "total_sales",
		"name":            "name",
		"accountLastFour": "account_last_four", // override table
	}
	for in, want := range cases {
		if got := ToSnake(in); got != want {
			t.Errorf("ToSnake(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	keys := []string{"consignor_id", "total_sales", "commission_amount", "account_last_four", "sku"}
	for _, k := range keys {
		if got := ToSnake(ToCamel(k)); got != k {
			t.Errorf("round trip of %q gave %q", k, got)
		}
	}
}

func TestCamelizeKeysRecursive(t *testing.T) {
	in := map[string]any{
		"consignor_id": float64(7),
		"items": []any{
			map[string]any{"line_total": 100.0, "commission_rate": 0.1},
			map[string]any{"line_total": 50.0, "commission_rate": 0.1},
		},
		"nested": map[string]any{"period_start": "2024-01-01"},
		"note":   nil,
	}
	want := map[string]any{
		"consignorId": float64(7),
		"items": []any{
			map[string]any{"lineTotal": 100.0, "commissionRate": 0.1},
			map[string]any{"lineTotal": 50.0, "commissionRate": 0.1},
		},
		"nested": map[string]any{"periodStart": "2024-01-01"},
		"note":   nil,
	}
	got := CamelizeKeys(in)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CamelizeKeys mismatch:\n got %#v\nwant %#v", got, want)
	}
}

func TestTransformPassesScalarsAndNilThrough(t *testing.T) {
	if got := CamelizeKeys(nil); got != nil {
		t.Fatalf("nil must pass through, got %#v", got)
	}
	if got := SnakeKeys("plain"); got != "plain" {
		t.Fatalf("scalar must pass through, got %#v", got)
	}
	if got := CamelizeKeys(42); got != 42 {
		t.Fatalf("scalar must pass through, got %#v", got)
	}
}
