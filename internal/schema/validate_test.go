package schema

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestValidateRequiredFieldMissing(t *testing.T) {
	fields := []Field{
		{Name: "x", Required: true, Kind: Number{}},
		{Name: "y", Required: true, Kind: Number{}},
	}

	canonical, errs := Validate(fields, map[string]any{"x": 4.0})
	if canonical != nil {
		t.Fatalf("expected nil canonical map, got %v", canonical)
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Path != "y" {
		t.Errorf("expected path %q, got %q", "y", errs[0].Path)
	}
	if errs[0].Message != "must be provided" {
		t.Errorf("unexpected message %q", errs[0].Message)
	}
}

func TestValidateAppliesDefaults(t *testing.T) {
	fields := []Field{
		{Name: "direction", Required: true, Kind: OneOf("HORIZONTAL", "VERTICAL")},
		{Name: "spacing", Default: 8.0, Kind: Min(0)},
		{Name: "name", Kind: String{}},
	}

	canonical, errs := Validate(fields, map[string]any{"direction": "VERTICAL"})
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := map[string]any{"direction": "VERTICAL", "spacing": 8.0}
	if !reflect.DeepEqual(canonical, want) {
		t.Errorf("canonical = %v, want %v", canonical, want)
	}
	if _, ok := canonical["name"]; ok {
		t.Error("optional field without default should stay absent")
	}
}

func TestValidateDropsUndeclaredKeys(t *testing.T) {
	fields := []Field{
		{Name: "nodeId", Required: true, Kind: String{}},
	}

	canonical, errs := Validate(fields, map[string]any{
		"nodeId":  "12:7",
		"sneaky":  true,
		"another": 42.0,
	})
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !reflect.DeepEqual(canonical, map[string]any{"nodeId": "12:7"}) {
		t.Errorf("undeclared keys survived: %v", canonical)
	}
}

func TestValidateNilArgs(t *testing.T) {
	canonical, errs := Validate(nil, nil)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(canonical) != 0 {
		t.Errorf("expected empty canonical map, got %v", canonical)
	}

	_, errs = Validate([]Field{{Name: "x", Required: true, Kind: Number{}}}, nil)
	if len(errs) != 1 || errs[0].Path != "x" {
		t.Errorf("expected a single error for x, got %v", errs)
	}
}

func TestValidateNumberBounds(t *testing.T) {
	fields := []Field{{Name: "opacity", Required: true, Kind: Between(0, 1)}}

	tests := []struct {
		name    string
		value   float64
		wantErr string
	}{
		{name: "lower edge", value: 0},
		{name: "upper edge", value: 1},
		{name: "interior", value: 0.5},
		{name: "below", value: -0.1, wantErr: "must be at least 0"},
		{name: "above", value: 1.01, wantErr: "must be at most 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := Validate(fields, map[string]any{"opacity": tt.value})
			if tt.wantErr == "" {
				if len(errs) > 0 {
					t.Fatalf("unexpected errors: %v", errs)
				}
				return
			}
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %v", errs)
			}
			if errs[0].Message != tt.wantErr {
				t.Errorf("message = %q, want %q", errs[0].Message, tt.wantErr)
			}
		})
	}
}

func TestValidateNumberTypeMismatch(t *testing.T) {
	fields := []Field{{Name: "width", Required: true, Kind: Min(1)}}

	_, errs := Validate(fields, map[string]any{"width": "wide"})
	if len(errs) != 1 || errs[0].Message != "must be a number" {
		t.Fatalf("expected a type error, got %v", errs)
	}
}

func TestValidateColor(t *testing.T) {
	fields := []Field{{Name: "fillColor", Required: true, Kind: Color{}}}

	valid := []string{"#1A2B3C", "#1a2b3c", "#000000", "#FFFFFF"}
	for _, v := range valid {
		if _, errs := Validate(fields, map[string]any{"fillColor": v}); len(errs) > 0 {
			t.Errorf("%q should be accepted: %v", v, errs)
		}
	}

	invalid := []any{"red", "#ZZZZZZ", "#12345", "#1234567", "1A2B3C", "", 7.0}
	for _, v := range invalid {
		_, errs := Validate(fields, map[string]any{"fillColor": v})
		if len(errs) != 1 {
			t.Errorf("%v should be rejected with one error, got %v", v, errs)
			continue
		}
		if errs[0].Message != "must be a hex color in #RRGGBB form" {
			t.Errorf("%v: unexpected message %q", v, errs[0].Message)
		}
	}
}

func TestValidateStringEnum(t *testing.T) {
	fields := []Field{{Name: "blendMode", Required: true, Kind: OneOf("NORMAL", "MULTIPLY", "SCREEN")}}

	if _, errs := Validate(fields, map[string]any{"blendMode": "MULTIPLY"}); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	_, errs := Validate(fields, map[string]any{"blendMode": "multiply"})
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if errs[0].Message != "must be one of NORMAL, MULTIPLY, SCREEN" {
		t.Errorf("unexpected message %q", errs[0].Message)
	}
}

func TestValidateNumericEnum(t *testing.T) {
	fields := []Field{{Name: "fontWeight", Required: true, Kind: OneOfNumbers(100, 400, 700)}}

	if _, errs := Validate(fields, map[string]any{"fontWeight": 400.0}); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	_, errs := Validate(fields, map[string]any{"fontWeight": 450.0})
	if len(errs) != 1 || errs[0].Message != "must be one of 100, 400, 700" {
		t.Fatalf("expected a membership error, got %v", errs)
	}
}

func TestValidateStringPattern(t *testing.T) {
	fields := []Field{{Name: "slug", Required: true, Kind: String{Pattern: `^[a-z0-9-]+$`}}}

	if _, errs := Validate(fields, map[string]any{"slug": "hero-banner-2"}); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	_, errs := Validate(fields, map[string]any{"slug": "Hero Banner"})
	if len(errs) != 1 || !strings.HasPrefix(errs[0].Message, "must match ") {
		t.Fatalf("expected a pattern error, got %v", errs)
	}
}

func TestValidateStringMinLength(t *testing.T) {
	fields := []Field{{Name: "nodeId", Required: true, Kind: String{MinLength: 1}}}

	if _, errs := Validate(fields, map[string]any{"nodeId": "9:41"}); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	_, errs := Validate(fields, map[string]any{"nodeId": ""})
	if len(errs) != 1 || errs[0].Message != "must not be empty" {
		t.Fatalf("expected an emptiness error, got %v", errs)
	}
}

func TestValidateBool(t *testing.T) {
	fields := []Field{{Name: "visible", Required: true, Kind: Bool{}}}

	if _, errs := Validate(fields, map[string]any{"visible": false}); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	_, errs := Validate(fields, map[string]any{"visible": "false"})
	if len(errs) != 1 || errs[0].Message != "must be a boolean" {
		t.Fatalf("expected a type error, got %v", errs)
	}
}

func TestValidateArrayMinItems(t *testing.T) {
	fields := []Field{{Name: "nodeIds", Required: true, Kind: Array{Items: String{}, MinItems: 2}}}

	_, errs := Validate(fields, map[string]any{"nodeIds": []any{"1:2"}})
	if len(errs) != 1 || errs[0].Message != "must have at least 2 items" {
		t.Fatalf("expected a length error, got %v", errs)
	}

	single := []Field{{Name: "nodeIds", Required: true, Kind: Array{Items: String{}, MinItems: 1}}}
	_, errs = Validate(single, map[string]any{"nodeIds": []any{}})
	if len(errs) != 1 || errs[0].Message != "must have at least 1 item" {
		t.Fatalf("expected a singular length error, got %v", errs)
	}
}

func TestValidateNestedArrayObjectPaths(t *testing.T) {
	stops := Array{
		MinItems: 2,
		Items: Object{Fields: []Field{
			{Name: "position", Required: true, Kind: Between(0, 1)},
			{Name: "color", Required: true, Kind: Color{}},
		}},
	}
	fields := []Field{
		{Name: "nodeId", Required: true, Kind: String{}},
		{Name: "stops", Required: true, Kind: stops},
	}

	var raw map[string]any
	payload := `{
		"nodeId": "4:2",
		"stops": [
			{"position": 0, "color": "#FF0000", "label": "start"},
			{"position": 2, "color": "red"}
		]
	}`
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatal(err)
	}

	_, errs := Validate(fields, raw)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if errs[0].Path != "stops.1.position" || errs[0].Message != "must be at most 1" {
		t.Errorf("unexpected first error %+v", errs[0])
	}
	if errs[1].Path != "stops.1.color" {
		t.Errorf("unexpected second error %+v", errs[1])
	}

	// A fully valid payload keeps declared keys only, including inside
	// array elements.
	if err := json.Unmarshal([]byte(`{
		"nodeId": "4:2",
		"stops": [
			{"position": 0, "color": "#FF0000", "label": "start"},
			{"position": 1, "color": "#0000FF"}
		]
	}`), &raw); err != nil {
		t.Fatal(err)
	}
	canonical, errs := Validate(fields, raw)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	first := canonical["stops"].([]any)[0].(map[string]any)
	if _, ok := first["label"]; ok {
		t.Errorf("undeclared key survived inside array element: %v", first)
	}
}

func TestValidateCollectsAllErrorsInDeclarationOrder(t *testing.T) {
	fields := []Field{
		{Name: "x", Required: true, Kind: Number{}},
		{Name: "width", Required: true, Kind: Min(1)},
		{Name: "fillColor", Kind: Color{}},
		{Name: "name", Kind: String{}},
	}

	_, errs := Validate(fields, map[string]any{
		"width":     0.0,
		"fillColor": "blue",
		"name":      7.0,
	})
	wantPaths := []string{"x", "width", "fillColor", "name"}
	if len(errs) != len(wantPaths) {
		t.Fatalf("expected %d errors, got %v", len(wantPaths), errs)
	}
	for i, want := range wantPaths {
		if errs[i].Path != want {
			t.Errorf("error %d: path = %q, want %q", i, errs[i].Path, want)
		}
	}
}

func TestFieldErrorString(t *testing.T) {
	err := FieldError{Path: "stops.0.color", Message: "must be a hex color in #RRGGBB form"}
	if got := err.Error(); got != "stops.0.color: must be a hex color in #RRGGBB form" {
		t.Errorf("unexpected error string %q", got)
	}
}
