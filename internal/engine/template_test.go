package engine

import (
	"errors"
	"testing"

	"github.com/shaiso/Actuator/internal/domain"
)

func testContext() map[string]any {
	return map[string]any{
		"object": map[string]any{
			"id":     42,
			"name":   "Alice",
			"title":  "Hello World",
			"amount": 150.5,
		},
		"user": nil,
		"instance": map[string]any{
			"data": map[string]any{
				"items": []any{"first", "second"},
			},
		},
	}
}

func TestRender_Variables(t *testing.T) {
	engine := NewTemplateEngine()

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{"plain text", "no templates here", "no templates here"},
		{"simple variable", "Hello {{ object.name }}", "Hello Alice"},
		{"no spaces", "Hello {{object.name}}!", "Hello Alice!"},
		{"number", "Order #{{ object.id }}", "Order #42"},
		{"list index", "{{ instance.data.items.1 }}", "second"},
		{"missing variable", "Hi {{ object.nickname }}.", "Hi ."},
		{"nil section", "Hi {{ user.username }}.", "Hi ."},
		{"missing root", "[{{ nope.nothing }}]", "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Render(tt.template, testContext())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestRender_Filters(t *testing.T) {
	engine := NewTemplateEngine()

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{"upper", "{{ object.name|upper }}", "ALICE"},
		{"lower with spaces", "{{ object.name | lower }}", "alice"},
		{"default on missing", `{{ object.nickname|default:"anon" }}`, "anon"},
		{"default single quotes", "{{ object.nickname|default:'anon' }}", "anon"},
		{"default keeps value", `{{ object.name|default:"anon" }}`, "Alice"},
		{"truncatechars", "{{ object.title|truncatechars:5 }}", "Hello"},
		{"chain", `{{ object.nickname|default:"bob"|upper }}`, "BOB"},
		{"default from variable", "{{ object.nickname|default:object.name }}", "Alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Render(tt.template, testContext())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestRender_GoTemplateSyntax(t *testing.T) {
	engine := NewTemplateEngine()
	data := map[string]any{
		"object": map[string]any{"name": "Alice", "active": true, "id": float64(1234567)},
		"user":   nil,
		"items":  []any{"a", "b"},
		"owner":  map[string]any{"email": "o@example.com"},
	}

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{"dot access", "{{ .object.name }}", "Alice"},
		{"if block", "{{ if .object.active }}on{{ else }}off{{ end }}", "on"},
		{"json", `{{ json .object.name }}`, `"Alice"`},
		{"missing field", "[{{ .object.missing }}]", "[]"},
		{"nil section", "[{{ .user.email }}]", "[]"},
		{"root variable", "[{{ $.object.name }}]", "[Alice]"},
		{"if on nil section", "{{ if .user.email }}yes{{ else }}no{{ end }}", "no"},
		{"eq on missing", `{{ if eq .object.status "done" }}done{{ else }}open{{ end }}`, "open"},
		{"range", "{{ range .items }}<{{ . }}>{{ end }}", "<a><b>"},
		{"range over missing", "{{ range .nothing }}x{{ else }}empty{{ end }}", "empty"},
		{"with block", "{{ with .owner }}{{ .email }}/{{ .name }}{{ end }}", "o@example.com/"},
		{"with on nil", "{{ with .user }}{{ .email }}{{ else }}anon{{ end }}", "anon"},
		{"pipeline", "{{ .object.name | upper }}", "ALICE"},
		{"integral float", "{{ .object.id }}", "1234567"},
		{"string literal untouched", `{{ printf "%s.name" .object.name }}`, "Alice.name"},
		{"comment", "a{{/* .object.name */}}b", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Render(tt.template, data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestRender_StrictMode(t *testing.T) {
	engine := NewTemplateEngine(WithStrictVariables(true))

	_, err := engine.Render("Hi {{ object.nickname }}", testContext())
	if !errors.Is(err, ErrTemplateRender) {
		t.Fatalf("expected ErrTemplateRender, got %v", err)
	}

	result, err := engine.Render("Hi {{ object.name }}", testContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "Hi Alice" {
		t.Errorf("expected %q, got %q", "Hi Alice", result)
	}
}

func TestRender_StrictModeGoSyntax(t *testing.T) {
	engine := NewTemplateEngine(WithStrictVariables(true))
	data := map[string]any{"user": nil, "object": map[string]any{"name": "Alice"}}

	for _, tmpl := range []string{"[{{ .user.email }}]", "[{{ user.email }}]", "[{{ .object.missing }}]"} {
		if _, err := engine.Render(tmpl, data); !errors.Is(err, ErrTemplateRender) {
			t.Errorf("%s: expected ErrTemplateRender, got %v", tmpl, err)
		}
	}

	// Условия не падают на отсутствующих значениях.
	result, err := engine.Render("{{ if .user.email }}yes{{ else }}no{{ end }}", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "no" {
		t.Errorf("expected %q, got %q", "no", result)
	}
}

func TestRender_LargeNumbers(t *testing.T) {
	engine := NewTemplateEngine()
	data := map[string]any{
		"object": map[string]any{"id": float64(1234567), "total": float64(2500000), "ratio": 0.25},
	}

	result, err := engine.Render("Order {{ object.id }} total {{ object.total }} ratio {{ object.ratio }}", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "Order 1234567 total 2500000 ratio 0.25"; result != want {
		t.Errorf("expected %q, got %q", want, result)
	}
}

func TestRender_InvalidTemplate(t *testing.T) {
	engine := NewTemplateEngine()

	_, err := engine.Render("{{ if }}", nil)
	if !errors.Is(err, ErrTemplateParse) {
		t.Errorf("expected ErrTemplateParse, got %v", err)
	}
}

func TestRender_ObjectValue(t *testing.T) {
	engine := NewTemplateEngine()
	data := map[string]any{
		"order": &domain.Object{
			App:    "shop",
			Model:  "order",
			PK:     7,
			Fields: map[string]any{"number": "A-7"},
		},
	}

	result, err := engine.Render("{{ order.number }}/{{ order.pk }}", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "A-7/7" {
		t.Errorf("expected %q, got %q", "A-7/7", result)
	}
}

func TestLookup(t *testing.T) {
	data := testContext()

	if v, ok := Lookup(data, "object.name"); !ok || v != "Alice" {
		t.Errorf("expected Alice, got %v (%v)", v, ok)
	}
	if _, ok := Lookup(data, "object.missing"); ok {
		t.Error("missing key should not be found")
	}
	if _, ok := Lookup(data, "instance.data.items.5"); ok {
		t.Error("out of range index should not be found")
	}

	typed := map[string]any{"headers": map[string]string{"x": "y"}}
	if v, ok := Lookup(typed, "headers.x"); !ok || v != "y" {
		t.Errorf("expected y, got %v (%v)", v, ok)
	}
}

func TestRenderValue(t *testing.T) {
	engine := NewTemplateEngine()

	value := map[string]any{
		"greeting": "Hi {{ object.name }}",
		"count":    3,
		"flags":    []any{"{{ object.id }}", true},
		"nested":   map[string]any{"title": "{{ object.title|lower }}"},
	}

	result, err := RenderValue(engine, value, testContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := result.(map[string]any)
	if m["greeting"] != "Hi Alice" {
		t.Errorf("greeting: got %v", m["greeting"])
	}
	if m["count"] != 3 {
		t.Errorf("count: got %v", m["count"])
	}
	flags := m["flags"].([]any)
	if flags[0] != "42" || flags[1] != true {
		t.Errorf("flags: got %v", flags)
	}
	nested := m["nested"].(map[string]any)
	if nested["title"] != "hello world" {
		t.Errorf("nested.title: got %v", nested["title"])
	}
}

func TestRenderValue_Nil(t *testing.T) {
	result, err := RenderValue(NewTemplateEngine(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil, got %v", result)
	}
}
