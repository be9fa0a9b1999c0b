package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/shaiso/Actuator/internal/domain"
)

// Renderer — рендеринг строкового шаблона над контекстом.
//
// Все типы действий зависят только от этого интерфейса,
// конкретная библиотека шаблонов скрыта за TemplateEngine.
type Renderer interface {
	Render(tmpl string, data map[string]any) (string, error)
}

// TemplateEngine — Renderer на text/template + sprig.
//
// Понимает два синтаксиса:
//
//	{{ object.name }}                  — переменные в стиле определений workflow
//	{{ object.name|upper }}            — с фильтрами
//	{{ user.email|default:"n/a" }}     — фильтр с аргументом
//	{{ .object.name }}, {{ if ... }}   — обычный Go template
//
// Первый вариант переводится в {{ var "object.name" | upper }}.
// Поля Go template (.object.name, $.user) тоже идут через var, поэтому
// отсутствующее значение в обоих синтаксисах ведёт себя одинаково.
type TemplateEngine struct {
	funcs  template.FuncMap
	strict bool
}

// TemplateOption — опция TemplateEngine.
type TemplateOption func(*TemplateEngine)

// WithStrictVariables включает строгий режим: обращение к отсутствующей
// переменной — ошибка рендеринга, а не пустая строка.
func WithStrictVariables(strict bool) TemplateOption {
	return func(e *TemplateEngine) {
		e.strict = strict
	}
}

// WithFuncs добавляет функции шаблонов.
func WithFuncs(funcs template.FuncMap) TemplateOption {
	return func(e *TemplateEngine) {
		for name, fn := range funcs {
			e.funcs[name] = fn
		}
	}
}

// NewTemplateEngine создаёт движок шаблонов.
func NewTemplateEngine(opts ...TemplateOption) *TemplateEngine {
	e := &TemplateEngine{funcs: sprig.TxtFuncMap()}
	for name, fn := range templateFuncs {
		e.funcs[name] = fn
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// templateFuncs — функции поверх sprig.
var templateFuncs = template.FuncMap{
	// json — сериализует значение в JSON строку
	"json": func(v any) string {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("error: %v", err)
		}
		return string(b)
	},

	// toJSON — алиас для json, пустая строка при ошибке
	"toJSON": func(v any) string {
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	},

	// fromJSON — парсит JSON строку
	"fromJSON": func(s string) any {
		var result any
		if err := json.Unmarshal([]byte(s), &result); err != nil {
			return nil
		}
		return result
	},

	// var, field, items — заглушки, подменяются при каждом рендеринге
	"var":   func(string, ...any) (any, error) { return "", nil },
	"field": func(string, ...any) any { return "" },
	"items": func(string, ...any) any { return nil },

	// dateformat — фильтр date из определений workflow
	"dateformat": dateFormat,
}

// filterAliases — имена фильтров из определений workflow, отличающиеся от функций sprig.
var filterAliases = map[string]string{
	"truncatechars": "trunc",
	"length":        "len",
	"capfirst":      "title",
	"date":          "dateformat",
}

// goTemplateKeywords — слова, которые нельзя принимать за переменные.
var goTemplateKeywords = map[string]bool{
	"if": true, "else": true, "end": true, "range": true, "with": true,
	"define": true, "template": true, "block": true, "break": true,
	"continue": true, "nil": true, "true": true, "false": true,
}

var (
	variableRe = regexp.MustCompile(`\{\{\s*([A-Za-z_]\w*(?:\.\w+)*)\s*((?:\|\s*\w+(?::(?:"[^"]*"|'[^']*'|[^\s|}]+))?\s*)*)\}\}`)
	filterRe   = regexp.MustCompile(`\|\s*(\w+)(?::("[^"]*"|'[^']*'|[^\s|}]+))?`)
	numberRe   = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	actionRe   = regexp.MustCompile(`(?s)\{\{(.*?)\}\}`)
	fieldRe    = regexp.MustCompile(`^\.[A-Za-z_]\w*(?:\.\w+)*`)
)

// Render рендерит строковый шаблон с контекстом.
func (e *TemplateEngine) Render(tmpl string, data map[string]any) (string, error) {
	// Проверяем, содержит ли строка шаблонные выражения
	if !strings.Contains(tmpl, "{{") {
		return tmpl, nil
	}

	src := translateFields(e.translate(tmpl, data))

	t, err := template.New("").
		Funcs(e.funcs).
		Funcs(template.FuncMap{
			"var":   e.varFunc(data),
			"field": fieldFunc(data, ""),
			"items": fieldFunc(data, nil),
		}).
		Parse(src)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}

	return buf.String(), nil
}

// varFunc возвращает функцию var, привязанную к контексту рендеринга.
//
// var "a.b" ищет путь от корня контекста, var "a.b" . — от текущей точки
// (внутри range/with).
func (e *TemplateEngine) varFunc(data map[string]any) func(string, ...any) (any, error) {
	return func(path string, base ...any) (any, error) {
		value, ok := Lookup(lookupRoot(data, base), path)
		if !ok {
			if e.strict {
				return nil, fmt.Errorf("%w: %s", ErrUndefinedVariable, path)
			}
			return "", nil
		}
		if value == nil {
			return "", nil
		}
		return plainNumber(value), nil
	}
}

// fieldFunc — поиск для условий if/with и range: отсутствующее значение
// не ошибка даже в строгом режиме, вместо него возвращается missing.
func fieldFunc(data map[string]any, missing any) func(string, ...any) any {
	return func(path string, base ...any) any {
		value, ok := Lookup(lookupRoot(data, base), path)
		if !ok || value == nil {
			return missing
		}
		return plainNumber(value)
	}
}

func lookupRoot(data map[string]any, base []any) any {
	if len(base) > 0 {
		return base[0]
	}
	return data
}

// plainNumber — 1234567 вместо 1.234567e+06 при выводе.
func plainNumber(v any) any {
	switch v.(type) {
	case float64, json.Number:
		return domain.NormalizeNumbers(v)
	}
	return v
}

// translateFields переводит поля Go template в вызовы var/field/items:
//
//	{{ .object.name }}        → {{ (var "object.name" .) }}
//	{{ if .user }}            → {{ if (field "user" .) }}
//	{{ range $.items }}       → {{ range (items "items" $) }}
//
// Строковые литералы и комментарии не затрагиваются.
func translateFields(src string) string {
	return actionRe.ReplaceAllStringFunc(src, func(action string) string {
		body := action[2 : len(action)-2]
		fn := lookupFuncFor(body)
		if fn == "" {
			return action
		}
		return "{{" + rewriteFields(body, fn) + "}}"
	})
}

// lookupFuncFor выбирает функцию поиска по ключевому слову действия.
// Пустая строка — действие не переписывается (комментарий).
func lookupFuncFor(body string) string {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(body), "-"))
	if strings.HasPrefix(trimmed, "/*") {
		return ""
	}
	words := strings.Fields(trimmed)
	if len(words) == 0 {
		return ""
	}
	keyword := words[0]
	if keyword == "else" && len(words) > 1 {
		keyword = words[1]
	}
	switch keyword {
	case "if", "with":
		return "field"
	case "range":
		return "items"
	default:
		return "var"
	}
}

func rewriteFields(body, fn string) string {
	var b strings.Builder
	for i := 0; i < len(body); {
		c := body[i]
		switch {
		case c == '"' || c == '`' || c == '\'':
			end := literalEnd(body, i)
			b.WriteString(body[i:end])
			i = end
		case c == '.' || (c == '$' && i+1 < len(body) && body[i+1] == '.'):
			if i > 0 && !fieldBoundary(body[i-1]) {
				b.WriteByte(c)
				i++
				continue
			}
			start, base := i, "."
			if c == '$' {
				start, base = i+1, "$"
			}
			path := fieldRe.FindString(body[start:])
			if path == "" {
				b.WriteByte(c)
				i++
				continue
			}
			fmt.Fprintf(&b, "(%s %s %s)", fn, strconv.Quote(path[1:]), base)
			i = start + len(path)
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

func fieldBoundary(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', '|', '=', ',':
		return true
	}
	return false
}

// literalEnd возвращает индекс за концом литерала, начинающегося в i.
func literalEnd(s string, i int) int {
	quote := s[i]
	for j := i + 1; j < len(s); j++ {
		switch {
		case s[j] == '\\' && quote != '`':
			j++
		case s[j] == quote:
			return j + 1
		}
	}
	return len(s)
}

// translate переводит {{ a.b|filter:arg }} в синтаксис Go template.
func (e *TemplateEngine) translate(tmpl string, data map[string]any) string {
	return variableRe.ReplaceAllStringFunc(tmpl, func(match string) string {
		m := variableRe.FindStringSubmatch(match)
		path, filters := m[1], m[2]

		root, _, dotted := strings.Cut(path, ".")
		if goTemplateKeywords[root] {
			return match
		}
		if !dotted && filters == "" {
			// {{ now }} — вызов функции, если такой переменной нет в контексте
			if _, inData := data[root]; !inData {
				if _, isFunc := e.funcs[root]; isFunc {
					return match
				}
			}
		}

		var b strings.Builder
		b.WriteString("{{ var ")
		b.WriteString(strconv.Quote(path))
		for _, f := range filterRe.FindAllStringSubmatch(filters, -1) {
			name, arg := f[1], f[2]
			if alias, ok := filterAliases[name]; ok {
				name = alias
			}
			b.WriteString(" | ")
			b.WriteString(name)
			if arg != "" {
				b.WriteString(" ")
				b.WriteString(filterArg(arg))
			}
		}
		b.WriteString(" }}")
		return b.String()
	})
}

// filterArg переводит аргумент фильтра в литерал Go template.
func filterArg(arg string) string {
	switch {
	case strings.HasPrefix(arg, `"`):
		return arg
	case strings.HasPrefix(arg, `'`):
		return strconv.Quote(strings.Trim(arg, `'`))
	case numberRe.MatchString(arg):
		return arg
	default:
		return "(var " + strconv.Quote(arg) + ")"
	}
}

// Lookup ищет значение по пути "a.b.0.c" во вложенных map/slice/Object.
func Lookup(data any, path string) (any, bool) {
	cur := data
	for _, seg := range strings.Split(path, ".") {
		switch v := cur.(type) {
		case map[string]any:
			next, ok := v[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case *domain.Object:
			next, ok := v.Get(seg)
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, false
			}
			cur = v[idx]
		default:
			next, ok := reflectLookup(cur, seg)
			if !ok {
				return nil, false
			}
			cur = next
		}
	}
	return cur, true
}

// reflectLookup — запасной вариант для map/slice других типов.
func reflectLookup(value any, seg string) (any, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		item := rv.MapIndex(reflect.ValueOf(seg).Convert(rv.Type().Key()))
		if !item.IsValid() {
			return nil, false
		}
		return item.Interface(), true
	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 || idx >= rv.Len() {
			return nil, false
		}
		return rv.Index(idx).Interface(), true
	default:
		return nil, false
	}
}

// RenderValue рендерит произвольное значение.
// Рекурсивно обрабатывает map и slice, остальные типы возвращает как есть.
func RenderValue(r Renderer, value any, data map[string]any) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch v := value.(type) {
	case string:
		return r.Render(v, data)

	case map[string]any:
		result := make(map[string]any, len(v))
		for key, val := range v {
			rendered, err := RenderValue(r, val, data)
			if err != nil {
				return nil, err
			}
			result[key] = rendered
		}
		return result, nil

	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			rendered, err := RenderValue(r, val, data)
			if err != nil {
				return nil, err
			}
			result[i] = rendered
		}
		return result, nil

	case map[string]string:
		result := make(map[string]string, len(v))
		for key, val := range v {
			rendered, err := r.Render(val, data)
			if err != nil {
				return nil, err
			}
			result[key] = rendered
		}
		return result, nil

	case []string:
		result := make([]string, len(v))
		for i, val := range v {
			rendered, err := r.Render(val, data)
			if err != nil {
				return nil, err
			}
			result[i] = rendered
		}
		return result, nil

	default:
		// Для остальных типов (int, float, bool) возвращаем как есть
		return value, nil
	}
}
