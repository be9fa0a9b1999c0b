package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// maxExactFloat — наибольшее целое, которое float64 хранит без потерь (2^53).
const maxExactFloat = 1 << 53

// DecodeJSON разбирает JSON, сохраняя числа как json.Number.
// Вместе с NormalizeNumbers это даёт int64 для 1234567 вместо float64,
// который шаблоны печатают как 1.234567e+06.
func DecodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}

// NormalizeNumbers рекурсивно приводит числа к int64 или float64.
//
// json.Number становится int64, если это целое, иначе float64.
// Целый float64 в пределах 2^53 тоже становится int64.
// Карты и списки копируются, исходное значение не изменяется.
func NormalizeNumbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return NormalizeNumbers(f)
		}
		return x.String()
	case float64:
		if x == math.Trunc(x) && math.Abs(x) <= maxExactFloat {
			return int64(x)
		}
		return x
	case map[string]any:
		return NormalizeMap(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = NormalizeNumbers(item)
		}
		return out
	default:
		return v
	}
}

// NormalizeMap — NormalizeNumbers для карты. nil остаётся nil.
func NormalizeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, item := range m {
		out[k] = NormalizeNumbers(item)
	}
	return out
}

// FormatValue форматирует скаляр для адресов и ID: числа без экспоненты.
func FormatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}
