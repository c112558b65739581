package getsafe

import (
	"strconv"
	"strings"
)

// String returns payload[key] if it is a string, "" otherwise.
func String(payload map[string]any, key string) string {
	if v, ok := payload[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func StringOr(payload map[string]any, key string, def string) string {
	if s := String(payload, key); len(strings.TrimSpace(s)) > 0 {
		return s
	}
	return def
}

// Number accepts JSON numbers and numeric strings such as "42" or "87.5%".
func Number(payload map[string]any, key string) (float64, bool) {
	v, ok := payload[key]
	if !ok {
		return 0, false
	}

	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(n), "%"), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}

	return 0, false
}

func NumberOr(payload map[string]any, key string, def float64) float64 {
	if n, ok := Number(payload, key); ok {
		return n
	}
	return def
}

func Bool(payload map[string]any, key string) (bool, bool) {
	v, ok := payload[key]
	if !ok {
		return false, false
	}

	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, false
		}
		return parsed, true
	}

	return false, false
}

func Map(payload map[string]any, key string) map[string]any {
	if v, ok := payload[key]; ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return nil
}

// Maps returns the object elements of the list at key, skipping anything else.
func Maps(payload map[string]any, key string) []map[string]any {
	list, ok := payload[key].([]any)
	if !ok {
		return nil
	}

	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// Strings returns the string elements of the list at key, skipping anything else.
func Strings(payload map[string]any, key string) []string {
	list, ok := payload[key].([]any)
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
