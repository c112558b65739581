package research

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/w-h-a/research/completion"
	getsafe "github.com/w-h-a/research/util/get_safe"
)

var errNoJSON = errors.New("no json value in model output")

// outer strips code fences and slices raw from the first open bracket to
// the last close bracket.
func outer(raw string, open, close string) (string, error) {
	clean := strings.ReplaceAll(raw, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	start := strings.Index(clean, open)
	end := strings.LastIndex(clean, close)
	if start < 0 || end < start {
		return "", errNoJSON
	}

	return clean[start : end+1], nil
}

func parseObject(raw string) (map[string]any, error) {
	body, err := outer(raw, "{", "}")
	if err != nil {
		return nil, &completion.Error{Kind: completion.MalformedModelOutput, Err: err}
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(body), &obj); err != nil {
		return nil, &completion.Error{Kind: completion.MalformedModelOutput, Err: err}
	}

	return obj, nil
}

func parseArray(raw string) ([]map[string]any, error) {
	body, err := outer(raw, "[", "]")
	if err != nil {
		return nil, &completion.Error{Kind: completion.MalformedModelOutput, Err: err}
	}

	var list []any
	if err := json.Unmarshal([]byte(body), &list); err != nil {
		return nil, &completion.Error{Kind: completion.MalformedModelOutput, Err: err}
	}

	return getsafe.Maps(map[string]any{"items": list}, "items"), nil
}

// field reads a string field, accepting numbers the model emitted unquoted.
func field(m map[string]any, key string) string {
	if s := getsafe.String(m, key); len(s) > 0 {
		return s
	}
	if n, ok := m[key].(float64); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}

func integer(m map[string]any, key string, def int) int {
	n, ok := getsafe.Number(m, key)
	if !ok {
		return def
	}
	return int(math.Round(n))
}
