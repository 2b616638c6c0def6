package arena

import (
	"strconv"
	"strings"
)

const numericTolerance = 0.01

// IsCorrect reports whether the submitted answer matches the question's
// canonical answer. Pure: identical inputs always yield identical output.
// Unknown question types fail closed.
func IsCorrect(q Question, answer any) bool {
	switch q.Type {
	case TypeMCQ:
		return mcqCorrect(q, answer)
	case TypeTrueFalse:
		want, ok := toBool(q.Answer)
		if !ok {
			return false
		}
		got, ok := toBool(answer)
		if !ok {
			return false
		}
		return want == got
	case TypeNumberInput:
		want, ok := toNumber(q.Answer)
		if !ok {
			return false
		}
		got, ok := toNumber(answer)
		if !ok {
			return false
		}
		diff := want - got
		if diff < 0 {
			diff = -diff
		}
		return diff < numericTolerance
	default:
		return false
	}
}

// mcqCorrect accepts either an index into the option list or the option text.
func mcqCorrect(q Question, answer any) bool {
	if idx, ok := toIndex(answer); ok && idx >= 0 && idx < len(q.Options) {
		return normalize(q.Options[idx]) == normalize(q.Answer)
	}
	return normalize(stringify(answer)) == normalize(q.Answer)
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}

// toIndex recognizes integral answers as option indexes. Strings are never
// treated as indexes so that numeric option text compares by value.
func toIndex(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		if x == float64(int(x)) {
			return int(x), true
		}
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

func toNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
