package llm

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dlazarev/finadvisor/internal/metrics"
)

// Parse extracts a typed value from unstructured model output. It strips
// markdown fences and surrounding junk, decodes JSON into T and returns the
// decoded value only when the result is usable; on any malformed or
// semantically empty input it logs a warning and returns fallback
// unchanged. It never panics and never returns an error: this is the single
// chokepoint that makes every provider-consuming step failure tolerant.
func Parse[T any](log zerolog.Logger, raw string, fallback T) T {
	clean := CleanModelJSON(raw)
	if clean == "" {
		warnFallback(log, raw, "empty output")
		return fallback
	}

	var decoded T
	if err := json.Unmarshal([]byte(clean), &decoded); err != nil {
		warnFallback(log, raw, err.Error())
		return fallback
	}

	if !usable(decoded) {
		warnFallback(log, raw, "decoded value is empty")
		return fallback
	}
	return decoded
}

func warnFallback(log zerolog.Logger, raw, reason string) {
	metrics.ParserFallbacks.Inc()
	snippet := raw
	if len(snippet) > 200 {
		snippet = snippet[:200]
	}
	log.Warn().
		Str("reason", reason).
		Str("raw", snippet).
		Msg("Model output unusable, returning fallback")
}

// usable rejects zero structs, nil pointers and empty collections so that
// "{}", "null" and "[]" count as malformed rather than as answers.
func usable(v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	case reflect.String:
		return rv.Len() > 0
	default:
		return !rv.IsZero()
	}
}

// CleanModelJSON strips markdown code fences and any prose around the
// first JSON object or array in the text. Models are told to return bare
// JSON; this handles the ones that do not listen.
func CleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// Keep only the outermost JSON value if prose surrounds it.
	objStart := strings.Index(s, "{")
	arrStart := strings.Index(s, "[")

	start, closer := -1, byte('}')
	switch {
	case objStart != -1 && (arrStart == -1 || objStart < arrStart):
		start = objStart
	case arrStart != -1:
		start, closer = arrStart, ']'
	}

	if start != -1 {
		if end := strings.LastIndexByte(s, closer); end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}
