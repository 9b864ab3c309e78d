package intelligence

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MaxTraceSteps caps the steps kept from a trace response.
const MaxTraceSteps = 20

// ParseSuggestions pulls a list of strings out of model output. It accepts a
// bare JSON array, an array wrapped in markdown fences or chatter, and an
// object holding an array. Non-empty text with no usable array becomes a
// single suggestion.
func ParseSuggestions(text string) []string {
	text = strings.TrimSpace(stripFences(text))
	if text == "" {
		return nil
	}
	if items, ok := decodeStringList(text); ok {
		return nilIfEmpty(items)
	}
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start >= 0 && end > start {
		if items, ok := decodeStringList(text[start : end+1]); ok {
			return nilIfEmpty(items)
		}
	}
	return []string{text}
}

func decodeStringList(s string) ([]string, bool) {
	var raw []any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		item := strings.TrimSpace(stringify(v))
		if item != "" {
			out = append(out, item)
		}
	}
	return out, true
}

func nilIfEmpty(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	return items
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSuffix(strings.TrimSpace(s), "```")
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// TraceStep is one simulated execution step.
type TraceStep struct {
	Step        int               `json:"step"`
	Description string            `json:"description"`
	Variables   map[string]string `json:"variables"`
	Data        []string          `json:"data"`
	Pointers    map[string]int    `json:"pointers"`
}

type TraceResult struct {
	Steps []TraceStep `json:"steps"`
	Error string      `json:"error,omitempty"`
}

type rawTrace struct {
	Steps []rawStep `json:"steps"`
}

type rawStep struct {
	Step        float64 `json:"step"`
	Description string  `json:"description"`
	Variables   []struct {
		Key   string `json:"key"`
		Value any    `json:"value"`
	} `json:"variables"`
	Data     []any `json:"data"`
	Pointers []struct {
		VarName string  `json:"varName"`
		Index   float64 `json:"index"`
	} `json:"pointers"`
}

// ParseTrace converts the model's key/value arrays into maps and keeps at
// most MaxTraceSteps steps.
func ParseTrace(text string) ([]TraceStep, error) {
	text = strings.TrimSpace(stripFences(text))
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		text = text[start : end+1]
	}
	var raw rawTrace
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("decoding trace: %w", err)
	}
	if len(raw.Steps) > MaxTraceSteps {
		raw.Steps = raw.Steps[:MaxTraceSteps]
	}
	steps := make([]TraceStep, 0, len(raw.Steps))
	for _, rs := range raw.Steps {
		st := TraceStep{
			Step:        int(rs.Step),
			Description: rs.Description,
			Variables:   make(map[string]string, len(rs.Variables)),
			Data:        make([]string, 0, len(rs.Data)),
			Pointers:    make(map[string]int, len(rs.Pointers)),
		}
		for _, kv := range rs.Variables {
			st.Variables[kv.Key] = stringify(kv.Value)
		}
		for _, d := range rs.Data {
			st.Data = append(st.Data, stringify(d))
		}
		for _, p := range rs.Pointers {
			st.Pointers[p.VarName] = int(p.Index)
		}
		steps = append(steps, st)
	}
	return steps, nil
}
