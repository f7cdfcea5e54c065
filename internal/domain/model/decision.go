package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Decision is the structured output of intent resolution. It is transient:
// consumed by the orchestrator on the same turn, never persisted.
type Decision struct {
	Action        Action
	Data          map[string]string
	Message       string
	NeedsMoreInfo bool
}

// decisionWire matches the JSON contract the classifier is instructed to
// emit. Data values may arrive as strings or numbers; both are accepted.
type decisionWire struct {
	Action        string                     `json:"action"`
	Data          map[string]json.RawMessage `json:"data"`
	Message       string                     `json:"message"`
	NeedsMoreInfo bool                       `json:"needsMoreInfo"`
}

// ParseDecision decodes raw classifier output strictly as a Decision.
func ParseDecision(raw []byte) (Decision, error) {
	var w decisionWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return Decision{}, fmt.Errorf("decode decision: %w", err)
	}
	if w.Action == "" {
		return Decision{}, fmt.Errorf("decision has no action")
	}
	d := Decision{
		Action:        Action(w.Action),
		Data:          make(map[string]string, len(w.Data)),
		Message:       w.Message,
		NeedsMoreInfo: w.NeedsMoreInfo,
	}
	for k, v := range w.Data {
		s, err := scalarString(v)
		if err != nil {
			return Decision{}, fmt.Errorf("decision field %q: %w", k, err)
		}
		if s != "" {
			d.Data[k] = s
		}
	}
	return d, nil
}

// scalarString renders a JSON scalar as its string form. Objects and arrays
// are rejected: extracted fields are flat by contract.
func scalarString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n == float64(int64(n)) {
			return strconv.FormatInt(int64(n), 10), nil
		}
		return strconv.FormatFloat(n, 'f', -1, 64), nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b), nil
	}
	if string(raw) == "null" {
		return "", nil
	}
	return "", fmt.Errorf("expected scalar, got %s", raw)
}
