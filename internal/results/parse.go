package results

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ValidationError reports a malformed or incomplete request body.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

type writeBody struct {
	Category any `json:"category"`
	Slot     any `json:"slot"`
	Team     any `json:"team"`
	Value    any `json:"value"`
	Score    any `json:"score"`
	Field    any `json:"field"`
	Clear    any `json:"clear"`
}

// ParseWriteBody decodes a PUT body into a SaveRequest, or a ClearRequest
// when "clear" is true. "value" is accepted in place of "team" for
// editors that predate the record shape.
func ParseWriteBody(data []byte) (Mutation, error) {
	var b writeBody
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, &ValidationError{Msg: "invalid JSON body"}
	}

	category, okCategory := requiredString(b.Category)
	slot, okSlot := requiredString(b.Slot)

	if clear, _ := b.Clear.(bool); clear {
		if !okCategory || !okSlot {
			return nil, &ValidationError{Msg: "category, slot required (strings)"}
		}
		return ClearRequest{Category: category, Slot: slot}, nil
	}

	teamField := b.Team
	if teamField == nil {
		teamField = b.Value
	}
	team, okTeam := requiredString(teamField)
	if !okCategory || !okSlot || !okTeam {
		return nil, &ValidationError{Msg: "category, slot, team required (strings)"}
	}

	score, ok := optionalString(b.Score)
	if !ok {
		return nil, &ValidationError{Msg: "score must be a string"}
	}
	field, ok := optionalString(b.Field)
	if !ok {
		return nil, &ValidationError{Msg: "field must be a string"}
	}

	return SaveRequest{Category: category, Slot: slot, Team: team, Score: score, Field: field}, nil
}

// ParseDeleteBody decodes a DELETE body.
func ParseDeleteBody(data []byte) (DeleteRequest, error) {
	var b writeBody
	if err := json.Unmarshal(data, &b); err != nil {
		return DeleteRequest{}, &ValidationError{Msg: "invalid JSON body"}
	}
	category, okCategory := requiredString(b.Category)
	slot, okSlot := requiredString(b.Slot)
	if !okCategory || !okSlot {
		return DeleteRequest{}, &ValidationError{Msg: "category, slot required (strings)"}
	}
	return DeleteRequest{Category: category, Slot: slot}, nil
}

func requiredString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// optionalString accepts absent values, strings and numbers (scores are
// sometimes sent as JSON numbers).
func optionalString(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", true
	case string:
		return strings.TrimSpace(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	}
	return "", false
}
