// Package results models the bracket results document and the mutations
// the store accepts on it.
//
// A document maps category -> slot -> SlotResult. Older documents store a
// slot as a bare team name; newer ones store a record with team, score and
// field. Both shapes are read, only the record shape is written.
package results

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Record is the normalized content of a slot.
type Record struct {
	Team  string `json:"team"`
	Score string `json:"score,omitempty"`
	Field string `json:"field,omitempty"`
}

// NewRecord trims every field. Score and field stay empty when blank.
func NewRecord(team, score, field string) Record {
	return Record{
		Team:  strings.TrimSpace(team),
		Score: strings.TrimSpace(score),
		Field: strings.TrimSpace(field),
	}
}

// SlotResult is a stored slot value: either Legacy (team name only) or
// Full (a record).
type SlotResult struct {
	legacy string
	full   *Record
}

func Legacy(team string) SlotResult { return SlotResult{legacy: team} }

func Full(r Record) SlotResult { return SlotResult{full: &r} }

// Normalize returns the slot as a trimmed Record regardless of its shape.
func (s SlotResult) Normalize() Record {
	if s.full == nil {
		return NewRecord(s.legacy, "", "")
	}
	return NewRecord(s.full.Team, s.full.Score, s.full.Field)
}

// Empty reports whether the slot carries no team name.
func (s SlotResult) Empty() bool { return s.Normalize().Team == "" }

// MarshalJSON keeps untouched legacy values as bare strings.
func (s SlotResult) MarshalJSON() ([]byte, error) {
	if s.full == nil {
		return json.Marshal(s.legacy)
	}
	return json.Marshal(*s.full)
}

func (s *SlotResult) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = SlotResult{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var team string
		if err := json.Unmarshal(data, &team); err != nil {
			return err
		}
		*s = Legacy(team)
		return nil
	case len(data) > 0 && data[0] == '{':
		r, err := decodeRecord(data)
		if err != nil {
			return err
		}
		*s = Full(r)
		return nil
	}
	return fmt.Errorf("slot value must be a string or an object, got %s", data)
}

// decodeRecord reads a stored record with the same leniency as request
// bodies: numbers become decimal text and null counts as absent.
func decodeRecord(data []byte) (Record, error) {
	var raw struct {
		Team  any `json:"team"`
		Score any `json:"score"`
		Field any `json:"field"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Record{}, err
	}
	team, ok := optionalString(raw.Team)
	if !ok {
		return Record{}, fmt.Errorf("slot team must be a string, got %T", raw.Team)
	}
	score, ok := optionalString(raw.Score)
	if !ok {
		return Record{}, fmt.Errorf("slot score must be a string, got %T", raw.Score)
	}
	field, ok := optionalString(raw.Field)
	if !ok {
		return Record{}, fmt.Errorf("slot field must be a string, got %T", raw.Field)
	}
	return Record{Team: team, Score: score, Field: field}, nil
}

// Document is the whole results document.
type Document map[string]map[string]SlotResult

// UnmarshalJSON drops null slots and the categories left empty by that,
// so they are not written back on the next save.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]map[string]*SlotResult
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Document, len(raw))
	for category, slots := range raw {
		for slot, v := range slots {
			if v == nil {
				continue
			}
			out.set(category, slot, *v)
		}
	}
	*d = out
	return nil
}

// Lookup returns the normalized slot. Absent and blank slots report false.
func (d Document) Lookup(category, slot string) (Record, bool) {
	s, ok := d[category][slot]
	if !ok || s.Empty() {
		return Record{}, false
	}
	return s.Normalize(), true
}

func (d Document) set(category, slot string, v SlotResult) {
	if d[category] == nil {
		d[category] = make(map[string]SlotResult)
	}
	d[category][slot] = v
}

// remove deletes a slot and prunes its category once empty.
func (d Document) remove(category, slot string) bool {
	slots, ok := d[category]
	if !ok {
		return false
	}
	_, existed := slots[slot]
	delete(slots, slot)
	if len(slots) == 0 {
		delete(d, category)
	}
	return existed
}

// Clone returns a deep copy.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for category, slots := range d {
		cp := make(map[string]SlotResult, len(slots))
		for slot, v := range slots {
			if v.full != nil {
				r := *v.full
				v.full = &r
			}
			cp[slot] = v
		}
		out[category] = cp
	}
	return out
}
