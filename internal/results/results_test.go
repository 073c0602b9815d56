package results

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotResultDecodesBothShapes(t *testing.T) {
	var doc Document
	err := json.Unmarshal([]byte(`{
		"U12": {"A1": "Falcons", "A2": {"team": " Hawks ", "score": "3", "field": ""}},
		"U14": {"B1": null}
	}`), &doc)
	require.NoError(t, err)

	assert.Nil(t, doc["U12"]["A1"].full, "bare string stays legacy")
	assert.NotNil(t, doc["U12"]["A2"].full)
	assert.NotContains(t, doc, "U14", "category holding only null slots is dropped")

	rec, ok := doc.Lookup("U12", "A1")
	require.True(t, ok)
	assert.Equal(t, Record{Team: "Falcons"}, rec)

	rec, ok = doc.Lookup("U12", "A2")
	require.True(t, ok)
	assert.Equal(t, Record{Team: "Hawks", Score: "3"}, rec)

	_, ok = doc.Lookup("U14", "B1")
	assert.False(t, ok, "null slot is absent")
	_, ok = doc.Lookup("U16", "Z9")
	assert.False(t, ok)
}

func TestSlotResultRejectsOtherTypes(t *testing.T) {
	var doc Document
	err := json.Unmarshal([]byte(`{"U12": {"A1": 42}}`), &doc)
	assert.Error(t, err)
}

func TestStoredNumbersDecodeAsText(t *testing.T) {
	var doc Document
	err := json.Unmarshal([]byte(`{
		"U12": {"A1": {"team": "Falcons", "score": 3, "field": 2}, "A2": {"team": "Owls", "score": null}},
		"U14": {"B1": "Owls"}
	}`), &doc)
	require.NoError(t, err)

	rec, ok := doc.Lookup("U12", "A1")
	require.True(t, ok)
	assert.Equal(t, Record{Team: "Falcons", Score: "3", Field: "2"}, rec)

	rec, ok = doc.Lookup("U12", "A2")
	require.True(t, ok)
	assert.Equal(t, Record{Team: "Owls"}, rec)

	SaveRequest{Category: "U14", Slot: "B2", Team: "Hawks"}.Apply(doc)
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"U12": {"A1": {"team": "Falcons", "score": "3", "field": "2"}, "A2": {"team": "Owls"}},
		"U14": {"B1": "Owls", "B2": {"team": "Hawks"}}
	}`, string(data))

	err = json.Unmarshal([]byte(`{"U12": {"A1": {"team": "Falcons", "score": true}}}`), &doc)
	assert.Error(t, err)
}

func TestNullSlotsAreNotWrittenBack(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(`{"U12":{"A1":null},"U14":null,"U16":{"C1":null,"C2":"Owls"}}`), &doc))

	SaveRequest{Category: "U12", Slot: "B1", Team: "Falcons"}.Apply(doc)
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"U12":{"B1":{"team":"Falcons"}},"U16":{"C2":"Owls"}}`, string(data))
}

func TestSaveUpgradesLegacySlotOnly(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(`{"U12":{"A1":"Falcons","A2":"Owls"}}`), &doc))

	out := SaveRequest{Category: "U12", Slot: "A1", Team: "Falcons", Score: "2"}.Apply(doc)
	assert.Equal(t, KindSaved, out.Kind)
	require.NotNil(t, out.Saved)
	assert.Equal(t, Record{Team: "Falcons", Score: "2"}, *out.Saved)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"U12":{"A1":{"team":"Falcons","score":"2"},"A2":"Owls"}}`, string(data))
}

func TestRemovePrunesEmptyCategory(t *testing.T) {
	doc := Document{}
	SaveRequest{Category: "U12", Slot: "A1", Team: "Falcons"}.Apply(doc)
	SaveRequest{Category: "U12", Slot: "A2", Team: "Owls"}.Apply(doc)

	out := ClearRequest{Category: "U12", Slot: "A1"}.Apply(doc)
	assert.True(t, out.Existed)
	assert.Contains(t, doc, "U12")
	assert.Equal(t, Record{Team: "Owls"}, doc["U12"]["A2"].Normalize())

	out = DeleteRequest{Category: "U12", Slot: "A2"}.Apply(doc)
	assert.True(t, out.Existed)
	assert.Equal(t, KindRemoved, out.Kind)
	assert.NotContains(t, doc, "U12")

	out = DeleteRequest{Category: "U12", Slot: "A2"}.Apply(doc)
	assert.False(t, out.Existed)
	assert.Empty(t, doc)
}

func TestCloneIsDeep(t *testing.T) {
	doc := Document{}
	SaveRequest{Category: "U12", Slot: "A1", Team: "Falcons"}.Apply(doc)

	cp := doc.Clone()
	SaveRequest{Category: "U12", Slot: "A1", Team: "Owls"}.Apply(cp)
	ClearRequest{Category: "U12", Slot: "A1"}.Apply(cp)

	rec, ok := doc.Lookup("U12", "A1")
	require.True(t, ok)
	assert.Equal(t, "Falcons", rec.Team)
}

func TestParseWriteBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    Mutation
		wantErr string
	}{
		{
			name: "save with optional fields",
			body: `{"category":"U12","slot":"A1","team":"Falcons","score":" 3 ","field":"Terrain 2"}`,
			want: SaveRequest{Category: "U12", Slot: "A1", Team: "Falcons", Score: "3", Field: "Terrain 2"},
		},
		{
			name: "numeric score",
			body: `{"category":"U12","slot":"A1","team":"Falcons","score":3}`,
			want: SaveRequest{Category: "U12", Slot: "A1", Team: "Falcons", Score: "3"},
		},
		{
			name: "legacy value field",
			body: `{"category":"U12","slot":"A1","value":"Falcons"}`,
			want: SaveRequest{Category: "U12", Slot: "A1", Team: "Falcons"},
		},
		{
			name: "clear ignores team",
			body: `{"category":"U12","slot":"A1","clear":true}`,
			want: ClearRequest{Category: "U12", Slot: "A1"},
		},
		{
			name:    "clear without slot",
			body:    `{"category":"U12","clear":true}`,
			wantErr: "category, slot required (strings)",
		},
		{
			name:    "clear false falls back to save",
			body:    `{"category":"U12","slot":"A1","clear":false}`,
			wantErr: "category, slot, team required (strings)",
		},
		{
			name:    "blank team",
			body:    `{"category":"U12","slot":"A1","team":"   "}`,
			wantErr: "category, slot, team required (strings)",
		},
		{
			name:    "wrong type",
			body:    `{"category":12,"slot":"A1","team":"Falcons"}`,
			wantErr: "category, slot, team required (strings)",
		},
		{
			name:    "bad field type",
			body:    `{"category":"U12","slot":"A1","team":"Falcons","field":true}`,
			wantErr: "field must be a string",
		},
		{
			name:    "not json",
			body:    `category=U12`,
			wantErr: "invalid JSON body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWriteBody([]byte(tt.body))
			if tt.wantErr != "" {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantErr, verr.Msg)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mutation mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseDeleteBody(t *testing.T) {
	got, err := ParseDeleteBody([]byte(`{"category":"U12","slot":"A1"}`))
	require.NoError(t, err)
	assert.Equal(t, DeleteRequest{Category: "U12", Slot: "A1"}, got)

	_, err = ParseDeleteBody([]byte(`{"category":"U12"}`))
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
