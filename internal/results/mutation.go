package results

// Kind names what a mutation did; it doubles as the change-feed event type.
type Kind string

const (
	KindSaved   Kind = "saved"
	KindCleared Kind = "cleared"
	KindRemoved Kind = "removed"
)

// Mutation is one of SaveRequest, ClearRequest or DeleteRequest.
type Mutation interface {
	Apply(doc Document) Outcome
	isMutation()
}

// Outcome describes an applied mutation.
type Outcome struct {
	Kind     Kind
	Category string
	Slot     string
	Saved    *Record
	// Existed is whether the slot held a value before a clear or delete.
	Existed bool
}

type SaveRequest struct {
	Category string
	Slot     string
	Team     string
	Score    string
	Field    string
}

func (r SaveRequest) Record() Record { return NewRecord(r.Team, r.Score, r.Field) }

func (r SaveRequest) Apply(doc Document) Outcome {
	rec := r.Record()
	doc.set(r.Category, r.Slot, Full(rec))
	return Outcome{Kind: KindSaved, Category: r.Category, Slot: r.Slot, Saved: &rec}
}

func (SaveRequest) isMutation() {}

// ClearRequest is a PUT with clear set: it empties one slot.
type ClearRequest struct {
	Category string
	Slot     string
}

func (r ClearRequest) Apply(doc Document) Outcome {
	existed := doc.remove(r.Category, r.Slot)
	return Outcome{Kind: KindCleared, Category: r.Category, Slot: r.Slot, Existed: existed}
}

func (ClearRequest) isMutation() {}

type DeleteRequest struct {
	Category string
	Slot     string
}

func (r DeleteRequest) Apply(doc Document) Outcome {
	existed := doc.remove(r.Category, r.Slot)
	return Outcome{Kind: KindRemoved, Category: r.Category, Slot: r.Slot, Existed: existed}
}

func (DeleteRequest) isMutation() {}
