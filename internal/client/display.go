package client

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/playperu/bracket/internal/results"
)

// SlotRef addresses one slot placeholder on a display.
type SlotRef struct {
	Category string
	Slot     string
}

// Display is the rendering surface the board overlays results onto.
type Display interface {
	// Slots lists every placeholder the display knows about.
	Slots() []SlotRef
	Show(ref SlotRef, rec results.Record)
	// Reset puts a placeholder back to its default label.
	Reset(ref SlotRef)
}

// SlotsOf lists the slots present in doc, sorted by category then slot.
func SlotsOf(doc results.Document) []SlotRef {
	var refs []SlotRef
	for category, slots := range doc {
		for slot := range slots {
			refs = append(refs, SlotRef{Category: category, Slot: slot})
		}
	}
	sortRefs(refs)
	return refs
}

func sortRefs(refs []SlotRef) {
	slices.SortFunc(refs, func(a, b SlotRef) int {
		return cmp.Or(cmp.Compare(a.Category, b.Category), cmp.Compare(a.Slot, b.Slot))
	})
}

var (
	categoryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	slotStyle     = lipgloss.NewStyle().Width(6).Foreground(lipgloss.Color("#2196F3"))
	teamStyle     = lipgloss.NewStyle().Width(24).Bold(true)
	scoreStyle    = lipgloss.NewStyle().Width(6).Foreground(lipgloss.Color("#FFC107"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c757d"))
)

// TextDisplay is a terminal board. Placeholders show "TBD" until a result
// is overlaid.
type TextDisplay struct {
	mu      sync.Mutex
	refs    []SlotRef
	entries map[SlotRef]results.Record
}

func NewTextDisplay(refs ...SlotRef) *TextDisplay {
	d := &TextDisplay{entries: make(map[SlotRef]results.Record)}
	d.Track(refs...)
	return d
}

// Track adds placeholders not yet on the board.
func (d *TextDisplay) Track(refs ...SlotRef) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range refs {
		if !slices.Contains(d.refs, r) {
			d.refs = append(d.refs, r)
		}
	}
	sortRefs(d.refs)
}

func (d *TextDisplay) Slots() []SlotRef {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.refs)
}

func (d *TextDisplay) Show(ref SlotRef, rec results.Record) {
	d.mu.Lock()
	d.entries[ref] = rec
	d.mu.Unlock()
}

func (d *TextDisplay) Reset(ref SlotRef) {
	d.mu.Lock()
	delete(d.entries, ref)
	d.mu.Unlock()
}

// Entry returns what is currently shown for ref.
func (d *TextDisplay) Entry(ref SlotRef) (results.Record, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.entries[ref]
	return rec, ok
}

// Render writes the board grouped by category.
func (d *TextDisplay) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.refs) == 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render("no results yet"))
		return err
	}

	var b strings.Builder
	current := ""
	for i, ref := range d.refs {
		if i == 0 || ref.Category != current {
			if i > 0 {
				b.WriteString("\n")
			}
			current = ref.Category
			b.WriteString(categoryStyle.Render(ref.Category))
			b.WriteString("\n")
		}

		rec, ok := d.entries[ref]
		line := "  " + slotStyle.Render(ref.Slot)
		if !ok {
			line += mutedStyle.Render("TBD")
		} else {
			line += teamStyle.Render(rec.Team) + scoreStyle.Render(rec.Score)
			if rec.Field != "" {
				line += mutedStyle.Render("@ " + rec.Field)
			}
		}
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
