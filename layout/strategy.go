package layout

import (
	"errors"
	"strings"

	"github.com/tsawler/reportgen/fieldkey"
	"github.com/tsawler/reportgen/style"
)

// Carry is the per-case state passed from one field to the next.
type Carry struct {
	// Note is the reserve note taken from the indemnity reserve field.
	Note string
}

// Field is one column of a case record, ready for placement.
type Field struct {
	Label    string // header text as it appears in the sheet
	Display  string
	Key      fieldkey.Key
	Category fieldkey.Category
	Value    string
}

// NewField normalizes and classifies a column.
func NewField(label, value string) Field {
	key := fieldkey.Normalize(label)
	return Field{
		Label:    label,
		Display:  fieldkey.Display(label),
		Key:      key,
		Category: fieldkey.Classify(key),
		Value:    value,
	}
}

// Target is what a strategy writes into.
type Target struct {
	Frame  *Frame
	Styles *style.Registry
	// Spaced lists narrative fields that get 1.5 line spacing instead of a
	// trailing line break.
	Spaced map[fieldkey.Key]bool
}

// Strategy places one field and returns the carry for the next field.
type Strategy func(t *Target, f Field, c Carry) (Carry, error)

// ReserveToken separates the reserve amount from its note.
const ReserveToken = "HST"

// ListBulletStyle is the document style of reserve lines.
const ListBulletStyle = "List Bullet"

// ErrNoReserveToken is returned when an indemnity reserve value does not
// contain ReserveToken.
var ErrNoReserveToken = errors.New("reserve value has no " + ReserveToken + " token")

// DefaultStrategies returns the built-in strategy table.
func DefaultStrategies() map[fieldkey.Category]Strategy {
	return map[fieldkey.Category]Strategy{
		fieldkey.MetadataPrimary:     Metadata,
		fieldkey.MetadataSecondary:   Metadata,
		fieldkey.ReserveNoteProducer: ReserveProducer,
		fieldkey.ReserveNoteConsumer: ReserveConsumer,
		fieldkey.ManagerSignoff:      ManagerSignoff,
		fieldkey.NarrativeSection:    Narrative,
		fieldkey.NarrativeConclusion: Conclusion,
	}
}

// Metadata writes a bold label and the value into the frame. Fields with a
// dedicated row get the value on its own line and an accented label.
func Metadata(t *Target, f Field, c Carry) (Carry, error) {
	cell := t.Frame.Primary()
	if f.Category == fieldkey.MetadataSecondary {
		cell = t.Frame.Secondary()
	}
	row, slotted := fieldkey.Slot(f.Key)
	if slotted {
		cell = t.Frame.Row(row)
	}

	p := cell.AddParagraph("")
	label := p.AddRun(f.Display + ": ")
	if slotted {
		p.AddRun("\n" + f.Value + "\n")
	} else {
		p.AddRun(f.Value)
	}
	t.Styles.Apply(p, style.Normal)
	label.SetBold(true)
	if slotted {
		label.SetColor(t.Styles.Accent())
	}
	return c, nil
}

// ReserveProducer writes the amount up to and including the reserve token
// as a bullet and carries the rest forward as the note.
func ReserveProducer(t *Target, f Field, c Carry) (Carry, error) {
	amount, note, ok := strings.Cut(f.Value, ReserveToken)
	if !ok {
		return c, ErrNoReserveToken
	}
	p := t.Frame.Body().AddStyledParagraph(f.Display+" ", ListBulletStyle)
	run := p.AddRun(amount + ReserveToken)
	t.Styles.Apply(p, style.ListParagraph)
	run.SetBold(false)
	return Carry{Note: strings.TrimSpace(note)}, nil
}

// ReserveConsumer writes the amount as a bullet followed by the carried
// note.
func ReserveConsumer(t *Target, f Field, c Carry) (Carry, error) {
	p := t.Frame.Body().AddStyledParagraph(f.Display+" ", ListBulletStyle)
	value := p.AddRun(f.Value)
	note := p.AddRun("\nNote: " + strings.TrimSpace(c.Note))
	note.AddBreak()
	t.Styles.Apply(p, style.ListParagraph)
	value.SetBold(false)
	note.SetBold(false)
	return c, nil
}

// ManagerSignoff writes the manager's name into the primary metadata cell
// and appends a salutation signed with the full value.
func ManagerSignoff(t *Target, f Field, c Carry) (Carry, error) {
	lines := strings.Split(f.Value, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}

	meta := t.Frame.Primary().AddParagraph("")
	label := meta.AddRun(f.Display + ": ")
	meta.AddRun(lines[0])
	t.Styles.Apply(meta, style.Normal)
	label.SetBold(true)

	p := t.Frame.Body().AddParagraph("")
	p.AddRun("").AddBreak()
	p.AddRun("Thank you,")
	name := p.AddRun("\n" + lines[0])
	for _, l := range lines[1:] {
		p.AddRun("\n" + l)
	}
	t.Styles.Apply(p, style.Normal)
	name.SetBold(true)
	return c, nil
}

// Narrative writes a heading and the value paragraph.
func Narrative(t *Target, f Field, c Carry) (Carry, error) {
	body := t.Frame.Body()
	h := body.AddHeading(f.Display, 2)
	t.Styles.Apply(h, style.Heading3)

	p := body.AddParagraph(f.Value)
	t.Styles.Apply(p, style.Normal)
	if t.Spaced[f.Key] {
		p.SetLineSpacing(1.5)
	} else {
		p.AddRun("").AddBreak()
	}
	return c, nil
}

// Conclusion writes a blank line, then the heading and value paragraph.
func Conclusion(t *Target, f Field, c Carry) (Carry, error) {
	body := t.Frame.Body()
	body.AddParagraph("").AddRun("").AddBreak()

	h := body.AddHeading(f.Display, 2)
	t.Styles.Apply(h, style.Conclusion)

	p := body.AddParagraph(f.Value)
	t.Styles.Apply(p, style.Normal)
	return c, nil
}
