package fieldkey

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		label string
		want  Key
	}{
		{"Policyholder", "policyholder"},
		{"  Insurer  ", "insurer"},
		{"Date of Loss (dd/mm/yyyy)", "date of loss"},
		{"Date of Loss (DD/MM/YYYY):", "date of loss"},
		{"Type of Loss (Select one)", "type of loss"},
		{"Type of Loss (select from list):", "type of loss"},
		{"Indemnity Reserves:", "indemnity reserves:"},
		{"CLAIM #", "claim #"},
		{"Recommended Reserves for Trinity's Involvement:", "recommended reserves for trinity's involvement:"},
		{"Notes (optional)", "notes (optional)"},
		{"", ""},
		{"Straße", "strasse"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := Normalize(tt.label); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	labels := []string{
		"Date of Loss (dd/mm/yyyy):",
		"Type of Loss (Select) (dd/mm/yyyy)",
		"X (dd/mm/yyyy) (dd/mm/yyyy):",
		"(select)(select)",
		"  ((select)) : ",
		"Cause of Loss\t(SELECT ONE):",
		"ǅ Title Case Digraph",
		"Σίσυφος",
	}
	for _, label := range labels {
		once := Normalize(label)
		twice := Normalize(string(once))
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", label, once, twice)
		}
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct{ label, want string }{
		{"Date of Loss (dd/mm/yyyy):", "Date of Loss"},
		{"Indemnity Reserves:", "Indemnity Reserves:"},
		{" Scope of Work ", "Scope of Work"},
		{"Type of Loss (Select one)", "Type of Loss"},
	}
	for _, tt := range tests {
		if got := Display(tt.label); got != tt.want {
			t.Errorf("Display(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestClassifyTable(t *testing.T) {
	want := map[Key]Category{
		"policyholder":        MetadataPrimary,
		"address":             MetadataPrimary,
		"insurer":             MetadataPrimary,
		"adjuster":            MetadataPrimary,
		"description of risk": MetadataPrimary,
		"date of inspection":  MetadataPrimary,
		"date of loss":        MetadataPrimary,
		"type of loss":        MetadataPrimary,
		"cause of loss":       MetadataPrimary,
		"claim #":             MetadataSecondary,
		"date of report":      MetadataSecondary,
		"date assigned":       MetadataSecondary,
		"assigned gc":         MetadataSecondary,
		"pm contact":          MetadataSecondary,
		"indemnity reserves:": ReserveNoteProducer,
		"expense reserves:":   ReserveNoteConsumer,
		"product manager":     ManagerSignoff,
		"conclusion":          NarrativeConclusion,
	}

	got := make(map[Key]Category, len(want))
	for k := range want {
		got[k] = Classify(k)
		if !Known(k) {
			t.Errorf("Known(%q) = false", k)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Classify mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyDefault(t *testing.T) {
	for _, k := range []Key{"scope of work", "origins of loss", TrinityReserves, "indemnity reserves", "", "conclusion:"} {
		if got := Classify(k); got != NarrativeSection {
			t.Errorf("Classify(%q) = %v, want narrative-section", k, got)
		}
		if Known(k) {
			t.Errorf("Known(%q) = true", k)
		}
	}
}

func TestClassifyNormalizedLabels(t *testing.T) {
	if got := Classify(Normalize("Date Assigned (dd/mm/yyyy):")); got != MetadataSecondary {
		t.Errorf("got %v, want metadata-secondary", got)
	}
	if got := Classify(Normalize("CONCLUSION")); got != NarrativeConclusion {
		t.Errorf("got %v, want narrative-conclusion", got)
	}
}

func TestSlot(t *testing.T) {
	if row, ok := Slot(DescriptionOfRisk); !ok || row != 2 {
		t.Errorf("Slot(description of risk) = %d, %v", row, ok)
	}
	if row, ok := Slot(CauseOfLoss); !ok || row != 3 {
		t.Errorf("Slot(cause of loss) = %d, %v", row, ok)
	}
	if _, ok := Slot(Insurer); ok {
		t.Error("insurer should not have a dedicated slot")
	}
}

func TestCategoryString(t *testing.T) {
	if ReserveNoteConsumer.String() != "reserve-note-consumer" {
		t.Errorf("String() = %q", ReserveNoteConsumer.String())
	}
	if Category(42).String() != "unknown" {
		t.Error("out of range category should be unknown")
	}
	if !MetadataSecondary.IsMetadata() || ManagerSignoff.IsMetadata() {
		t.Error("IsMetadata() wrong")
	}
}

func TestReplacements(t *testing.T) {
	values := map[Key]string{
		Insurer:         "Acme",
		ProductManager:  "Jane Doe",
		"scope of work": "Dry out",
	}
	got := Replacements(func(k Key) (string, bool) {
		v, ok := values[k]
		return v, ok
	})

	if got["{{INSURER}}"] != "Acme" || got["{{SCOPE_OF_WORK}}"] != "Dry out" {
		t.Errorf("unexpected replacements: %v", got)
	}
	if got["{{PM}}"] != "Jane Doe" || got["{{SIGNATURE}}"] != "Jane Doe" {
		t.Error("PM and SIGNATURE should both take the product manager")
	}
	if v, ok := got["{{ADDRESS}}"]; !ok || v != "" {
		t.Errorf("absent field should map to empty string, got %q (%v)", v, ok)
	}
	if len(got) != len(Placeholders) {
		t.Errorf("expected %d tokens, got %d", len(Placeholders), len(got))
	}
}
