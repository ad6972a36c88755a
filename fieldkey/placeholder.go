package fieldkey

// Placeholders maps the tokens of a fill-mode template to the field whose
// value replaces them.
var Placeholders = map[string]Key{
	"{{POLICY_HOLDER}}":         Policyholder,
	"{{ADDRESS}}":               Address,
	"{{INSURER}}":               Insurer,
	"{{CLAIM#}}":                ClaimNumber,
	"{{ADJUSTER}}":              Adjuster,
	"{{GC}}":                    AssignedGC,
	"{{PM}}":                    ProductManager,
	"{{CONTACT}}":               PMContact,
	"{{DATE_OF_LOSS}}":          DateOfLoss,
	"{{DA}}":                    DateAssigned,
	"{{DI}}":                    DateOfInspection,
	"{{DR}}":                    DateOfReport,
	"{{LOSS}}":                  TypeOfLoss,
	"{{DESCRIPTION_OF_RISK}}":   DescriptionOfRisk,
	"{{CAUSE_OF_LOSS}}":         CauseOfLoss,
	"{{ORIGINS_OF_LOSS}}":       "origins of loss",
	"{{SCOPE_OF_WORK}}":         "scope of work",
	"{{INSURED_CONTENTS_LOSS}}": "insured contents loss",
	"{{TRINITY_RESERVES}}":      "trinity reserves",
	"{{PLAN_OF_ACTION}}":        "plan of action",
	"{{SIGNATURE}}":             ProductManager,
}

// Replacements builds the placeholder values for one record. lookup returns
// the value of the first column whose label normalizes to the key; tokens
// whose field is absent are replaced with "".
func Replacements(lookup func(Key) (string, bool)) map[string]string {
	out := make(map[string]string, len(Placeholders))
	for token, key := range Placeholders {
		v, _ := lookup(key)
		out[token] = v
	}
	return out
}
