// Package giftprompt renders gift requests into generator instructions and parses the
// generator's free-text reply back into suggestions. Both directions read the same Format,
// so a change to the reply grammar is made in one place.
package giftprompt

import (
	"fmt"
	"strings"
)

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldReason      = "reason"
	FieldWhereToBuy  = "whereToBuy"
)

// Field is one "Label: value" line inside a suggestion block.
type Field struct {
	Key      string
	Label    string
	Hint     string
	Aliases  []string
	Required bool
}

// Format describes the reply grammar: "<BlockLabel> <n>:" headers followed by labelled lines.
type Format struct {
	Name             string
	BlockLabel       string
	Min              int
	Max              int
	DescriptionWords int
	Fields           []Field
}

var Primary = Format{
	Name:             "primary",
	BlockLabel:       "Gift",
	Min:              4,
	Max:              4,
	DescriptionWords: 10,
	Fields: []Field{
		{Key: FieldName, Label: "Name", Hint: "gift name", Aliases: []string{"name"}, Required: true},
		{Key: FieldDescription, Label: "Description", Hint: "brief description in exactly 10 words", Aliases: []string{"description"}, Required: true},
	},
}

var Quick = Format{
	Name:             "quick",
	BlockLabel:       "Gift",
	Min:              5,
	Max:              6,
	DescriptionWords: 10,
	Fields: []Field{
		{Key: FieldName, Label: "Gift name", Hint: "specific product name or experience", Aliases: []string{"name"}, Required: true},
		{Key: FieldPrice, Label: "Estimated price", Hint: "price in %s", Aliases: []string{"price"}},
		{Key: FieldReason, Label: "Why it's perfect", Hint: "2-3 sentences on why this matches the recipient and occasion", Aliases: []string{"why", "reason"}},
		{Key: FieldWhereToBuy, Label: "Where to buy", Hint: "specific stores or online platforms", Aliases: []string{"where"}},
		{Key: FieldDescription, Label: "Description", Hint: "brief description with key features", Aliases: []string{"description"}, Required: true},
	},
}

// CountPhrase is the literal count instruction repeated at the start and end of a prompt.
func (f Format) CountPhrase() string {
	if f.Min == f.Max {
		return fmt.Sprintf("exactly %d gift suggestions", f.Min)
	}
	return fmt.Sprintf("between %d and %d gift suggestions", f.Min, f.Max)
}

// Template renders the block layout the generator is asked to reproduce.
// currency fills any "%s" placeholder in field hints.
func (f Format) Template(currency string) string {
	var b strings.Builder
	for i := 1; i <= f.Max; i++ {
		if i > 1 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %d:\n", f.BlockLabel, i)
		if i > 1 {
			b.WriteString("[same format]\n")
			continue
		}
		for _, field := range f.Fields {
			hint := field.Hint
			if strings.Contains(hint, "%s") {
				hint = fmt.Sprintf(hint, currency)
			}
			fmt.Fprintf(&b, "%s: [%s]\n", field.Label, hint)
		}
	}
	return b.String()
}

func (f Format) field(label string) (Field, bool) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	if normalized == "" {
		return Field{}, false
	}
	for _, field := range f.Fields {
		for _, alias := range field.Aliases {
			if strings.Contains(normalized, alias) {
				return field, true
			}
		}
	}
	return Field{}, false
}
