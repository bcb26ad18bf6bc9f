package giftprompt

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"gifty/internal/models/response_models"
)

type ParseErrorKind string

const (
	WrongCount   ParseErrorKind = "wrong_count"
	MissingField ParseErrorKind = "missing_field"
	TooFew       ParseErrorKind = "too_few"
)

// ParseError reports a generator reply that does not follow the expected grammar.
type ParseError struct {
	Kind  ParseErrorKind
	Want  int
	Got   int
	Block int
	Field string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case WrongCount:
		return fmt.Sprintf("expected exactly %d gift suggestions, got %d", e.Want, e.Got)
	case MissingField:
		return fmt.Sprintf("gift suggestion %d is missing %s", e.Block, e.Field)
	case TooFew:
		return fmt.Sprintf("expected at least %d gift suggestions, got %d", e.Want, e.Got)
	}
	return "malformed gift suggestions"
}

// SuggestionParser turns a generator reply into suggestions. Implementations are pure.
type SuggestionParser interface {
	Parse(text string) ([]response_models.GiftSuggestion, error)
}

// PrimaryParser accepts a reply only if it holds exactly Format.Min blocks and every block
// carries all required fields.
type PrimaryParser struct {
	Format Format
}

func NewPrimaryParser() PrimaryParser {
	return PrimaryParser{Format: Primary}
}

func (p PrimaryParser) Parse(text string) ([]response_models.GiftSuggestion, error) {
	blocks := splitBlocks(p.Format, text)
	if len(blocks) != p.Format.Min {
		return nil, &ParseError{Kind: WrongCount, Want: p.Format.Min, Got: len(blocks)}
	}

	out := make([]response_models.GiftSuggestion, 0, len(blocks))
	for i, block := range blocks {
		s, values := parseBlock(p.Format, block)
		if missing := missingRequired(p.Format, values); missing != "" {
			return nil, &ParseError{Kind: MissingField, Block: i + 1, Field: missing}
		}
		out = append(out, s)
	}
	return out, nil
}

// QuickParser drops blocks lacking a required field and keeps at most Format.Max of the rest.
// It fails only when fewer than MinAccepted suggestions survive.
type QuickParser struct {
	Format      Format
	MinAccepted int
}

func NewQuickParser(minAccepted int) QuickParser {
	if minAccepted < 1 {
		minAccepted = 1
	}
	return QuickParser{Format: Quick, MinAccepted: minAccepted}
}

func (p QuickParser) Parse(text string) ([]response_models.GiftSuggestion, error) {
	out := make([]response_models.GiftSuggestion, 0, p.Format.Max)
	for _, block := range splitBlocks(p.Format, text) {
		s, values := parseBlock(p.Format, block)
		if missingRequired(p.Format, values) != "" {
			continue
		}
		out = append(out, s)
		if p.Format.Max > 0 && len(out) == p.Format.Max {
			break
		}
	}
	if len(out) < p.MinAccepted {
		return nil, &ParseError{Kind: TooFew, Want: p.MinAccepted, Got: len(out)}
	}
	return out, nil
}

// headerPatterns holds one compiled "<label> <n>:" pattern per block label.
var headerPatterns sync.Map

func headerPattern(label string) *regexp.Regexp {
	if re, ok := headerPatterns.Load(label); ok {
		return re.(*regexp.Regexp)
	}
	re, _ := headerPatterns.LoadOrStore(label, regexp.MustCompile(regexp.QuoteMeta(label)+` \d+:`))
	return re.(*regexp.Regexp)
}

func splitBlocks(f Format, text string) []string {
	parts := headerPattern(f.BlockLabel).Split(text, -1)
	blocks := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			blocks = append(blocks, part)
		}
	}
	return blocks
}

// parseBlock reads "label: value" lines. The label ends at the first colon, so values may
// contain colons; lines with an empty label or value are skipped.
func parseBlock(f Format, block string) (response_models.GiftSuggestion, map[string]string) {
	values := map[string]string{}
	for _, line := range strings.Split(block, "\n") {
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		label = strings.TrimSpace(label)
		value = strings.TrimSpace(value)
		if label == "" || value == "" {
			continue
		}
		field, ok := f.field(label)
		if !ok {
			continue
		}
		values[field.Key] = value
	}

	return response_models.GiftSuggestion{
		Name:        values[FieldName],
		Description: values[FieldDescription],
		Price:       values[FieldPrice],
		Reason:      values[FieldReason],
		WhereToBuy:  values[FieldWhereToBuy],
	}, values
}

func missingRequired(f Format, values map[string]string) string {
	for _, field := range f.Fields {
		if field.Required && values[field.Key] == "" {
			return field.Label
		}
	}
	return ""
}
