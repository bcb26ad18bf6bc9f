package giftprompt

import (
	"fmt"
	"strings"
)

var fallbackLines = map[string][]string{
	Primary.Name: {
		"A thoughtful gift suggestion while the service is unavailable",
		"Another thoughtful gift suggestion while the service is unavailable",
		"A third thoughtful gift suggestion while the service is unavailable",
		"A fourth thoughtful gift suggestion while the service is unavailable",
	},
	Quick.Name: {
		"Perfect local gift for immediate gifting needs",
		"Readily available gift at nearby stores",
		"Easy to find thoughtful gift option",
		"Quick and meaningful gift choice nearby",
		"Last-minute gift that never disappoints",
	},
}

// FallbackReply is a well-formed reply used when the generator fails or answers off-format.
// It parses cleanly with the parser matching f.
func FallbackReply(f Format) string {
	return staticReply(f, "Fallback Gift")
}

// SampleReply stands in for the generator when no provider credentials are configured.
func SampleReply(f Format) string {
	return staticReply(f, "Sample Gift")
}

func staticReply(f Format, prefix string) string {
	lines, ok := fallbackLines[f.Name]
	if !ok {
		lines = fallbackLines[Primary.Name]
	}

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n\n")
		}
		name := prefix
		if i > 0 {
			name = fmt.Sprintf("%s %d", prefix, i+1)
		}
		fmt.Fprintf(&b, "%s %d:\n", f.BlockLabel, i+1)
		for _, field := range f.Fields {
			switch field.Key {
			case FieldName:
				fmt.Fprintf(&b, "%s: %s\n", field.Label, name)
			case FieldDescription:
				fmt.Fprintf(&b, "%s: %s\n", field.Label, line)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// SampleFor returns the sample reply in the grammar the system instruction asks for.
func SampleFor(system string) string {
	if system == VoiceSystemInstruction {
		return sampleVoiceReply
	}
	if system == SystemInstruction(Quick) {
		return SampleReply(Quick)
	}
	return SampleReply(Primary)
}
