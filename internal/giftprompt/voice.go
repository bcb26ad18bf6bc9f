package giftprompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gifty/pkg/llm"
	"gifty/pkg/region"
)

// Parameters the voice assistant collects before it can submit a request.
const (
	ParamOccasion       = "occasion"
	ParamRecipient      = "recipient"
	ParamInterests      = "interests"
	ParamBudget         = "budget"
	ParamGiftPreference = "giftPreference"
)

// RequiredParams lists the parameters that must be known before a request is submitted,
// in the order the assistant asks for them.
var RequiredParams = []string{ParamOccasion, ParamRecipient, ParamInterests, ParamBudget}

const missingValue = "missing"

// VoiceSystemInstruction asks the model for the extraction JSON and nothing else.
const VoiceSystemInstruction = "You extract gift search parameters from what a shopper said. Reply with a single JSON object and no other text."

var ErrVoiceReply = errors.New("voice reply is not valid extraction JSON")

// VoiceParams are the gift search parameters heard so far. Empty means not yet known.
type VoiceParams struct {
	Occasion              string   `json:"occasion"`
	Recipient             string   `json:"recipient"`
	Interests             []string `json:"interests"`
	Budget                string   `json:"budget"`
	GiftPreference        string   `json:"giftPreference"`
	AdditionalPreferences string   `json:"additionalPreferences"`
}

// Missing returns the required parameters that are still unknown.
func (p VoiceParams) Missing() []string {
	var out []string
	for _, param := range RequiredParams {
		switch param {
		case ParamOccasion:
			if p.Occasion == "" {
				out = append(out, param)
			}
		case ParamRecipient:
			if p.Recipient == "" {
				out = append(out, param)
			}
		case ParamInterests:
			if len(p.Interests) == 0 {
				out = append(out, param)
			}
		case ParamBudget:
			if p.Budget == "" {
				out = append(out, param)
			}
		}
	}
	return out
}

// Merge lays newer over p. Known values are replaced only by known values and interests
// accumulate without duplicates.
func (p VoiceParams) Merge(newer VoiceParams) VoiceParams {
	out := p
	out.Interests = append([]string{}, p.Interests...)
	if newer.Occasion != "" {
		out.Occasion = newer.Occasion
	}
	if newer.Recipient != "" {
		out.Recipient = newer.Recipient
	}
	if newer.Budget != "" {
		out.Budget = newer.Budget
	}
	if newer.GiftPreference != "" {
		out.GiftPreference = newer.GiftPreference
	}
	if newer.AdditionalPreferences != "" {
		out.AdditionalPreferences = newer.AdditionalPreferences
	}
	for _, interest := range newer.Interests {
		if !containsFold(out.Interests, interest) {
			out.Interests = append(out.Interests, interest)
		}
	}
	return out
}

var followUps = map[string]string{
	ParamOccasion:       "What's the special occasion we're shopping for?",
	ParamRecipient:      "Who will be receiving this gift?",
	ParamInterests:      "What are their interests or hobbies?",
	ParamBudget:         "What's your budget for this gift?",
	ParamGiftPreference: "Would you prefer a physical gift or an experience?",
}

// FollowUp is the question asked when param is still missing.
func FollowUp(param string) string {
	if q, ok := followUps[param]; ok {
		return q
	}
	return "Could you provide more details about that?"
}

// VoiceCompletion renders the extraction request for one utterance. known is sent along
// so the model can resolve references like "her" or "the same budget".
func VoiceCompletion(utterance string, known VoiceParams, rs region.Settings) llm.CompletionRequest {
	var b strings.Builder
	fmt.Fprintf(&b, "Extract gift search parameters from this input: %q\n\n", strings.TrimSpace(utterance))
	if raw, err := json.Marshal(known); err == nil {
		fmt.Fprintf(&b, "Already known: %s\n\n", raw)
	}
	fmt.Fprintf(&b, "Budgets are in %s (%s).\n\n", rs.Currency, rs.CurrencySymbol)
	b.WriteString(`Reply with this JSON structure:
{
  "parameters": {
    "occasion": "extracted occasion or missing",
    "recipient": "extracted recipient or missing",
    "interests": ["interest1", "interest2"] or "missing",
    "budget": "extracted budget amount or missing",
    "giftPreference": "physical or experience or missing",
    "additionalPreferences": "any extra requirements or missing"
  },
  "missingInfo": ["list of missing required parameters"],
  "nextQuestion": "a natural question to ask for the most important missing information"
}
`)
	return llm.CompletionRequest{
		System:      VoiceSystemInstruction,
		Prompt:      b.String(),
		Temperature: 0.3,
	}
}

type voiceReply struct {
	Parameters struct {
		Occasion              string          `json:"occasion"`
		Recipient             string          `json:"recipient"`
		Interests             json.RawMessage `json:"interests"`
		Budget                json.RawMessage `json:"budget"`
		GiftPreference        string          `json:"giftPreference"`
		AdditionalPreferences string          `json:"additionalPreferences"`
	} `json:"parameters"`
}

var amountPattern = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// ParseVoiceReply reads the extraction JSON, tolerating code fences and prose around it.
// "missing" and unusable values come back empty.
func ParseVoiceReply(text string) (VoiceParams, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return VoiceParams{}, ErrVoiceReply
	}
	var r voiceReply
	if err := json.Unmarshal([]byte(text[start:end+1]), &r); err != nil {
		return VoiceParams{}, fmt.Errorf("%w: %w", ErrVoiceReply, err)
	}

	p := VoiceParams{
		Occasion:              known(r.Parameters.Occasion),
		Recipient:             known(r.Parameters.Recipient),
		Budget:                budgetAmount(r.Parameters.Budget),
		AdditionalPreferences: known(r.Parameters.AdditionalPreferences),
	}
	switch pref := strings.ToLower(known(r.Parameters.GiftPreference)); pref {
	case "physical", "experience":
		p.GiftPreference = pref
	}
	var interests []string
	if json.Unmarshal(r.Parameters.Interests, &interests) == nil {
		for _, interest := range interests {
			if v := known(interest); v != "" && !containsFold(p.Interests, v) {
				p.Interests = append(p.Interests, v)
			}
		}
	}
	return p, nil
}

// budgetAmount keeps the first number of the answer, so "$50" and "about 50 dollars" both
// become "50". Answers without a number count as missing.
func budgetAmount(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) != nil {
		var n json.Number
		if json.Unmarshal(raw, &n) != nil {
			return ""
		}
		s = n.String()
	}
	m := amountPattern.FindString(known(s))
	return strings.ReplaceAll(m, ",", "")
}

func known(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, missingValue) {
		return ""
	}
	return v
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), strings.TrimSpace(v)) {
			return true
		}
	}
	return false
}

const sampleVoiceReply = `{
  "parameters": {
    "occasion": "Birthday",
    "recipient": "Friend",
    "interests": ["Reading"],
    "budget": "50",
    "giftPreference": "physical",
    "additionalPreferences": "missing"
  },
  "missingInfo": [],
  "nextQuestion": ""
}`
