package giftprompt

import (
	"fmt"
	"strings"

	"gifty/internal/models/request_models"
	"gifty/pkg/region"
)

// PreferencesHeading marks the refinement section of a prompt.
const PreferencesHeading = "### Special Requirements"

const physicalCatalog = `## Mode 1: Physical Gifts (Available in Local Stores)
Tangible items that can be collected quickly from nearby shops:
- Flowers: fresh bouquets, floral baskets, orchid or tulip arrangements
- Chocolates: branded boxes, handmade chocolates, truffle assortments
- Scented candles: vanilla, lavender, sandalwood, aromatherapy jars
- Greeting cards: handcrafted, pop-up or musical cards, cards with a small token
- Personal care kits: travel skincare sets, spa kits, grooming kits
- Snack and beverage hampers: artisanal coffee, tea sets, cookie or cheese boxes
- Books or magazines: bestsellers, coffee table books, local subscriptions
- Quick electronics: earbuds, phone stands, power banks, digital photo frames
- Miscellaneous: potted succulents, local crafts, reusable gift bags`

const experienceCatalog = `## Mode 2: Experience Gifts (Available Online)
Digital gifts that can be bought and delivered instantly:
- Gift cards: marketplace, restaurant delivery, spa and wellness
- Subscriptions: streaming, audiobooks, hobby kits, language learning
- E-courses or workshops: online classes in their areas of interest
- E-books or audiobooks: fiction, self-help, business titles
- Experience vouchers: VR sessions, virtual escape rooms, online cooking classes
- Charity donations made in their name
- Custom digital gifts: personalised video messages, digital portraits
- Event tickets: concerts, sports, online shows and conferences`

// Build renders the primary instruction asking for exactly four suggestions.
func Build(req request_models.GiftRequest, rs region.Settings) string {
	f := Primary
	budget := rs.FormatBudget(req.Budget)

	var b strings.Builder
	fmt.Fprintf(&b, "As an AI gift advisor, I need you to provide %s (%s gifts) available on Amazon %s (%s) for this scenario. ",
		f.CountPhrase(), preference(req), rs.Country, rs.Marketplace)
	fmt.Fprintf(&b, "The budget is %s and suggestions must be available in the %s market.\n\n", budget, rs.MarketAdjective)

	fmt.Fprintf(&b, "Occasion: %s\n", req.Occasion)
	fmt.Fprintf(&b, "Recipient: %s\n", req.Recipient)
	fmt.Fprintf(&b, "Their Interests: %s\n", strings.Join(req.Interests, ", "))
	fmt.Fprintf(&b, "Budget: %s\n", budget)
	fmt.Fprintf(&b, "Region: %s\n", rs.Country)
	fmt.Fprintf(&b, "Marketplace: %s\n", rs.Marketplace)

	writePreferences(&b, req.AdditionalPreferences)

	b.WriteString("\nPlease format each suggestion exactly as follows:\n\n")
	b.WriteString(f.Template(rs.Currency))

	b.WriteString("\nImportant Guidelines:\n")
	b.WriteString("- Start every suggestion with its own \"Gift N:\" header and never merge two gifts into one block\n")
	b.WriteString("- Each suggestion must be unique and creative\n")
	fmt.Fprintf(&b, "- Focus on items available on %s\n", rs.Marketplace)
	fmt.Fprintf(&b, "- Keep descriptions to %d words\n", f.DescriptionWords)
	b.WriteString("- Focus on personalized gifts that match their interests\n")
	b.WriteString("- Avoid generic suggestions\n")
	fmt.Fprintf(&b, "- CRITICAL: Stay strictly within the budget of %s\n", budget)
	fmt.Fprintf(&b, "- CRITICAL: Consider regional pricing and availability in %s\n", rs.Country)

	fmt.Fprintf(&b, "\nRemember: I need %s, formatted precisely as shown above, and all of them must be available in the %s market within the budget of %s.",
		f.CountPhrase(), rs.MarketAdjective, budget)

	return b.String()
}

// BuildQuick renders the last-minute variant asking for five to six detailed suggestions.
func BuildQuick(req request_models.GiftRequest, rs region.Settings) string {
	f := Quick
	budget := rs.FormatBudget(req.Budget)

	catalog := physicalCatalog
	if req.GiftPreference == request_models.GiftPreferenceExperience {
		catalog = experienceCatalog
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a highly skilled gift recommendation expert. Based on the details and gift categories below, suggest %s that match the recipient's profile and occasion. ",
		f.CountPhrase())
	b.WriteString("Each suggestion must be practical, available for immediate purchase, and fit the budget and preferences.\n\n")

	b.WriteString(catalog)
	b.WriteString("\n\nRecipient Profile:\n")
	fmt.Fprintf(&b, "- Occasion: %s\n", req.Occasion)
	fmt.Fprintf(&b, "- Recipient: %s\n", req.Recipient)
	fmt.Fprintf(&b, "- Interests: %s\n", strings.Join(req.Interests, ", "))
	fmt.Fprintf(&b, "- Budget: %s\n", budget)
	if age := strings.TrimSpace(req.Age); age != "" {
		fmt.Fprintf(&b, "- Age: %s years old\n", age)
	}
	fmt.Fprintf(&b, "- Region: %s\n", rs.Country)
	fmt.Fprintf(&b, "- Marketplace: %s\n", rs.Marketplace)

	writePreferences(&b, req.AdditionalPreferences)

	b.WriteString("\nFormat each suggestion exactly as follows:\n\n")
	b.WriteString(f.Template(rs.Currency))

	b.WriteString("\nImportant Guidelines:\n")
	b.WriteString("- All suggestions must come from the category list above\n")
	b.WriteString("- Focus on gifts that are readily available for immediate purchase\n")
	fmt.Fprintf(&b, "- CRITICAL: Ensure each suggestion fits within the budget of %s\n", budget)
	b.WriteString("- Consider the recipient's age and interests\n")
	fmt.Fprintf(&b, "- CRITICAL: Suggest products commonly available on %s and local stores in %s\n", rs.Marketplace, rs.Country)
	fmt.Fprintf(&b, "- CRITICAL: All prices must be in %s (%s)\n", rs.Currency, rs.CurrencySymbol)

	fmt.Fprintf(&b, "\nRemember: I need %s that can be purchased today, each one personal and thoughtful.", f.CountPhrase())

	return b.String()
}

// SystemInstruction is the fixed system message sent alongside a prompt built for f.
func SystemInstruction(f Format) string {
	labels := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		labels = append(labels, field.Label)
	}
	return fmt.Sprintf(
		"You are a gift suggestion expert. You MUST ALWAYS provide %s, no more and no less. "+
			"Format each suggestion starting with \"%s X:\" followed by %s on separate lines with colons. "+
			"Never suggest generic items like chargers or generic tech accessories unless specifically requested. "+
			"Descriptions should be about %d words long.",
		f.CountPhrase(), f.BlockLabel, joinLabels(labels), f.DescriptionWords)
}

func writePreferences(b *strings.Builder, prefs string) {
	prefs = strings.TrimSpace(prefs)
	if prefs == "" {
		return
	}
	fmt.Fprintf(b, "\n%s\n%s\n", PreferencesHeading, prefs)
	b.WriteString("Prioritize these requirements over the interests listed above.\n")
}

func preference(req request_models.GiftRequest) string {
	if req.GiftPreference == "" {
		return string(request_models.GiftPreferencePhysical)
	}
	return string(req.GiftPreference)
}

func joinLabels(labels []string) string {
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	}
	return strings.Join(labels[:len(labels)-1], ", ") + " and " + labels[len(labels)-1]
}
