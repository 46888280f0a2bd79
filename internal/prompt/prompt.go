// Package prompt constructs the research prompt sent to the agent process.
// The output-format contract matters more than the prose: the engine's
// result extractor expects the final answer as a fenced JSON object in the
// agent's last text message.
package prompt

import (
	"fmt"
	"strings"

	"github.com/opencatalog/researchd/internal/domain"
)

// BuildResearch renders the set-decomposition research prompt for a product
// group and its catalog context.
func BuildResearch(subjectKey string, entries []domain.InputEntry, matched []domain.MatchedProduct) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a medical device pricing researcher. Decompose the set-scoped product group %q into its components and estimate a price for each component in EUR.\n\n", subjectKey)

	b.WriteString("## Group entries\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "- %s", e.Code)
		if e.Description != "" {
			fmt.Fprintf(&b, ": %s", e.Description)
		}
		if e.PriceEUR > 0 {
			fmt.Fprintf(&b, " (%.2f EUR", e.PriceEUR)
			if e.PriceScope != "" {
				fmt.Fprintf(&b, ", %s-scoped", e.PriceScope)
			}
			b.WriteString(")")
		}
		if e.Manufacturer != "" {
			fmt.Fprintf(&b, " — %s", e.Manufacturer)
		}
		if e.Country != "" {
			fmt.Fprintf(&b, " [%s]", e.Country)
		}
		b.WriteString("\n")
	}

	if len(matched) > 0 {
		b.WriteString("\n## Matched catalog products\n\n")
		b.WriteString("Use these as pricing evidence where the component types line up:\n\n")
		for _, m := range matched {
			fmt.Fprintf(&b, "- %s", m.Name)
			if m.Manufacturer != "" {
				fmt.Fprintf(&b, " (%s)", m.Manufacturer)
			}
			if m.PriceEUR > 0 {
				fmt.Fprintf(&b, ": %.2f EUR", m.PriceEUR)
			}
			if m.EmdnCode != "" {
				fmt.Fprintf(&b, " [EMDN %s]", m.EmdnCode)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n## Output format\n\n")
	b.WriteString("Research the components, then end your reply with exactly one fenced JSON block:\n\n")
	b.WriteString("```json\n")
	b.WriteString(`{
  "components": [
    {
      "component_type": "...",
      "description": "...",
      "estimated_price_eur": 0,
      "fraction_of_set": 0,
      "confidence": "high|medium|low",
      "evidence_source": "...",
      "reasoning": "..."
    }
  ],
  "reasoning": "...",
  "confidence": "high|medium|low"
}
`)
	b.WriteString("```\n\n")
	b.WriteString("Component fractions must sum to 1. The JSON block must be the last thing in your reply.\n")

	return b.String()
}
