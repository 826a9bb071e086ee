package store

import (
	"strings"

	"rxchat/i18n"
)

// Interaction is one row of the pairwise rulebase. Ingredient keys are
// lowercase English; matching is substring-based so compound
// ingredients ("amoxicillin/clavulanic acid") still hit.
type Interaction struct {
	IngredientA string
	IngredientB string
	Severity    string
	WarningEN   string
	WarningHE   string
}

// Warning returns the localized warning text.
func (x *Interaction) Warning(loc i18n.Locale) string {
	if loc == i18n.Hebrew && x.WarningHE != "" {
		return x.WarningHE
	}
	return x.WarningEN
}

var interactionTable = []*Interaction{
	{
		IngredientA: "ibuprofen",
		IngredientB: "paracetamol",
		Severity:    "moderate",
		WarningEN:   "Combining NSAIDs may increase stomach irritation risk. Take with food.",
		WarningHE:   "שילוב משככי כאבים עלול להגביר גירוי קיבה. יש ליטול עם אוכל.",
	},
	{
		IngredientA: "ibuprofen",
		IngredientB: "metamizole",
		Severity:    "moderate",
		WarningEN:   "Combining NSAIDs may increase stomach irritation risk. Take with food.",
		WarningHE:   "שילוב משככי כאבים עלול להגביר גירוי קיבה. יש ליטול עם אוכל.",
	},
	{
		IngredientA: "warfarin",
		IngredientB: "aspirin",
		Severity:    "major",
		WarningEN:   "Warfarin with aspirin significantly increases bleeding risk. Requires medical supervision.",
		WarningHE:   "ורפרין עם אספירין מעלה משמעותית את הסיכון לדימום. נדרש מעקב רפואי.",
	},
	{
		IngredientA: "warfarin",
		IngredientB: "ibuprofen",
		Severity:    "major",
		WarningEN:   "Warfarin with ibuprofen increases bleeding risk. Avoid unless directed by a doctor.",
		WarningHE:   "ורפרין עם איבופרופן מעלה את הסיכון לדימום. יש להימנע ללא הוראת רופא.",
	},
	{
		IngredientA: "ibuprofen",
		IngredientB: "aspirin",
		Severity:    "moderate",
		WarningEN:   "Ibuprofen may reduce the protective effect of low-dose aspirin. Separate the doses.",
		WarningHE:   "איבופרופן עלול להפחית את ההשפעה המגינה של אספירין במינון נמוך. יש להפריד בין המינונים.",
	},
	{
		IngredientA: "methylphenidate",
		IngredientB: "caffeine",
		Severity:    "moderate",
		WarningEN:   "Methylphenidate with caffeine may raise heart rate and blood pressure. Limit caffeine intake.",
		WarningHE:   "מתילפנידאט עם קפאין עלול להעלות דופק ולחץ דם. יש להגביל צריכת קפאין.",
	},
}

// Interaction looks up the rule for a single ingredient pair, in either
// order. Returns nil when the pair has no known interaction.
func (s *Store) Interaction(a, b string) *Interaction {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	for _, x := range interactionTable {
		if (strings.Contains(la, x.IngredientA) && strings.Contains(lb, x.IngredientB)) ||
			(strings.Contains(lb, x.IngredientA) && strings.Contains(la, x.IngredientB)) {
			return x
		}
	}
	return nil
}

// Interactions runs the rulebase over a set of active ingredients.
// Each rule is reported at most once no matter how many pairs trigger
// it. Results come back in table order.
func (s *Store) Interactions(ingredients []string) []*Interaction {
	lowered := make([]string, len(ingredients))
	for i, ing := range ingredients {
		lowered[i] = strings.ToLower(ing)
	}
	var out []*Interaction
	for _, x := range interactionTable {
		if ruleMatches(lowered, x) {
			out = append(out, x)
		}
	}
	return out
}

func ruleMatches(ingredients []string, x *Interaction) bool {
	for i, a := range ingredients {
		if !strings.Contains(a, x.IngredientA) {
			continue
		}
		for j, b := range ingredients {
			if i != j && strings.Contains(b, x.IngredientB) {
				return true
			}
		}
	}
	return false
}
