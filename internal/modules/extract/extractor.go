// README: Keyword-table entity extraction; pure function of (text, inherited state).
package extract

import "strings"

// gazetteer is the fixed city lexicon. Declaration order is the tie-break:
// on overlapping substrings the earliest-declared city wins.
var gazetteer = []struct {
	Name  string
	State string
}{
	{"New York", "New York"},
	{"Los Angeles", "California"},
	{"Chicago", "Illinois"},
	{"Houston", "Texas"},
	{"Phoenix", "Arizona"},
	{"Philadelphia", "Pennsylvania"},
	{"San Antonio", "Texas"},
	{"San Diego", "California"},
	{"Dallas", "Texas"},
	{"San Jose", "California"},
	{"Austin", "Texas"},
	{"Jacksonville", "Florida"},
	{"Fort Worth", "Texas"},
	{"Columbus", "Ohio"},
	{"San Francisco", "California"},
	{"Charlotte", "North Carolina"},
	{"Indianapolis", "Indiana"},
	{"Seattle", "Washington"},
	{"Denver", "Colorado"},
	{"Boston", "Massachusetts"},
}

// categoryRules maps keywords to a category. Table order is the contract:
// the first rule with any matching keyword wins, regardless of how many
// keywords from later rules also appear.
var categoryRules = []struct {
	Category Category
	Keywords []string
}{
	{CategoryOutdoor, []string{"trail", "park", "hiking", "garden", "nature", "outdoor", "playground"}},
	{CategoryRestaurant, []string{"restaurant", "food", "eat", "dining", "cuisine", "breakfast", "lunch", "dinner"}},
	{CategoryBar, []string{"bar", "pub", "drink", "club", "lounge"}},
	{CategoryShopping, []string{"shop", "store", "mall", "market"}},
	{CategoryActivity, []string{"activity", "attraction", "entertainment", "museum", "things to do"}},
	{CategoryHotel, []string{"hotel", "motel", "stay", "accommodation"}},
}

var priceRules = []struct {
	Level    PriceLevel
	Keywords []string
}{
	{PriceBudget, []string{"cheap", "affordable", "budget", "inexpensive"}},
	{PriceUpscale, []string{"expensive", "fancy", "high-end", "upscale", "luxury"}},
	{PriceModerate, []string{"moderate", "reasonable", "mid-range"}},
}

var atmosphereRules = []struct {
	Value    string
	Keywords []string
}{
	{"romantic", []string{"romantic", "date"}},
	{"quiet", []string{"quiet", "peaceful"}},
	{"casual", []string{"casual", "relaxed"}},
	{"outdoor", []string{"outdoor", "patio", "rooftop"}},
	{"family-friendly", []string{"family", "families"}},
}

var cuisineWords = []string{
	"mexican", "italian", "chinese", "indian", "japanese",
	"thai", "mediterranean", "bbq", "american", "sushi", "ramen",
}

var familyWords = []string{"kid", "kids", "child", "children", "family", "families"}

// Extract pulls city, category, and preference tokens from an utterance.
// City and category fall back to the inherited values when absent; the
// category defaults to the generic place category last. It never fails:
// a miss yields an empty field.
func Extract(text, inheritedCity string, inheritedCategory Category) Entities {
	lower := strings.ToLower(text)

	e := Entities{
		City:     extractCity(lower),
		Category: extractCategory(lower),
	}
	if e.City == "" {
		e.City = inheritedCity
	}
	if e.Category == "" {
		e.Category = inheritedCategory
	}
	if e.Category == "" {
		e.Category = CategoryPlace
	}

	for _, rule := range priceRules {
		if containsAny(lower, rule.Keywords) {
			e.Prefs.PriceLevel = rule.Level
			break
		}
	}
	for _, rule := range atmosphereRules {
		if containsAny(lower, rule.Keywords) {
			e.Prefs.Atmosphere = appendUnique(e.Prefs.Atmosphere, rule.Value)
		}
	}
	for _, cuisine := range cuisineWords {
		if strings.Contains(lower, cuisine) {
			e.Prefs.Cuisine = appendUnique(e.Prefs.Cuisine, cuisine)
		}
	}
	e.Prefs.FamilyFriendly = containsAny(lower, familyWords)

	return e
}

// CityState returns the gazetteer state for a recognized city, or "".
func CityState(city string) string {
	for _, g := range gazetteer {
		if strings.EqualFold(g.Name, city) {
			return g.State
		}
	}
	return ""
}

func extractCity(lower string) string {
	// "in {city}" outranks a bare mention so "Austin style food in Dallas"
	// resolves to Dallas.
	for _, g := range gazetteer {
		name := strings.ToLower(g.Name)
		if strings.Contains(lower, "in "+name) || strings.Contains(lower, "in the "+name) {
			return g.Name
		}
	}
	for _, g := range gazetteer {
		if strings.Contains(lower, strings.ToLower(g.Name)) {
			return g.Name
		}
	}
	return ""
}

func extractCategory(lower string) Category {
	for _, rule := range categoryRules {
		if containsAny(lower, rule.Keywords) {
			return rule.Category
		}
	}
	return ""
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
