// README: Entities extracted from one utterance.
package extract

// Category is the kind of place the caller is asking about.
type Category string

const (
	CategoryRestaurant Category = "restaurant"
	CategoryBar        Category = "bar"
	CategoryOutdoor    Category = "outdoor"
	CategoryShopping   Category = "shopping"
	CategoryActivity   Category = "activity"
	CategoryHotel      Category = "hotel"
	// CategoryPlace is the generic fallback when nothing more specific matched.
	CategoryPlace Category = "place"
)

// PriceLevel is the caller's stated price preference.
type PriceLevel string

const (
	PriceUnset    PriceLevel = ""
	PriceBudget   PriceLevel = "budget"
	PriceModerate PriceLevel = "moderate"
	PriceUpscale  PriceLevel = "upscale"
)

// Preferences accumulates caller tastes across turns. Atmosphere and
// Cuisine are sets kept as sorted-insertion slices so merges union rather
// than replace.
type Preferences struct {
	PriceLevel     PriceLevel `json:"price_level,omitempty"`
	Atmosphere     []string   `json:"atmosphere,omitempty"`
	Cuisine        []string   `json:"cuisine,omitempty"`
	FamilyFriendly bool       `json:"family_friendly,omitempty"`
}

// Entities is the structured yield of one utterance.
type Entities struct {
	City     string      `json:"city,omitempty"`
	Category Category    `json:"category"`
	Prefs    Preferences `json:"prefs"`
}

// HasAtmosphere reports whether v is already in the atmosphere set.
func (p Preferences) HasAtmosphere(v string) bool {
	return contains(p.Atmosphere, v)
}

// HasCuisine reports whether v is already in the cuisine set.
func (p Preferences) HasCuisine(v string) bool {
	return contains(p.Cuisine, v)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func appendUnique(set []string, v string) []string {
	if contains(set, v) {
		return set
	}
	return append(set, v)
}
