package ai

// Task selects the narration shape the composer should produce.
type Task string

const (
	// TaskResults narrates a fresh set of recommendations.
	TaskResults Task = "results"
	// TaskPlaceOverview gives a first-pass summary of one place.
	TaskPlaceOverview Task = "place_overview"
	// TaskPlaceDeep digs into detail on a place already discussed.
	TaskPlaceDeep Task = "place_deep"
	// TaskAspect answers a focused question (hours, price, parking...).
	TaskAspect Task = "aspect"
)

// PlaceFact is the flattened, composer-facing view of one place.
type PlaceFact struct {
	Title       string  `json:"title"`
	Category    string  `json:"category,omitempty"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	PriceLevel  string  `json:"price_level,omitempty"`
	Address     string  `json:"address,omitempty"`
	Hours       string  `json:"hours,omitempty"`
	About       string  `json:"about,omitempty"`
}

// Prompt carries everything the composer needs for one reply.
type Prompt struct {
	Task Task `json:"task"`

	// Query is what the caller actually said this turn.
	Query string `json:"query"`

	// City the conversation is anchored to, for phrasing only.
	City string `json:"city,omitempty"`

	// Places are the facts to narrate. One entry for place tasks, up to a
	// front page for results tasks.
	Places []PlaceFact `json:"places"`

	// Aspect names the focused attribute for TaskAspect (e.g. "parking").
	Aspect string `json:"aspect,omitempty"`

	// Preferences the caller has voiced so far, pre-rendered as short
	// phrases ("budget-friendly", "romantic").
	Preferences []string `json:"preferences,omitempty"`
}
