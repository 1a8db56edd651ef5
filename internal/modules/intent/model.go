// README: Dialogue-action taxonomy produced by the classifier.
package intent

// Kind is the dialogue action a single utterance maps to.
type Kind string

const (
	KindGreeting        Kind = "GREETING"
	KindFarewell        Kind = "FAREWELL"
	KindAffirmation     Kind = "AFFIRMATION"
	KindNegation        Kind = "NEGATION"
	KindPlaceReference  Kind = "PLACE_REFERENCE"
	KindAspectQuery     Kind = "ASPECT_QUERY"
	KindGetAlternatives Kind = "GET_ALTERNATIVES"
	KindNewSearch       Kind = "NEW_SEARCH"
)

// Sub refines an affirmation by what the dialogue state makes it mean.
type Sub string

const (
	SubNone Sub = ""
	// SubMoreDetail: a place is being discussed, "yes" means tell me more about it.
	SubMoreDetail Sub = "more_detail"
	// SubMoreResults: unshown results remain, "yes" means keep going.
	SubMoreResults Sub = "more_results"
	// SubRepeatSearch: nothing pending, but prior cuisine preference exists.
	SubRepeatSearch Sub = "repeat_search"
)

// Aspect names the facet of a place an aspect query asks about.
type Aspect string

const (
	AspectPrice      Aspect = "price"
	AspectHours      Aspect = "hours"
	AspectLocation   Aspect = "location"
	AspectMenu       Aspect = "menu"
	AspectAtmosphere Aspect = "atmosphere"
	AspectParking    Aspect = "parking"
	AspectReviews    Aspect = "reviews"
)

// Intent is the classification of one utterance.
type Intent struct {
	Kind       Kind
	Sub        Sub
	Aspect     Aspect
	Confidence float64
	// Degraded marks a classification that fell back to NEW_SEARCH after
	// an internal rule failure.
	Degraded bool
}

// Context is the slice of dialogue state the precedence rules read. Kept
// as a plain snapshot so the classifier stays a pure, independently
// testable function.
type Context struct {
	HasResults      bool // current front page or remaining queue non-empty
	HasRemaining    bool
	CurrentPlaceSet bool
	HasCuisinePref  bool
}
