// README: Ordered-rule intent classifier; precedence is the contract.
package intent

import (
	"log"
	"strings"
)

// degradedConfidence is the fixed low-confidence marker attached when rule
// evaluation fails internally and classification falls back to NEW_SEARCH.
const degradedConfidence = 0.2

var referencePhrases = []string{
	"first one", "second one", "third one", "last one",
	"tell me more", "more about", "what about",
	"can you tell me about", "first place", "that one", "this one",
}

var ordinalWords = []string{"first", "second", "third", "last"}

var greetingWords = []string{"hi", "hello", "hey", "greetings"}

var farewellWords = []string{"bye", "goodbye", "thank", "thanks"}

// Affirmative and negative sets are exact-match on the whole trimmed
// utterance; substring matching here would swallow real queries.
var affirmativeTokens = map[string]bool{
	"yes": true, "yeah": true, "sure": true, "okay": true, "yep": true, "yup": true,
}

var negativeTokens = map[string]bool{
	"no": true, "nope": true, "nah": true, "not": true,
}

// aspectRules is ordered; the first aspect with a matching keyword wins.
var aspectRules = []struct {
	Aspect   Aspect
	Keywords []string
}{
	{AspectPrice, []string{"how much", "price", "expensive", "cheap", "cost", "pricing"}},
	{AspectHours, []string{"hours", "open", "close", "when are they"}},
	{AspectLocation, []string{"where", "located", "address", "how far", "directions", "get there"}},
	{AspectMenu, []string{"menu", "serve", "dish", "specialty", "options"}},
	{AspectAtmosphere, []string{"atmosphere", "crowd", "busy", "quiet", "romantic", "vibe"}},
	{AspectParking, []string{"parking", "garage", "valet"}},
	{AspectReviews, []string{"reviews", "ratings", "people say", "popular", "recommend"}},
}

var comparativeWords = []string{
	"better", "different", "something else", "another", "other options", "similar", "like this", "alternatives",
}

// Classify maps an utterance plus a dialogue snapshot to a dialogue action.
// It never raises: an internal fault in any rule degrades to NEW_SEARCH
// with a fixed low-confidence marker and a log line.
func Classify(utterance string, st Context) (out Intent) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("intent: rule evaluation failed, degrading to NEW_SEARCH: %v", r)
			out = Intent{Kind: KindNewSearch, Confidence: degradedConfidence, Degraded: true}
		}
	}()
	return classify(strings.TrimSpace(strings.ToLower(utterance)), st)
}

func classify(lower string, st Context) Intent {
	words := strings.Fields(lower)

	// 1. Reference phrases, only meaningful while results are on the table.
	if st.HasResults && (containsAny(lower, referencePhrases) || hasWordAny(words, ordinalWords)) {
		return Intent{Kind: KindPlaceReference, Confidence: 0.95}
	}

	// 2. Short greetings. Length cap keeps "hey, find me tacos" a search.
	if len(words) <= 3 && hasWordAny(words, greetingWords) {
		return Intent{Kind: KindGreeting, Confidence: 0.95}
	}

	// 3. Farewells.
	if containsAny(lower, farewellWords) {
		return Intent{Kind: KindFarewell, Confidence: 0.95}
	}

	// 4. Bare affirmations, refined by what the state makes them mean.
	if affirmativeTokens[lower] {
		switch {
		case st.CurrentPlaceSet:
			return Intent{Kind: KindAffirmation, Sub: SubMoreDetail, Confidence: 0.9}
		case st.HasRemaining:
			return Intent{Kind: KindAffirmation, Sub: SubMoreResults, Confidence: 0.9}
		case st.HasCuisinePref:
			return Intent{Kind: KindAffirmation, Sub: SubRepeatSearch, Confidence: 0.9}
		}
		return Intent{Kind: KindAffirmation, Confidence: 0.9}
	}

	// 5. Bare negations reject the place under discussion.
	if negativeTokens[lower] && st.CurrentPlaceSet {
		return Intent{Kind: KindNegation, Confidence: 0.8}
	}

	// 6. Aspect questions only make sense about a concrete place.
	if st.CurrentPlaceSet {
		for _, rule := range aspectRules {
			if containsAny(lower, rule.Keywords) {
				return Intent{Kind: KindAspectQuery, Aspect: rule.Aspect, Confidence: 0.85}
			}
		}
	}

	// 7. Comparative phrasing asks for alternatives.
	if containsAny(lower, comparativeWords) {
		return Intent{Kind: KindGetAlternatives, Confidence: 0.8}
	}

	// 8. Everything else is a new search.
	return Intent{Kind: KindNewSearch, Confidence: 0.8}
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func hasWordAny(words []string, set []string) bool {
	for _, w := range words {
		w = strings.Trim(w, ".,!?")
		for _, s := range set {
			if w == s {
				return true
			}
		}
	}
	return false
}
