package intent

import "testing"

func TestClassify_ReferenceBeatsGreeting(t *testing.T) {
	// "hey, the first one" matches both a greeting word and a reference
	// pattern; with results on the table the reference rule wins.
	got := Classify("hey, the first one", Context{HasResults: true})
	if got.Kind != KindPlaceReference {
		t.Fatalf("kind = %s, want PLACE_REFERENCE", got.Kind)
	}
}

func TestClassify_ReferenceNeedsResults(t *testing.T) {
	got := Classify("tell me more", Context{})
	if got.Kind == KindPlaceReference {
		t.Fatal("reference classified with no results pending")
	}
}

func TestClassify_Greeting(t *testing.T) {
	tests := []struct {
		utterance string
		want      Kind
	}{
		{"hello", KindGreeting},
		{"hi there", KindGreeting},
		// Greeting word buried in a long request is not a greeting.
		{"hey can you find me some good tacos downtown", KindNewSearch},
	}
	for _, tt := range tests {
		if got := Classify(tt.utterance, Context{}); got.Kind != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.utterance, got.Kind, tt.want)
		}
	}
}

func TestClassify_Farewell(t *testing.T) {
	got := Classify("thanks, goodbye", Context{})
	if got.Kind != KindFarewell {
		t.Fatalf("kind = %s, want FAREWELL", got.Kind)
	}
}

func TestClassify_AffirmationRefinement(t *testing.T) {
	tests := []struct {
		name string
		st   Context
		want Sub
	}{
		{"current place set", Context{CurrentPlaceSet: true, HasRemaining: true}, SubMoreDetail},
		{"remaining results", Context{HasRemaining: true}, SubMoreResults},
		{"cuisine preference only", Context{HasCuisinePref: true}, SubRepeatSearch},
		{"empty state", Context{}, SubNone},
	}
	for _, tt := range tests {
		got := Classify("yes", tt.st)
		if got.Kind != KindAffirmation {
			t.Errorf("%s: kind = %s, want AFFIRMATION", tt.name, got.Kind)
		}
		if got.Sub != tt.want {
			t.Errorf("%s: sub = %q, want %q", tt.name, got.Sub, tt.want)
		}
	}
}

func TestClassify_AffirmationIsExactMatch(t *testing.T) {
	got := Classify("yes i want sushi in dallas", Context{CurrentPlaceSet: true})
	if got.Kind == KindAffirmation {
		t.Fatal("non-bare utterance classified as affirmation")
	}
}

func TestClassify_Negation(t *testing.T) {
	got := Classify("nope", Context{CurrentPlaceSet: true})
	if got.Kind != KindNegation {
		t.Fatalf("kind = %s, want NEGATION", got.Kind)
	}
	// Without a place under discussion a bare "no" is just a new search.
	got = Classify("nope", Context{})
	if got.Kind != KindNewSearch {
		t.Fatalf("kind = %s, want NEW_SEARCH", got.Kind)
	}
}

func TestClassify_AspectQueries(t *testing.T) {
	st := Context{CurrentPlaceSet: true}
	tests := []struct {
		utterance string
		want      Aspect
	}{
		{"how much does it cost", AspectPrice},
		{"when do they open", AspectHours},
		{"where is it located", AspectLocation},
		{"what do they serve", AspectMenu},
		{"is it usually busy", AspectAtmosphere},
		{"do they have valet parking", AspectParking},
		{"what do people say about it", AspectReviews},
	}
	for _, tt := range tests {
		got := Classify(tt.utterance, st)
		if got.Kind != KindAspectQuery || got.Aspect != tt.want {
			t.Errorf("Classify(%q) = %s/%s, want ASPECT_QUERY/%s", tt.utterance, got.Kind, got.Aspect, tt.want)
		}
	}
}

func TestClassify_AspectNeedsCurrentPlace(t *testing.T) {
	got := Classify("do they have valet parking", Context{})
	if got.Kind == KindAspectQuery {
		t.Fatal("aspect query classified with no current place")
	}
}

func TestClassify_Alternatives(t *testing.T) {
	got := Classify("show me something else", Context{CurrentPlaceSet: true})
	if got.Kind != KindGetAlternatives {
		t.Fatalf("kind = %s, want GET_ALTERNATIVES", got.Kind)
	}
}

func TestClassify_DefaultNewSearch(t *testing.T) {
	got := Classify("cheap mexican food in austin", Context{})
	if got.Kind != KindNewSearch {
		t.Fatalf("kind = %s, want NEW_SEARCH", got.Kind)
	}
	if got.Degraded {
		t.Fatal("normal classification flagged degraded")
	}
}

func TestClassify_NeverPanics(t *testing.T) {
	inputs := []string{"", "   ", "\x00\xff", "yes yes yes yes yes", "¿dónde está la biblioteca?"}
	for _, in := range inputs {
		got := Classify(in, Context{HasResults: true, CurrentPlaceSet: true})
		if got.Kind == "" {
			t.Errorf("Classify(%q) returned empty kind", in)
		}
	}
}
