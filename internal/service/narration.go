// README: Canned lines and deterministic fallbacks when the composer is unavailable.
package service

import (
	"fmt"
	"strings"

	"voxguide/internal/modules/extract"
	"voxguide/internal/modules/intent"
	"voxguide/internal/modules/ranking"
)

// greetingLine opens a call. name is the synthesizer voice picked for
// the call so the guide can introduce itself.
func greetingLine(name string) string {
	if name == "" {
		return "Hi! I'm your local guide. Which city can I help you explore?"
	}
	return fmt.Sprintf("Hi! I'm %s, your local guide. Which city can I help you explore?", name)
}

// searchAckLine fills the gap while a search runs.
func searchAckLine() string {
	return "Let me find some great spots for you!"
}

func askCityLine() string {
	return "Happy to help! Which city are we exploring today?"
}

func locationConfirmation(city string) string {
	return fmt.Sprintf("Ah, %s! I love it there! What kind of place are you looking for? I know everything from cozy cafes to the hottest bars and best restaurants!", city)
}

func farewellLine() string {
	return "It was great helping you explore! Enjoy yourself, and call me anytime you need recommendations. Goodbye!"
}

func clarifyLine() string {
	return "I'll be happy to help with that. Which place did you mean?"
}

func quotaLine() string {
	return "You've reached this month's limit for recommendations. Please call back next month. Goodbye!"
}

func retrievalApology() string {
	return "I apologize, but I'm having trouble searching right now. Could you say that again in a moment?"
}

func exhaustedLine() string {
	return "That's everything I had for this search. Want me to look for something a little different?"
}

// broadenLine names the caller's stated preferences when nothing matched,
// so the offer to relax them sounds grounded.
func broadenLine(p extract.Preferences) string {
	var stated []string
	if p.PriceLevel != extract.PriceUnset {
		stated = append(stated, string(p.PriceLevel)+" prices")
	}
	if len(p.Cuisine) > 0 {
		stated = append(stated, strings.Join(p.Cuisine, ", "))
	}
	if len(stated) > 0 {
		return fmt.Sprintf("I couldn't find exactly what you're looking for with %s. Would you like me to broaden the search a bit?", strings.Join(stated, " and "))
	}
	return "I couldn't find anything matching that exactly. Could you tell me more about what you're in the mood for? I know all the best spots!"
}

// quickLine summarizes the top hit before the full front page is narrated.
func quickLine(r ranking.Result) string {
	m := r.Metadata
	line := fmt.Sprintf("I found %s that might be perfect!", m.Title)
	if m.Rating > 0 {
		line += fmt.Sprintf(" It has %.1f stars", m.Rating)
		if m.ReviewCount > 0 {
			line += fmt.Sprintf(" from %d reviews", m.ReviewCount)
		}
		line += "."
	}
	return line
}

var categoryDefaults = map[extract.Category]string{
	extract.CategoryHotel:      "I found some great hotels nearby. Would you like to hear about them?",
	extract.CategoryRestaurant: "I found some great restaurants nearby. Would you like to hear about them?",
	extract.CategoryActivity:   "I found some interesting activities nearby. Would you like to hear about them?",
	extract.CategoryBar:        "I found some nice bars nearby. Would you like to hear about them?",
	extract.CategoryShopping:   "I found some good shopping spots nearby. Would you like to hear about them?",
}

// resultsFallback narrates a front page without the composer.
func resultsFallback(category extract.Category, front []ranking.Result) string {
	intro, ok := categoryDefaults[category]
	if !ok {
		intro = "I found some great places nearby. Would you like to hear about them?"
	}

	parts := []string{intro}
	leads := []string{"First, there's %s", "Another great option is %s", "And you might also like %s"}
	for i, r := range front {
		if i >= len(leads) {
			break
		}
		line := fmt.Sprintf(leads[i], r.Metadata.Title)
		switch {
		case r.Metadata.Rating >= 4.5:
			line += ", people absolutely love this place"
		case r.Metadata.Rating >= 4.0:
			line += ", it's very well-rated"
		}
		parts = append(parts, line+".")
	}
	parts = append(parts, "Would you like to know more about any of these?")
	return strings.Join(parts, " ")
}

// placeFallback narrates one place without the composer.
func placeFallback(r ranking.Result, deep bool) string {
	m := r.Metadata
	var parts []string
	if deep {
		parts = append(parts, fmt.Sprintf("A bit more on %s.", m.Title))
	} else {
		parts = append(parts, fmt.Sprintf("%s is a great pick.", m.Title))
	}
	if m.Rating > 0 {
		if m.ReviewCount > 0 {
			parts = append(parts, fmt.Sprintf("It has %.1f stars from %d reviews.", m.Rating, m.ReviewCount))
		} else {
			parts = append(parts, fmt.Sprintf("It has %.1f stars.", m.Rating))
		}
	}
	if phrase := priceDescriptions[m.PriceLevel]; phrase != "" {
		parts = append(parts, phrase+".")
	}
	if m.Address != "" {
		parts = append(parts, fmt.Sprintf("You'll find it at %s.", m.Address))
	}
	if deep && m.About != "" {
		parts = append(parts, m.About)
	}
	parts = append(parts, "Would you like to know anything specific about it?")
	return strings.Join(parts, " ")
}

var priceDescriptions = map[ranking.PriceTier]string{
	ranking.TierCheap:    "It's very budget-friendly",
	ranking.TierModerate: "It's moderately priced",
	ranking.TierUpscale:  "It's on the upscale side",
	ranking.TierLuxury:   "It's a high-end establishment",
}

// aspectFallback answers an aspect question from metadata alone.
func aspectFallback(aspect intent.Aspect, r ranking.Result) string {
	m := r.Metadata
	switch aspect {
	case intent.AspectPrice:
		if phrase := priceDescriptions[m.PriceLevel]; phrase != "" {
			return fmt.Sprintf("%s. Would you like to know anything else about %s?", phrase, m.Title)
		}
		return "I don't have exact price information, but I can find similar places in your preferred price range."
	case intent.AspectHours:
		if m.Hours != "" {
			return fmt.Sprintf("They're open %s. Anything else you'd like to know?", m.Hours)
		}
		return "I don't have their current hours on hand. Want me to find a place with hours I can confirm?"
	case intent.AspectLocation:
		if m.Address != "" {
			return fmt.Sprintf("It's located at %s. Would you like something closer instead?", m.Address)
		}
		return "I don't have the exact address on hand. Should I find another option nearby?"
	case intent.AspectMenu:
		text := strings.TrimSpace(strings.Join([]string{m.About, m.Features}, " "))
		if text != "" {
			return fmt.Sprintf("Let me tell you about their food. %s", text)
		}
		return fmt.Sprintf("I don't have menu details for %s, but it's well reviewed for its food.", m.Title)
	case intent.AspectAtmosphere:
		if len(m.Atmosphere) > 0 {
			return fmt.Sprintf("It's known for a %s vibe. Are you looking for something specific in terms of atmosphere?", strings.Join(m.Atmosphere, ", "))
		}
		return "It has a great ambiance. Are you looking for something specific in terms of atmosphere?"
	case intent.AspectParking:
		return "I don't have parking details on hand. Would you like me to find places with easier parking?"
	case intent.AspectReviews:
		if m.Rating > 0 && m.ReviewCount > 0 {
			return fmt.Sprintf("It has %.1f stars from %d reviews. Would you like to hear about another place?", m.Rating, m.ReviewCount)
		}
		return "I don't have review details on hand for it right now."
	}
	return fmt.Sprintf("Let me tell you about %s.", m.Title)
}

// prefPhrases renders stated preferences as short phrases for the composer.
func prefPhrases(p extract.Preferences) []string {
	var out []string
	if p.PriceLevel != extract.PriceUnset {
		out = append(out, string(p.PriceLevel)+"-friendly")
	}
	out = append(out, p.Atmosphere...)
	out = append(out, p.Cuisine...)
	if p.FamilyFriendly {
		out = append(out, "family-friendly")
	}
	return out
}
