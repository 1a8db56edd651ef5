package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"voxguide/internal/ai"
)

func main() {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable not set")
	}

	ctx := context.Background()
	composer, err := ai.NewGeminiComposer(ctx, apiKey)
	if err != nil {
		log.Fatalf("Failed to initialize composer: %v", err)
	}
	defer composer.Close()

	prompt := ai.Prompt{
		Task:  ai.TaskResults,
		Query: "cheap mexican food in austin",
		City:  "Austin",
		Places: []ai.PlaceFact{
			{Title: "Torchy's Tacos", Category: "restaurant", Rating: 4.8, ReviewCount: 1200, PriceLevel: "$", Address: "1311 S 1st St"},
			{Title: "Veracruz All Natural", Category: "restaurant", Rating: 4.7, ReviewCount: 900, PriceLevel: "$", Address: "2505 Webberville Rd"},
			{Title: "El Rancho", Category: "restaurant", Rating: 4.2, ReviewCount: 400, PriceLevel: "$$", Address: "123 Main St"},
		},
		Preferences: []string{"budget-friendly", "mexican"},
	}

	fmt.Printf("Query: %s\n", prompt.Query)
	text, err := composer.Compose(ctx, prompt)
	if err != nil {
		log.Fatalf("Error composing narration: %v", err)
	}
	fmt.Printf("Narration: %s\n", text)
}
