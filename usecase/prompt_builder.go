package usecase

import (
	"fmt"

	"github.com/abh2050/alexa-story-teller/domain/entities"
)

// wordsPerToken approximates how many words one generation token covers
const wordsPerToken = 0.75

// BuildPrompt derives the story prompt from the intent slots, applying
// defaults for absent or empty slots. Provided values are used verbatim.
func BuildPrompt(slots entities.Slots) entities.GenerationPrompt {
	return entities.GenerationPrompt{
		Subject:            slots.ValueOr(entities.SlotSubject, entities.DefaultSubject),
		Theme:              slots.ValueOr(entities.SlotTheme, entities.DefaultTheme),
		Activity:           slots.ValueOr(entities.SlotActivity, entities.DefaultActivity),
		AdditionalElements: slots.ValueOr(entities.SlotAdditionalElements, entities.DefaultAdditionalElements),
		WordCount:          entities.DefaultWordCount,
	}
}

// ToPrompt renders the natural-language instruction sent to the generator
func ToPrompt(p entities.GenerationPrompt) string {
	return fmt.Sprintf(
		"Write a creative and engaging story for children with the following details: "+
			"Main Subject: %s. Theme: %s. Setting/Activity: %s. "+
			"Additional Elements: %s. "+
			"The story should be approximately %d words long, have a clear beginning, middle, and end, "+
			"and include a moral related to %s.",
		p.Subject, p.Theme, p.Activity, p.AdditionalElements, p.WordCount, p.Theme,
	)
}

// ToMaxTokens converts a target word count into a generation token budget
func ToMaxTokens(wordCount int) int {
	return int(float64(wordCount) / wordsPerToken)
}
