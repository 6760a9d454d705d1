package entities

// Slot names read by the story intent
const (
	SlotSubject            = "subject"
	SlotTheme              = "theme"
	SlotActivity           = "activity"
	SlotAdditionalElements = "additionalElements"
)

// Defaults applied when a story slot is absent or empty
const (
	DefaultSubject            = "monkey"
	DefaultTheme              = "adventure"
	DefaultActivity           = "in a magical forest"
	DefaultAdditionalElements = "cookies, rain, and a mysterious treasure"
	DefaultWordCount          = 300
)

// GenerationPrompt is the story request derived from the intent slots.
// All string fields are non-empty once built.
type GenerationPrompt struct {
	Subject            string `json:"subject"`
	Theme              string `json:"theme"`
	Activity           string `json:"activity"`
	AdditionalElements string `json:"additional_elements"`
	WordCount          int    `json:"word_count"`
}
