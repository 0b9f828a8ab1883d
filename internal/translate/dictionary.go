package translate

import "strings"

// Fallback phrase tables used when the external inference backend is
// unavailable or unproductive. Keys are normalized: lowercased and trimmed.
var (
	esToEnPhrases = map[string]string{
		"hola":         "Hello",
		"adiós":        "Goodbye",
		"adios":        "Goodbye",
		"gracias":      "Thank you",
		"por favor":    "Please",
		"lo siento":    "I'm sorry",
		"sí":           "Yes",
		"si":           "Yes",
		"no":           "No",
		"buenos días":  "Good morning",
		"buenos dias":  "Good morning",
		"buenas noches": "Good night",
		"¿cómo estás?": "How are you?",
		"como estas":   "How are you?",
	}

	enToEsPhrases = map[string]string{
		"hello":        "Hola",
		"hi":           "Hola",
		"goodbye":      "Adiós",
		"bye":          "Adiós",
		"thank you":    "Gracias",
		"thanks":       "Gracias",
		"please":       "Por favor",
		"sorry":        "Lo siento",
		"i'm sorry":    "Lo siento",
		"yes":          "Sí",
		"no":           "No",
		"good morning": "Buenos días",
		"good night":   "Buenas noches",
		"how are you?": "¿Cómo estás?",
		"how are you":  "¿Cómo estás?",
	}
)

// Placeholder tags prefixed to inputs the phrase tables do not cover.
const (
	esToEnPlaceholderTag = "[Translation] "
	enToEsPlaceholderTag = "[Traducción] "
)

// lookupFallback translates via the phrase table for the direction. On a
// table miss it returns the placeholder tag prefixed to the original,
// untrimmed input; it never fails.
func lookupFallback(dir Direction, text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))

	switch dir {
	case EsToEn:
		if translated, ok := esToEnPhrases[normalized]; ok {
			return translated
		}
		return esToEnPlaceholderTag + text
	default:
		if translated, ok := enToEsPhrases[normalized]; ok {
			return translated
		}
		return enToEsPlaceholderTag + text
	}
}
