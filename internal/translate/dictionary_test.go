package translate

import "testing"

func TestFallbackCoveredPhrases(t *testing.T) {
	cases := []struct {
		dir   Direction
		input string
		want  string
	}{
		{EsToEn, "hola", "Hello"},
		{EsToEn, "HOLA", "Hello"},
		{EsToEn, "  gracias  ", "Thank you"},
		{EsToEn, "adiós", "Goodbye"},
		{EsToEn, "adios", "Goodbye"},
		{EsToEn, "buenos dias", "Good morning"},
		{EsToEn, "Buenas Noches", "Good night"},
		{EsToEn, "¿cómo estás?", "How are you?"},
		{EnToEs, "hello", "Hola"},
		{EnToEs, "Hi", "Hola"},
		{EnToEs, "THANKS", "Gracias"},
		{EnToEs, "How are you?", "¿Cómo estás?"},
		{EnToEs, "how are you", "¿Cómo estás?"},
		{EnToEs, "good night", "Buenas noches"},
		{EnToEs, "I'm Sorry", "Lo siento"},
	}

	for _, tc := range cases {
		if got := lookupFallback(tc.dir, tc.input); got != tc.want {
			t.Errorf("%s %q: expected %q, got %q", tc.dir, tc.input, tc.want, got)
		}
	}
}

func TestFallbackMissUsesPlaceholderTag(t *testing.T) {
	input := " el gato está en la mesa "
	if got, want := lookupFallback(EsToEn, input), "[Translation] "+input; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	input = "the cat is on the table"
	if got, want := lookupFallback(EnToEs, input), "[Traducción] "+input; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
