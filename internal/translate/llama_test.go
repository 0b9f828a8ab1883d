package translate

import "testing"

func TestExtractModelOutput(t *testing.T) {
	cases := []struct {
		name   string
		output string
		want   string
	}{
		{
			name: "prompt echo followed by generation",
			output: "<start_of_turn>system\nTranslate.\n<end_of_turn>\n" +
				"<start_of_turn>user\nhola\n<end_of_turn>\n" +
				"<start_of_turn>model\nHello\n",
			want: "Hello",
		},
		{
			name:   "trims surrounding whitespace",
			output: "<start_of_turn>model\n  Hello there  \n\n",
			want:   "Hello there",
		},
		{
			name:   "no marker",
			output: "some unrelated output\n",
			want:   "",
		},
		{
			name:   "marker without newline",
			output: "<start_of_turn>model",
			want:   "",
		},
		{
			name:   "nothing after marker newline",
			output: "<start_of_turn>model\n   \n",
			want:   "",
		},
		{
			name:   "empty output",
			output: "",
			want:   "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractModelOutput(tc.output); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
