package cache

import "testing"

func TestSanitizeReplacesUnsafeRunes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"separators", "a/b\\c", "a_b_c"},
		{"reserved punctuation", `a:b*c?d"e<f>g|h`, "a_b_c_d_e_f_g_h"},
		{"spaces", "My Server", "My_Server"},
		{"control characters", "a\x00b\tc", "a_b_c"},
		{"trailing periods", "name...", "name"},
		{"surrounding whitespace", "  padded  ", "padded"},
		{"empty", "", "unknown"},
		{"only unsafe", " ... ", "unknown"},
		{"plain name", "pogchamp", "pogchamp"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sanitize(tc.in); got != tc.want {
				t.Fatalf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSanitizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"", "unknown", "a/b\\c", "name...", "  My  Server  ",
		"emoji\x7fname", "普通名字", "a?b*c...", "~trailing.",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Fatalf("Sanitize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
