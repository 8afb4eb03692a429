package category

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Productivity Apps", "productivity-apps"},
		{"eBooks", "ebooks"},
		{"Audio/Video", "audio-video"},
		{"  Games  ", "games"},
		{"Café Música", "cafe-musica"},
		{"C++ Tools", "c-tools"},
		{"already-a-slug", "already-a-slug"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDefaultsHaveUniqueSlugs(t *testing.T) {
	seen := make(map[string]string)
	for _, d := range Defaults {
		slug := Slugify(d.Name)
		if slug == "" {
			t.Errorf("default category %q produces empty slug", d.Name)
		}
		if prev, ok := seen[slug]; ok {
			t.Errorf("slug collision: %q and %q both map to %q", prev, d.Name, slug)
		}
		seen[slug] = d.Name
	}
}
