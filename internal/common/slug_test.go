package common

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		parts []string
		want  string
	}{
		{[]string{"Toyota", "Fielder", "NZE141"}, "toyota-fielder-nze141"},
		{[]string{"Brake Pad (Front)"}, "brake-pad-front"},
		{[]string{"  Engine   Parts  "}, "engine-parts"},
		{[]string{"ABS/ESP Unit"}, "abs-esp-unit"},
		{[]string{""}, ""},
		{[]string{"---"}, ""},
		{[]string{"Fit", "GE6"}, "fit-ge6"},
	}

	for _, tc := range cases {
		if got := Slugify(tc.parts...); got != tc.want {
			t.Errorf("Slugify(%v) = %q, want %q", tc.parts, got, tc.want)
		}
	}
}

func TestSlugify_Deterministic(t *testing.T) {
	a := Slugify("Toyota", "Fielder", "NZE141")
	b := Slugify("Toyota", "Fielder", "NZE141")
	if a != b {
		t.Errorf("Slugify must be a pure function, got %q and %q", a, b)
	}
}
