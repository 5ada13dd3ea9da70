package lexicon

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	got := Normalize("عشاء لـ ٥ أشخاصٌ BBQ")
	want := "عشاء ل 5 اشخاص bbq"
	if got != want {
		t.Fatalf("Normalize = %q, want %q", got, want)
	}
}

func TestNormalizeFoldsAlefAndYa(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"ألبان":  "البان",
		"إفطار":  "افطار",
		"آيس":    "ايس",
		"مشاوى":  "مشاوي",
		"أسياخ":  "اسياخ",
		"Milk ى": "milk ي",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}

	if !ContainsKeyword(Normalize("بدي البان"), "ألبان") {
		t.Fatalf("hamza-less query should match the hamza keyword")
	}
	if got := SynonymsOf("البان"); !reflect.DeepEqual(got, []string{"milk", "حليب", "لبن"}) {
		t.Fatalf("SynonymsOf(البان) = %v", got)
	}
	if got := CategoriesIn(Normalize("أدوات ولبن")); !reflect.DeepEqual(got, []string{Dairy, Supplies}) {
		t.Fatalf("CategoriesIn = %v", got)
	}
}

func TestContainsKeyword(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		kw   string
		want bool
	}{
		{"i want chicken", "chicken", true},
		{"two chickens please", "chicken", true},
		{"fresh tomatoes", "tomato", true},
		{"beef steak", "tea", false},
		{"a bunch of grapes", "bun", false},
		{"bbq-night", "bbq", true},
		{"صدر الدجاج", "دجاج", true},
		{"milk", "", false},
	}

	for _, tc := range cases {
		if got := ContainsKeyword(tc.text, tc.kw); got != tc.want {
			t.Fatalf("ContainsKeyword(%q, %q) = %v, want %v", tc.text, tc.kw, got, tc.want)
		}
	}
}

func TestCategoriesIn(t *testing.T) {
	t.Parallel()

	got := CategoriesIn(Normalize("BBQ with bread and فحم"))
	want := []string{Bread, Charcoal, Meat}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CategoriesIn = %v, want %v", got, want)
	}

	if got := CategoriesIn("hello there"); len(got) != 0 {
		t.Fatalf("expected no categories, got %v", got)
	}
}

func TestSynonymsOf(t *testing.T) {
	t.Parallel()

	got := SynonymsOf("chicken")
	want := []string{"دجاج", "جاج", "فراخ"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SynonymsOf(chicken) = %v, want %v", got, want)
	}

	got = SynonymsOf("الدجاج")
	for _, term := range got {
		if term == "دجاج" || term == "جاج" {
			t.Fatalf("synonyms of a word must skip terms it contains: %v", got)
		}
	}

	if SynonymsOf("tahini") != nil {
		t.Fatalf("expected no synonyms for unknown word")
	}
}

func TestMeatSubtype(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"shish tawook":   "skewer",
		"chicken breast": "chicken",
		"شيش كباب":       "skewer",
		"لحم خروف":       "other",
		"beef kofta":     "other",
		"olive oil":      "",
	}
	for text, want := range cases {
		if got := MeatSubtype(Normalize(text)); got != want {
			t.Fatalf("MeatSubtype(%q) = %q, want %q", text, got, want)
		}
	}
}

func TestArchetypeOf(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"bbq for 14 people":     "bbq",
		"family dinner":         "dinner",
		"عشاء لـ 5 أشخاص":       "dinner",
		"birthday party snacks": "party",
		"منسف تقليدي":           "traditional",
		"عزومة للعائلة":         "family",
		"just some groceries":   GeneralArchetype,
	}
	for text, want := range cases {
		if got := ArchetypeOf(Normalize(text)); got != want {
			t.Fatalf("ArchetypeOf(%q) = %q, want %q", text, got, want)
		}
	}
}
