package composer

import (
	"strings"
	"testing"

	"ShoppingAssistant/internal/domain"
)

func namedList(event string, people int, names ...string) domain.ShoppingList {
	list := domain.ShoppingList{EventType: event, NumPeople: people, Currency: "JOD"}
	for i, n := range names {
		list.Items = append(list.Items, domain.LineItem{ProductID: string(rune('a' + i)), Name: n, Quantity: 1, UnitPrice: 1})
	}
	return list
}

func TestRecipes(t *testing.T) {
	t.Parallel()

	type want struct {
		name     string
		match    int
		servings int
		scaled   bool
	}
	cases := []struct {
		label string
		list  domain.ShoppingList
		want  []want
	}{
		{
			label: "bbq scaled to headcount",
			list:  namedList("bbq", 8, "Chicken Thighs", "Tomato", "Shish Kebab"),
			want: []want{
				{"Grilled Chicken Shish Tawook", 20, 8, true},
				{"Classic BBQ Ribeye Steak", 0, 8, true},
				{"BBQ Lamb Chops", 0, 8, true},
			},
		},
		{
			label: "breakfast ordered by coverage",
			list:  namedList("breakfast", 2, "Arabic Bread", "Hummus", "Tomato", "Cucumber"),
			want: []want{
				{"Traditional Jordanian Breakfast", 50, 6, false},
				{"Hummus with Falafel", 40, 4, false},
				{"Labneh with Zaatar", 20, 4, false},
			},
		},
		{
			label: "lunch borrows dinner recipes",
			list:  namedList("lunch", 10, "Chicken Breast", "Rice"),
			want: []want{
				{"Chicken Maqluba", 33, 10, true},
				{"Grilled Chicken with Tabbouleh", 20, 10, true},
				{"Traditional Mansaf", 17, 10, true},
			},
		},
		{
			label: "unknown event falls back to bbq",
			list:  namedList("general", 1),
			want: []want{
				{"Classic BBQ Ribeye Steak", 0, 4, false},
				{"Grilled Chicken Shish Tawook", 0, 6, false},
				{"BBQ Lamb Chops", 0, 4, false},
			},
		},
	}

	for _, tc := range cases {
		got := Recipes(tc.list)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: expected %d recipes, got %d", tc.label, len(tc.want), len(got))
		}
		for i, w := range tc.want {
			r := got[i]
			if r.Name != w.name || r.MatchPercent != w.match || r.Servings != w.servings || r.Scaled != w.scaled {
				t.Fatalf("%s: recipe %d = %s %d%% serves %d scaled=%v, want %+v", tc.label, i, r.Name, r.MatchPercent, r.Servings, r.Scaled, w)
			}
		}
	}
}

func TestRecipesDoNotShareTable(t *testing.T) {
	t.Parallel()

	first := Recipes(namedList("party", 20, "Bread"))
	first[0].Ingredients[0] = "changed"
	second := Recipes(namedList("party", 2, "Bread"))
	for _, r := range second {
		for _, ing := range r.Ingredients {
			if ing == "changed" {
				t.Fatalf("recipe table was mutated through a suggestion")
			}
		}
		if r.Scaled {
			t.Fatalf("servings leaked between calls: %+v", r)
		}
	}
}

func TestComposeAddsRecipeIdeas(t *testing.T) {
	t.Parallel()

	msg := Compose("bbq for 4", sampleList(), nil)
	if len(msg.Recipes) != 1 || msg.Recipes[0].Name != "Grilled Chicken Shish Tawook" {
		t.Fatalf("unexpected recipes: %+v", msg.Recipes)
	}
	if !strings.Contains(msg.Text, "Recipe ideas:\n- Grilled Chicken Shish Tawook (serves 6, 20% of ingredients)") {
		t.Fatalf("recipe line missing:\n%s", msg.Text)
	}

	ar := Compose("مشاوي لـ 4 أشخاص", sampleList(), nil)
	if !strings.Contains(ar.Text, "شيش طاووق مشوي") {
		t.Fatalf("arabic recipe line missing:\n%s", ar.Text)
	}
}
