package budget

import (
	"math"
	"testing"
)

func TestComputeBudget(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		headcount int
		archetype string
		want      float64
	}{
		{name: "bbq for 14 rounds 98 up", headcount: 14, archetype: "bbq", want: 100},
		{name: "small group premium", headcount: 2, archetype: "dinner", want: 20},
		{name: "floor applies", headcount: 1, archetype: "breakfast", want: 15},
		{name: "unknown archetype uses general", headcount: 10, archetype: "picnic", want: 60},
		{name: "party exact multiple", headcount: 5, archetype: "party", want: 40},
		{name: "non-positive headcount treated as one", headcount: 0, archetype: "bbq", want: 15},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ComputeBudget(tc.headcount, tc.archetype); got != tc.want {
				t.Fatalf("ComputeBudget(%d, %s) = %v, want %v", tc.headcount, tc.archetype, got, tc.want)
			}
		})
	}
}

func TestAllocateBBQ(t *testing.T) {
	t.Parallel()

	alloc := Allocate(ComputeBudget(14, "bbq"), "bbq")
	if math.Abs(alloc.For("meat")-35) > 1e-9 {
		t.Fatalf("meat allocation = %v, want 35", alloc.For("meat"))
	}
	var sum float64
	for _, v := range alloc.Categories {
		sum += v
	}
	if sum > alloc.Total+1e-9 {
		t.Fatalf("allocations sum %v exceed total %v", sum, alloc.Total)
	}
	if got := alloc.For("snacks"); math.Abs(got-15) > 1e-9 {
		t.Fatalf("default share = %v, want 15", got)
	}
}

func TestQuantityForBudget(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name         string
		event        string
		category     string
		price        float64
		catRemaining float64
		allRemaining float64
		headcount    int
		want         int
		wantOK       bool
	}{
		{name: "cannot afford", event: "general", category: "meat", price: 10, catRemaining: 9, allRemaining: 50, headcount: 4, wantOK: false},
		{name: "overall is binding", event: "general", category: "dairy", price: 1, catRemaining: 20, allRemaining: 2, headcount: 4, want: 2, wantOK: true},
		{name: "min plus two", event: "general", category: "dairy", price: 1, catRemaining: 20, allRemaining: 20, headcount: 4, want: 3, wantOK: true},
		{name: "large group meat", event: "general", category: "meat", price: 2, catRemaining: 40, allRemaining: 40, headcount: 12, want: 4, wantOK: true},
		{name: "zero price", event: "general", category: "dairy", price: 0, catRemaining: 20, allRemaining: 20, headcount: 4, wantOK: false},
		{name: "bbq meat for six", event: "bbq", category: "meat", price: 2, catRemaining: 40, allRemaining: 40, headcount: 6, want: 4, wantOK: true},
		{name: "general meat for six", event: "general", category: "meat", price: 2, catRemaining: 40, allRemaining: 40, headcount: 6, want: 3, wantOK: true},
		{name: "breakfast bread for six", event: "breakfast", category: "bread", price: 1, catRemaining: 20, allRemaining: 20, headcount: 6, want: 4, wantOK: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := QuantityForBudget(tc.event, tc.category, tc.price, tc.catRemaining, tc.allRemaining, tc.headcount)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Fatalf("quantity = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestMinimumUnitsFollowsLeadCategory(t *testing.T) {
	t.Parallel()

	cases := []struct {
		event     string
		category  string
		headcount int
		want      int
	}{
		{"bbq", "meat", 5, 1},
		{"bbq", "meat", 6, 2},
		{"bbq", "charcoal", 6, 1},
		{"breakfast", "bread", 6, 2},
		{"breakfast", "meat", 6, 1},
		{"party", "drinks", 6, 2},
		{"party", "drinks", 12, 3},
		{"general", "meat", 6, 1},
		{"general", "meat", 7, 2},
		{"unknown", "meat", 6, 1},
	}

	for _, tc := range cases {
		if got := MinimumUnits(tc.event, tc.category, tc.headcount); got != tc.want {
			t.Fatalf("MinimumUnits(%q, %q, %d) = %d, want %d", tc.event, tc.category, tc.headcount, got, tc.want)
		}
	}
}

func TestQuantityForHeadcount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		category  string
		price     float64
		headcount int
		want      int
	}{
		{category: "meat", price: 5, headcount: 10, want: 2},
		{category: "meat", price: 5, headcount: 100, want: 6},
		{category: "drinks", price: 1, headcount: 5, want: 3},
		{category: "bread", price: 1, headcount: 1, want: 1},
		{category: "supplies", price: 1, headcount: 40, want: 1},
		{category: "charcoal", price: 3, headcount: 11, want: 3},
		{category: "spices", price: 1, headcount: 9, want: 3},
		{category: "vegetables", price: 60, headcount: 20, want: 1},
		{category: "vegetables", price: 25, headcount: 20, want: 3},
	}

	for _, tc := range cases {
		if got := QuantityForHeadcount(tc.category, tc.price, tc.headcount); got != tc.want {
			t.Fatalf("QuantityForHeadcount(%s, %v, %d) = %d, want %d", tc.category, tc.price, tc.headcount, got, tc.want)
		}
	}
}
