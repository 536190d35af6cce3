package filter

import (
	"testing"

	"github.com/horizonbtp/vitrine/internal/models"
)

func sampleProperties() []models.Row {
	return []models.Row{
		&models.Property{ID: "p1", Title: "Villa moderne Tokoin", City: "Lomé",
			Neighborhood: "Tokoin", PropertyType: "villa", Price: 45000000,
			Status: models.PropertyAvailable},
		&models.Property{ID: "p2", Title: "Appartement Agoè", City: "Lomé",
			Neighborhood: "Agoè", PropertyType: "appartement", Price: 18000000,
			Status: models.PropertyAvailable},
		&models.Property{ID: "p3", Title: "Villa coloniale", City: "Kara",
			PropertyType: "villa", Price: 25000000,
			Status: models.PropertySold},
	}
}

func ids(rows []models.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.RowID().String()
	}
	return out
}

func assertIDs(t *testing.T, rows []models.Row, want ...string) {
	t.Helper()
	got := ids(rows)
	if len(got) != len(want) {
		t.Fatalf("Expected rows %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected rows %v, got %v", want, got)
		}
	}
}

func TestZeroCriteriaReturnsInputUnchanged(t *testing.T) {
	rows := sampleProperties()
	got := Apply(rows, Criteria{})
	if len(got) != len(rows) {
		t.Fatalf("Expected all %d rows, got %d", len(rows), len(got))
	}
	for i := range rows {
		if got[i] != rows[i] {
			t.Errorf("Row %d changed identity", i)
		}
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	rows := sampleProperties()
	before := ids(rows)

	Apply(rows, Criteria{Search: "villa"})
	Apply(rows, Criteria{}.WithField("city", "Kara"))

	after := ids(rows)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("Apply mutated the input slice: %v -> %v", before, after)
		}
	}
}

func TestClearingCriteriaRestoresAllRows(t *testing.T) {
	rows := sampleProperties()

	narrowed := Apply(rows, Criteria{Search: "villa"}.WithField("city", "Kara"))
	if len(narrowed) == len(rows) {
		t.Fatal("Criteria did not narrow the rows, test is vacuous")
	}

	restored := Apply(rows, Criteria{})
	assertIDs(t, restored, "p1", "p2", "p3")
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	rows := sampleProperties()

	for _, term := range []string{"villa", "VILLA", "ViLLa", "illa"} {
		got := Apply(rows, Criteria{Search: term})
		assertIDs(t, got, "p1", "p3")
	}
}

func TestSearchMatchesAnySearchableField(t *testing.T) {
	rows := sampleProperties()

	// "tokoin" appears in both the title and the neighborhood of p1.
	assertIDs(t, Apply(rows, Criteria{Search: "tokoin"}), "p1")
	// City matches too.
	assertIDs(t, Apply(rows, Criteria{Search: "kara"}), "p3")
}

func TestCategoricalPredicates(t *testing.T) {
	rows := sampleProperties()

	t.Run("single field", func(t *testing.T) {
		assertIDs(t, Apply(rows, Criteria{}.WithField("city", "Kara")), "p3")
	})

	t.Run("all sentinel matches everything", func(t *testing.T) {
		got := Apply(rows, Criteria{}.WithField("city", Any))
		assertIDs(t, got, "p1", "p2", "p3")
	})

	t.Run("empty value matches everything", func(t *testing.T) {
		got := Apply(rows, Criteria{}.WithField("city", ""))
		assertIDs(t, got, "p1", "p2", "p3")
	})

	t.Run("missing field matches nothing", func(t *testing.T) {
		got := Apply(rows, Criteria{}.WithField("fuel_type", "diesel"))
		if len(got) != 0 {
			t.Errorf("Rows without the field should not match, got %v", ids(got))
		}
	})
}

func TestPredicatesCombineWithAnd(t *testing.T) {
	rows := sampleProperties()

	t.Run("search and city", func(t *testing.T) {
		got := Apply(rows, Criteria{Search: "villa"}.WithField("city", "Lomé"))
		assertIDs(t, got, "p1")
	})

	t.Run("two categorical fields", func(t *testing.T) {
		c := Criteria{}.WithField("property_type", "villa").WithField("status", "available")
		assertIDs(t, Apply(rows, c), "p1")
	})

	t.Run("search and price", func(t *testing.T) {
		got := Apply(rows, Criteria{Search: "villa", PriceMax: 30000000})
		assertIDs(t, got, "p3")
	})
}

func TestPriceBoundsAreInclusive(t *testing.T) {
	rows := sampleProperties()

	t.Run("min boundary", func(t *testing.T) {
		got := Apply(rows, Criteria{PriceMin: 25000000})
		assertIDs(t, got, "p1", "p3")
	})

	t.Run("max boundary", func(t *testing.T) {
		got := Apply(rows, Criteria{PriceMax: 25000000})
		assertIDs(t, got, "p2", "p3")
	})

	t.Run("exact window", func(t *testing.T) {
		got := Apply(rows, Criteria{PriceMin: 25000000, PriceMax: 25000000})
		assertIDs(t, got, "p3")
	})
}

func TestUnpricedRowsNeverMatchPriceBounds(t *testing.T) {
	rows := []models.Row{
		&models.Testimonial{ID: "t1", Author: "K. Mensah", Message: "Très satisfait",
			Rating: 5, Status: models.TestimonialApproved},
	}

	if got := Apply(rows, Criteria{PriceMin: 1}); len(got) != 0 {
		t.Errorf("Unpriced row matched a price bound: %v", ids(got))
	}
	// Without a price bound the row passes through.
	if got := Apply(rows, Criteria{Search: "mensah"}); len(got) != 1 {
		t.Errorf("Expected testimonial to match search, got %v", ids(got))
	}
}

func TestApplyPreservesOrder(t *testing.T) {
	rows := sampleProperties()
	got := Apply(rows, Criteria{Search: "villa"})
	assertIDs(t, got, "p1", "p3")
}

func TestActive(t *testing.T) {
	cases := []struct {
		name string
		c    Criteria
		want bool
	}{
		{"zero value", Criteria{}, false},
		{"whitespace search", Criteria{Search: "   "}, false},
		{"search", Criteria{Search: "villa"}, true},
		{"all sentinel only", Criteria{}.WithField("city", Any), false},
		{"empty field only", Criteria{}.WithField("city", ""), false},
		{"field", Criteria{}.WithField("city", "Lomé"), true},
		{"price min", Criteria{PriceMin: 1}, true},
		{"price max", Criteria{PriceMax: 1}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.Active(); got != tc.want {
				t.Errorf("Active() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWithFieldDoesNotModifyReceiver(t *testing.T) {
	base := Criteria{}.WithField("city", "Lomé")
	derived := base.WithField("city", "Kara")

	if base.Fields["city"] != "Lomé" {
		t.Errorf("WithField modified the receiver: %v", base.Fields)
	}
	if derived.Fields["city"] != "Kara" {
		t.Errorf("WithField did not set the new value: %v", derived.Fields)
	}
}
