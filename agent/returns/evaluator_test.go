package returns

import (
	"reflect"
	"testing"
	"time"

	contractx "github.com/ecomarket/support-agent/agent/contract"
)

func testCatalog() map[string]contractx.ProductCatalogEntry {
	return map[string]contractx.ProductCatalogEntry{
		"COFFEE-01": {
			SKU:              "COFFEE-01",
			Name:             "Whole Bean Coffee 500g",
			Category:         "groceries",
			Perishable:       true,
			ReturnWindowDays: 7,
			SealedException:  true,
		},
		"MUG-02": {
			SKU:              "MUG-02",
			Name:             "Ceramic Mug",
			Category:         "kitchen",
			Perishable:       false,
			ReturnWindowDays: 30,
		},
		"CHEESE-03": {
			SKU:        "CHEESE-03",
			Name:       "Aged Cheddar",
			Category:   "groceries",
			Perishable: true,
		},
		"GIFTCARD-05": {
			SKU:      "GIFTCARD-05",
			Name:     "Digital Gift Card",
			Category: "gift cards",
		},
		"SOAP-07": {
			SKU:              "SOAP-07",
			Name:             "Lavender Soap Bar",
			Category:         "hygiene",
			ReturnWindowDays: 30,
		},
	}
}

func deliveredOrder(trackingID, deliveredAt string, skus ...string) *contractx.Order {
	o := &contractx.Order{
		TrackingID:  trackingID,
		Status:      contractx.StatusDelivered,
		Carrier:     "EcoShip",
		DeliveredAt: deliveredAt,
	}
	for _, sku := range skus {
		o.Items = append(o.Items, contractx.OrderItem{SKU: sku, Quantity: 1})
	}
	return o
}

func TestEvaluateDeliveredTenDaysAgo(t *testing.T) {
	t.Parallel()

	today := time.Date(2025, 8, 30, 15, 30, 0, 0, time.UTC)
	order := deliveredOrder("TRK-1001", "2025-08-20", "COFFEE-01", "MUG-02")

	verdicts := Evaluate(order, testCatalog(), today, DefaultRules())
	if len(verdicts) != 2 {
		t.Fatalf("len(verdicts) = %d, want 2", len(verdicts))
	}

	coffee := verdicts[0]
	if coffee.SKU != "COFFEE-01" {
		t.Fatalf("verdict order changed: %q", coffee.SKU)
	}
	if coffee.Eligible {
		t.Fatal("COFFEE-01 must be ineligible at 10 days")
	}
	if coffee.DaysSinceDelivery == nil || *coffee.DaysSinceDelivery != 10 {
		t.Fatalf("COFFEE-01 DaysSinceDelivery = %v, want 10", coffee.DaysSinceDelivery)
	}
	if coffee.ApplicableWindowDays != 7 {
		t.Fatalf("COFFEE-01 window = %d, want 7", coffee.ApplicableWindowDays)
	}
	if coffee.Reason != "outside the 7-day sealed-exception window (10 days since delivery)" {
		t.Fatalf("COFFEE-01 reason = %q", coffee.Reason)
	}

	mug := verdicts[1]
	if !mug.Eligible {
		t.Fatalf("MUG-02 must be eligible at 10 days, reason %q", mug.Reason)
	}
	if mug.ApplicableWindowDays != 30 {
		t.Fatalf("MUG-02 window = %d, want 30", mug.ApplicableWindowDays)
	}
}

func TestEvaluateStandardWindowBoundary(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		today    time.Time
		eligible bool
	}{
		{"day 30 inclusive", time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC), true},
		{"day 31 outside", time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			order := deliveredOrder("TRK-2002", "2025-08-01", "MUG-02")
			verdicts := Evaluate(order, testCatalog(), tc.today, DefaultRules())
			if verdicts[0].Eligible != tc.eligible {
				t.Fatalf("eligible = %v, want %v (reason %q)", verdicts[0].Eligible, tc.eligible, verdicts[0].Reason)
			}
		})
	}
}

func TestEvaluateSealedExceptionBoundary(t *testing.T) {
	t.Parallel()

	order := deliveredOrder("TRK-2003", "2025-08-01", "COFFEE-01")

	onBoundary := Evaluate(order, testCatalog(), time.Date(2025, 8, 8, 0, 0, 0, 0, time.UTC), DefaultRules())
	if !onBoundary[0].Eligible {
		t.Fatalf("day 7 must be eligible, reason %q", onBoundary[0].Reason)
	}

	past := Evaluate(order, testCatalog(), time.Date(2025, 8, 9, 0, 0, 0, 0, time.UTC), DefaultRules())
	if past[0].Eligible {
		t.Fatal("day 8 must be ineligible")
	}
}

func TestEvaluateNegativeElapsedClampedToZero(t *testing.T) {
	t.Parallel()

	// Delivery date after "today": clock skew in the data.
	order := deliveredOrder("TRK-2004", "2025-09-05", "MUG-02")
	verdicts := Evaluate(order, testCatalog(), time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC), DefaultRules())

	if verdicts[0].DaysSinceDelivery == nil || *verdicts[0].DaysSinceDelivery != 0 {
		t.Fatalf("DaysSinceDelivery = %v, want 0", verdicts[0].DaysSinceDelivery)
	}
	if !verdicts[0].Eligible {
		t.Fatalf("day 0 must be eligible, reason %q", verdicts[0].Reason)
	}
}

func TestEvaluatePerishableWithoutExceptionNeverEligible(t *testing.T) {
	t.Parallel()

	// Same-day delivery and still not returnable.
	order := deliveredOrder("TRK-2005", "2025-08-30", "CHEESE-03")
	verdicts := Evaluate(order, testCatalog(), time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC), DefaultRules())

	if verdicts[0].Eligible {
		t.Fatal("perishable item without sealed exception must never be eligible")
	}
	if verdicts[0].Reason != "perishable groceries items are not returnable" {
		t.Fatalf("reason = %q", verdicts[0].Reason)
	}
}

func TestEvaluateZeroWindowNeverEligible(t *testing.T) {
	t.Parallel()

	// The catalog window is taken literally: 0 days means the item is
	// not returnable, even on the delivery day.
	cases := []struct {
		name  string
		today time.Time
	}{
		{"same day", time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)},
		{"ten days later", time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			order := deliveredOrder("TRK-2009", "2025-08-20", "GIFTCARD-05")
			verdicts := Evaluate(order, testCatalog(), tc.today, DefaultRules())

			if verdicts[0].Eligible {
				t.Fatalf("zero-window item must be ineligible, reason %q", verdicts[0].Reason)
			}
			if verdicts[0].ApplicableWindowDays != 0 {
				t.Fatalf("window = %d, want 0", verdicts[0].ApplicableWindowDays)
			}
			if verdicts[0].Reason != "not returnable (no return window)" {
				t.Fatalf("reason = %q", verdicts[0].Reason)
			}
		})
	}
}

func TestEvaluateNotDelivered(t *testing.T) {
	t.Parallel()

	order := &contractx.Order{
		TrackingID: "TRK-2006",
		Status:     contractx.StatusInTransit,
		ETA:        "2025-09-02",
		Items: []contractx.OrderItem{
			{SKU: "MUG-02", Quantity: 1},
			{SKU: "COFFEE-01", Quantity: 2},
		},
	}

	verdicts := Evaluate(order, testCatalog(), time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC), DefaultRules())
	if len(verdicts) != 2 {
		t.Fatalf("len(verdicts) = %d, want 2", len(verdicts))
	}
	for _, v := range verdicts {
		if v.Eligible {
			t.Fatalf("%s must be ineligible before delivery", v.SKU)
		}
		if v.DaysSinceDelivery != nil {
			t.Fatalf("%s DaysSinceDelivery = %v, want nil", v.SKU, *v.DaysSinceDelivery)
		}
		if v.Reason != "order not yet delivered" {
			t.Fatalf("%s reason = %q", v.SKU, v.Reason)
		}
	}
}

func TestEvaluateUnknownProduct(t *testing.T) {
	t.Parallel()

	order := deliveredOrder("TRK-2007", "2025-08-28", "GHOST-99")
	verdicts := Evaluate(order, testCatalog(), time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC), DefaultRules())

	if verdicts[0].Eligible {
		t.Fatal("unknown SKU must be ineligible")
	}
	if verdicts[0].Reason != "unknown product" {
		t.Fatalf("reason = %q", verdicts[0].Reason)
	}
}

func TestEvaluateForbiddenCategory(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	rules.ForbiddenCategories = []string{"hygiene", "personal care"}

	order := deliveredOrder("TRK-2008", "2025-08-29", "SOAP-07")
	verdicts := Evaluate(order, testCatalog(), time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC), rules)

	if verdicts[0].Eligible {
		t.Fatal("forbidden category must be ineligible")
	}
	if verdicts[0].Reason != `category "hygiene" is not returnable under the returns policy` {
		t.Fatalf("reason = %q", verdicts[0].Reason)
	}
}

func TestEvaluateIsPureAndDeterministic(t *testing.T) {
	t.Parallel()

	today := time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC)
	order := deliveredOrder("TRK-1001", "2025-08-20", "COFFEE-01", "MUG-02")
	catalog := testCatalog()

	before := *order
	first := Evaluate(order, catalog, today, DefaultRules())
	second := Evaluate(order, catalog, today, DefaultRules())

	if !reflect.DeepEqual(first, second) {
		t.Fatal("Evaluate must be deterministic for identical inputs")
	}
	if !reflect.DeepEqual(before.Items, order.Items) || before.Status != order.Status {
		t.Fatal("Evaluate must not mutate the order")
	}
}

func TestForbiddenCategoriesFromPolicy(t *testing.T) {
	t.Parallel()

	text := "Returns are not accepted for categories such as hygiene, personal care and intimate apparel.\n"
	got := ForbiddenCategoriesFromPolicy(text)
	want := []string{"hygiene", "personal care", "intimate apparel"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ForbiddenCategoriesFromPolicy() = %v, want %v", got, want)
	}
}

func TestForbiddenCategoriesFallback(t *testing.T) {
	t.Parallel()

	got := ForbiddenCategoriesFromPolicy("no category sentence here")
	want := []string{"hygiene", "personal care", "intimate apparel"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ForbiddenCategoriesFromPolicy() fallback = %v, want %v", got, want)
	}
}
