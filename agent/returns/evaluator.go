package returns

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/ecomarket/support-agent/agent/contract"
)

const dateLayout = "2006-01-02"

// Rules are the policy knobs for return eligibility.
type Rules struct {
	StandardWindowDays        int
	SealedExceptionWindowDays int
	ForbiddenCategories       []string
}

func DefaultRules() Rules {
	return Rules{
		StandardWindowDays:        30,
		SealedExceptionWindowDays: 7,
	}
}

// Evaluate computes a per-item verdict for every item on the order. It is
// a pure function: same inputs, same verdicts, no clock reads, no input
// mutation. Items are evaluated in order-line order.
func Evaluate(order *contractx.Order, catalog map[string]contractx.ProductCatalogEntry, today time.Time, rules Rules) []contractx.EligibilityVerdict {
	if order == nil {
		return nil
	}

	verdicts := make([]contractx.EligibilityVerdict, 0, len(order.Items))

	if !order.Delivered() {
		for _, item := range order.Items {
			verdicts = append(verdicts, contractx.EligibilityVerdict{
				SKU:      item.SKU,
				Eligible: false,
				Reason:   "order not yet delivered",
			})
		}
		return verdicts
	}

	deliveredAt, err := time.Parse(dateLayout, order.DeliveredAt)
	if err != nil {
		for _, item := range order.Items {
			verdicts = append(verdicts, contractx.EligibilityVerdict{
				SKU:      item.SKU,
				Eligible: false,
				Reason:   "delivery date unavailable",
			})
		}
		return verdicts
	}

	days := daysBetween(deliveredAt, today)
	if days < 0 {
		days = 0
	}

	for _, item := range order.Items {
		verdicts = append(verdicts, evaluateItem(item, catalog, days, rules))
	}
	return verdicts
}

func evaluateItem(item contractx.OrderItem, catalog map[string]contractx.ProductCatalogEntry, days int, rules Rules) contractx.EligibilityVerdict {
	elapsed := days
	v := contractx.EligibilityVerdict{
		SKU:               item.SKU,
		DaysSinceDelivery: &elapsed,
	}

	entry, ok := catalog[item.SKU]
	if !ok {
		v.Reason = "unknown product"
		return v
	}

	if forbiddenCategory(entry.Category, rules.ForbiddenCategories) {
		v.Reason = fmt.Sprintf("category %q is not returnable under the returns policy", entry.Category)
		return v
	}

	if entry.Perishable && !entry.SealedException {
		v.Reason = fmt.Sprintf("perishable %s items are not returnable", entry.Category)
		return v
	}

	sealed := entry.Perishable && entry.SealedException
	window := applicableWindow(entry, sealed, rules)
	v.ApplicableWindowDays = window

	if window <= 0 {
		v.Reason = "not returnable (no return window)"
		return v
	}

	label := "return window"
	if sealed {
		label = "sealed-exception window"
	}

	if days > window {
		v.Reason = fmt.Sprintf("outside the %d-day %s (%d days since delivery)", window, label, days)
		return v
	}

	v.Eligible = true
	v.Reason = fmt.Sprintf("within the %d-day %s (%d days since delivery)", window, label, days)
	return v
}

// applicableWindow takes the catalog window literally, capped at the
// policy limit (7 days for sealed perishables, 30 otherwise). A zero
// window means the item is never returnable.
func applicableWindow(entry contractx.ProductCatalogEntry, sealed bool, rules Rules) int {
	window := entry.ReturnWindowDays
	limit := rules.StandardWindowDays
	if sealed {
		limit = rules.SealedExceptionWindowDays
	}
	if limit > 0 && window > limit {
		window = limit
	}
	return window
}

func forbiddenCategory(category string, forbidden []string) bool {
	c := strings.ToLower(strings.TrimSpace(category))
	for _, f := range forbidden {
		if c == strings.ToLower(strings.TrimSpace(f)) {
			return true
		}
	}
	return false
}

// daysBetween counts whole calendar days from a to b, ignoring clock time.
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au) / (24 * time.Hour))
}
