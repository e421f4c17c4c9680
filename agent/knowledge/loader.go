package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	contractx "github.com/ecomarket/support-agent/agent/contract"
)

const (
	ordersFile  = "orders.json"
	catalogFile = "product_catalog.json"
	policyFile  = "returns_policy.md"
	faqFile     = "faqs.md"
)

// Dataset is the read-only reference data loaded once at startup. It is
// never mutated afterwards and safe to share across goroutines.
type Dataset struct {
	Orders       map[string]contractx.Order
	Catalog      map[string]contractx.ProductCatalogEntry
	PolicyText   string
	PolicyChunks []contractx.Chunk
	FAQChunks    []contractx.Chunk
}

// Chunks returns the full retrievable corpus, policy first.
func (d *Dataset) Chunks() []contractx.Chunk {
	out := make([]contractx.Chunk, 0, len(d.PolicyChunks)+len(d.FAQChunks))
	out = append(out, d.PolicyChunks...)
	out = append(out, d.FAQChunks...)
	return out
}

// Order looks up an order by tracking id.
func (d *Dataset) Order(trackingID string) (contractx.Order, bool) {
	o, ok := d.Orders[trackingID]
	return o, ok
}

// Load reads the four dataset files from dataDir and verifies their
// structural invariants. Any failure wraps contract.ErrDataLoad and must
// abort startup; the process never serves with a partial dataset.
func Load(dataDir string) (*Dataset, error) {
	orders, err := loadOrders(filepath.Join(dataDir, ordersFile))
	if err != nil {
		return nil, err
	}

	catalog, err := loadCatalog(filepath.Join(dataDir, catalogFile))
	if err != nil {
		return nil, err
	}

	policyText, err := readText(filepath.Join(dataDir, policyFile))
	if err != nil {
		return nil, err
	}

	faqText, err := readText(filepath.Join(dataDir, faqFile))
	if err != nil {
		return nil, err
	}

	return &Dataset{
		Orders:       orders,
		Catalog:      catalog,
		PolicyText:   policyText,
		PolicyChunks: ChunkPolicy(policyText),
		FAQChunks:    ChunkFAQ(faqText),
	}, nil
}

func loadOrders(path string) (map[string]contractx.Order, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", contractx.ErrDataLoad, filepath.Base(path), err)
	}

	var records []contractx.Order
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", contractx.ErrDataLoad, filepath.Base(path), err)
	}

	orders := make(map[string]contractx.Order, len(records))
	for _, o := range records {
		if strings.TrimSpace(o.TrackingID) == "" {
			return nil, fmt.Errorf("%w: order record without tracking_id", contractx.ErrDataLoad)
		}
		if _, dup := orders[o.TrackingID]; dup {
			return nil, fmt.Errorf("%w: duplicate tracking_id %s", contractx.ErrDataLoad, o.TrackingID)
		}
		if !contractx.ValidOrderStatus(string(o.Status)) {
			return nil, fmt.Errorf("%w: order %s has invalid status %q", contractx.ErrDataLoad, o.TrackingID, o.Status)
		}
		// Delivery date is present exactly when the order is delivered.
		if o.Delivered() && o.DeliveredAt == "" {
			return nil, fmt.Errorf("%w: order %s is Delivered without delivered_at", contractx.ErrDataLoad, o.TrackingID)
		}
		if !o.Delivered() && o.DeliveredAt != "" {
			return nil, fmt.Errorf("%w: order %s has delivered_at but status %s", contractx.ErrDataLoad, o.TrackingID, o.Status)
		}
		if len(o.Items) == 0 {
			return nil, fmt.Errorf("%w: order %s has no items", contractx.ErrDataLoad, o.TrackingID)
		}
		orders[o.TrackingID] = o
	}
	return orders, nil
}

func loadCatalog(path string) (map[string]contractx.ProductCatalogEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", contractx.ErrDataLoad, filepath.Base(path), err)
	}

	var records []contractx.ProductCatalogEntry
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", contractx.ErrDataLoad, filepath.Base(path), err)
	}

	catalog := make(map[string]contractx.ProductCatalogEntry, len(records))
	for _, entry := range records {
		if strings.TrimSpace(entry.SKU) == "" {
			return nil, fmt.Errorf("%w: catalog record without sku", contractx.ErrDataLoad)
		}
		if _, dup := catalog[entry.SKU]; dup {
			return nil, fmt.Errorf("%w: duplicate sku %s", contractx.ErrDataLoad, entry.SKU)
		}
		catalog[entry.SKU] = entry
	}
	return catalog, nil
}

func readText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", contractx.ErrDataLoad, filepath.Base(path), err)
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", fmt.Errorf("%w: %s is empty", contractx.ErrDataLoad, filepath.Base(path))
	}
	return text, nil
}
