package classify

import (
	"strings"

	"github.com/usuario9410/analisador-mac-adress/common"
	"github.com/usuario9410/analisador-mac-adress/mac"
	"github.com/usuario9410/analisador-mac-adress/oui"
)

// VendorClassifier - Resolves a record's brand. Resolution order: registry
// lookup on the OUI prefix, then the BLE company-ID table, then a keyword
// scan of the advertised name, then the unknown sentinel.
type VendorClassifier struct {
	registry *oui.Registry
	tables   *Tables
}

// NewVendorClassifier - Create a vendor classifier backed by the shared
// read-only registry.
func NewVendorClassifier(registry *oui.Registry, tables *Tables) *VendorClassifier {
	if tables == nil {
		tables = DefaultTables()
	}
	return &VendorClassifier{registry: registry, tables: tables}
}

// Classify - Resolve the brand for one observation. normalizedMAC may be
// empty for rows whose raw address failed normalization.
func (classifier *VendorClassifier) Classify(normalizedMAC string, advertisedName string, companyID string) string {
	// 1. Registry lookup on the OUI prefix
	if normalizedMAC != "" {
		if organization := classifier.registry.Lookup(mac.OUIPrefix(normalizedMAC)); organization != oui.UnknownVendor {
			return organization
		}
	}

	// 2. BLE manufacturer code
	if companyID != "" {
		if brand, found := CompanyIDBrands[NormalizeCompanyID(companyID)]; found {
			return brand
		}
	}

	// 3. Keyword scan of the advertised name, table order is fixed
	if advertisedName != "" {
		lowered := strings.ToLower(advertisedName)
		for _, rule := range classifier.tables.VendorKeywords {
			if strings.Contains(lowered, rule.Keyword) {
				return rule.Brand
			}
		}
	}

	return common.UnknownBrand
}
