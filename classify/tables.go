// Package classify resolves a record's brand and coarse device category
// from the vendor registry, BLE company IDs and advertisement text. All
// classification is best-effort: absence of signal degrades to the unknown
// sentinels, never to an error.
package classify

import (
	"strings"

	"github.com/usuario9410/analisador-mac-adress/common"
	"github.com/usuario9410/analisador-mac-adress/util"
)

// KeywordRule - One advertised-name keyword mapping to a brand.
// Table order matters: the first matching keyword wins.
type KeywordRule struct {
	Keyword string `json:"keyword"`
	Brand   string `json:"brand"`
}

// TypeRule - One device category with the name/blob terms that select it.
// Rules are checked in table order, first matching category wins. BrandTerms
// match against the resolved brand instead of the advertisement text.
type TypeRule struct {
	Category   string   `json:"category"`
	Terms      []string `json:"terms"`
	BrandTerms []string `json:"brand_terms,omitempty"`
}

// Tables - Classification data. Kept as data rather than code so policy
// changes (new keywords, reordered categories) do not touch the algorithms.
type Tables struct {
	VendorKeywords   []KeywordRule `json:"vendor_keywords"`
	TypeRules        []TypeRule    `json:"type_rules"`
	SmartphoneBrands []string      `json:"smartphone_brands"`
}

// CompanyIDBrands - BLE manufacturer code (2-byte hex, uppercase, no 0x
// prefix) to brand. Curated constants, distinct from the OUI table.
var CompanyIDBrands = map[string]string{
	"004C": "Apple",
	"0075": "Samsung",
	"00E0": "Google",
	"0057": "Sony",
	"0131": "LG",
	"0006": "Microsoft",
	"038F": "Xiaomi",
	"027D": "Huawei",
	"0087": "Garmin",
	"009E": "Bose",
}

// DefaultTables - Built-in classification tables, used unless a JSON
// override is configured.
func DefaultTables() *Tables {
	return &Tables{
		VendorKeywords: []KeywordRule{
			{"iphone", "Apple"},
			{"ipad", "Apple"},
			{"macbook", "Apple"},
			{"airpods", "Apple"},
			{"apple", "Apple"},
			{"galaxy", "Samsung"},
			{"samsung", "Samsung"},
			{"redmi", "Xiaomi"},
			{"xiaomi", "Xiaomi"},
			{"mi band", "Xiaomi"},
			{"huawei", "Huawei"},
			{"honor", "Huawei"},
			{"motorola", "Motorola"},
			{"moto g", "Motorola"},
			{"pixel", "Google"},
			{"google", "Google"},
			{"sony", "Sony"},
			{"wh-1000", "Sony"},
			{"wf-1000", "Sony"},
			{"jbl", "JBL"},
			{"bose", "Bose"},
			{"garmin", "Garmin"},
			{"fitbit", "Fitbit"},
			{"amazfit", "Amazfit"},
			{"tile", "Tile"},
		},
		TypeRules: []TypeRule{
			{common.DeviceTypeEarbuds, []string{"bud", "pods", "ear", "head", "fone"}, nil},
			{common.DeviceTypeWatch, []string{"watch", "gear", "fit", "band"}, nil},
			{common.DeviceTypeTablet, []string{"ipad", "tablet"}, []string{"tablet"}},
			{common.DeviceTypeComputer, []string{"macbook", "pc", "laptop", "notebook", "desktop"}, []string{"comput"}},
			{common.DeviceTypeSensorTag, []string{"tag", "tile", "sensor", "beacon"}, nil},
		},
		SmartphoneBrands: []string{
			"apple", "samsung", "xiaomi", "huawei", "motorola", "google",
			"oneplus", "oppo", "nokia", "asus",
		},
	}
}

// LoadTables - Load classification tables, applying optional JSON overrides
// on top of the defaults. Empty paths keep the built-in tables.
func LoadTables(vendorKeywordsPath string, typePatternsPath string) (*Tables, bool) {
	tables := DefaultTables()

	if vendorKeywordsPath != "" {
		var keywords []KeywordRule
		if !util.ParseJSONFile(&keywords, vendorKeywordsPath) {
			return nil, false
		}
		tables.VendorKeywords = keywords
	}
	if typePatternsPath != "" {
		var rules []TypeRule
		if !util.ParseJSONFile(&rules, typePatternsPath) {
			return nil, false
		}
		tables.TypeRules = rules
	}

	return tables, true
}

// NormalizeCompanyID - Canonicalize a raw company ID ("0x004C", "4c", "004C")
// to the 4-hex-digit uppercase form used by CompanyIDBrands. Empty if the
// input is not usable.
func NormalizeCompanyID(raw string) string {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	cleaned = strings.TrimPrefix(cleaned, "0X")
	if cleaned == "" || len(cleaned) > 4 {
		return ""
	}
	for _, r := range cleaned {
		if (r < '0' || r > '9') && (r < 'A' || r > 'F') {
			return ""
		}
	}
	for len(cleaned) < 4 {
		cleaned = "0" + cleaned
	}
	return cleaned
}
