package classify

import (
	"strings"

	"github.com/usuario9410/analisador-mac-adress/common"
)

// TypeClassifier - Resolves a coarse device category from advertisement
// text, brand and signal features. Deliberately heuristic: the contract is
// "most likely category given available text and signal", not ground truth.
type TypeClassifier struct {
	tables *Tables

	// WeakSignalThreshold - RSSI below this suggests a small battery-powered
	// beacon (Sensor/Tag fallback).
	WeakSignalThreshold int
}

// NewTypeClassifier - Create a device-type classifier.
func NewTypeClassifier(tables *Tables, weakSignalThreshold int) *TypeClassifier {
	if tables == nil {
		tables = DefaultTables()
	}
	if weakSignalThreshold == 0 {
		weakSignalThreshold = -90
	}
	return &TypeClassifier{tables: tables, WeakSignalThreshold: weakSignalThreshold}
}

// Classify - Resolve the device category for one observation. A pre-existing
// label on the input row is passed through unchanged; callers that want
// re-classification must clear RawDeviceType first.
func (classifier *TypeClassifier) Classify(observation common.Observation, brand string) string {
	// 1. Pass-through, never overwritten
	if observation.RawDeviceType != "" {
		return observation.RawDeviceType
	}

	// 2. Keyword match on advertised name plus manufacturer blob, fixed
	// category priority order
	searchText := strings.ToLower(observation.Name + " " + observation.ManufacturerData)
	loweredBrand := strings.ToLower(brand)
	for _, rule := range classifier.tables.TypeRules {
		for _, term := range rule.Terms {
			if strings.Contains(searchText, term) {
				return rule.Category
			}
		}
		for _, term := range rule.BrandTerms {
			if strings.Contains(loweredBrand, term) {
				return rule.Category
			}
		}
	}

	// 3. Known smartphone vendors default to Smartphone
	for _, smartphoneBrand := range classifier.tables.SmartphoneBrands {
		if strings.Contains(loweredBrand, smartphoneBrand) {
			return common.DeviceTypeSmartphone
		}
	}

	// 4. Weak advertised signal suggests a battery-powered beacon
	if observation.RSSI != common.RSSIMissing && observation.RSSI < classifier.WeakSignalThreshold {
		return common.DeviceTypeSensorTag
	}

	return common.DeviceTypeUnknown
}
