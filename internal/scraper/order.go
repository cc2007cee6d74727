package scraper

import "strings"

// Strategy identifiers
const (
	StrategyVtex      = "vtex"
	StrategyMagento   = "magento"
	StrategyWordPress = "wordpress"
	StrategyGeneric   = "generic"
	StrategyBrochures = "brochures"
)

// platformOrder maps a vendor name to the ordered strategy list tried for
// it. This is a vendor-specific tuning table, not platform auto-detection:
// the special cases encode which platforms those retailers are known to run,
// and the brochure scan is only ever worth attempting for the vendors that
// publish PDF brochures.
func platformOrder(vendorName string) []string {
	switch strings.ToLower(vendorName) {
	case "cheeksa", "cheek", "vital":
		return []string{StrategyBrochures, StrategyWordPress, StrategyGeneric, StrategyVtex, StrategyMagento}
	case "megatone":
		return []string{StrategyWordPress, StrategyGeneric, StrategyMagento, StrategyVtex}
	case "musimundo":
		return []string{StrategyVtex, StrategyMagento, StrategyWordPress, StrategyGeneric}
	default:
		return []string{StrategyVtex, StrategyMagento, StrategyWordPress, StrategyGeneric}
	}
}
