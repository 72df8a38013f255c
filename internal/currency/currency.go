package currency

import "strings"

// countryHints maps lowercase country-name fragments to currency codes.
// Matching is containment, not equality, so free-text shipping fields
// like "Dubai Marina, Dubai" still resolve.
var countryHints = []struct {
	fragment string
	code     string
}{
	{"hong kong", "HKD"},
	{"hongkong", "HKD"},
	{"dubai", "AED"},
	{"abu dhabi", "AED"},
	{"united arab emirates", "AED"},
	{"uae", "AED"},
	{"china", "CNY"},
	{"united states", "USD"},
	{"usa", "USD"},
}

// Resolve picks exactly one currency code for a transaction. Each tier is
// consulted only when every tier before it produced nothing:
//
//  1. an explicit selection made by the user or calling context
//  2. a country-name fragment found in the shipping country text
//  3. the currency already fixed on the order
//  4. the delivery location code ("D" is Dubai, everything else Hong Kong)
//  5. "USD"
//
// Resolve never returns an empty string.
func Resolve(explicit, shippingCountry, orderCurrency, deliveryLocation string) string {
	if explicit != "" {
		return explicit
	}
	if code := fromCountry(shippingCountry); code != "" {
		return code
	}
	if orderCurrency != "" {
		return orderCurrency
	}
	if deliveryLocation == "D" {
		return "AED"
	}
	if deliveryLocation != "" {
		return "HKD"
	}
	return "USD"
}

func fromCountry(country string) string {
	if country == "" {
		return ""
	}
	lowered := strings.ToLower(country)
	for _, hint := range countryHints {
		if strings.Contains(lowered, hint.fragment) {
			return hint.code
		}
	}
	return ""
}
