// Package pricing derives the selling price of a product from its base
// price and discount percentage.
package pricing

import "math"

// FinalPrice applies a percentage discount to a base price.
// A discount of 10 on a price of 999 yields 899.10.
func FinalPrice(price, discount float64) float64 {
	return price - price*discount/100
}

// PreviewPrice is the final price rounded to two decimals, as shown in
// the wizard's live preview.
func PreviewPrice(price, discount float64) float64 {
	return math.Round(FinalPrice(price, discount)*100) / 100
}

// CatalogPrice is the final price rounded to whole units, as shown in
// catalog listings.
func CatalogPrice(price, discount float64) int {
	return int(math.Round(FinalPrice(price, discount)))
}
