package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product categories. T-shirts carry per-size stock counters, everything
// else uses the single one-size counter.
const (
	CategoryTshirt = "tshirt"
	CategoryHat    = "hat"
	CategoryCD     = "cd"
	CategoryOther  = "other"
)

// Stock sizes. SizeOne is the "one-size" bucket used by non-apparel
// products; it is stored as the empty string.
const (
	SizeOne    = ""
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

// Product is the model for the 'products' table.
type Product struct {
	ID          int64           `json:"id" db:"id"`
	Category    string          `json:"category" db:"category"`
	Name        string          `json:"name" db:"name"`
	Slug        string          `json:"slug" db:"slug"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Description string          `json:"description" db:"description"`

	// Per-size stock counters. Counters must never go negative; every
	// decrement is preceded by an availability check on the live value.
	OneSizeStock int `json:"oneSizeStock" db:"one_size_stock"`
	SmallStock   int `json:"smallStock" db:"small_stock"`
	MediumStock  int `json:"mediumStock" db:"medium_stock"`
	LargeStock   int `json:"largeStock" db:"large_stock"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Sized reports whether stock for this product is tracked per size.
func (p *Product) Sized() bool {
	return p.Category == CategoryTshirt
}

// NormalizeSize maps a submitted size onto the bucket this product actually
// tracks: non-apparel products always resolve to the one-size bucket.
func (p *Product) NormalizeSize(size string) string {
	if !p.Sized() {
		return SizeOne
	}
	return size
}

// StockFor returns the live counter for the given (already normalised) size.
func (p *Product) StockFor(size string) int {
	switch size {
	case SizeSmall:
		return p.SmallStock
	case SizeMedium:
		return p.MediumStock
	case SizeLarge:
		return p.LargeStock
	default:
		return p.OneSizeStock
	}
}

// SetStock writes the counter for the given (already normalised) size.
func (p *Product) SetStock(size string, stock int) {
	switch size {
	case SizeSmall:
		p.SmallStock = stock
	case SizeMedium:
		p.MediumStock = stock
	case SizeLarge:
		p.LargeStock = stock
	default:
		p.OneSizeStock = stock
	}
}

// ValidCategory reports whether category is one of the closed set.
func ValidCategory(category string) bool {
	switch category {
	case CategoryTshirt, CategoryHat, CategoryCD, CategoryOther:
		return true
	}
	return false
}

// ValidApparelSize reports whether size names one of the three tracked
// apparel buckets.
func ValidApparelSize(size string) bool {
	switch size {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}
