package cart

import (
	"strings"

	"github.com/your-org/storefront/internal/domain/catalog"
)

const (
	DefaultSize  = "One Size"
	DefaultColor = "Default"
)

// Variant is the size and color a line is keyed on
type Variant struct {
	Size  string
	Color string
}

// ResolveVariant picks the size and color independently, in this order:
//  1. the caller's selection, when not blank
//  2. the first non-blank option the product lists
//  3. DefaultSize / DefaultColor
func ResolveVariant(p *catalog.Product, size, color string) Variant {
	return Variant{
		Size:  resolveOption(size, p.Sizes, DefaultSize),
		Color: resolveOption(color, p.Colors, DefaultColor),
	}
}

func resolveOption(selected string, options []string, fallback string) string {
	if s := strings.TrimSpace(selected); s != "" {
		return s
	}
	for _, o := range options {
		if o = strings.TrimSpace(o); o != "" {
			return o
		}
	}
	return fallback
}
