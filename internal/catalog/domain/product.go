package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a snapshot of one catalog row. Snapshots are read at
// cart-view or checkout time and never cached across requests by callers;
// prices seen here are the current ones, not the ones a past order paid.
type Product struct {
	ID            int64
	Name          string
	Slug          string
	Description   string
	StockQuantity int
	MRP           decimal.Decimal
	SalePrice     *decimal.Decimal
	Images        []ImageRef
	CreatedAt     time.Time
}

// EffectivePrice is the sale price when one is set, otherwise the list
// price (MRP). A product with neither prices at zero.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.MRP
}

// ImageRef points at one product image. Synthetic marks a primary image
// the catalog invented from the product thumbnail when no upload was
// flagged primary, so renderers can tell the two apart.
type ImageRef struct {
	Source    string
	AltText   string
	IsPrimary bool
	Synthetic bool
}

// PrimaryImage returns the image to lead with: the first ref flagged
// primary, else a synthetic ref built from the first image on file.
func (p *Product) PrimaryImage() (ImageRef, bool) {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img, true
		}
	}
	if len(p.Images) > 0 {
		first := p.Images[0]
		return ImageRef{
			Source:    first.Source,
			AltText:   p.Name,
			IsPrimary: true,
			Synthetic: true,
		}, true
	}
	return ImageRef{}, false
}
