package mapper

import (
	"github.com/shopspring/decimal"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/application/types"
)

// ProductInput is the body of POST and PUT /api/products. Absent fields stay nil so updates
// can merge.
type ProductInput struct {
	Name  *string          `json:"name"`
	Price *decimal.Decimal `json:"price"`
	Image *string          `json:"image"`
}

type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	ImageURL string  `json:"imageUrl"`
}

func ToProductInput(req ProductInput) types.ProductInput {
	return types.ProductInput{Name: req.Name, Price: req.Price, Image: req.Image}
}

func FromProductView(view *types.ProductView) Product {
	if view == nil || view.Product == nil {
		return Product{}
	}
	return Product{
		ID:       view.Product.ID,
		Name:     view.Product.Name,
		Price:    view.Product.Price.InexactFloat64(),
		Image:    view.Product.Image,
		ImageURL: view.ImageURL,
	}
}

func FromProductViews(views []*types.ProductView) []Product {
	out := make([]Product, 0, len(views))
	for _, v := range views {
		out = append(out, FromProductView(v))
	}
	return out
}
