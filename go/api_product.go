package marketserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	producthttpmapper "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/ports"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/shared/envelope"
	apierrors "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/shared/errors"
)

type ProductAPI struct {
	service catalogports.Service
}

func NewProductAPI(service catalogports.Service) ProductAPI {
	return ProductAPI{service: service}
}

// Get /api/products
func (api *ProductAPI) ListProducts(c *gin.Context) {
	views, err := api.service.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err, "Error fetching products")
		return
	}
	c.JSON(http.StatusOK, envelope.OK(producthttpmapper.FromProductViews(views), ""))
}

// Get /api/products/:id
func (api *ProductAPI) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.Respond(c, apierrors.NotFound(msgProductNotFound))
		return
	}
	view, err := api.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Error fetching product")
		return
	}
	c.JSON(http.StatusOK, envelope.OK(producthttpmapper.FromProductView(view), ""))
}

// Post /api/products
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	var payload producthttpmapper.ProductInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadBody(c, err)
		return
	}
	view, err := api.service.CreateProduct(c.Request.Context(), producthttpmapper.ToProductInput(payload))
	if err != nil {
		respondError(c, err, "Error creating product")
		return
	}
	c.JSON(http.StatusCreated, envelope.OK(producthttpmapper.FromProductView(view), "Product created successfully"))
}

// Put /api/products/:id
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.Respond(c, apierrors.NotFound(msgProductNotFound))
		return
	}
	var payload producthttpmapper.ProductInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadBody(c, err)
		return
	}
	view, err := api.service.UpdateProduct(c.Request.Context(), id, producthttpmapper.ToProductInput(payload))
	if err != nil {
		respondError(c, err, "Error updating product")
		return
	}
	c.JSON(http.StatusOK, envelope.OK(producthttpmapper.FromProductView(view), "Product updated successfully"))
}

// Delete /api/products/:id
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	var affected int64
	if id, ok := parseIDParam(c, "id"); ok {
		var err error
		affected, err = api.service.DeleteProduct(c.Request.Context(), id)
		if err != nil {
			respondError(c, err, "Error deleting product")
			return
		}
	}
	c.JSON(http.StatusOK, envelope.OK(gin.H{"affected": affected}, "Product deleted successfully"))
}
