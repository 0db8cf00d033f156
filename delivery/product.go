package delivery

import (
	"bazaar/domain"
	"bazaar/dto"
	"bazaar/middleware"
	"bazaar/utils"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ProductHandler struct {
	productUC domain.ProductUseCase
}

// NewProductHandler wires product routes. Reads are public; the
// seller's own listing needs a base token; mutations need an elevated
// seller session minted by the OTP flow.
func NewProductHandler(r *gin.Engine, productUC domain.ProductUseCase, tokens *utils.JWTManager) {
	handler := &ProductHandler{productUC: productUC}

	public := r.Group("/api/products")
	{
		public.GET("", handler.List)
		public.GET("/:id", handler.GetByID)
	}

	protected := r.Group("/api/products")
	protected.Use(middleware.AuthRequired(tokens))
	{
		protected.GET("/seller/my-products", handler.ListMine)
	}

	elevated := r.Group("/api/products")
	elevated.Use(middleware.SellerElevatedRequired(tokens))
	{
		elevated.POST("", handler.Create)
		elevated.PUT("/:id", handler.Update)
		elevated.DELETE("/:id", handler.Delete)
	}
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.productUC.GetAllProducts(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("list products failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetByID(c *gin.Context) {
	product, err := h.productUC.GetProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		log.Error().Err(err).Str("productId", c.Param("id")).Msg("get product failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) ListMine(c *gin.Context) {
	sellerID := c.GetString(middleware.CtxUserID)

	products, err := h.productUC.GetProductsBySeller(c.Request.Context(), sellerID)
	if err != nil {
		log.Error().Err(err).Str("sellerId", sellerID).Msg("list seller products failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": utils.TranslateValidationError(err),
		})
		return
	}

	sellerID := c.GetString(middleware.CtxUserID)
	product := dto.MapCreateProductRequest(&req)
	if err := h.productUC.CreateProduct(c.Request.Context(), sellerID, product); err != nil {
		log.Error().Err(err).Str("sellerId", sellerID).Msg("create product failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": utils.TranslateDBError(err),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": product,
	})
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": utils.TranslateValidationError(err),
		})
		return
	}

	sellerID := c.GetString(middleware.CtxUserID)
	product, err := h.productUC.UpdateProduct(c.Request.Context(), c.Param("id"), sellerID, dto.MapUpdateProductRequest(&req))
	if err != nil {
		h.respondMutationError(c, err, "update")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	sellerID := c.GetString(middleware.CtxUserID)
	if err := h.productUC.DeleteProduct(c.Request.Context(), c.Param("id"), sellerID); err != nil {
		h.respondMutationError(c, err, "delete")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}

func (h *ProductHandler) respondMutationError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
	case errors.Is(err, domain.ErrNotProductOwner):
		c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to " + action + " this product"})
	default:
		log.Error().Err(err).Str("productId", c.Param("id")).Msg(action + " product failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": utils.TranslateDBError(err),
		})
	}
}
