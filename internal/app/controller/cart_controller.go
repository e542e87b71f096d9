package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/ikkim/smartmart-backend/internal/app/model"
	"github.com/ikkim/smartmart-backend/internal/app/service"
	apperrors "github.com/ikkim/smartmart-backend/internal/errors"
	"github.com/ikkim/smartmart-backend/internal/middleware"
)

// addToCartForm leaves Quantity nil when the field is not posted
type addToCartForm struct {
	Quantity *int `form:"quantity" binding:"omitempty,min=1,max=10000"`
}

type CartController struct {
	carts service.CartService
}

func NewCartController(carts service.CartService) *CartController {
	return &CartController{
		carts: carts,
	}
}

// View shows the current user's cart and its total
// GET /cart/
func (ctrl *CartController) View(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	view, err := ctrl.carts.View(userID)
	if err != nil {
		failWith(c, err, "cart")
		return
	}

	render(c, http.StatusOK, "cart.html", gin.H{
		"title": "Cart",
		"cart":  view.Cart,
		"items": view.Items,
		"total": view.Total,
	})
}

// Add puts a product in the cart, merging with an existing line
// POST /cart/add/:id/
func (ctrl *CartController) Add(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	productID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var form addToCartForm
	if err := c.ShouldBindWith(&form, binding.FormPost); err != nil {
		log.Warn("Invalid cart quantity", map[string]interface{}{
			"quantity": c.PostForm("quantity"),
			"error":    err.Error(),
		})
		renderError(c, http.StatusBadRequest, apperrors.ValidationInvalidInput,
			fmt.Sprintf("Quantity must be a whole number from 1 to %d", model.MaxCartItemQuantity))
		return
	}
	quantity := 1
	if form.Quantity != nil {
		quantity = *form.Quantity
	}

	item, err := ctrl.carts.Add(userID, productID, quantity)
	if err != nil {
		failWith(c, err, "product")
		return
	}

	log.Info("Product added to cart", map[string]interface{}{
		"cart_item_id": item.ID,
		"quantity":     item.Quantity,
	})
	redirect(c, PathCart)
}
