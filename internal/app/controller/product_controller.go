package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/smartmart-backend/internal/app/service"
	"github.com/ikkim/smartmart-backend/internal/middleware"
)

type ProductController struct {
	catalog service.CatalogService
}

func NewProductController(catalog service.CatalogService) *ProductController {
	return &ProductController{
		catalog: catalog,
	}
}

// Home shows the first products and the catalog size
// GET /
func (ctrl *ProductController) Home(c *gin.Context) {
	home, err := ctrl.catalog.Home()
	if err != nil {
		failWith(c, err, "product")
		return
	}

	render(c, http.StatusOK, "home.html", gin.H{
		"products":       home.Featured,
		"total_products": home.Total,
	})
}

// List returns all products, filtered by ?search=
// GET /products/
func (ctrl *ProductController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	search := c.Query("search")

	products, err := ctrl.catalog.ListProducts(search)
	if err != nil {
		failWith(c, err, "product")
		return
	}

	log.Debug("Products fetched successfully", map[string]interface{}{
		"search": search,
		"count":  len(products),
	})

	render(c, http.StatusOK, "products.html", gin.H{
		"title":    "Products",
		"products": products,
		"search":   search,
	})
}

// Detail shows one product
// GET /product/:id/
func (ctrl *ProductController) Detail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.catalog.GetProduct(id)
	if err != nil {
		failWith(c, err, "product")
		return
	}

	render(c, http.StatusOK, "product_detail.html", gin.H{
		"title":   product.Name,
		"product": product,
	})
}

// CreateForm shows the empty product form (staff only)
// GET /product/create/
func (ctrl *ProductController) CreateForm(c *gin.Context) {
	render(c, http.StatusOK, "product_form.html", gin.H{
		"title":  "Add product",
		"action": PathProductCreate,
		"form":   gin.H{},
	})
}

// Create adds a product (staff only)
// POST /product/create/
func (ctrl *ProductController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.ProductInput
	if !bindForm(c, &input) {
		return
	}

	product, err := ctrl.catalog.CreateProduct(input)
	if err != nil {
		status, info := describeError(err, "product")
		if status == http.StatusBadRequest {
			log.Warn("Invalid product creation request", map[string]interface{}{
				"error": err.Error(),
			})
			renderForm(c, status, "product_form.html", info.Code, info.Message, gin.H{
				"title":  "Add product",
				"action": PathProductCreate,
				"form": gin.H{
					"name":        input.Name,
					"description": input.Description,
					"price":       input.Price,
					"stock":       input.Stock,
				},
			})
			return
		}
		failWith(c, err, "product")
		return
	}

	log.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
	})
	redirect(c, PathProducts)
}

// UpdateForm shows the product form filled with current values (staff only)
// GET /product/:id/update/
func (ctrl *ProductController) UpdateForm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.catalog.GetProduct(id)
	if err != nil {
		failWith(c, err, "product")
		return
	}

	render(c, http.StatusOK, "product_form.html", gin.H{
		"title":   "Edit " + product.Name,
		"action":  productPath(product.ID) + "update/",
		"product": product,
		"form": gin.H{
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price.StringFixed(2),
			"stock":       product.Stock,
		},
	})
}

// Update changes the submitted fields; omitted fields keep their values
// (staff only)
// POST /product/:id/update/
func (ctrl *ProductController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input service.ProductUpdate
	if !bindForm(c, &input) {
		return
	}

	product, err := ctrl.catalog.UpdateProduct(id, input)
	if err != nil {
		status, info := describeError(err, "product")
		if status == http.StatusBadRequest {
			log.Warn("Invalid product update request", map[string]interface{}{
				"product_id": id,
				"error":      err.Error(),
			})
			renderForm(c, status, "product_form.html", info.Code, info.Message, gin.H{
				"title":  "Edit product",
				"action": productPath(id) + "update/",
				"form": gin.H{
					"name":        c.PostForm("name"),
					"description": c.PostForm("description"),
					"price":       c.PostForm("price"),
					"stock":       c.PostForm("stock"),
				},
			})
			return
		}
		failWith(c, err, "product")
		return
	}

	log.Info("Product updated successfully", map[string]interface{}{
		"product_id": product.ID,
	})
	redirect(c, productPath(product.ID))
}

// DeleteConfirm asks for confirmation (staff only)
// GET /product/:id/delete/
func (ctrl *ProductController) DeleteConfirm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.catalog.GetProduct(id)
	if err != nil {
		failWith(c, err, "product")
		return
	}

	render(c, http.StatusOK, "product_delete.html", gin.H{
		"title":   "Delete " + product.Name,
		"product": product,
	})
}

// Delete removes the product (staff only)
// POST /product/:id/delete/
func (ctrl *ProductController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.catalog.DeleteProduct(id); err != nil {
		failWith(c, err, "product")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Product deleted successfully", map[string]interface{}{
		"product_id": id,
	})
	redirect(c, PathProducts)
}
