package controllers

import (
	"errors"
	"net/http"
	"strings"

	"enorae-backend/config"
	"enorae-backend/models"
	"enorae-backend/services"
	"enorae-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateProductInput struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	SKU           string  `json:"sku"`
	UnitOfMeasure string  `json:"unitOfMeasure"`
	CostPrice     float64 `json:"costPrice" binding:"min=0"`
	RetailPrice   float64 `json:"retailPrice" binding:"min=0"`
	ReorderPoint  float64 `json:"reorderPoint" binding:"min=0"`
	InitialStock  float64 `json:"initialStock" binding:"min=0"`
}

type UpdateProductInput struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	SKU           *string  `json:"sku"`
	UnitOfMeasure *string  `json:"unitOfMeasure"`
	CostPrice     *float64 `json:"costPrice" binding:"omitempty,min=0"`
	RetailPrice   *float64 `json:"retailPrice" binding:"omitempty,min=0"`
	ReorderPoint  *float64 `json:"reorderPoint" binding:"omitempty,min=0"`
	IsActive      *bool    `json:"isActive"`
}

type StockMovementInput struct {
	MovementType string  `json:"movementType" binding:"required"`
	Quantity     float64 `json:"quantity"`
	Notes        string  `json:"notes" binding:"max=500"`
}

type ProductUsageInput struct {
	ServiceID          uuid.UUID `json:"serviceId" binding:"required"`
	ProductID          uuid.UUID `json:"productId" binding:"required"`
	QuantityPerService float64   `json:"quantityPerService" binding:"gt=0"`
	IsRequired         bool      `json:"isRequired"`
}

type UpdateProductUsageInput struct {
	QuantityPerService *float64 `json:"quantityPerService" binding:"omitempty,gt=0"`
	IsRequired         *bool    `json:"isRequired"`
}

// respondStockError maps inventory service errors onto HTTP answers.
func respondStockError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Product not found")
	case errors.Is(err, services.ErrInsufficientStock):
		utils.RespondWithError(c, http.StatusUnprocessableEntity, "Not enough stock on hand")
	case errors.Is(err, services.ErrInvalidMovement):
		utils.RespondWithError(c, http.StatusBadRequest,
			"Movement type must be in, out or adjustment with a non-zero quantity (positive for in and out)")
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record stock movement")
	}
}

// ListProducts lists the salon's products. ?lowStock=true keeps only the
// active ones at or under their reorder point.
func ListProducts(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	q := config.DB.Where("salon_id = ?", salonID)
	if c.Query("lowStock") == "true" {
		q = q.Where("is_active = ? AND quantity_on_hand <= reorder_point", true)
	}

	var products []models.Product
	if err := q.Order("name").Find(&products).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// CreateProduct adds a product. Initial stock goes through the movement
// ledger like any other receipt.
func CreateProduct(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	userID, ok := userFromContext(c)
	if !ok {
		return
	}

	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	product := models.Product{
		SalonID:       salonID,
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		SKU:           strings.TrimSpace(input.SKU),
		UnitOfMeasure: input.UnitOfMeasure,
		CostPrice:     input.CostPrice,
		RetailPrice:   input.RetailPrice,
		ReorderPoint:  input.ReorderPoint,
		IsActive:      true,
	}
	if product.UnitOfMeasure == "" {
		product.UnitOfMeasure = "unit"
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		if input.InitialStock == 0 {
			return nil
		}
		stocked, err := services.ApplyMovement(tx, &models.StockMovement{
			SalonID:       salonID,
			ProductID:     product.ID,
			MovementType:  models.MovementIn,
			Quantity:      input.InitialStock,
			Notes:         "Initial stock",
			PerformedByID: userID,
		})
		if err != nil {
			return err
		}
		product.QuantityOnHand = stocked.QuantityOnHand
		return nil
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct edits product details. Stock only changes through movements.
func UpdateProduct(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "product")
	if !ok {
		return
	}

	var input UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var product models.Product
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, id).First(&product).Error; err != nil {
		respondLookupError(c, err, "Product not found")
		return
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.SKU != nil {
		product.SKU = strings.TrimSpace(*input.SKU)
	}
	if input.UnitOfMeasure != nil {
		product.UnitOfMeasure = *input.UnitOfMeasure
	}
	if input.CostPrice != nil {
		product.CostPrice = *input.CostPrice
	}
	if input.RetailPrice != nil {
		product.RetailPrice = *input.RetailPrice
	}
	if input.ReorderPoint != nil {
		product.ReorderPoint = *input.ReorderPoint
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if product.Name == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Product name is required")
		return
	}

	if err := config.DB.Save(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct soft deletes a product. Its movement history stays.
func DeleteProduct(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "product")
	if !ok {
		return
	}

	result := config.DB.Where("salon_id = ? AND id = ?", salonID, id).Delete(&models.Product{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// RecordStockMovement receives, removes or adjusts stock of one product.
func RecordStockMovement(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	userID, ok := userFromContext(c)
	if !ok {
		return
	}
	productID, ok := paramUUID(c, "id", "product")
	if !ok {
		return
	}

	var input StockMovementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if err := services.ValidateManualMovement(input.MovementType, input.Quantity); err != nil {
		respondStockError(c, err)
		return
	}

	movement := models.StockMovement{
		SalonID:       salonID,
		ProductID:     productID,
		MovementType:  input.MovementType,
		Quantity:      input.Quantity,
		Notes:         strings.TrimSpace(input.Notes),
		PerformedByID: userID,
	}
	var product *models.Product
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		product, err = services.ApplyMovement(tx, &movement)
		return err
	})
	if err != nil {
		respondStockError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"movement": movement, "product": product})
}

// ListStockMovements pages through the salon's ledger, newest first.
func ListStockMovements(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	limit, offset := pageParams(c)

	q := config.DB.Where("salon_id = ?", salonID)
	if raw := c.Query("productId"); raw != "" {
		productID, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid product ID format")
			return
		}
		q = q.Where("product_id = ?", productID)
	}
	if t := c.Query("type"); t != "" {
		q = q.Where("movement_type = ?", t)
	}

	var movements []models.StockMovement
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&movements).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve stock movements")
		return
	}
	c.JSON(http.StatusOK, movements)
}

func ListProductUsage(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	q := config.DB.Where("salon_id = ?", salonID)
	if raw := c.Query("serviceId"); raw != "" {
		serviceID, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
			return
		}
		q = q.Where("service_id = ?", serviceID)
	}

	var usages []models.ServiceProductUsage
	if err := q.Order("created_at").Find(&usages).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve product usage")
		return
	}
	c.JSON(http.StatusOK, usages)
}

// CreateProductUsage maps a product to a service. Both must belong to the
// salon and a pair is mapped at most once.
func CreateProductUsage(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	userID, ok := userFromContext(c)
	if !ok {
		return
	}

	var input ProductUsageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var count int64
	if err := config.DB.Model(&models.Service{}).
		Where("salon_id = ? AND id = ?", salonID, input.ServiceID).Count(&count).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if count == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}
	if err := config.DB.Model(&models.Product{}).
		Where("salon_id = ? AND id = ?", salonID, input.ProductID).Count(&count).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if count == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		return
	}

	var existing models.ServiceProductUsage
	err := config.DB.Where("service_id = ? AND product_id = ?", input.ServiceID, input.ProductID).First(&existing).Error
	if err == nil {
		utils.RespondWithError(c, http.StatusConflict, "This product is already mapped to the service")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	usage := models.ServiceProductUsage{
		SalonID:            salonID,
		ServiceID:          input.ServiceID,
		ProductID:          input.ProductID,
		QuantityPerService: input.QuantityPerService,
		IsRequired:         input.IsRequired,
		CreatedByID:        userID,
		UpdatedByID:        userID,
	}
	if err := config.DB.Create(&usage).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create product usage")
		return
	}
	c.JSON(http.StatusCreated, usage)
}

func UpdateProductUsage(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	userID, ok := userFromContext(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "product usage")
	if !ok {
		return
	}

	var input UpdateProductUsageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var usage models.ServiceProductUsage
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, id).First(&usage).Error; err != nil {
		respondLookupError(c, err, "Product usage not found")
		return
	}
	if input.QuantityPerService != nil {
		usage.QuantityPerService = *input.QuantityPerService
	}
	if input.IsRequired != nil {
		usage.IsRequired = *input.IsRequired
	}
	usage.UpdatedByID = userID

	if err := config.DB.Save(&usage).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update product usage")
		return
	}
	c.JSON(http.StatusOK, usage)
}

func DeleteProductUsage(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "product usage")
	if !ok {
		return
	}

	result := config.DB.Where("salon_id = ? AND id = ?", salonID, id).Delete(&models.ServiceProductUsage{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete product usage")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Product usage not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product usage deleted"})
}
