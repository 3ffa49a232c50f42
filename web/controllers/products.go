package controllers

import (
	"errors"

	"celsius/monitoring"
	"celsius/utils"
	"celsius/web/db"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func ListProducts(c *gin.Context) {
	var products []db.Product
	if err := db.DB.Where("stock > 0").Find(&products).Error; err != nil {
		c.JSON(500, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(200, gin.H{"products": products})
}

func CreateProduct(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Price       int    `json:"price"` // in cents
		Stock       int    `json:"stock"`
		Qualifying  bool   `json:"qualifying"`
	}
	if err := c.BindJSON(&req); err != nil || req.Name == "" || req.Price <= 0 {
		c.JSON(400, gin.H{"error": "Invalid request"})
		return
	}

	product := db.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Qualifying:  req.Qualifying,
	}
	if err := db.DB.Create(&product).Error; err != nil {
		c.JSON(500, gin.H{"error": "Failed to create product"})
		return
	}
	c.JSON(200, gin.H{"message": "Product created successfully", "product": product})
}

// PlaceOrder debits the user's balance inside a transaction. A first
// qualifying purchase activates club membership and issues the referral
// code; the membership flag never flips back.
func PlaceOrder(userID uint, productID uint, quantity int) (*db.Order, bool, error) {
	var order db.Order
	activated := false

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var user db.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, userID).Error; err != nil {
			return errors.New("user not found")
		}

		var product db.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, productID).Error; err != nil {
			return errors.New("product not found")
		}

		if product.Stock < quantity {
			return errors.New("not enough stock")
		}

		total := product.Price * quantity
		if user.Balance < total {
			return errors.New("insufficient balance")
		}

		user.Balance -= total
		product.Stock -= quantity

		if product.Qualifying && !user.IsActiveMember {
			user.IsActiveMember = true
			code := utils.GenerateReferralCode()
			user.ReferralCode = &code
			activated = true
		}

		order = db.Order{
			UserID:    user.ID,
			ProductID: product.ID,
			Quantity:  quantity,
			Total:     total,
			Status:    "paid",
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		if err := tx.Save(&product).Error; err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return &order, activated, nil
}

func Order(c *gin.Context) {
	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	}
	if err := c.BindJSON(&req); err != nil || req.ProductID == 0 {
		c.JSON(400, gin.H{"error": "Invalid request"})
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(401, gin.H{"error": "Unauthorized"})
		return
	}

	order, activated, err := PlaceOrder(userID.(uint), req.ProductID, req.Quantity)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	monitoring.OrdersPaid.Inc()
	if activated {
		monitoring.MembersActivated.Inc()
	}

	c.JSON(200, gin.H{
		"order":          order,
		"club_activated": activated,
	})
}

func ListOrders(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(401, gin.H{"error": "Unauthorized"})
		return
	}

	var orders []db.Order
	err := db.DB.Where("user_id = ?", userID.(uint)).
		Order("created_at DESC").Find(&orders).Error
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(200, gin.H{"orders": orders})
}
