package controllers

import (
	"net/http"
	"os"
	"time"

	"celsius/web/db"
	"celsius/web/email"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func Signup(c *gin.Context) {
	var body struct {
		Email        string `json:"email"`
		Password     string `json:"password"`
		Name         string `json:"name"`
		ReferralCode string `json:"referral_code"`
	}

	if c.Bind(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read body",
		})
		return
	}

	// Hash the password
	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), 10)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to hash password.",
		})
		return
	}

	// Resolve the referral code captured at signup. Codes only exist for
	// activated members, so a match is always a valid referrer.
	var referrerID *uint
	if body.ReferralCode != "" {
		var referrer db.User
		db.DB.First(&referrer, "referral_code = ?", body.ReferralCode)
		if referrer.ID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid referral code",
			})
			return
		}
		referrerID = &referrer.ID
	}

	user := db.User{
		Email:      body.Email,
		Password:   string(hash),
		Name:       body.Name,
		ReferrerID: referrerID,

		IsVerified:  false,
		VerifyToken: uuid.New().String(),
		TokenExpiry: time.Now().Add(24 * time.Hour), // token valid for 24 hours
	}

	result := db.DB.Create(&user)

	if result.Error != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to create user." + result.Error.Error(),
		})
		return
	}

	// send verification email
	go func() {
		email.SendVerificationEmail(user.Email, user.VerifyToken)
	}()

	c.JSON(http.StatusOK, gin.H{})
}

func Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if c.Bind(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read body",
		})
		return
	}

	var user db.User
	db.DB.First(&user, "email = ?", body.Email)
	if user.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid email or password",
		})
		return
	}

	if !user.IsVerified {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Email not verified, please click the link in the verification email",
		})
		return
	}

	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid email or password",
		})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID,
		"exp": time.Now().Add(time.Hour * 24 * 30).Unix(),
	})

	tokenString, err := token.SignedString([]byte(os.Getenv("SECRET")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to create token",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
	})
}

func User(c *gin.Context) {
	user, _ := c.Get("user")

	userinfo := user.(db.User)

	referralCode := ""
	if userinfo.ReferralCode != nil {
		referralCode = *userinfo.ReferralCode
	}

	c.JSON(http.StatusOK, gin.H{
		"email":            userinfo.Email,
		"name":             userinfo.Name,
		"member_since":     userinfo.CreatedAt.Format(time.RFC3339),
		"is_active_member": userinfo.IsActiveMember,
		"referral_code":    referralCode,
		"balance":          userinfo.Balance,
	})
}

// CreditBalance tops up a user's store balance. Admin only; the real payment
// gateway lives outside this service and calls in through here.
func CreditBalance(c *gin.Context) {
	var req struct {
		Email  string `json:"email"`
		Amount int    `json:"amount"` // in cents
	}
	if err := c.BindJSON(&req); err != nil || req.Amount <= 0 {
		c.JSON(400, gin.H{"error": "Invalid request"})
		return
	}

	var user db.User
	db.DB.First(&user, "email = ?", req.Email)
	if user.ID == 0 {
		c.JSON(404, gin.H{"error": "User not found"})
		return
	}

	user.Balance += req.Amount
	if err := db.DB.Save(&user).Error; err != nil {
		c.JSON(500, gin.H{"error": "Failed to update balance"})
		return
	}

	c.JSON(200, gin.H{"message": "Balance updated", "balance": user.Balance})
}
