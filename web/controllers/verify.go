package controllers

import (
	"fmt"
	"net/http"
	"time"

	"celsius/web/db"

	"github.com/gin-gonic/gin"
)

func verifyPage(title string, heading string, message string, success bool) []byte {
	color := "#e74c3c"
	link := ""
	if success {
		color = "#2ecc71"
		link = `<a href="/login">Go to Login</a>`
	}
	return []byte(fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>%s</title>
<style>
    body { font-family: Arial, sans-serif; background: #f2f2f2; display: flex; justify-content: center; align-items: center; height: 100vh; }
    .container { background: #fff; padding: 40px; border-radius: 10px; box-shadow: 0 4px 10px rgba(0,0,0,0.1); text-align: center; max-width: 400px; }
    h2 { color: %s; }
    p { color: #333; }
    a { display: inline-block; margin-top: 20px; padding: 10px 20px; color: #fff; background: #3498db; border-radius: 5px; text-decoration: none; }
    a:hover { background: #2980b9; }
</style>
</head>
<body>
<div class="container">
<h2>%s</h2>
<p>%s</p>
%s
</div>
</body>
</html>
`, title, color, heading, message, link))
}

func VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.Data(http.StatusBadRequest, "text/html; charset=utf-8",
			verifyPage("Verification Error", "Token is required", "Please check your email link and try again.", false))
		return
	}

	var user db.User
	result := db.DB.First(&user, "verify_token = ?", token)
	if result.Error != nil {
		c.Data(http.StatusBadRequest, "text/html; charset=utf-8",
			verifyPage("Verification Error", "Invalid token", "The verification link is invalid. Please sign up again.", false))
		return
	}

	if user.TokenExpiry.Before(time.Now()) {
		db.DB.Delete(&user)
		c.Data(http.StatusBadRequest, "text/html; charset=utf-8",
			verifyPage("Token Expired", "Token expired", "Your verification link has expired. Please sign up again.", false))
		return
	}

	user.IsVerified = true
	user.VerifyToken = ""
	db.DB.Save(&user)

	c.Data(http.StatusOK, "text/html; charset=utf-8",
		verifyPage("Email Verified", "Email Verified!", "Your email has been successfully verified. You can now log in.", true))
}
