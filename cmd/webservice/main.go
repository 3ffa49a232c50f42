package main

import (
	"os"
	"time"

	"celsius/logging"
	"celsius/utils"
	"celsius/web/controllers"
	"celsius/web/db"
	"celsius/web/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	utils.LoadEnv()

	if err := logging.InitLogger(os.Getenv("GIN_MODE") == "release"); err != nil {
		panic(err)
	}

	db.Connect()
	db.Sync()
}

func main() {
	defer logging.Logger.Sync()

	controllers.InitClub()

	r := gin.Default()
	r.Use(cors.Default())

	globalLimiter := middleware.NewRateLimiter(15) // 15 requests/min/IP
	globalLimiter.StartCleanup(10 * time.Minute)
	limited := globalLimiter.Middleware()

	r.POST("/signup", limited, controllers.Signup)
	r.GET("/verify", limited, controllers.VerifyEmail)
	r.POST("/login", limited, controllers.Login)
	r.GET("/user", limited, middleware.RequireAuth, controllers.User)

	r.GET("/products", limited, controllers.ListProducts)
	r.POST("/orders", limited, middleware.RequireAuth, controllers.Order)
	r.GET("/orders", limited, middleware.RequireAuth, controllers.ListOrders)

	r.GET("/club/network", limited, middleware.RequireAuth, controllers.Network)
	r.GET("/club/network/graph", limited, middleware.RequireAuth, controllers.NetworkGraph)
	r.POST("/club/claim", limited, middleware.RequireAuth, controllers.Claim)
	r.GET("/club/claims", limited, middleware.RequireAuth, controllers.MyClaims)
	r.GET("/club/leaderboard", limited, controllers.Leaderboard)
	r.GET("/club/qrcode", limited, middleware.RequireAuth, controllers.ReferralQR)

	// Admin routes
	r.POST("/admin/products", middleware.AdminAuth, controllers.CreateProduct)
	r.POST("/admin/credit", middleware.AdminAuth, controllers.CreditBalance)
	r.POST("/admin/claims/status", middleware.AdminAuth, controllers.SetClaimStatus)
	r.GET("/admin/claims/pending", middleware.AdminAuth, controllers.ListPendingClaims)
	r.GET("/admin/status", middleware.AdminAuth, controllers.SystemStatus)

	r.GET("/metrics", middleware.AdminAuth, gin.WrapH(promhttp.Handler()))

	r.Run()
}
