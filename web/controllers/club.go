package controllers

import (
	"errors"
	"strconv"
	"time"

	"celsius/club/claim"
	"celsius/club/graph"
	"celsius/club/leaderboard"
	"celsius/club/network"
	"celsius/club/qrcode"
	"celsius/logging"
	"celsius/monitoring"
	"celsius/web/db"
	"celsius/web/email"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	analyzer    *network.Analyzer
	coordinator *claim.Coordinator
	claimRepo   *claim.GormRepo
	board       *leaderboard.Board
)

// InitClub wires the referral engine to the database. Call after db.Connect.
func InitClub() {
	loader := graph.NewGormLoader(db.DB)
	analyzer = network.NewAnalyzer(loader)
	claimRepo = claim.NewGormRepo(db.DB)
	coordinator = claim.NewCoordinator(loader, claimRepo, email.ClaimNotifier{}, logging.Logger)

	board = leaderboard.New()
	board.StartMonitor(db.DB, 5*time.Minute)
}

// Network returns the 7-level summary of the caller's referral subtree.
func Network(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(401, gin.H{"error": "Unauthorized"})
		return
	}

	summary, err := analyzer.Summary(c.Request.Context(), userID.(uint))
	if err != nil {
		respondGraphError(c, err)
		return
	}

	c.JSON(200, summary)
}

// NetworkGraph returns the renderable subtree. Depth defaults to 5 so the
// dashboard stays light; the full 7 levels are available on request.
func NetworkGraph(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(401, gin.H{"error": "Unauthorized"})
		return
	}

	depth, _ := strconv.Atoi(c.DefaultQuery("depth", "5"))

	tree, err := analyzer.VisualizationTree(c.Request.Context(), userID.(uint), depth)
	if err != nil {
		respondGraphError(c, err)
		return
	}

	c.JSON(200, gin.H{"graph": tree})
}

func Claim(c *gin.Context) {
	var req struct {
		Level int `json:"level"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request"})
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(401, gin.H{"error": "Unauthorized"})
		return
	}

	created, err := coordinator.ClaimLevel(c.Request.Context(), userID.(uint), req.Level)
	if err != nil {
		respondClaimError(c, err)
		return
	}

	monitoring.ClaimsCreated.WithLabelValues(strconv.Itoa(req.Level)).Inc()
	c.JSON(200, gin.H{"claim": created})
}

func MyClaims(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(401, gin.H{"error": "Unauthorized"})
		return
	}

	claims, err := claimRepo.ListByUser(c.Request.Context(), userID.(uint))
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to fetch claims"})
		return
	}

	c.JSON(200, gin.H{"claims": claims})
}

func Leaderboard(c *gin.Context) {
	n, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if n < 1 || n > 100 {
		n = 10
	}
	c.JSON(200, gin.H{"leaderboard": board.Top(n)})
}

// ReferralQR returns a shareable QR code PNG of the caller's signup link.
func ReferralQR(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	if userinfo.ReferralCode == nil {
		c.JSON(403, gin.H{"error": "Make a qualifying purchase to activate your referral code"})
		return
	}

	png, err := qrcode.GenerateReferralQR(*userinfo.ReferralCode)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to generate QR code"})
		return
	}

	c.Data(200, "image/png", png)
}

func respondGraphError(c *gin.Context, err error) {
	var integrity *network.IntegrityError
	switch {
	case errors.Is(err, graph.ErrNotFound):
		c.JSON(404, gin.H{"error": "User not found"})
	case errors.As(err, &integrity):
		// upstream data corruption, log loudly
		logging.Logger.Error("referral graph corrupted", zap.Error(err))
		c.JSON(500, gin.H{"error": "Referral network is temporarily unavailable"})
	default:
		c.JSON(503, gin.H{"error": "Failed to load referral network, please retry"})
	}
}

func respondClaimError(c *gin.Context, err error) {
	var duplicate *claim.DuplicateError
	var notMet *claim.TargetNotMetError

	switch {
	case errors.Is(err, claim.ErrInvalidLevel):
		monitoring.ClaimsRejected.WithLabelValues("invalid_level").Inc()
		c.JSON(400, gin.H{"error": err.Error()})
	case errors.As(err, &duplicate):
		monitoring.ClaimsRejected.WithLabelValues("duplicate").Inc()
		c.JSON(409, gin.H{
			"error":  "You have already claimed this level",
			"status": duplicate.Status,
		})
	case errors.As(err, &notMet):
		monitoring.ClaimsRejected.WithLabelValues("target_not_met").Inc()
		c.JSON(422, gin.H{
			"error":  err.Error(),
			"level":  notMet.Level,
			"count":  notMet.Count,
			"target": notMet.Target,
		})
	default:
		monitoring.ClaimsRejected.WithLabelValues("internal").Inc()
		respondGraphError(c, err)
	}
}
