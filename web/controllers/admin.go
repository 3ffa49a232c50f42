package controllers

import (
	"time"

	"celsius/club/claim"
	"celsius/web/db"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// SetClaimStatus moves a claim through PENDING → APPROVED → DELIVERED.
// Creation is gated by the coordinator; these transitions are admin-driven.
func SetClaimStatus(c *gin.Context) {
	var req struct {
		ClaimID uint   `json:"claim_id"`
		Status  string `json:"status"`
		Note    string `json:"note"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request"})
		return
	}

	next := claim.Status(req.Status)
	if next != claim.StatusApproved && next != claim.StatusDelivered {
		c.JSON(400, gin.H{"error": "Status must be APPROVED or DELIVERED"})
		return
	}

	var cl claim.Claim
	if err := db.DB.First(&cl, req.ClaimID).Error; err != nil {
		c.JSON(404, gin.H{"error": "Claim not found"})
		return
	}

	// only forward transitions
	if (cl.Status == claim.StatusPending && next != claim.StatusApproved) ||
		(cl.Status == claim.StatusApproved && next != claim.StatusDelivered) ||
		cl.Status == claim.StatusDelivered {
		c.JSON(409, gin.H{"error": "Invalid status transition", "current": cl.Status})
		return
	}

	now := time.Now()
	cl.Status = next
	cl.ProcessedAt = &now
	if req.Note != "" {
		cl.AdminNote = req.Note
	}

	if err := db.DB.Save(&cl).Error; err != nil {
		c.JSON(500, gin.H{"error": "Failed to update claim"})
		return
	}

	c.JSON(200, gin.H{"message": "Claim updated", "claim": cl})
}

func ListPendingClaims(c *gin.Context) {
	var claims []claim.Claim
	err := db.DB.Where("status = ?", claim.StatusPending).
		Order("claimed_at ASC").Find(&claims).Error
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to fetch claims"})
		return
	}
	c.JSON(200, gin.H{"claims": claims})
}

func SystemStatus(c *gin.Context) {
	cpuPercent, err := cpu.Percent(0, false)
	if err != nil || len(cpuPercent) == 0 {
		cpuPercent = []float64{0}
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to read memory stats"})
		return
	}

	c.JSON(200, gin.H{
		"cpu_percent":    cpuPercent[0],
		"memory_percent": vm.UsedPercent,
		"memory_used":    vm.Used,
		"memory_total":   vm.Total,
	})
}
