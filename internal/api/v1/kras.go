package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kradesk/internal/model"
	"kradesk/internal/store"
)

// kraRequest KRA 创建/更新请求体
type kraRequest struct {
	Title        string   `json:"kra_title" binding:"required"`
	Department   string   `json:"department" binding:"required"`
	Role         string   `json:"role" binding:"required"`
	Year         int      `json:"year"`
	Impact       string   `json:"impact"`
	Description  string   `json:"description" binding:"required"`
	Expectations []string `json:"expectations"`
}

// ListKRAs 返回全部 KRA
// GET /api/kras
func (h *Handler) ListKRAs(c *gin.Context) {
	kras, err := h.store.ListKRAs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list kras"})
		return
	}
	if kras == nil {
		kras = []model.KRA{}
	}
	c.JSON(http.StatusOK, gin.H{"kras": kras})
}

// GetKRA 按 ID 获取 KRA
// GET /api/kras/:id
func (h *Handler) GetKRA(c *gin.Context) {
	kra, err := h.store.GetKRA(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "kra not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get kra"})
		return
	}
	c.JSON(http.StatusOK, kra)
}

// CreateKRA 创建 KRA
// POST /api/kras
func (h *Handler) CreateKRA(c *gin.Context) {
	var req kraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	impact := req.Impact
	if impact == "" {
		impact = string(model.ImpactLow)
	}
	if !model.ValidImpact(impact) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "impact must be one of: Low, Medium, High"})
		return
	}

	kra := &model.KRA{
		ID:           uuid.New().String(),
		Title:        req.Title,
		Department:   req.Department,
		Role:         req.Role,
		Year:         req.Year,
		Impact:       impact,
		Description:  req.Description,
		Expectations: req.Expectations,
	}

	if err := h.store.CreateKRA(kra); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create kra"})
		return
	}
	c.JSON(http.StatusCreated, kra)
}

// UpdateKRA 覆盖更新 KRA
// PUT /api/kras/:id
func (h *Handler) UpdateKRA(c *gin.Context) {
	var req kraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	impact := req.Impact
	if impact == "" {
		impact = string(model.ImpactLow)
	}
	if !model.ValidImpact(impact) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "impact must be one of: Low, Medium, High"})
		return
	}

	kra := &model.KRA{
		ID:           c.Param("id"),
		Title:        req.Title,
		Department:   req.Department,
		Role:         req.Role,
		Year:         req.Year,
		Impact:       impact,
		Description:  req.Description,
		Expectations: req.Expectations,
	}

	err := h.store.UpdateKRA(kra)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "kra not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update kra"})
		return
	}
	c.JSON(http.StatusOK, kra)
}

// DeleteKRA 删除 KRA
// DELETE /api/kras/:id
func (h *Handler) DeleteKRA(c *gin.Context) {
	err := h.store.DeleteKRA(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "kra not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete kra"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
