package v1

import (
	"github.com/gin-gonic/gin"

	"kradesk/internal/store"
)

// Handler V1 API 处理器
type Handler struct {
	store *store.Store
}

// NewHandler 创建 V1 API 处理器
func NewHandler(store *store.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// KRA 记录
	router.GET("/kras", h.ListKRAs)
	router.POST("/kras", h.CreateKRA)
	router.GET("/kras/:id", h.GetKRA)
	router.PUT("/kras/:id", h.UpdateKRA)
	router.DELETE("/kras/:id", h.DeleteKRA)

	// 批量导入（?analyze=true 为干跑校验）
	router.POST("/kras/import", h.Import)

	// 导入模板下载
	router.GET("/kras/template", h.DownloadTemplate)
}
