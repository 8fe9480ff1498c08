package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kradesk/internal/model"
	"kradesk/internal/parser"
	"kradesk/internal/reconcile"
)

// Import 批量导入 Excel
// POST /api/kras/import            提交（multipart: file + decisions）
// POST /api/kras/import?analyze=true 干跑校验，只读不写
func (h *Handler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	if !parser.AllowedExtension(fileHeader.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type, expected .xlsx or .xls"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read uploaded file"})
		return
	}

	parsed, err := parser.Parse(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	valid, defects := parser.Screen(parsed.Rows)
	rowErrors := make([]string, 0, len(defects))
	for _, d := range defects {
		rowErrors = append(rowErrors, parser.DefectMessage(d))
	}

	if c.Query("analyze") == "true" {
		c.JSON(http.StatusOK, model.AnalyzeResult{
			TotalProcessed: len(parsed.Rows),
			ValidCount:     len(valid),
			Errors:         rowErrors,
		})
		return
	}

	decisions := map[string]string{}
	if raw := c.PostForm("decisions"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &decisions); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid decisions payload"})
			return
		}
	}

	result, err := h.applyImport(fileHeader.Filename, fileHeader.Size, len(parsed.Rows), valid, rowErrors, decisions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// rowToKRA 由导入行构造落库记录
func rowToKRA(row model.RawRow) *model.KRA {
	year := 0
	if row.Year != "" {
		year, _ = strconv.Atoi(row.Year)
	}
	return &model.KRA{
		ID:           uuid.New().String(),
		Title:        row.Title,
		Department:   row.Department,
		Role:         row.Role,
		Year:         year,
		Impact:       row.Impact,
		Description:  row.Description,
		Expectations: row.Expectations,
	}
}

// applyImport 按决策表落库。行级失败只追加到 errors，
// 不中断整批：部分成功（imported>0 且 errors 非空）是一等结果。
func (h *Handler) applyImport(filename string, fileSize int64, total int, valid []model.RawRow, rowErrors []string, decisions map[string]string) (*model.ImportResult, error) {
	logID, logErr := h.store.CreateImportLog(uuid.New().String(), filename, fileSize)

	existing, err := h.store.ListKRAs()
	if err != nil {
		return nil, errors.New("failed to load existing kras")
	}

	cls := reconcile.Classify(valid, existing)
	result := &model.ImportResult{
		TotalProcessed: total,
		Errors:         rowErrors,
	}

	decisionFor := func(key string, fallback reconcile.Action) reconcile.Action {
		if raw, ok := decisions[key]; ok && reconcile.ValidAction(raw) {
			return reconcile.Action(raw)
		}
		return fallback
	}

	rowFailed := func(row model.RawRow, err error) {
		result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", row.RowIndex+1, err))
	}

	for _, item := range cls.NewKRAs {
		switch decisionFor(item.Key, reconcile.ActionCreate) {
		case reconcile.ActionSkip:
			result.SkippedCount++
		default:
			if err := h.store.CreateKRA(rowToKRA(item.Data)); err != nil {
				rowFailed(item.Data, err)
				continue
			}
			result.ImportedCount++
		}
	}

	// 完全一致的行默认不动
	for range cls.PerfectMatches {
		result.SkippedCount++
	}

	for _, item := range cls.PotentialDuplicates {
		switch decisionFor(item.Key, reconcile.ActionSkip) {
		case reconcile.ActionUpdate:
			updated := rowToKRA(item.Import)
			updated.ID = item.Existing.ID
			if err := h.store.UpdateKRA(updated); err != nil {
				rowFailed(item.Import, err)
				continue
			}
			result.ImportedCount++
		case reconcile.ActionCreate, reconcile.ActionCreateSeparate:
			if err := h.store.CreateKRA(rowToKRA(item.Import)); err != nil {
				rowFailed(item.Import, err)
				continue
			}
			result.ImportedCount++
		default:
			result.SkippedCount++
		}
	}

	if logErr == nil {
		status := "completed"
		if len(result.Errors) > 0 {
			status = "completed_with_errors"
		}
		_ = h.store.FinishImportLog(logID, result.TotalProcessed, result.ImportedCount, result.SkippedCount, len(result.Errors), status, "")
	}

	return result, nil
}
