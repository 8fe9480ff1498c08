package parser

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"kradesk/internal/model"
)

// ErrEmptyFile 文件不足一行表头加一行数据
var ErrEmptyFile = errors.New("excel file must have at least a header row and one data row")

// 识别的表头列名（精确匹配，允许首尾空格）
const (
	ColTitle        = "KRA Title"
	ColDepartment   = "Department"
	ColRole         = "Role"
	ColYear         = "Year"
	ColDescription  = "Description"
	ColImpact       = "Impact"
	ColExpectations = "Expectations"
)

// Columns 模板列顺序
var Columns = []string{ColTitle, ColDepartment, ColRole, ColYear, ColImpact, ColDescription, ColExpectations}

// ParseOutput 解析结果：表头 + 按原始顺序排列的数据行
type ParseOutput struct {
	Header []string
	Rows   []model.RawRow
}

// AllowedExtension 判断上传文件扩展名是否受支持
func AllowedExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return true
	}
	return false
}

// Parse 解析上传的工作簿：仅读取第一个 sheet，第一行为表头，
// 全空行跳过（不计入任何总数）。纯转换，无副作用。
func Parse(data []byte) (*ParseOutput, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptyFile
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	out := &ParseOutput{Header: header}
	for rowIdx := 1; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		if isEmptyRow(row) {
			continue
		}
		out.Rows = append(out.Rows, mapRow(header, row, rowIdx-1))
	}

	return out, nil
}

// isEmptyRow 所有单元格均为空
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// mapRow 按表头把一行单元格映射为 RawRow。
// 缺失的列得到空串/默认值，而不是整行失败。
func mapRow(header []string, row []string, rowIndex int) model.RawRow {
	cells := make(map[string]string, len(header))
	for i, name := range header {
		if name == "" {
			continue
		}
		if i < len(row) {
			cells[name] = row[i]
		} else {
			cells[name] = ""
		}
	}

	raw := model.RawRow{
		Title:       strings.TrimSpace(cells[ColTitle]),
		Department:  strings.TrimSpace(cells[ColDepartment]),
		Role:        strings.TrimSpace(cells[ColRole]),
		Year:        strings.TrimSpace(cells[ColYear]),
		Description: strings.TrimSpace(cells[ColDescription]),
		RowIndex:    rowIndex,
	}

	// Impact 为空时默认 Low
	impact := strings.TrimSpace(cells[ColImpact])
	if impact == "" {
		impact = string(model.ImpactLow)
	}
	raw.Impact = impact

	// Expectations 以分号分隔，逐项去空格并丢弃空项
	if exp := cells[ColExpectations]; exp != "" {
		for _, piece := range strings.Split(exp, ";") {
			piece = strings.TrimSpace(piece)
			if piece != "" {
				raw.Expectations = append(raw.Expectations, piece)
			}
		}
	}

	return raw
}
