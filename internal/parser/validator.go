package parser

import (
	"fmt"
	"strconv"

	"kradesk/internal/model"
)

// Year 合法区间
const (
	MinYear = 1900
	MaxYear = 2100
)

// Validate 校验一行导入数据，返回该行的全部缺陷。
// 缺陷只累计、不致命：有缺陷的行计入 invalid 并被排除在分类之外。
func Validate(row model.RawRow) []model.RowDefect {
	rowNo := row.RowIndex + 1
	var defects []model.RowDefect

	add := func(msg string) {
		defects = append(defects, model.RowDefect{RowNo: rowNo, Message: msg})
	}

	if row.Title == "" {
		add("KRA Title is required")
	}
	if row.Department == "" {
		add("Department is required")
	}
	if row.Role == "" {
		add("Role is required")
	}
	if row.Description == "" {
		add("Description is required")
	}

	// Impact 严格匹配枚举
	if row.Impact != "" && !model.ValidImpact(row.Impact) {
		add("Impact must be one of: Low, Medium, High")
	}

	// Year 可选，给定时必须是 [1900, 2100] 内的整数
	if row.Year != "" {
		year, err := strconv.Atoi(row.Year)
		if err != nil || year < MinYear || year > MaxYear {
			add("Year must be a valid 4-digit year")
		}
	}

	return defects
}

// Screen 对全部解析行做校验，按原始顺序拆分为有效行和缺陷列表。
// 有效行进入分类，缺陷行仅计数和展示。
func Screen(rows []model.RawRow) (valid []model.RawRow, defects []model.RowDefect) {
	for _, row := range rows {
		if d := Validate(row); len(d) > 0 {
			defects = append(defects, d...)
			continue
		}
		valid = append(valid, row)
	}
	return valid, defects
}

// DefectMessage 格式化带行号的缺陷消息
func DefectMessage(d model.RowDefect) string {
	return fmt.Sprintf("Row %d: %s", d.RowNo, d.Message)
}
