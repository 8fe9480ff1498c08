package reconcile

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"

	"kradesk/internal/model"
)

// 参与字段比对的固定字段数
const totalCompareFields = 5

var foldCaser = cases.Fold()

// normalize 比对用的规范化：去首尾空格 + 大小写折叠
func normalize(s string) string {
	return foldCaser.String(strings.TrimSpace(s))
}

// NaturalKey 复合自然键：title + department + role（规范化后拼接）。
// 自然键相同即视为“同一条 KRA”，与其余字段差异无关。
func NaturalKey(title, department, role string) string {
	return normalize(title) + "_" + normalize(department) + "_" + normalize(role)
}

// ItemKey 分类条目的稳定键，作为决策账本的键
func ItemKey(index int, naturalKey string) string {
	return fmt.Sprintf("row_%d_%s", index, naturalKey)
}

// displayValue 差异展示值，空值显示 N/A
func displayValue(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Compare 逐字段比对现有记录与导入行，返回差异列表。
// 比对字段固定为 {title, department, role, impact, description}，
// 均为去空格后大小写不敏感的字符串比较。
func Compare(existing model.KRA, row model.RawRow) []model.FieldDiff {
	var diffs []model.FieldDiff

	check := func(field, display, existingVal, importVal string) {
		if normalize(existingVal) != normalize(importVal) {
			diffs = append(diffs, model.FieldDiff{
				Field:         field,
				FieldDisplay:  display,
				ExistingValue: displayValue(existingVal),
				ImportValue:   displayValue(importVal),
			})
		}
	}

	check("kra_title", "KRA Title", existing.Title, row.Title)
	check("department", "Department", existing.Department, row.Department)
	check("role", "Role", existing.Role, row.Role)
	check("impact", "Impact", existing.Impact, row.Impact)
	check("description", "Description", existing.Description, row.Description)

	return diffs
}

// MatchPercentage 由差异数换算的匹配度（0-100 整数）
func MatchPercentage(diffCount int) int {
	matching := totalCompareFields - diffCount
	return int(math.Round(float64(matching) / totalCompareFields * 100))
}

// Classify 把有效导入行与现有记录快照做哈希连接，按自然键分桶：
// 无匹配为 New；匹配且零差异为 PerfectMatch；匹配且有差异为 PotentialDuplicate。
// 三个分桶对输入行构成一次严格划分，行序保持输入顺序。
// 现有记录出现自然键冲突时取后者（快照默认已在上游去重）。
func Classify(rows []model.RawRow, existing []model.KRA) *model.Classification {
	lookup := make(map[string]model.KRA, len(existing))
	for _, kra := range existing {
		lookup[NaturalKey(kra.Title, kra.Department, kra.Role)] = kra
	}

	cls := &model.Classification{TotalProcessed: len(rows)}

	for index, row := range rows {
		key := NaturalKey(row.Title, row.Department, row.Role)
		itemKey := ItemKey(index, key)

		match, found := lookup[key]
		if !found {
			cls.NewKRAs = append(cls.NewKRAs, model.NewItem{Data: row, Key: itemKey})
			continue
		}

		diffs := Compare(match, row)
		if len(diffs) == 0 {
			cls.PerfectMatches = append(cls.PerfectMatches, model.PerfectMatchItem{
				Existing: match,
				Key:      itemKey,
			})
			continue
		}

		cls.PotentialDuplicates = append(cls.PotentialDuplicates, model.DuplicateItem{
			Existing:        match,
			Import:          row,
			Differences:     diffs,
			MatchPercentage: MatchPercentage(len(diffs)),
			Key:             itemKey,
		})
	}

	cls.NewCount = len(cls.NewKRAs)
	cls.DuplicateCount = len(cls.PotentialDuplicates)
	cls.PerfectMatchCount = len(cls.PerfectMatches)

	return cls
}
