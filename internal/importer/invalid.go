package importer

import (
	"regexp"
	"strconv"

	"kradesk/internal/model"
)

// 后端错误消息的行号格式："Row <n>: <message>"
var rowNumberRe = regexp.MustCompile(`(?i)Row\s+(\d+):`)

// BackendInvalidCount 统计后端错误涉及的无效行数，按行号去重。
// 解析不出行号的错误各计一次（近似值：同一问题的多条无行号错误会被重复计数）。
func BackendInvalidCount(errors []string) int {
	rows := make(map[int]struct{})
	synthetic := 0
	for _, msg := range errors {
		if m := rowNumberRe.FindStringSubmatch(msg); m != nil {
			n, _ := strconv.Atoi(m[1])
			rows[n] = struct{}{}
			continue
		}
		synthetic++
	}
	return len(rows) + synthetic
}

// MergeInvalidCount 合并客户端缺陷与后端错误的无效行计数：
// 两侧按行号取并集，无行号的后端错误各计一次。
func MergeInvalidCount(defects []model.RowDefect, backendErrors []string) int {
	rows := make(map[int]struct{})
	for _, d := range defects {
		rows[d.RowNo] = struct{}{}
	}

	synthetic := 0
	for _, msg := range backendErrors {
		if m := rowNumberRe.FindStringSubmatch(msg); m != nil {
			n, _ := strconv.Atoi(m[1])
			rows[n] = struct{}{}
			continue
		}
		synthetic++
	}

	return len(rows) + synthetic
}
