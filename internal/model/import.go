package model

// RawRow 表格解析后的单行导入数据（字段已按表头映射）
type RawRow struct {
	Title        string   `json:"kra_title"`
	Department   string   `json:"department_name"`
	Role         string   `json:"role"`
	Year         string   `json:"year"`
	Description  string   `json:"description"`
	Impact       string   `json:"impact"`
	Expectations []string `json:"expectations"`

	// RowIndex 数据行序号（0 基，表头行之后的第一行为 0）
	RowIndex int `json:"row_index"`
}

// RowDefect 行级校验缺陷
type RowDefect struct {
	RowNo   int    `json:"row_no"` // 1 基数据行号
	Message string `json:"message"`
}

// FieldDiff 现有记录与导入行之间的单字段差异
type FieldDiff struct {
	Field         string `json:"field"`
	FieldDisplay  string `json:"field_display"`
	ExistingValue string `json:"existing_value"`
	ImportValue   string `json:"import_value"`
}

// NewItem 分类结果：全新记录
type NewItem struct {
	Data RawRow `json:"kra_data"`
	Key  string `json:"key"`
}

// PerfectMatchItem 分类结果：与现有记录完全一致
type PerfectMatchItem struct {
	Existing KRA    `json:"kra"`
	Key      string `json:"key"`
}

// DuplicateItem 分类结果：疑似重复，需要人工决策
type DuplicateItem struct {
	Existing        KRA         `json:"existing_kra"`
	Import          RawRow      `json:"import_data"`
	Differences     []FieldDiff `json:"differences"`
	MatchPercentage int         `json:"match_percentage"`
	Key             string      `json:"key"`
}

// Classification 分类结果：三个分桶对有效行构成一次划分
type Classification struct {
	NewKRAs             []NewItem          `json:"new_kras"`
	PotentialDuplicates []DuplicateItem    `json:"potential_duplicates"`
	PerfectMatches      []PerfectMatchItem `json:"perfect_matches"`
	TotalProcessed      int                `json:"total_processed"`
	NewCount            int                `json:"new_count"`
	DuplicateCount      int                `json:"duplicate_count"`
	PerfectMatchCount   int                `json:"perfect_match_count"`
}

// AnalyzeResult 后端干跑校验响应
type AnalyzeResult struct {
	TotalProcessed int      `json:"total_processed"`
	ValidCount     int      `json:"valid_count"`
	Errors         []string `json:"errors"`
}

// ImportResult 后端提交响应（提交后以此为准，客户端不再重算）
type ImportResult struct {
	ImportedCount  int      `json:"imported_count"`
	SkippedCount   int      `json:"skipped_count"`
	TotalProcessed int      `json:"total_processed"`
	Errors         []string `json:"errors"`
}

// ImportCounters 导入计数（随决策变化同步重算）
type ImportCounters struct {
	Total   int `json:"total"`
	Invalid int `json:"invalid"`
	Ready   int `json:"ready"`
	Skipped int `json:"skipped"`
}
