package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"kradesk/internal/parser"
)

// TemplateFilename 模板下载文件名
const TemplateFilename = "KRA_Import_Template.csv"

// 模板示例行
var templateRows = [][]string{
	{"Improve Sales Performance", "Sales", "Manager", "2024", "High", "Increase quarterly sales by 20%", "Achieve 20% growth; Maintain customer satisfaction >90%; Reduce churn rate"},
	{"Enhance Team Skills", "HR", "Director", "2024", "Medium", "Develop team capabilities through training", "Conduct monthly training; Implement mentorship program; Track skill development"},
	{"Optimize Operations", "Operations", "Analyst", "2024", "Low", "Streamline operational processes", "Reduce processing time by 15%; Implement automation; Improve efficiency metrics"},
}

// Template 生成导入模板 CSV：七列表头 + 三行示例，UTF-8 带 BOM。
// 本地生成，不发起任何网络请求。
func Template() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteString("\uFEFF")

	w := csv.NewWriter(buf)
	if err := w.Write(parser.Columns); err != nil {
		return nil, fmt.Errorf("failed to write template header: %w", err)
	}
	for _, row := range templateRows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write template row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush template: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteTemplate 把模板写入指定路径
func WriteTemplate(path string) error {
	data, err := Template()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write template file: %w", err)
	}
	return nil
}
