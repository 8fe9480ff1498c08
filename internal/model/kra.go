package model

import "time"

// Impact KRA 影响程度
type Impact string

const (
	ImpactLow    Impact = "Low"
	ImpactMedium Impact = "Medium"
	ImpactHigh   Impact = "High"
)

// ValidImpact 判断影响程度取值是否合法（严格区分大小写）
func ValidImpact(s string) bool {
	switch Impact(s) {
	case ImpactLow, ImpactMedium, ImpactHigh:
		return true
	}
	return false
}

// KRA 关键结果域记录
type KRA struct {
	ID           string    `json:"id"`
	Title        string    `json:"kra_title"`
	Department   string    `json:"department"`
	Role         string    `json:"role"`
	Year         int       `json:"year,omitempty"`
	Impact       string    `json:"impact"`
	Description  string    `json:"description"`
	Expectations []string  `json:"expectations,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}
