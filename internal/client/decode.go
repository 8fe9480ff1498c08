package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"kradesk/internal/model"
)

// ErrUnknownShape 快照响应不是已知的两种形态之一
var ErrUnknownShape = errors.New("unrecognized KRA list response shape")

// decodeKRAList 归一化快照响应。后端历史上有两种形态：
// {"kras": [...]} 和裸数组。两种都接受，其余形态显式报错，
// 不允许静默降级为空列表。
func decodeKRAList(data []byte) ([]model.KRA, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrUnknownShape
	}

	switch trimmed[0] {
	case '{':
		var wrapper struct {
			Kras *[]model.KRA `json:"kras"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("failed to decode KRA list: %w", err)
		}
		if wrapper.Kras == nil {
			return nil, ErrUnknownShape
		}
		return *wrapper.Kras, nil
	case '[':
		var list []model.KRA
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("failed to decode KRA list: %w", err)
		}
		return list, nil
	}

	return nil, ErrUnknownShape
}
