package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kradesk/internal/model"
	"kradesk/internal/reconcile"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("kra not found")

// encodeExpectations 期望列表序列化为 JSON 文本存储
func encodeExpectations(expectations []string) (string, error) {
	if expectations == nil {
		expectations = []string{}
	}
	data, err := json.Marshal(expectations)
	if err != nil {
		return "", fmt.Errorf("failed to encode expectations: %w", err)
	}
	return string(data), nil
}

func scanKRA(scan func(dest ...interface{}) error) (*model.KRA, error) {
	var kra model.KRA
	var expectations string
	var createdAt, updatedAt sql.NullTime

	err := scan(
		&kra.ID, &kra.Title, &kra.Department, &kra.Role, &kra.Year,
		&kra.Impact, &kra.Description, &expectations,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if expectations != "" {
		if err := json.Unmarshal([]byte(expectations), &kra.Expectations); err != nil {
			return nil, fmt.Errorf("failed to decode expectations: %w", err)
		}
	}
	if createdAt.Valid {
		kra.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		kra.UpdatedAt = updatedAt.Time
	}

	return &kra, nil
}

const kraColumns = "id, title, department, role, year, impact, description, expectations, created_at, updated_at"

// ListKRAs 按创建顺序返回全部 KRA
func (s *Store) ListKRAs() ([]model.KRA, error) {
	rows, err := s.db.Query("SELECT " + kraColumns + " FROM kras ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query kras: %w", err)
	}
	defer rows.Close()

	var kras []model.KRA
	for rows.Next() {
		kra, err := scanKRA(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan kra: %w", err)
		}
		kras = append(kras, *kra)
	}
	return kras, rows.Err()
}

// GetKRA 按 ID 获取单条 KRA
func (s *Store) GetKRA(id string) (*model.KRA, error) {
	row := s.db.QueryRow("SELECT "+kraColumns+" FROM kras WHERE id = ?", id)
	kra, err := scanKRA(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kra: %w", err)
	}
	return kra, nil
}

// CreateKRA 插入新记录，自然键随记录落库
func (s *Store) CreateKRA(kra *model.KRA) error {
	expectations, err := encodeExpectations(kra.Expectations)
	if err != nil {
		return err
	}

	now := time.Now()
	kra.CreatedAt = now
	kra.UpdatedAt = now

	_, err = s.db.Exec(`
		INSERT INTO kras (id, title, department, role, year, impact, description, expectations, natural_key, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		kra.ID, kra.Title, kra.Department, kra.Role, kra.Year,
		kra.Impact, kra.Description, expectations,
		reconcile.NaturalKey(kra.Title, kra.Department, kra.Role),
		now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert kra: %w", err)
	}
	return nil
}

// UpdateKRA 整条覆盖更新，自然键与更新时间同步刷新
func (s *Store) UpdateKRA(kra *model.KRA) error {
	expectations, err := encodeExpectations(kra.Expectations)
	if err != nil {
		return err
	}

	kra.UpdatedAt = time.Now()

	res, err := s.db.Exec(`
		UPDATE kras SET title = ?, department = ?, role = ?, year = ?, impact = ?,
			description = ?, expectations = ?, natural_key = ?, updated_at = ?
		WHERE id = ?
	`,
		kra.Title, kra.Department, kra.Role, kra.Year, kra.Impact,
		kra.Description, expectations,
		reconcile.NaturalKey(kra.Title, kra.Department, kra.Role),
		kra.UpdatedAt, kra.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update kra: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteKRA 删除记录
func (s *Store) DeleteKRA(id string) error {
	res, err := s.db.Exec("DELETE FROM kras WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete kra: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountKRAs 记录总数
func (s *Store) CountKRAs() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM kras").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count kras: %w", err)
	}
	return count, nil
}
