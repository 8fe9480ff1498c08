package store

import (
	"database/sql"
	"fmt"
)

// CreateImportLog 创建导入日志，返回日志行 ID
func (s *Store) CreateImportLog(importID, filename string, fileSize int64) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO import_logs (import_id, filename, file_size, status)
		VALUES (?, ?, ?, 'processing')
	`, importID, filename, fileSize)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// FinishImportLog 完成导入日志更新
func (s *Store) FinishImportLog(id int64, totalProcessed, importedCount, skippedCount, errorCount int, status, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE import_logs SET
			total_processed = ?,
			imported_count = ?,
			skipped_count = ?,
			error_count = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, totalProcessed, importedCount, skippedCount, errorCount, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// LastImportTime 最近一次完成导入的时间，无记录时返回空串
func (s *Store) LastImportTime() (string, error) {
	var completedAt sql.NullString
	err := s.db.QueryRow(`
		SELECT completed_at FROM import_logs
		WHERE completed_at IS NOT NULL
		ORDER BY completed_at DESC LIMIT 1
	`).Scan(&completedAt)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query last import time: %w", err)
	}
	return completedAt.String, nil
}
