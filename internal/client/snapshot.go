package client

import (
	"context"
	"sync"

	"kradesk/internal/model"
)

// SnapshotCache 现有记录快照缓存。
// 显式对象替代会话级“已拉取”全局标记：每个分析过程至多拉取一次，
// Invalidate 之后下一次 GetOrFetch 重新拉取。
type SnapshotCache struct {
	client *Client

	mu      sync.Mutex
	fetched bool
	kras    []model.KRA
}

// NewSnapshotCache 创建快照缓存
func NewSnapshotCache(client *Client) *SnapshotCache {
	return &SnapshotCache{client: client}
}

// GetOrFetch 返回快照。fresh 表示本次调用真的发起了拉取。
func (s *SnapshotCache) GetOrFetch(ctx context.Context) ([]model.KRA, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fetched {
		return s.kras, false, nil
	}

	kras, err := s.client.ListKRAs(ctx)
	if err != nil {
		return nil, false, err
	}

	s.kras = kras
	s.fetched = true
	return kras, true, nil
}

// Invalidate 作废缓存，下一次 GetOrFetch 重新拉取
func (s *SnapshotCache) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetched = false
	s.kras = nil
}
