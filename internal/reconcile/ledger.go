package reconcile

import "kradesk/internal/model"

// Action 操作者对单个导入条目的决策
type Action string

const (
	ActionCreate         Action = "create"
	ActionUpdate         Action = "update"
	ActionSkip           Action = "skip"
	ActionCreateSeparate Action = "create_separate"
)

// ValidAction 判断决策取值是否合法
func ValidAction(s string) bool {
	switch Action(s) {
	case ActionCreate, ActionUpdate, ActionSkip, ActionCreateSeparate:
		return true
	}
	return false
}

// 分桶名称，用于批量操作
const (
	BucketNew                 = "new_kras"
	BucketPotentialDuplicates = "potential_duplicates"
	BucketPerfectMatches      = "perfect_matches"
)

// Ledger 决策账本：条目键 → 决策。
// 分类完成时用隐式默认值预填（New→create、PerfectMatch→skip），
// 疑似重复不预填，提交门以此判断是否放行。
type Ledger struct {
	decisions map[string]Action
}

// NewLedger 按分类结果创建账本并预填默认决策
func NewLedger(cls *model.Classification) *Ledger {
	l := &Ledger{decisions: make(map[string]Action)}
	if cls == nil {
		return l
	}
	for _, item := range cls.NewKRAs {
		l.decisions[item.Key] = ActionCreate
	}
	for _, item := range cls.PerfectMatches {
		l.decisions[item.Key] = ActionSkip
	}
	return l
}

// Set 幂等覆盖式写入单条决策
func (l *Ledger) Set(key string, action Action) {
	l.decisions[key] = action
}

// Get 读取单条决策
func (l *Ledger) Get(key string) (Action, bool) {
	action, ok := l.decisions[key]
	return action, ok
}

// Len 当前决策条数
func (l *Ledger) Len() int {
	return len(l.decisions)
}

// Decisions 导出决策快照（提交时序列化用）
func (l *Ledger) Decisions() map[string]string {
	out := make(map[string]string, len(l.decisions))
	for key, action := range l.decisions {
		out[key] = string(action)
	}
	return out
}

// BulkApply 把同一决策应用到指定分桶的全部条目，不影响其他分桶
func (l *Ledger) BulkApply(cls *model.Classification, bucket string, action Action) int {
	if cls == nil {
		return 0
	}
	applied := 0
	switch bucket {
	case BucketNew:
		for _, item := range cls.NewKRAs {
			l.decisions[item.Key] = action
			applied++
		}
	case BucketPotentialDuplicates:
		for _, item := range cls.PotentialDuplicates {
			l.decisions[item.Key] = action
			applied++
		}
	case BucketPerfectMatches:
		for _, item := range cls.PerfectMatches {
			l.decisions[item.Key] = action
			applied++
		}
	}
	return applied
}

// PendingDecisions 尚未决策的疑似重复条数
func (l *Ledger) PendingDecisions(cls *model.Classification) int {
	if cls == nil {
		return 0
	}
	pending := 0
	for _, item := range cls.PotentialDuplicates {
		if _, ok := l.decisions[item.Key]; !ok {
			pending++
		}
	}
	return pending
}

// CommitReady 提交门：所有疑似重复都已有决策才放行
func (l *Ledger) CommitReady(cls *model.Classification) bool {
	return l.PendingDecisions(cls) == 0
}

// skippedCount 决策为 skip 的条数
func (l *Ledger) skippedCount() int {
	n := 0
	for _, action := range l.decisions {
		if action == ActionSkip {
			n++
		}
	}
	return n
}

// RecomputeCounters 纯函数重算导入计数：
// ready = max(0, total − invalid − skipped − pending)。
// 每次账本变化后必须同步调用，提交门不允许读到中间状态。
func RecomputeCounters(total, invalid int, l *Ledger, cls *model.Classification) model.ImportCounters {
	skipped := l.skippedCount()
	pending := l.PendingDecisions(cls)

	ready := total - invalid - skipped - pending
	if ready < 0 {
		ready = 0
	}

	return model.ImportCounters{
		Total:   total,
		Invalid: invalid,
		Ready:   ready,
		Skipped: skipped,
	}
}
