package importer

import (
	"context"
	"errors"
	"fmt"

	"kradesk/internal/model"
	"kradesk/internal/parser"
	"kradesk/internal/reconcile"
)

// Step 导入会话所处阶段
type Step string

const (
	StepUpload    Step = "upload"
	StepAnalyzing Step = "analyzing"
	StepAnalysis  Step = "analysis"
	StepImporting Step = "importing"
	StepComplete  Step = "complete"
)

var (
	// ErrNotExcel 扩展名不受支持
	ErrNotExcel = errors.New("please select an Excel file (.xlsx or .xls)")
	// ErrPendingDecisions 仍有疑似重复未决策，提交门不放行
	ErrPendingDecisions = errors.New("potential duplicates still require decisions")
)

// Backend 导入流程依赖的后端协作方
type Backend interface {
	// Analyze 干跑校验，只读不写
	Analyze(ctx context.Context, filename string, file []byte) (*model.AnalyzeResult, error)
	// Commit 提交原始文件和决策表，一次批量写入
	Commit(ctx context.Context, filename string, file []byte, decisions map[string]string) (*model.ImportResult, error)
}

// SnapshotSource 现有记录快照来源
type SnapshotSource interface {
	// GetOrFetch 返回快照和新鲜度标记（本次是否真的发起了拉取）
	GetOrFetch(ctx context.Context) (kras []model.KRA, fresh bool, err error)
}

// Analysis 一次分析的全部产物
type Analysis struct {
	Classification *model.Classification `json:"classification"`
	Backend        *model.AnalyzeResult  `json:"backend"`
	Defects        []model.RowDefect     `json:"defects"`
	ValidRows      []model.RawRow        `json:"valid_rows"`
}

// Session 单次导入会话。流程严格串行：
// upload → analyzing → analysis → importing → complete，
// 取消回到 upload，分析/提交失败分别回退到 upload / analysis。
// 并发由阶段门禁而非锁保证：同一会话内不存在并行导入。
type Session struct {
	backend  Backend
	snapshot SnapshotSource

	step     Step
	filename string
	file     []byte

	errs     []string
	analysis *Analysis
	ledger   *reconcile.Ledger
	counters model.ImportCounters
	result   *model.ImportResult
}

// NewSession 创建导入会话，初始处于 upload 阶段
func NewSession(backend Backend, snapshot SnapshotSource) *Session {
	return &Session{
		backend:  backend,
		snapshot: snapshot,
		step:     StepUpload,
	}
}

// Step 当前阶段
func (s *Session) Step() Step { return s.step }

// Errors 当前面向操作者的错误列表
func (s *Session) Errors() []string { return s.errs }

// Counters 当前导入计数
func (s *Session) Counters() model.ImportCounters { return s.counters }

// Analysis 分析产物，analysis 阶段之前为 nil
func (s *Session) Analysis() *Analysis { return s.analysis }

// Ledger 决策账本，analysis 阶段之前为 nil
func (s *Session) Ledger() *reconcile.Ledger { return s.ledger }

// Result 提交结果，complete 阶段之前为 nil
func (s *Session) Result() *model.ImportResult { return s.result }

// Reset 回到初始状态，丢弃文件、分析产物和全部决策
func (s *Session) Reset() {
	s.step = StepUpload
	s.filename = ""
	s.file = nil
	s.errs = nil
	s.analysis = nil
	s.ledger = nil
	s.counters = model.ImportCounters{}
	s.result = nil
}

// SelectFile 接收上传文件并立即执行完整分析。
// 文件格式错误不离开 upload 阶段；分析失败回退到 upload。
func (s *Session) SelectFile(ctx context.Context, filename string, data []byte) error {
	if s.step != StepUpload {
		return fmt.Errorf("cannot select a file in step %q", s.step)
	}
	if !parser.AllowedExtension(filename) {
		s.errs = []string{ErrNotExcel.Error()}
		return ErrNotExcel
	}

	s.filename = filename
	s.file = data
	s.errs = nil
	s.step = StepAnalyzing

	if err := s.analyze(ctx); err != nil {
		s.step = StepUpload
		return err
	}

	s.step = StepAnalysis
	return nil
}

// analyze 解析 → 校验 → 后端干跑 → 快照分类 → 预填账本 → 重算计数
func (s *Session) analyze(ctx context.Context) error {
	parsed, err := parser.Parse(s.file)
	if err != nil {
		s.errs = []string{err.Error()}
		return err
	}

	validRows, defects := parser.Screen(parsed.Rows)
	total := len(parsed.Rows)

	backendResult, err := s.backend.Analyze(ctx, s.filename, s.file)
	if err != nil {
		s.errs = []string{err.Error()}
		return err
	}

	// 快照拉取失败按空快照降级：所有行都归入 New
	existing, _, err := s.snapshot.GetOrFetch(ctx)
	if err != nil {
		existing = nil
	}

	cls := reconcile.Classify(validRows, existing)
	s.ledger = reconcile.NewLedger(cls)
	s.analysis = &Analysis{
		Classification: cls,
		Backend:        backendResult,
		Defects:        defects,
		ValidRows:      validRows,
	}

	if backendResult.TotalProcessed > 0 {
		total = backendResult.TotalProcessed
	}
	invalid := MergeInvalidCount(defects, backendResult.Errors)
	s.counters = reconcile.RecomputeCounters(total, invalid, s.ledger, cls)

	return nil
}

// SetDecision 记录单条决策并同步重算计数
func (s *Session) SetDecision(key string, action reconcile.Action) error {
	if s.step != StepAnalysis {
		return fmt.Errorf("cannot record decisions in step %q", s.step)
	}
	if !reconcile.ValidAction(string(action)) {
		return fmt.Errorf("invalid decision %q", action)
	}
	s.ledger.Set(key, action)
	s.recount()
	return nil
}

// BulkApply 把同一决策应用到整个分桶并同步重算计数
func (s *Session) BulkApply(bucket string, action reconcile.Action) (int, error) {
	if s.step != StepAnalysis {
		return 0, fmt.Errorf("cannot record decisions in step %q", s.step)
	}
	if !reconcile.ValidAction(string(action)) {
		return 0, fmt.Errorf("invalid decision %q", action)
	}
	applied := s.ledger.BulkApply(s.analysis.Classification, bucket, action)
	s.recount()
	return applied, nil
}

func (s *Session) recount() {
	s.counters = reconcile.RecomputeCounters(s.counters.Total, s.counters.Invalid, s.ledger, s.analysis.Classification)
}

// CommitReady 提交门是否放行
func (s *Session) CommitReady() bool {
	return s.step == StepAnalysis && s.ledger.CommitReady(s.analysis.Classification)
}

// Cancel 从 analysis 阶段返回 upload，丢弃文件和决策
func (s *Session) Cancel() error {
	if s.step != StepAnalysis {
		return fmt.Errorf("cannot cancel in step %q", s.step)
	}
	s.Reset()
	return nil
}

// Commit 提交原始文件和决策表。提交后以后端计数为准；
// 失败时回退到 analysis 且保留账本，重试不丢决策。
func (s *Session) Commit(ctx context.Context) (*model.ImportResult, error) {
	if s.step != StepAnalysis {
		return nil, fmt.Errorf("cannot commit in step %q", s.step)
	}
	if !s.ledger.CommitReady(s.analysis.Classification) {
		return nil, ErrPendingDecisions
	}

	s.step = StepImporting
	result, err := s.backend.Commit(ctx, s.filename, s.file, s.ledger.Decisions())
	if err != nil {
		s.errs = []string{err.Error()}
		s.step = StepAnalysis
		return nil, err
	}

	s.errs = nil
	s.result = result
	s.step = StepComplete
	return result, nil
}
