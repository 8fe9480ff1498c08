package reconcile

import (
	"testing"

	"kradesk/internal/model"
)

func classificationFixture() *model.Classification {
	return &model.Classification{
		NewKRAs: []model.NewItem{
			{Key: "row_0_a_eng_dev"},
			{Key: "row_1_b_eng_dev"},
		},
		PotentialDuplicates: []model.DuplicateItem{
			{Key: "row_2_c_eng_dev"},
			{Key: "row_3_d_eng_dev"},
		},
		PerfectMatches: []model.PerfectMatchItem{
			{Key: "row_4_e_eng_dev"},
		},
		TotalProcessed:    5,
		NewCount:          2,
		DuplicateCount:    2,
		PerfectMatchCount: 1,
	}
}

func TestNewLedger_PrepopulatesDefaults(t *testing.T) {
	t.Parallel()

	cls := classificationFixture()
	l := NewLedger(cls)

	for _, item := range cls.NewKRAs {
		if action, ok := l.Get(item.Key); !ok || action != ActionCreate {
			t.Fatalf("new item %q should default to create, got %q", item.Key, action)
		}
	}
	for _, item := range cls.PerfectMatches {
		if action, ok := l.Get(item.Key); !ok || action != ActionSkip {
			t.Fatalf("perfect match %q should default to skip, got %q", item.Key, action)
		}
	}
	for _, item := range cls.PotentialDuplicates {
		if _, ok := l.Get(item.Key); ok {
			t.Fatalf("duplicate %q should start without a decision", item.Key)
		}
	}
}

func TestLedger_SetIsIdempotentUpsert(t *testing.T) {
	t.Parallel()

	l := NewLedger(classificationFixture())
	l.Set("row_2_c_eng_dev", ActionUpdate)
	l.Set("row_2_c_eng_dev", ActionSkip)

	if action, _ := l.Get("row_2_c_eng_dev"); action != ActionSkip {
		t.Fatalf("later decision should overwrite, got %q", action)
	}
}

func TestLedger_BulkApplyScopedToBucket(t *testing.T) {
	t.Parallel()

	cls := classificationFixture()
	l := NewLedger(cls)

	applied := l.BulkApply(cls, BucketPotentialDuplicates, ActionSkip)
	if applied != 2 {
		t.Fatalf("expected 2 items applied, got %d", applied)
	}

	for _, item := range cls.PotentialDuplicates {
		if action, _ := l.Get(item.Key); action != ActionSkip {
			t.Fatalf("duplicate %q should be skip after bulk apply, got %q", item.Key, action)
		}
	}
	// 其他分桶不受影响
	for _, item := range cls.NewKRAs {
		if action, _ := l.Get(item.Key); action != ActionCreate {
			t.Fatalf("new item %q should stay create, got %q", item.Key, action)
		}
	}
}

func TestLedger_CommitGate(t *testing.T) {
	t.Parallel()

	cls := classificationFixture()
	l := NewLedger(cls)

	if l.CommitReady(cls) {
		t.Fatal("gate should be closed while duplicates lack decisions")
	}

	l.Set("row_2_c_eng_dev", ActionUpdate)
	if l.CommitReady(cls) {
		t.Fatal("gate should stay closed with one pending duplicate")
	}

	l.Set("row_3_d_eng_dev", ActionCreateSeparate)
	if !l.CommitReady(cls) {
		t.Fatal("gate should open once the last duplicate has a decision")
	}
}

func TestRecomputeCounters(t *testing.T) {
	t.Parallel()

	cls := classificationFixture()
	l := NewLedger(cls)

	// 预填账本：1 个完全匹配默认 skip，2 个疑似重复待决策
	counters := RecomputeCounters(6, 1, l, cls)
	if counters.Skipped != 1 {
		t.Fatalf("expected skipped=1 from perfect-match default, got %d", counters.Skipped)
	}
	// ready = 6 - 1 invalid - 1 skipped - 2 pending
	if counters.Ready != 2 {
		t.Fatalf("expected ready=2, got %d", counters.Ready)
	}

	l.Set("row_2_c_eng_dev", ActionSkip)
	l.Set("row_3_d_eng_dev", ActionUpdate)
	counters = RecomputeCounters(6, 1, l, cls)
	if counters.Skipped != 2 {
		t.Fatalf("expected skipped=2, got %d", counters.Skipped)
	}
	if counters.Ready != 3 {
		t.Fatalf("expected ready=3, got %d", counters.Ready)
	}
}

func TestRecomputeCounters_NeverNegative(t *testing.T) {
	t.Parallel()

	cls := classificationFixture()
	l := NewLedger(cls)
	l.BulkApply(cls, BucketPotentialDuplicates, ActionSkip)
	l.BulkApply(cls, BucketNew, ActionSkip)

	counters := RecomputeCounters(2, 5, l, cls)
	if counters.Ready != 0 {
		t.Fatalf("ready must clamp at zero, got %d", counters.Ready)
	}
}

func TestValidAction(t *testing.T) {
	t.Parallel()

	for _, action := range []string{"create", "update", "skip", "create_separate"} {
		if !ValidAction(action) {
			t.Errorf("%q should be valid", action)
		}
	}
	if ValidAction("merge") {
		t.Error("unknown action should be invalid")
	}
}
