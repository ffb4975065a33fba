package progression

import (
	"time"

	"github.com/swanstudios/progression/internal/domain"
)

// QuestLedger tracks one-time completion of kindness quests and their
// point payouts. Completion is idempotent by design: a repeat completion
// succeeds with zero earned, so retried client requests never double-pay.
type QuestLedger struct {
	defs    map[string]domain.KindnessQuestDef
	ordered []domain.KindnessQuestDef
	rules   Rules
}

// NewQuestLedger creates a ledger over the given definitions.
func NewQuestLedger(defs []domain.KindnessQuestDef, rules Rules) *QuestLedger {
	m := make(map[string]domain.KindnessQuestDef, len(defs))
	for _, d := range defs {
		m[d.ID] = d
	}
	return &QuestLedger{defs: m, ordered: defs, rules: rules}
}

// Definitions returns all quest definitions in catalog order.
func (l *QuestLedger) Definitions() []domain.KindnessQuestDef {
	return l.ordered
}

// Complete marks a quest completed for the user. First completion grants
// the quest's points plus points/KindnessDivisor kindness score and bumps
// QuestsCompleted. Any later completion is a success no-op.
func (l *QuestLedger) Complete(p *domain.GamificationProfile, id string, now time.Time) (domain.CompleteQuestResult, error) {
	def, ok := l.defs[id]
	if !ok {
		return domain.CompleteQuestResult{}, domain.ErrNotFound
	}

	if p.Quests[id].Completed {
		return domain.CompleteQuestResult{AlreadyCompleted: true}, nil
	}

	kindness := def.Points / l.rules.KindnessDivisor
	p.Quests[id] = domain.QuestState{Completed: true, CompletedAt: now}
	p.Points += def.Points
	p.KindnessScore += kindness
	p.QuestsCompleted++

	return domain.CompleteQuestResult{
		PointsEarned:         def.Points,
		KindnessPointsEarned: kindness,
	}, nil
}
