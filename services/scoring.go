package services

import (
	"github.com/google/uuid"
	"github.com/sahilm23/quiz_master/models"
)

// AnswerRecord is the per-question outcome of scoring one submission.
// SelectedOptionID is nil when the question was left unanswered.
type AnswerRecord struct {
	QuestionID       uuid.UUID
	SelectedOptionID *uuid.UUID
	IsCorrect        bool
}

// ScoreSubmission grades a submission against a snapshot of a quiz's
// questions and options. Selections are keyed by question id and hold the
// chosen option id, both as strings, since they arrive as text from the
// transport boundary. The function is pure: it touches no shared state and
// identical inputs always produce identical output.
//
// A question whose selection is missing, or whose selected option id does
// not belong to it, scores zero and is recorded as incorrect. The submitted
// id is still kept in the record when it parses, so a tampered or stale
// answer stays distinguishable from an unanswered one in the trail. An
// option only scores when its own IsCorrect flag is set; no
// single-correct-option invariant is assumed.
func ScoreSubmission(questions []models.Question, selections map[string]string) (int, []AnswerRecord) {
	score := 0
	records := make([]AnswerRecord, 0, len(questions))

	for _, q := range questions {
		selected, ok := selections[q.ID.String()]
		if !ok || selected == "" {
			records = append(records, AnswerRecord{
				QuestionID: q.ID,
				IsCorrect:  false,
			})
			continue
		}

		record := AnswerRecord{QuestionID: q.ID}
		for _, opt := range q.Options {
			if opt.ID.String() == selected {
				optID := opt.ID
				record.SelectedOptionID = &optID
				if opt.IsCorrect {
					record.IsCorrect = true
					score++
				}
				break
			}
		}
		if record.SelectedOptionID == nil {
			// Stale or tampered id: never scores, but keep what was
			// submitted when it is at least a uuid.
			if submitted, err := uuid.Parse(selected); err == nil {
				record.SelectedOptionID = &submitted
			}
		}
		records = append(records, record)
	}

	return score, records
}
