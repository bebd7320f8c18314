package quiz

// Band is the qualitative score tier shown to the learner.
type Band string

const (
	BandPerfect  Band = "perfect"
	BandGreat    Band = "great"
	BandPractice Band = "practice"
)

// Result is the frozen outcome of a submitted session.
type Result struct {
	CorrectCount int  `json:"correct_count"`
	TotalCount   int  `json:"total_count"`
	Complete     bool `json:"complete"`
}

// Score counts selections matching each question's correct option.
// Unanswered questions count as incorrect.
func Score(questions []Question, selections map[string]string) (correct, total int) {
	total = len(questions)
	for _, q := range questions {
		if sel, ok := selections[q.ID]; ok && sel == q.CorrectOptionID {
			correct++
		}
	}
	return correct, total
}

// CompletionBand maps a score to its tier. The 0.7 threshold matches
// the product's result card; the comparison is done in integers
// (10*correct >= 7*total) so it is exact.
func CompletionBand(correct, total int) Band {
	switch {
	case correct == total:
		return BandPerfect
	case 10*correct >= 7*total:
		return BandGreat
	default:
		return BandPractice
	}
}
