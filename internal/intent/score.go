package intent

import "strings"

const maxLeadScore = 10

var leadKeywordWeights = []struct {
	keyword string
	weight  int
}{
	{"insurance", 3},
	{"quote", 3},
	{"coverage", 2},
	{"plan", 2},
	{"business", 2},
	{"help", 1},
	{"information", 1},
}

// ScoreLead ranks inquiry text from 0 to 10. Each keyword counts once no matter
// how often it appears.
func ScoreLead(inquiry string) int {
	lower := strings.ToLower(inquiry)
	score := 0
	for _, kw := range leadKeywordWeights {
		if strings.Contains(lower, kw.keyword) {
			score += kw.weight
		}
	}
	if score > maxLeadScore {
		score = maxLeadScore
	}
	return score
}
