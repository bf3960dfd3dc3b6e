package recommendation

import (
	"encoding/json"
	"shopSense/pkg/utils"
)

type rankedItem struct {
	ID     uint64  `json:"id"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// parseRankings turns the model's answer into ranked items. The boolean makes
// the malformed case an explicit branch instead of a buried error: callers
// choose the deterministic fallback, they never propagate a parse failure.
func parseRankings(raw string) ([]rankedItem, bool) {
	var items []rankedItem
	if err := json.Unmarshal([]byte(utils.ExtractJSONBlock(raw)), &items); err != nil {
		return nil, false
	}

	return items, true
}
