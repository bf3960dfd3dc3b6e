package recommendation

import (
	"encoding/json"
	"fmt"
	"shopSense/domain"
)

func rankingMessages(events []domain.UserEvent, prefs []string, rc domain.RecommendContext, candidates []domain.Product, limit int) []domain.ChatMessage {
	recent := events
	if len(recent) > promptEventCount {
		recent = recent[:promptEventCount]
	}

	behaviorJSON, _ := json.Marshal(recent)
	prefsJSON, _ := json.Marshal(prefs)
	contextJSON, _ := json.Marshal(rc)
	candidatesJSON, _ := json.Marshal(candidates)

	instruction := fmt.Sprintf(`Given the user's behavior and preferences, rank these products and select the top %d recommendations.
Consider:
- User's past interactions: %s
- User preferences: %s
- Current context: %s

Return a JSON array of objects with: {id, score (0-1), reason (brief explanation)}.

Candidates: %s`, limit, behaviorJSON, prefsJSON, contextJSON, candidatesJSON)

	return []domain.ChatMessage{
		{
			Role:    domain.ChatRoleSystem,
			Content: "You are an e-commerce recommendation engine. Return only valid JSON arrays with product rankings.",
		},
		{
			Role:    domain.ChatRoleUser,
			Content: instruction,
		},
	}
}
