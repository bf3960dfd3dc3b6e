package domain

// Recommendation is derived per request and never persisted. Product fields
// always come from the candidate pool, never from model output.
type Recommendation struct {
	Product
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

type RecommendContext struct {
	CurrentProductID uint64   `json:"current_product_id,omitempty"`
	CartProductIDs   []uint64 `json:"cart_product_ids,omitempty"`
	Limit            int      `json:"limit"`
}

type CartAnalysis struct {
	Recommendations []Recommendation `json:"recommendations"`
	Insights        []string         `json:"insights"`
}
