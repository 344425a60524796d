package model

// CategoryImpact is the contribution of one category to the impact report.
type CategoryImpact struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Kg       float64 `json:"kg"`
}

// Impact is the environmental metrics report over active items.
type Impact struct {
	ObjectsReused    int              `json:"objects_reused"`
	EstimatedKgSaved float64          `json:"estimated_kg_saved"`
	ByCategory       []CategoryImpact `json:"by_category"`
}
