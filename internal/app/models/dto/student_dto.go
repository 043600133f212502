package dto

// StudentStats are the placement counters shown on the students dashboard.
type StudentStats struct {
	Total       int `json:"total" example:"120"`
	Placed      int `json:"placed" example:"64"`
	NotPlaced   int `json:"notPlaced" example:"30"`
	Eligible    int `json:"eligible" example:"100"`
	NotEligible int `json:"notEligible" example:"20"`
}
