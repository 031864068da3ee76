package dto

type RecommendedClubResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	DepartmentName string `json:"departmentName"`
}

// RecommendationResponse is one entry of GET /api/v1/recommendations. The
// endpoint always returns an array holding exactly one of these.
type RecommendationResponse struct {
	Club      RecommendedClubResponse `json:"club"`
	RelatedTo string                  `json:"relatedTo"`
	Reason    string                  `json:"reason"`
}
