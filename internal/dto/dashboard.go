package dto

type DashboardResponse struct {
	TotalUsers      int64            `json:"total_users"`
	UsersByRole     map[string]int64 `json:"users_by_role"`
	UsersByStatus   map[string]int64 `json:"users_by_status"`
	TotalCategories int64            `json:"total_categories"`
}
