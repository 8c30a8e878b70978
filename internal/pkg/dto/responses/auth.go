package responses

type Login struct {
	Token         string `json:"token"`
	Role          string `json:"role"`
	DashboardPath string `json:"dashboard_path"`
}
