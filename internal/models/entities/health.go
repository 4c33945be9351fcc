package entities

type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

type HealthCheckResponse struct {
	Status       string                   `json:"status"`
	Uptime       string                   `json:"uptime"`
	ResponseTime string                   `json:"response_time"`
	Services     map[string]ServiceStatus `json:"services"`
}
