package copylist

// ListResponse is the payload of GET /api/copylist.
type ListResponse struct {
	Paths []string `json:"paths"`
}

// PathRequest is the body of add and remove requests.
type PathRequest struct {
	Path string `json:"path"`
}

// Notification is a single websocket frame on /api/events.
type Notification struct {
	Topic string `json:"topic"`
}

// HealthResponse is the payload of GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Entries int    `json:"entries"`
}
