package school

import (
	"time"

	"github.com/volatiletech/null/v8"
)

type SystemStatus struct {
	Status      string            `json:"status"` // eg. "healthy"
	Uptime      int64             `json:"uptime"` // seconds
	Version     string            `json:"version"`
	Database    string            `json:"database"`
	ActiveUsers int               `json:"active_users"`
	CPU         float64           `json:"cpu_usage"`
	Memory      float64           `json:"memory_usage"`
	Disk        float64           `json:"disk_usage"`
	Services    map[string]string `json:"services"`
}

type ActivityEntry struct {
	ID        string      `json:"id"`
	UserID    null.String `json:"user_id"`
	UserName  null.String `json:"user_name"`
	Action    string      `json:"action"`
	Details   null.String `json:"details"`
	CreatedAt time.Time   `json:"created_at"`
}

type LogEntry struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}
