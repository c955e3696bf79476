package models

// ============================================================
// Plans Models
// ============================================================

type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	CreatedAt string `json:"created_at"`
}

// Revision records one successful save of a project's plan.
type Revision struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	SavedAt   string `json:"saved_at"`
	Preview   string `json:"preview"`
}
