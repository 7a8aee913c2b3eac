package department

type UpsertGrantDTO struct {
	Department string `json:"department"`
	CanView    bool   `json:"can_view"`
	CanEdit    bool   `json:"can_edit"`
	CanCreate  bool   `json:"can_create"`
	CanDelete  bool   `json:"can_delete"`
}

type BulkUpdateDTO struct {
	Grants []UpsertGrantDTO `json:"grants"`
}

type GrantsResponse struct {
	Grants []*Grant `json:"grants"`
}

type DepartmentsResponse struct {
	Departments []string `json:"departments"`
}

// AccessSummary describes what one actor can do per department, fallback
// included.
type AccessSummary struct {
	Department string `json:"department"`
	CanView    bool   `json:"can_view"`
	CanEdit    bool   `json:"can_edit"`
	CanCreate  bool   `json:"can_create"`
	CanDelete  bool   `json:"can_delete"`
	IsHome     bool   `json:"is_home"`
}
