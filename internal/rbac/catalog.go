package rbac

// Permission codes. These are the only codes the portal grants; the
// persisted permission table is seeded from this catalog and custom roles
// reference rows by codename.
const (
	PermProjectView   = "project:view"
	PermProjectCreate = "project:create"
	PermProjectEdit   = "project:edit"
	PermProjectDelete = "project:delete"

	PermTaskView   = "task:view"
	PermTaskCreate = "task:create"
	PermTaskEdit   = "task:edit"
	PermTaskDelete = "task:delete"

	PermUserView   = "user:view"
	PermUserCreate = "user:create"
	PermUserEdit   = "user:edit"
	PermUserDelete = "user:delete"
	PermUserManage = "user:manage"

	PermPermissionView   = "permission:view"
	PermPermissionChange = "permission:change"
	PermRoleView         = "role:view"
	PermRoleChange       = "role:change"

	PermCalendarView   = "calendar:view"
	PermCalendarCreate = "calendar:create"
	PermCalendarEdit   = "calendar:edit"
	PermCalendarDelete = "calendar:delete"
	PermCalendarExport = "calendar:export"

	PermTeamView   = "team:view"
	PermTeamManage = "team:manage"

	PermReportView     = "report:view"
	PermReportGenerate = "report:generate"

	PermSettingsView   = "settings:view"
	PermSettingsChange = "settings:change"

	PermSystemAdmin = "system:admin"
)

// Permission categories.
const (
	CategoryUsers     = "users"
	CategoryProjects  = "projects"
	CategoryTasks     = "tasks"
	CategoryTeams     = "teams"
	CategoryCalendar  = "calendar"
	CategoryReports   = "reports"
	CategorySettings  = "settings"
	CategoryFinance   = "finance"
	CategoryHR        = "hr"
	CategoryInventory = "inventory"
	CategorySales     = "sales"
	CategoryMarketing = "marketing"
)

// Category is one catalog grouping with its display label.
type Category struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// CatalogEntry describes one grantable permission.
type CatalogEntry struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

var categories = []Category{
	{Code: CategoryUsers, Label: "Users"},
	{Code: CategoryProjects, Label: "Projects"},
	{Code: CategoryTasks, Label: "Tasks"},
	{Code: CategoryTeams, Label: "Teams"},
	{Code: CategoryCalendar, Label: "Calendar"},
	{Code: CategoryReports, Label: "Reports"},
	{Code: CategorySettings, Label: "Settings"},
	{Code: CategoryFinance, Label: "Finance"},
	{Code: CategoryHR, Label: "HR"},
	{Code: CategoryInventory, Label: "Inventory"},
	{Code: CategorySales, Label: "Sales"},
	{Code: CategoryMarketing, Label: "Marketing"},
}

var catalog = []CatalogEntry{
	{Code: PermProjectView, Name: "Can view projects", Category: CategoryProjects},
	{Code: PermProjectCreate, Name: "Can create projects", Category: CategoryProjects},
	{Code: PermProjectEdit, Name: "Can edit projects", Category: CategoryProjects},
	{Code: PermProjectDelete, Name: "Can delete projects", Category: CategoryProjects},

	{Code: PermTaskView, Name: "Can view tasks", Category: CategoryTasks},
	{Code: PermTaskCreate, Name: "Can create tasks", Category: CategoryTasks},
	{Code: PermTaskEdit, Name: "Can edit tasks", Category: CategoryTasks},
	{Code: PermTaskDelete, Name: "Can delete tasks", Category: CategoryTasks},

	{Code: PermUserView, Name: "Can view users", Category: CategoryUsers},
	{Code: PermUserCreate, Name: "Can create users", Category: CategoryUsers},
	{Code: PermUserEdit, Name: "Can edit users", Category: CategoryUsers},
	{Code: PermUserDelete, Name: "Can delete users", Category: CategoryUsers},
	{Code: PermUserManage, Name: "Can manage users", Category: CategoryUsers},

	{Code: PermPermissionView, Name: "Can view permissions", Category: CategorySettings},
	{Code: PermPermissionChange, Name: "Can change permissions", Category: CategorySettings},
	{Code: PermRoleView, Name: "Can view roles", Category: CategorySettings},
	{Code: PermRoleChange, Name: "Can change roles", Category: CategorySettings},

	{Code: PermCalendarView, Name: "Can view calendar", Category: CategoryCalendar},
	{Code: PermCalendarCreate, Name: "Can create calendar entries", Category: CategoryCalendar},
	{Code: PermCalendarEdit, Name: "Can edit calendar entries", Category: CategoryCalendar},
	{Code: PermCalendarDelete, Name: "Can delete calendar entries", Category: CategoryCalendar},
	{Code: PermCalendarExport, Name: "Can export calendar", Category: CategoryCalendar},

	{Code: PermTeamView, Name: "Can view teams", Category: CategoryTeams},
	{Code: PermTeamManage, Name: "Can manage teams", Category: CategoryTeams},

	{Code: PermReportView, Name: "Can view reports", Category: CategoryReports},
	{Code: PermReportGenerate, Name: "Can generate reports", Category: CategoryReports},

	{Code: PermSettingsView, Name: "Can view settings", Category: CategorySettings},
	{Code: PermSettingsChange, Name: "Can change settings", Category: CategorySettings},

	{Code: PermSystemAdmin, Name: "System administration", Category: CategorySettings},
}

// Categories returns the ordered catalog categories.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Catalog returns every permission in the catalog. The returned slice is a
// copy; callers may reorder or filter it freely.
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, len(catalog))
	copy(out, catalog)
	return out
}

// CatalogByCategory returns the catalog entries for one category. An unknown
// or empty category yields an empty slice, not an error.
func CatalogByCategory(category string) []CatalogEntry {
	var out []CatalogEntry
	for _, e := range catalog {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// AllPermissionCodes returns every known permission code.
func AllPermissionCodes() []string {
	out := make([]string, len(catalog))
	for i, e := range catalog {
		out[i] = e.Code
	}
	return out
}

// IsKnownPermission reports whether code appears in the catalog.
func IsKnownPermission(code string) bool {
	for _, e := range catalog {
		if e.Code == code {
			return true
		}
	}
	return false
}
