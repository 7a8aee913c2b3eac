package rbac

// Department tags. The set is fixed; projects and users reference these
// codes directly.
const (
	DeptComptabilite    = "comptabilite"
	DeptFinance         = "finance"
	DeptServiceClients  = "service_clients"
	DeptRisqueClients   = "risque_clients"
	DeptServiceGeneraux = "service_generaux"
	DeptControleGestion = "controle_gestion"
	DeptJuridique       = "juridique"
	DeptEvenementiel    = "evenementiel"
)

// Departments returns every department tag in display order.
func Departments() []string {
	return []string{
		DeptComptabilite,
		DeptFinance,
		DeptServiceClients,
		DeptRisqueClients,
		DeptServiceGeneraux,
		DeptControleGestion,
		DeptJuridique,
		DeptEvenementiel,
	}
}

// IsValidDepartment reports whether tag is a known department.
func IsValidDepartment(tag string) bool {
	for _, d := range Departments() {
		if d == tag {
			return true
		}
	}
	return false
}

// DepartmentGrant is an explicit per-department capability row for one user.
// Absence of a grant for a department is meaningful: view/edit/create fall
// back to the home-department check, delete does not.
type DepartmentGrant struct {
	Department string
	CanView    bool
	CanEdit    bool
	CanCreate  bool
	CanDelete  bool
}

func findGrant(grants []DepartmentGrant, department string) (DepartmentGrant, bool) {
	for _, g := range grants {
		if g.Department == department {
			return g, true
		}
	}
	return DepartmentGrant{}, false
}

// CanViewDepartment decides view access to a department. Admin-class actors
// see every department; an explicit grant row answers directly; otherwise
// the actor's home department grants implicit access.
func CanViewDepartment(a *Actor, grants []DepartmentGrant, department string) bool {
	if a == nil {
		return false
	}
	if IsAdminActor(a) {
		return true
	}
	if g, ok := findGrant(grants, department); ok {
		return g.CanView
	}
	return a.Department != "" && a.Department == department
}

// CanEditDepartment decides edit access, with the same fallback chain as
// CanViewDepartment.
func CanEditDepartment(a *Actor, grants []DepartmentGrant, department string) bool {
	if a == nil {
		return false
	}
	if IsAdminActor(a) {
		return true
	}
	if g, ok := findGrant(grants, department); ok {
		return g.CanEdit
	}
	return a.Department != "" && a.Department == department
}

// CanCreateDepartment decides create access, with the same fallback chain as
// CanViewDepartment.
func CanCreateDepartment(a *Actor, grants []DepartmentGrant, department string) bool {
	if a == nil {
		return false
	}
	if IsAdminActor(a) {
		return true
	}
	if g, ok := findGrant(grants, department); ok {
		return g.CanCreate
	}
	return a.Department != "" && a.Department == department
}

// CanDeleteDepartment decides delete access. Delete never falls back to the
// home department: without an explicit grant carrying CanDelete, the answer
// is no, even for the actor's own department.
func CanDeleteDepartment(a *Actor, grants []DepartmentGrant, department string) bool {
	if a == nil {
		return false
	}
	if IsAdminActor(a) {
		return true
	}
	if g, ok := findGrant(grants, department); ok {
		return g.CanDelete
	}
	return false
}

// AccessibleDepartments returns the departments the actor may view: the home
// department, if set, unioned with every explicit grant carrying CanView.
// Admin-class actors get all departments.
func AccessibleDepartments(a *Actor, grants []DepartmentGrant) []string {
	if a == nil {
		return nil
	}
	if IsAdminActor(a) {
		return Departments()
	}
	seen := make(map[string]struct{})
	var out []string
	add := func(dept string) {
		if dept == "" {
			return
		}
		if _, dup := seen[dept]; dup {
			return
		}
		seen[dept] = struct{}{}
		out = append(out, dept)
	}
	add(a.Department)
	for _, g := range grants {
		if g.CanView {
			add(g.Department)
		}
	}
	return out
}
