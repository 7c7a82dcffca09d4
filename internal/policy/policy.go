// Package policy decides what a caller may see or mutate. It is pure
// decision logic: no side effects, storage reached only through the
// Directory interface, so the access matrix is testable in isolation.
package policy

import (
	"github.com/hieuleminh03/vgov/internal/model"
)

// Directory supplies the membership and management facts the predicates
// need. The membership service implements it against the database.
type Directory interface {
	// IsActiveMember reports whether user holds a current membership on project.
	IsActiveMember(projectID, userID uint) (bool, error)
	// ActiveProjectIDs lists the projects user is currently a member of.
	ActiveProjectIDs(userID uint) ([]uint, error)
	// ManagedProjectIDs lists the projects whose pm_email equals email.
	ManagedProjectIDs(email string) ([]uint, error)
}

// Scope names the slice of data a role may list. Services translate it into
// the matching query instead of branching on role themselves.
type Scope int

const (
	ScopeAll     Scope = iota // every record
	ScopeManaged              // records of projects the caller manages
	ScopeOwn                  // records belonging to or visible to the caller only
)

type Policy struct {
	dir Directory
}

func New(dir Directory) *Policy {
	return &Policy{dir: dir}
}

// projectViewers is the single place the project-visibility matrix lives.
var projectViewers = map[model.Role]func(p *Policy, caller *model.User, project *model.Project) (bool, error){
	model.RoleAdmin: func(*Policy, *model.User, *model.Project) (bool, error) { return true, nil },
	model.RolePM: func(_ *Policy, caller *model.User, project *model.Project) (bool, error) {
		return project.PMEmail == caller.Email, nil
	},
	model.RoleDev:  memberViewer,
	model.RoleBA:   memberViewer,
	model.RoleTest: memberViewer,
}

func memberViewer(p *Policy, caller *model.User, project *model.Project) (bool, error) {
	return p.dir.IsActiveMember(project.ID, caller.ID)
}

// CanViewProject reports whether caller may see project at all: admins
// always, PMs for projects they manage, everyone else only where they hold
// an active membership.
func (p *Policy) CanViewProject(caller *model.User, project *model.Project) (bool, error) {
	viewer, ok := projectViewers[caller.Role]
	if !ok {
		return false, nil
	}
	return viewer(p, caller, project)
}

// CanViewProjectWorkLogs follows the same rule as CanViewProject.
func (p *Policy) CanViewProjectWorkLogs(caller *model.User, project *model.Project) (bool, error) {
	return p.CanViewProject(caller, project)
}

// CanViewUserWorkLogs reports whether caller may see targetUserID's work
// logs. PMs qualify when the target is an active member of at least one
// project the PM manages.
func (p *Policy) CanViewUserWorkLogs(caller *model.User, targetUserID uint) (bool, error) {
	switch caller.Role {
	case model.RoleAdmin:
		return true, nil
	case model.RolePM:
		managed, err := p.dir.ManagedProjectIDs(caller.Email)
		if err != nil {
			return false, err
		}
		if len(managed) == 0 {
			return false, nil
		}
		active, err := p.dir.ActiveProjectIDs(targetUserID)
		if err != nil {
			return false, err
		}
		return intersects(managed, active), nil
	case model.RoleDev, model.RoleBA, model.RoleTest:
		return caller.ID == targetUserID, nil
	}
	return false, nil
}

// projectScopes mirrors projectViewers for listing operations: instead of a
// yes/no per resource, it narrows the query.
var projectScopes = map[model.Role]Scope{
	model.RoleAdmin: ScopeAll,
	model.RolePM:    ScopeManaged,
	model.RoleDev:   ScopeOwn,
	model.RoleBA:    ScopeOwn,
	model.RoleTest:  ScopeOwn,
}

// ProjectScope returns the listing scope for caller's role. Unknown roles
// collapse to ScopeOwn, which fails closed.
func (p *Policy) ProjectScope(caller *model.User) Scope {
	if scope, ok := projectScopes[caller.Role]; ok {
		return scope
	}
	return ScopeOwn
}

// WorkLogScope follows the same table: admins see every entry, PMs the
// entries of managed projects, everyone else their own.
func (p *Policy) WorkLogScope(caller *model.User) Scope {
	return p.ProjectScope(caller)
}

func intersects(a, b []uint) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[uint]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
