package policy

import (
	"testing"

	"github.com/hieuleminh03/vgov/internal/model"
)

// staticDirectory answers membership questions from fixed maps.
type staticDirectory struct {
	activeMembers map[uint][]uint // projectID -> active user IDs
	managed       map[string][]uint
}

func (d *staticDirectory) IsActiveMember(projectID, userID uint) (bool, error) {
	for _, id := range d.activeMembers[projectID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (d *staticDirectory) ActiveProjectIDs(userID uint) ([]uint, error) {
	var ids []uint
	for projectID, users := range d.activeMembers {
		for _, id := range users {
			if id == userID {
				ids = append(ids, projectID)
			}
		}
	}
	return ids, nil
}

func (d *staticDirectory) ManagedProjectIDs(email string) ([]uint, error) {
	return d.managed[email], nil
}

func user(id uint, role model.Role, email string) *model.User {
	return &model.User{ID: id, Role: role, Email: email}
}

func project(id uint, pmEmail string) *model.Project {
	return &model.Project{ID: id, PMEmail: pmEmail}
}

func newFixturePolicy() *Policy {
	// Project 1 managed by pm@x, staffed by users 3 (dev) and 4 (ba).
	// Project 2 managed by other@x, staffed by user 5.
	return New(&staticDirectory{
		activeMembers: map[uint][]uint{
			1: {3, 4},
			2: {5},
		},
		managed: map[string][]uint{
			"pm@x":    {1},
			"other@x": {2},
		},
	})
}

func TestCanViewProject(t *testing.T) {
	p := newFixturePolicy()
	project1 := project(1, "pm@x")

	tests := []struct {
		name   string
		caller *model.User
		want   bool
	}{
		{"admin sees everything", user(1, model.RoleAdmin, "admin@x"), true},
		{"managing pm", user(2, model.RolePM, "pm@x"), true},
		{"pm of another project", user(9, model.RolePM, "other@x"), false},
		{"active dev member", user(3, model.RoleDev, "dev@x"), true},
		{"active ba member", user(4, model.RoleBA, "ba@x"), true},
		{"non-member test", user(5, model.RoleTest, "test@x"), false},
		{"unknown role fails closed", user(6, "intern", "intern@x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.CanViewProject(tt.caller, project1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCanViewUserWorkLogs(t *testing.T) {
	p := newFixturePolicy()

	tests := []struct {
		name   string
		caller *model.User
		target uint
		want   bool
	}{
		{"admin sees anyone", user(1, model.RoleAdmin, "admin@x"), 5, true},
		{"pm sees member of managed project", user(2, model.RolePM, "pm@x"), 3, true},
		{"pm cannot see member of other project", user(2, model.RolePM, "pm@x"), 5, false},
		{"pm with no projects sees nobody", user(7, model.RolePM, "idle@x"), 3, false},
		{"dev sees self", user(3, model.RoleDev, "dev@x"), 3, true},
		{"dev cannot see teammate", user(3, model.RoleDev, "dev@x"), 4, false},
		{"test sees self", user(5, model.RoleTest, "test@x"), 5, true},
		{"unknown role fails closed", user(6, "intern", "intern@x"), 6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.CanViewUserWorkLogs(tt.caller, tt.target)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestScopes(t *testing.T) {
	p := newFixturePolicy()

	tests := []struct {
		role model.Role
		want Scope
	}{
		{model.RoleAdmin, ScopeAll},
		{model.RolePM, ScopeManaged},
		{model.RoleDev, ScopeOwn},
		{model.RoleBA, ScopeOwn},
		{model.RoleTest, ScopeOwn},
		{"intern", ScopeOwn},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			caller := user(1, tt.role, "x@x")
			if got := p.ProjectScope(caller); got != tt.want {
				t.Fatalf("ProjectScope: want %v, got %v", tt.want, got)
			}
			if got := p.WorkLogScope(caller); got != tt.want {
				t.Fatalf("WorkLogScope: want %v, got %v", tt.want, got)
			}
		})
	}
}
