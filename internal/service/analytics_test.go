package service

import (
	"fmt"
	"testing"

	"github.com/hieuleminh03/vgov/internal/apperr"
	"github.com/hieuleminh03/vgov/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newAnalyticsService(t *testing.T) (*AnalyticsService, *MembershipService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	p, members := newPolicy(db)
	workLogs := NewWorkLogService(db, p)
	return NewAnalyticsService(db, p, members, workLogs), members, db
}

func TestProjectRollup(t *testing.T) {
	svc, _, db := newAnalyticsService(t)
	admin := seedUser(t, db, model.RoleAdmin, true)

	seedProject(t, db, "pm@vgov.vn", model.StatusPresale, date(2026, 1, 1), nil)
	seedProject(t, db, "pm@vgov.vn", model.StatusInProgress, date(2026, 1, 1), nil)
	seedProject(t, db, "pm@vgov.vn", model.StatusInProgress, date(2026, 1, 1), nil)
	end := date(2026, 6, 30)
	seedProject(t, db, "pm@vgov.vn", model.StatusClosed, date(2026, 1, 1), &end)

	rollup, err := svc.ProjectRollup(admin)
	if err != nil {
		t.Fatalf("rollup: %v", err)
	}
	if rollup.TotalProjects != 4 {
		t.Fatalf("want 4 total, got %d", rollup.TotalProjects)
	}
	if rollup.ActiveProjects != 2 {
		t.Fatalf("want 2 active, got %d", rollup.ActiveProjects)
	}
	if rollup.CompletedProjects != 1 {
		t.Fatalf("want 1 completed, got %d", rollup.CompletedProjects)
	}
	if rollup.ProjectsByStatus["In Progress"] != 2 {
		t.Fatalf("want 2 in progress, got %d", rollup.ProjectsByStatus["In Progress"])
	}
	// Empty buckets stay absent.
	if _, ok := rollup.ProjectsByStatus["Hold"]; ok {
		t.Fatal("hold bucket should be omitted when empty")
	}
	if rollup.ProjectsByType["Outsourcing"] != 4 {
		t.Fatalf("want 4 outsourcing, got %d", rollup.ProjectsByType["Outsourcing"])
	}
}

func TestProjectRollupScopedToCaller(t *testing.T) {
	svc, members, db := newAnalyticsService(t)
	admin := seedUser(t, db, model.RoleAdmin, true)
	pm := seedUser(t, db, model.RolePM, true)
	dev := seedUser(t, db, model.RoleDev, true)

	managed := seedProject(t, db, pm.Email, model.StatusInProgress, date(2026, 1, 1), nil)
	seedProject(t, db, "other.pm@vgov.vn", model.StatusInProgress, date(2026, 1, 1), nil)
	if _, err := members.Assign(managed.ID, dev.ID, dec("50"), nil, admin.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	pmRollup, err := svc.ProjectRollup(pm)
	if err != nil {
		t.Fatalf("pm rollup: %v", err)
	}
	if pmRollup.TotalProjects != 1 {
		t.Fatalf("pm: want 1 project, got %d", pmRollup.TotalProjects)
	}

	devRollup, err := svc.ProjectRollup(dev)
	if err != nil {
		t.Fatalf("dev rollup: %v", err)
	}
	if devRollup.TotalProjects != 1 {
		t.Fatalf("dev: want 1 project, got %d", devRollup.TotalProjects)
	}
}

func TestEmployeeRollupAverageWorkload(t *testing.T) {
	svc, members, db := newAnalyticsService(t)
	admin := seedUser(t, db, model.RoleAdmin, true)
	dev1 := seedUser(t, db, model.RoleDev, true)
	dev2 := seedUser(t, db, model.RoleBA, true)
	seedUser(t, db, model.RoleTest, false) // inactive, excluded entirely

	project := seedProject(t, db, "pm@vgov.vn", model.StatusInProgress, date(2026, 1, 1), nil)
	other := seedProject(t, db, "pm@vgov.vn", model.StatusInProgress, date(2026, 1, 1), nil)
	if _, err := members.Assign(project.ID, dev1.ID, dec("60"), nil, admin.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := members.Assign(other.ID, dev1.ID, dec("25"), nil, admin.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := members.Assign(project.ID, dev2.ID, dec("40"), nil, admin.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	rollup, err := svc.EmployeeRollup()
	if err != nil {
		t.Fatalf("rollup: %v", err)
	}
	if rollup.TotalEmployees != 3 {
		t.Fatalf("want 3 active employees, got %d", rollup.TotalEmployees)
	}
	if rollup.EmployeesByRole["admin"] != 1 || rollup.EmployeesByRole["dev"] != 1 || rollup.EmployeesByRole["ba"] != 1 {
		t.Fatalf("role counts wrong: %v", rollup.EmployeesByRole)
	}
	// (85 + 40) / 2 non-admins, half-up to two places.
	if !rollup.AverageWorkload.Equal(dec("62.5")) {
		t.Fatalf("want average 62.5, got %s", rollup.AverageWorkload)
	}
}

func TestEmployeeRollupNoNonAdmins(t *testing.T) {
	svc, _, db := newAnalyticsService(t)
	seedUser(t, db, model.RoleAdmin, true)

	rollup, err := svc.EmployeeRollup()
	if err != nil {
		t.Fatalf("rollup: %v", err)
	}
	if !rollup.AverageWorkload.Equal(decimal.Zero) {
		t.Fatalf("want zero average with no non-admins, got %s", rollup.AverageWorkload)
	}
}

func TestWorkloadRollup(t *testing.T) {
	svc, members, db := newAnalyticsService(t)
	admin := seedUser(t, db, model.RoleAdmin, true)
	dev := seedUser(t, db, model.RoleDev, true)
	ba := seedUser(t, db, model.RoleBA, true)

	project := seedProject(t, db, "pm@vgov.vn", model.StatusInProgress, date(2026, 1, 1), nil)
	if _, err := members.Assign(project.ID, dev.ID, dec("80"), nil, admin.ID); err != nil {
		t.Fatalf("assign dev: %v", err)
	}
	if _, err := members.Assign(project.ID, ba.ID, dec("40"), nil, admin.ID); err != nil {
		t.Fatalf("assign ba: %v", err)
	}

	rollup, err := svc.WorkloadRollup()
	if err != nil {
		t.Fatalf("rollup: %v", err)
	}

	// Every non-admin role is present even with zero workload; admin is not.
	if _, ok := rollup.WorkloadByRole["admin"]; ok {
		t.Fatal("admin must not appear in workload by role")
	}
	for _, role := range []string{"pm", "dev", "ba", "test"} {
		if _, ok := rollup.WorkloadByRole[role]; !ok {
			t.Fatalf("role %s missing from workload map", role)
		}
	}
	if !rollup.WorkloadByRole["dev"].Equal(dec("80")) {
		t.Fatalf("dev workload: want 80, got %s", rollup.WorkloadByRole["dev"])
	}
	if !rollup.WorkloadByRole["test"].Equal(decimal.Zero) {
		t.Fatalf("test workload: want 0, got %s", rollup.WorkloadByRole["test"])
	}

	// Ranking is highest first.
	if len(rollup.TopWorkloadUsers) != 2 {
		t.Fatalf("want 2 ranked users, got %d", len(rollup.TopWorkloadUsers))
	}
	if rollup.TopWorkloadUsers[0].UserID != dev.ID {
		t.Fatalf("want dev ranked first, got user %d", rollup.TopWorkloadUsers[0].UserID)
	}

	// 120 used of 200 capacity.
	if !rollup.SystemWorkloadUtilization.Equal(dec("60")) {
		t.Fatalf("want utilization 60, got %s", rollup.SystemWorkloadUtilization)
	}
}

func TestWorkloadRollupTopTenCutoff(t *testing.T) {
	svc, members, db := newAnalyticsService(t)
	admin := seedUser(t, db, model.RoleAdmin, true)
	project := seedProject(t, db, "pm@vgov.vn", model.StatusInProgress, date(2026, 1, 1), nil)

	// Twelve employees with distinct workloads 5, 10, ..., 60.
	users := make([]*model.User, 0, 12)
	for i := 1; i <= 12; i++ {
		u := seedUser(t, db, model.RoleDev, true)
		users = append(users, u)
		workload := decimal.NewFromInt(int64(i * 5))
		if _, err := members.Assign(project.ID, u.ID, workload, nil, admin.ID); err != nil {
			t.Fatalf("assign user %d: %v", i, err)
		}
	}

	rollup, err := svc.WorkloadRollup()
	if err != nil {
		t.Fatalf("rollup: %v", err)
	}
	if len(rollup.TopWorkloadUsers) != 10 {
		t.Fatalf("want exactly 10 ranked users, got %d", len(rollup.TopWorkloadUsers))
	}
	if rollup.TopWorkloadUsers[0].UserID != users[11].ID {
		t.Fatalf("want heaviest user first, got %d", rollup.TopWorkloadUsers[0].UserID)
	}
	// The two lightest users fall off the list.
	for _, ranked := range rollup.TopWorkloadUsers {
		if ranked.UserID == users[0].ID || ranked.UserID == users[1].ID {
			t.Fatalf("user %d should not be ranked", ranked.UserID)
		}
	}
	for i := 1; i < len(rollup.TopWorkloadUsers); i++ {
		if rollup.TopWorkloadUsers[i].TotalWorkload.GreaterThan(rollup.TopWorkloadUsers[i-1].TotalWorkload) {
			t.Fatalf("ranking not descending at position %d", i)
		}
	}
}

func TestWorkloadRollupStableTieOrder(t *testing.T) {
	svc, members, db := newAnalyticsService(t)
	admin := seedUser(t, db, model.RoleAdmin, true)
	project := seedProject(t, db, "pm@vgov.vn", model.StatusInProgress, date(2026, 1, 1), nil)

	var ids []uint
	for i := 0; i < 3; i++ {
		u := seedUser(t, db, model.RoleDev, true)
		ids = append(ids, u.ID)
		if _, err := members.Assign(project.ID, u.ID, dec("50"), nil, admin.ID); err != nil {
			t.Fatalf("assign: %v", err)
		}
	}

	rollup, err := svc.WorkloadRollup()
	if err != nil {
		t.Fatalf("rollup: %v", err)
	}
	// Equal workloads keep ascending-ID enumeration order.
	for i, ranked := range rollup.TopWorkloadUsers {
		if ranked.UserID != ids[i] {
			t.Fatalf("position %d: want user %d, got %d", i, ids[i], ranked.UserID)
		}
	}
}

func TestCompletionEstimator(t *testing.T) {
	tests := []struct {
		count int64
		want  string
	}{
		{0, "0"},
		{1, "10"},
		{9, "90"},
		{10, "100"},
		{25, "100"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d entries", tt.count), func(t *testing.T) {
			got := LogCountCompletion(tt.count)
			if !got.Equal(dec(tt.want)) {
				t.Fatalf("want %s, got %s", tt.want, got)
			}
		})
	}
}

func TestTimeline(t *testing.T) {
	svc, members, db := newAnalyticsService(t)
	admin := seedUser(t, db, model.RoleAdmin, true)
	dev := seedUser(t, db, model.RoleDev, true)
	outsider := seedUser(t, db, model.RoleDev, true)

	end := date(2026, 6, 30)
	project := seedProject(t, db, "pm@vgov.vn", model.StatusInProgress, date(2026, 1, 1), &end)
	if _, err := members.Assign(project.ID, dev.ID, dec("50"), nil, admin.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	workLogs := NewWorkLogService(db, svc.policy)
	for day := 1; day <= 3; day++ {
		if _, err := workLogs.Create(dev, WorkLogInput{
			ProjectID:   project.ID,
			WorkDate:    date(2026, 2, day),
			HoursWorked: dec("8"),
		}); err != nil {
			t.Fatalf("create work log: %v", err)
		}
	}

	timeline, err := svc.Timeline(admin, project.ID)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if timeline.Milestone.ProjectID != project.ID {
		t.Fatalf("want project %d, got %d", project.ID, timeline.Milestone.ProjectID)
	}
	if timeline.Milestone.Status != "In Progress" {
		t.Fatalf("want display status, got %q", timeline.Milestone.Status)
	}
	if !timeline.Milestone.Completion.Equal(dec("30")) {
		t.Fatalf("want completion 30, got %s", timeline.Milestone.Completion)
	}
	if len(timeline.WorkLogTrends) != 1 || timeline.WorkLogTrends[0].Month != "2026-02" {
		t.Fatalf("trends wrong: %+v", timeline.WorkLogTrends)
	}

	// A swapped estimator takes effect without touching callers.
	svc.Completion = func(int64) decimal.Decimal { return dec("55") }
	timeline, err = svc.Timeline(admin, project.ID)
	if err != nil {
		t.Fatalf("timeline with custom estimator: %v", err)
	}
	if !timeline.Milestone.Completion.Equal(dec("55")) {
		t.Fatalf("want completion 55, got %s", timeline.Milestone.Completion)
	}

	if _, err := svc.Timeline(outsider, project.ID); !apperr.IsAuthorization(err) {
		t.Fatalf("want authorization error, got %v", err)
	}
	if _, err := svc.Timeline(admin, 9999); !apperr.IsNotFound(err) {
		t.Fatalf("want not-found, got %v", err)
	}
}
