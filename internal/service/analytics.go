package service

import (
	"errors"
	"sort"
	"time"

	"github.com/hieuleminh03/vgov/internal/apperr"
	"github.com/hieuleminh03/vgov/internal/model"
	"github.com/hieuleminh03/vgov/internal/policy"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProjectAnalytics struct {
	TotalProjects     int64            `json:"total_projects"`
	ActiveProjects    int64            `json:"active_projects"`
	CompletedProjects int64            `json:"completed_projects"`
	ProjectsByStatus  map[string]int64 `json:"projects_by_status"`
	ProjectsByType    map[string]int64 `json:"projects_by_type"`
}

type EmployeeAnalytics struct {
	TotalEmployees  int64            `json:"total_employees"`
	ActiveEmployees int64            `json:"active_employees"`
	EmployeesByRole map[string]int64 `json:"employees_by_role"`
	AverageWorkload decimal.Decimal  `json:"average_workload"`
}

type WorkloadAnalytics struct {
	WorkloadByRole            map[string]decimal.Decimal `json:"workload_by_role"`
	TopWorkloadUsers          []model.UserWorkload       `json:"top_workload_users"`
	SystemWorkloadUtilization decimal.Decimal            `json:"system_workload_utilization"`
}

type ProjectMilestone struct {
	ProjectID   uint            `json:"project_id"`
	ProjectName string          `json:"project_name"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	Status      string          `json:"status"`
	Completion  decimal.Decimal `json:"completion"`
}

type ProjectTimeline struct {
	Milestone     ProjectMilestone       `json:"milestone"`
	WorkLogTrends []model.WorkLogSummary `json:"work_log_trends"`
}

// CompletionEstimator maps a project's work-log count to a completion
// percentage for the timeline view.
type CompletionEstimator func(workLogCount int64) decimal.Decimal

// LogCountCompletion is the default estimator: ten percent per logged entry,
// capped at 100. A stand-in until a real progress model exists; swap the
// estimator, not the callers.
func LogCountCompletion(workLogCount int64) decimal.Decimal {
	completion := workLogCount * 10
	if completion > 100 {
		completion = 100
	}
	return decimal.NewFromInt(completion)
}

const topWorkloadLimit = 10

// AnalyticsService computes read-only rollups over projects, users, and
// memberships. It never mutates state; every result is scoped by the access
// policy where a caller is involved.
type AnalyticsService struct {
	db       *gorm.DB
	policy   *policy.Policy
	members  *MembershipService
	workLogs *WorkLogService

	// Completion is swappable so a real progress model can replace the
	// log-count heuristic without touching callers.
	Completion CompletionEstimator
}

func NewAnalyticsService(db *gorm.DB, p *policy.Policy, members *MembershipService, workLogs *WorkLogService) *AnalyticsService {
	return &AnalyticsService{
		db:         db,
		policy:     p,
		members:    members,
		workLogs:   workLogs,
		Completion: LogCountCompletion,
	}
}

// ProjectRollup partitions the caller's accessible projects by status and
// type. Empty buckets are omitted, not zero-filled.
func (s *AnalyticsService) ProjectRollup(caller *model.User) (*ProjectAnalytics, error) {
	projects, err := s.accessibleProjects(caller)
	if err != nil {
		return nil, err
	}

	analytics := &ProjectAnalytics{
		TotalProjects:    int64(len(projects)),
		ProjectsByStatus: make(map[string]int64),
		ProjectsByType:   make(map[string]int64),
	}
	for _, p := range projects {
		switch p.Status {
		case model.StatusInProgress:
			analytics.ActiveProjects++
		case model.StatusClosed:
			analytics.CompletedProjects++
		}
		analytics.ProjectsByStatus[p.Status.DisplayName()]++
		analytics.ProjectsByType[p.ProjectType.DisplayName()]++
	}
	return analytics, nil
}

// EmployeeRollup counts active employees per role and averages the total
// active workload over non-admin employees, half-up to two places. Zero
// when no non-admin employees exist.
func (s *AnalyticsService) EmployeeRollup() (*EmployeeAnalytics, error) {
	employees, err := s.activeEmployees()
	if err != nil {
		return nil, err
	}

	analytics := &EmployeeAnalytics{
		TotalEmployees:  int64(len(employees)),
		ActiveEmployees: int64(len(employees)),
		EmployeesByRole: make(map[string]int64),
		AverageWorkload: decimal.Zero,
	}

	totalWorkload := decimal.Zero
	var nonAdmins int64
	for _, u := range employees {
		analytics.EmployeesByRole[string(u.Role)]++
		if u.Role == model.RoleAdmin {
			continue
		}
		nonAdmins++
		workload, err := s.members.TotalActiveWorkload(u.ID)
		if err != nil {
			return nil, err
		}
		totalWorkload = totalWorkload.Add(workload)
	}

	if nonAdmins > 0 {
		analytics.AverageWorkload = totalWorkload.DivRound(decimal.NewFromInt(nonAdmins), 2)
	}
	return analytics, nil
}

// WorkloadRollup sums workload per non-admin role, ranks the ten most
// loaded users, and derives system-wide utilization. Users are enumerated
// by ascending ID and ranked with a stable sort, so equal workloads keep a
// deterministic order.
func (s *AnalyticsService) WorkloadRollup() (*WorkloadAnalytics, error) {
	employees, err := s.activeEmployees()
	if err != nil {
		return nil, err
	}

	analytics := &WorkloadAnalytics{
		WorkloadByRole:            make(map[string]decimal.Decimal),
		TopWorkloadUsers:          []model.UserWorkload{},
		SystemWorkloadUtilization: decimal.Zero,
	}
	for _, role := range model.Roles {
		if role == model.RoleAdmin {
			continue
		}
		analytics.WorkloadByRole[string(role)] = decimal.Zero
	}

	totalUsed := decimal.Zero
	var nonAdmins int64
	ranking := make([]model.UserWorkload, 0, len(employees))
	for _, u := range employees {
		if u.Role == model.RoleAdmin {
			continue
		}
		nonAdmins++

		workload, err := s.members.TotalActiveWorkload(u.ID)
		if err != nil {
			return nil, err
		}
		projectCount, err := s.members.ActiveProjectCount(u.ID)
		if err != nil {
			return nil, err
		}

		analytics.WorkloadByRole[string(u.Role)] = analytics.WorkloadByRole[string(u.Role)].Add(workload)
		totalUsed = totalUsed.Add(workload)
		ranking = append(ranking, model.UserWorkload{
			UserID:         u.ID,
			FullName:       u.FullName,
			Email:          u.Email,
			TotalWorkload:  workload,
			ActiveProjects: int(projectCount),
		})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].TotalWorkload.GreaterThan(ranking[j].TotalWorkload)
	})
	if len(ranking) > topWorkloadLimit {
		ranking = ranking[:topWorkloadLimit]
	}
	analytics.TopWorkloadUsers = ranking

	if nonAdmins > 0 {
		capacity := decimal.NewFromInt(nonAdmins * 100)
		analytics.SystemWorkloadUtilization = totalUsed.DivRound(capacity, 4).Mul(decimal.NewFromInt(100))
	}
	return analytics, nil
}

// Timeline returns the project's milestone record plus its monthly work-log
// trend, gated by project visibility.
func (s *AnalyticsService) Timeline(caller *model.User, projectID uint) (*ProjectTimeline, error) {
	var project model.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(apperr.CodeProjectNotFound, "project not found: id=%d", projectID)
		}
		return nil, err
	}

	allowed, err := s.policy.CanViewProject(caller, &project)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.Authorization("access denied to this project")
	}

	logCount, err := s.workLogs.CountForProject(projectID)
	if err != nil {
		return nil, err
	}
	trends, err := s.workLogs.MonthlySummary(projectID)
	if err != nil {
		return nil, err
	}

	return &ProjectTimeline{
		Milestone: ProjectMilestone{
			ProjectID:   project.ID,
			ProjectName: project.ProjectName,
			StartDate:   project.StartDate,
			EndDate:     project.EndDate,
			Status:      project.Status.DisplayName(),
			Completion:  s.Completion(logCount),
		},
		WorkLogTrends: trends,
	}, nil
}

func (s *AnalyticsService) accessibleProjects(caller *model.User) ([]model.Project, error) {
	query := s.db.Order("id asc")
	switch s.policy.ProjectScope(caller) {
	case policy.ScopeAll:
	case policy.ScopeManaged:
		query = query.Where("pm_email = ?", caller.Email)
	default:
		query = query.Where("id IN (SELECT project_id FROM project_members WHERE user_id = ? AND is_active = ?)", caller.ID, true)
	}
	var projects []model.Project
	err := query.Find(&projects).Error
	return projects, err
}

func (s *AnalyticsService) activeEmployees() ([]model.User, error) {
	var employees []model.User
	err := s.db.Where("is_active = ?", true).Order("id asc").Find(&employees).Error
	return employees, err
}
