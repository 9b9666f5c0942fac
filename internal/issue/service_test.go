package issue_test

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/core/department"
	"github.com/frahmantamala/deptdesk/internal/core/events"
	"github.com/frahmantamala/deptdesk/internal/issue"
	issuePostgres "github.com/frahmantamala/deptdesk/internal/issue/postgres"
	"github.com/frahmantamala/deptdesk/internal/testutil"
	"github.com/frahmantamala/deptdesk/internal/user"
	"github.com/frahmantamala/deptdesk/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

// stubTeams maps member ids to their HR owner.
type stubTeams struct {
	owners map[int64]*user.User
	err    error
	calls  int
}

func (s *stubTeams) FindTeamForMember(ctx context.Context, userID int64) (*user.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.owners[userID], nil
}

// racingRepository lets a test change the stored status between the read
// and the conditional write.
type racingRepository struct {
	*issuePostgres.IssueRepository
	db     *gorm.DB
	status issue.Status
}

func (r *racingRepository) UpdateIfStatus(ctx context.Context, i *issue.Issue, expected issue.Status) (bool, error) {
	if err := r.db.Table("issues").Where("id = ?", i.ID).Update("status", string(r.status)).Error; err != nil {
		return false, err
	}
	return r.IssueRepository.UpdateIfStatus(ctx, i, expected)
}

func expectAppError(err error, status int, code internal.ErrorCode) {
	appErr, ok := internal.IsAppError(err)
	ExpectWithOffset(1, ok).To(BeTrue(), "expected AppError, got %v", err)
	ExpectWithOffset(1, appErr.StatusCode).To(Equal(status))
	ExpectWithOffset(1, appErr.Code).To(Equal(code))
}

var _ = Describe("Issue Service", func() {
	var (
		db      *gorm.DB
		repo    *issuePostgres.IssueRepository
		teams   *stubTeams
		service *issue.Service
		ctx     context.Context
		hr      *internal.User
		tech    *internal.User
		finance *internal.User
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = testutil.NewSQLite()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(testutil.Close, db)

		hr = &internal.User{ID: 1, Name: "Hana", Department: department.HR}
		tech = &internal.User{ID: 2, Name: "Toby", Department: department.Tech}
		finance = &internal.User{ID: 3, Name: "Faye", Department: department.Finance}

		teams = &stubTeams{owners: map[int64]*user.User{
			tech.ID: {ID: hr.ID, Name: hr.Name, Department: department.HR},
		}}
		repo = issuePostgres.NewIssueRepository(db)
		service = issue.NewService(repo, teams, events.NewEventBus(logger.Discard()), logger.Discard())
	})

	create := func(actor *internal.User, title, category string) *issue.Issue {
		i, err := service.Create(ctx, actor, issue.CreateIssueDTO{Title: title, Description: "details", Category: category})
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		return i
	}

	Describe("Create", func() {
		It("should create a pending issue with defaults", func() {
			i := create(finance, "Payslip wrong", "")

			Expect(i.ID).To(BeNumerically(">", 0))
			Expect(i.Status).To(Equal(issue.StatusPending))
			Expect(i.Category).To(Equal(issue.CategoryOther))
			Expect(i.Priority).To(Equal(issue.PriorityMedium))
			Expect(i.ReportedBy).To(Equal("Faye"))
			Expect(i.ReportedByDepartment).To(Equal(department.Finance))
			Expect(i.RoutedToDepartment).To(BeNil())
		})

		It("should stamp the HR owner for covered users", func() {
			i := create(tech, "Laptop broken", "hardware")

			Expect(i.AssignedToHR).NotTo(BeNil())
			Expect(*i.AssignedToHR).To(Equal(hr.ID))
			Expect(*i.AssignedToHRName).To(Equal("Hana"))

			stored, err := service.GetByID(ctx, i.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(*stored.AssignedToHRName).To(Equal("Hana"))
		})

		It("should leave uncovered users unassigned", func() {
			i := create(finance, "Bonus", "benefits")
			Expect(i.AssignedToHR).To(BeNil())
			Expect(i.AssignedToHRName).To(BeNil())
		})

		It("should never consult teams for HR reporters", func() {
			create(hr, "Policy question", "policy")
			Expect(teams.calls).To(BeZero())
		})

		It("should still create the issue when the team lookup fails", func() {
			teams.err = errors.New("lookup failed")

			i := create(tech, "VPN down", "network")
			Expect(i.AssignedToHR).To(BeNil())
		})

		It("should require title and description", func() {
			_, err := service.Create(ctx, tech, issue.CreateIssueDTO{Title: "only title"})

			expectAppError(err, http.StatusBadRequest, internal.ErrCodeRequiredField)
		})

		It("should reject unknown categories and priorities", func() {
			_, err := service.Create(ctx, tech, issue.CreateIssueDTO{Title: "t", Description: "d", Category: "furniture"})
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeInvalidCategory)

			_, err = service.Create(ctx, tech, issue.CreateIssueDTO{Title: "t", Description: "d", Priority: "critical"})
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeInvalidPriority)
		})
	})

	Describe("Listing", func() {
		It("should list newest first", func() {
			base := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
			for n, title := range []string{"first", "second", "third"} {
				at := base.Add(time.Duration(n) * time.Minute)
				Expect(repo.Create(ctx, &issue.Issue{
					Title: title, Description: "d", ReportedBy: "Toby", ReportedByDepartment: department.Tech,
					Category: issue.CategoryOther, Priority: issue.PriorityLow, Status: issue.StatusPending,
					CreatedAt: at, UpdatedAt: at,
				})).To(Succeed())
			}

			all, err := service.List(ctx, 0, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(3))
			Expect(all[0].Title).To(Equal("third"))

			page, err := service.List(ctx, 1, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(page).To(HaveLen(1))
			Expect(page[0].Title).To(Equal("second"))
		})

		It("should filter by reporter name", func() {
			create(tech, "mine", "software")
			create(finance, "theirs", "salary")

			issues, err := service.ListByReporter(ctx, "Toby")
			Expect(err).NotTo(HaveOccurred())
			Expect(issues).To(HaveLen(1))
			Expect(issues[0].Title).To(Equal("mine"))
		})

		It("should only show routed, working and resolved issues to a department", func() {
			routed := create(finance, "routed", "hardware")
			Expect(routed.Route(department.IT, 9, "Ivy", "note", false, time.Now())).To(Succeed())
			ok, err := repo.UpdateIfStatus(ctx, routed, issue.StatusPending)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			create(finance, "still pending", "hardware")

			itUser := &internal.User{ID: 9, Name: "Ivy", Department: department.IT}
			issues, err := service.ListForDepartment(ctx, itUser, department.IT)
			Expect(err).NotTo(HaveOccurred())
			Expect(issues).To(HaveLen(1))
			Expect(issues[0].Title).To(Equal("routed"))

			issues, err = service.ListForDepartment(ctx, hr, department.IT)
			Expect(err).NotTo(HaveOccurred())
			Expect(issues).To(HaveLen(1))
		})

		It("should deny other departments", func() {
			_, err := service.ListForDepartment(ctx, tech, department.IT)
			expectAppError(err, http.StatusForbidden, internal.ErrCodeDepartmentDenied)
		})
	})

	Describe("Update", func() {
		var i *issue.Issue

		BeforeEach(func() {
			i = create(tech, "Printer jam", "hardware")
		})

		It("should move through the lifecycle and publish status changes", func() {
			updated, err := service.Update(ctx, tech, i.ID, issue.UpdateIssueDTO{Status: "working"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(issue.StatusWorking))

			notes := "replaced the roller"
			updated, err = service.Update(ctx, tech, i.ID, issue.UpdateIssueDTO{Status: "resolved", ResolutionNotes: &notes})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.ResolutionNotes).To(Equal(notes))

			updated, err = service.Update(ctx, hr, i.ID, issue.UpdateIssueDTO{Status: "closed"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(issue.StatusClosed))
		})

		It("should reject illegal transitions and leave the issue unchanged", func() {
			_, err := service.Update(ctx, hr, i.ID, issue.UpdateIssueDTO{Status: "closed"})
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeInvalidTransition)

			stored, err := service.GetByID(ctx, i.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(issue.StatusPending))
		})

		It("should not route through a plain update", func() {
			_, err := service.Update(ctx, hr, i.ID, issue.UpdateIssueDTO{Status: "routed"})
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeInvalidTransition)
		})

		It("should treat the same status as a no-op", func() {
			updated, err := service.Update(ctx, tech, i.ID, issue.UpdateIssueDTO{Status: "pending"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(issue.StatusPending))
		})

		It("should let only HR return working issues to pending", func() {
			_, err := service.Update(ctx, tech, i.ID, issue.UpdateIssueDTO{Status: "working"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Update(ctx, tech, i.ID, issue.UpdateIssueDTO{Status: "pending"})
			expectAppError(err, http.StatusForbidden, internal.ErrCodeDepartmentDenied)

			updated, err := service.Update(ctx, hr, i.ID, issue.UpdateIssueDTO{Status: "pending"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(issue.StatusPending))
		})

		It("should append HR notes instead of replacing them", func() {
			first, second := "called the vendor", "vendor visiting Friday"
			_, err := service.Update(ctx, hr, i.ID, issue.UpdateIssueDTO{HRNotes: &first})
			Expect(err).NotTo(HaveOccurred())
			updated, err := service.Update(ctx, hr, i.ID, issue.UpdateIssueDTO{HRNotes: &second})
			Expect(err).NotTo(HaveOccurred())

			Expect(updated.HRNotes).To(ContainSubstring("Hana: called the vendor\n["))
			Expect(updated.HRNotes).To(HaveSuffix("Hana: vendor visiting Friday"))
		})

		It("should reject HR notes from other departments", func() {
			note := "not allowed"
			_, err := service.Update(ctx, tech, i.ID, issue.UpdateIssueDTO{HRNotes: &note})
			expectAppError(err, http.StatusForbidden, internal.ErrCodeDepartmentDenied)
		})

		It("should return not found for unknown issues", func() {
			_, err := service.Update(ctx, hr, 999, issue.UpdateIssueDTO{Status: "working"})
			Expect(err).To(Equal(internal.ErrIssueNotFound))
		})

		It("should report a conflict when the status changed underneath", func() {
			racing := &racingRepository{IssueRepository: repo, db: db, status: issue.StatusRouted}
			racingService := issue.NewService(racing, teams, nil, logger.Discard())

			_, err := racingService.Update(ctx, tech, i.ID, issue.UpdateIssueDTO{Status: "working"})

			Expect(err).To(Equal(internal.ErrConcurrentUpdate))
			stored, err := service.GetByID(ctx, i.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(issue.StatusRouted))
		})
	})
})
