package expense

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/core/department"
	"github.com/frahmantamala/deptdesk/internal/core/events"
	"github.com/frahmantamala/deptdesk/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func TestExpense(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Expense Suite")
}

type mockExpenseRepository struct {
	expenses    map[int64]*Expense
	nextID      int64
	createError error
	updateError error
	// racedStatus, when set, replaces the stored status right before a
	// conditional write.
	racedStatus Status
}

func newMockExpenseRepository() *mockExpenseRepository {
	return &mockExpenseRepository{
		expenses: make(map[int64]*Expense),
		nextID:   1,
	}
}

func (m *mockExpenseRepository) Create(ctx context.Context, e *Expense) error {
	if m.createError != nil {
		return m.createError
	}
	e.ID = m.nextID
	m.nextID++
	stored := *e
	m.expenses[e.ID] = &stored
	return nil
}

func (m *mockExpenseRepository) GetByID(ctx context.Context, id int64) (*Expense, error) {
	e, ok := m.expenses[id]
	if !ok {
		return nil, internal.ErrExpenseNotFound
	}
	out := *e
	return &out, nil
}

func (m *mockExpenseRepository) sorted(keep func(*Expense) bool) []*Expense {
	var out []*Expense
	for _, e := range m.expenses {
		if keep(e) {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *mockExpenseRepository) List(ctx context.Context, limit, offset int) ([]*Expense, error) {
	return m.sorted(func(*Expense) bool { return true }), nil
}

func (m *mockExpenseRepository) ListByUser(ctx context.Context, userID int64) ([]*Expense, error) {
	return m.sorted(func(e *Expense) bool { return e.CreatedByUserID == userID }), nil
}

func (m *mockExpenseRepository) UpdateIfStatus(ctx context.Context, e *Expense, expected Status) (bool, error) {
	if m.updateError != nil {
		return false, m.updateError
	}
	stored, ok := m.expenses[e.ID]
	if !ok {
		return false, nil
	}
	if m.racedStatus != "" {
		stored.Status = m.racedStatus
	}
	if stored.Status != expected {
		return false, nil
	}
	updated := *e
	m.expenses[e.ID] = &updated
	return true, nil
}

type stubCategories struct {
	active map[string]bool
	err    error
}

func (s stubCategories) IsValidCategory(ctx context.Context, name string) (bool, error) {
	return s.active[name], s.err
}

func expectAppError(err error, status int, code internal.ErrorCode) {
	appErr, ok := internal.IsAppError(err)
	ExpectWithOffset(1, ok).To(BeTrue(), "expected AppError, got %v", err)
	ExpectWithOffset(1, appErr.StatusCode).To(Equal(status))
	ExpectWithOffset(1, appErr.Code).To(Equal(code))
}

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

type failingPublisher struct {
	published []string
}

func (p *failingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.published = append(p.published, event.EventType())
	return errors.New("bus unavailable")
}

var _ = Describe("Expense Service", func() {
	var (
		repo    *mockExpenseRepository
		cats    stubCategories
		service *Service
		ctx     context.Context
		now     time.Time
		tech    *internal.User
		hr      *internal.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
		repo = newMockExpenseRepository()
		cats = stubCategories{active: map[string]bool{"travel": true, "office-supplies": true}}
		service = NewService(repo, cats, nil, logger.Discard())
		service.now = func() time.Time { return now }

		tech = &internal.User{ID: 5, Name: "Tara", Department: department.Tech}
		hr = &internal.User{ID: 1, Name: "Hiro", Department: department.HR}
	})

	submit := func(actor *internal.User, value, category string) *Expense {
		e, err := service.Submit(ctx, actor, CreateExpenseDTO{Description: "Taxi to client", Amount: amount(value), Category: category})
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		return e
	}

	Describe("Submit", func() {
		It("should file a pending expense stamped with the caller", func() {
			e := submit(tech, "150.00", "travel")

			Expect(e.ID).To(BeEquivalentTo(1))
			Expect(e.Status).To(Equal(StatusPending))
			Expect(e.Amount.Equal(decimal.RequireFromString("150"))).To(BeTrue())
			Expect(e.Category).To(Equal("travel"))
			Expect(e.CreatedBy).To(Equal("Tara"))
			Expect(e.CreatedByDepartment).To(Equal(department.Tech))
			Expect(e.CreatedByUserID).To(Equal(tech.ID))
			Expect(e.Date).To(Equal(now))
			Expect(e.ApprovedBy).To(BeNil())
		})

		It("should keep the expense when the event cannot be published", func() {
			publisher := &failingPublisher{}
			svc := NewService(repo, cats, publisher, logger.Discard())
			svc.now = func() time.Time { return now }

			e, err := svc.Submit(ctx, tech, CreateExpenseDTO{Description: "Taxi to client", Amount: amount("40"), Category: "travel"})

			Expect(err).NotTo(HaveOccurred())
			Expect(publisher.published).To(Equal([]string{events.EventTypeExpenseSubmitted}))
			stored, err := repo.GetByID(ctx, e.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(StatusPending))
		})

		It("should default the category", func() {
			e := submit(tech, "12.5", "")
			Expect(e.Category).To(Equal("office-supplies"))
		})

		It("should accept a plain day as the date", func() {
			e, err := service.Submit(ctx, tech, CreateExpenseDTO{Description: "Hotel", Amount: amount("80"), Category: "Travel", Date: "2025-06-01"})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Date).To(Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
			Expect(e.Category).To(Equal("travel"))
		})

		It("should require description and amount", func() {
			_, err := service.Submit(ctx, tech, CreateExpenseDTO{Description: "  "})
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeRequiredField)
			Expect(err.Error()).To(Equal("Description and amount are required"))
		})

		It("should reject non-positive amounts", func() {
			_, err := service.Submit(ctx, tech, CreateExpenseDTO{Description: "Refund", Amount: amount("0")})
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeInvalidAmount)

			_, err = service.Submit(ctx, tech, CreateExpenseDTO{Description: "Refund", Amount: amount("-4")})
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeInvalidAmount)
		})

		It("should reject sub-cent amounts", func() {
			_, err := service.Submit(ctx, tech, CreateExpenseDTO{Description: "Fuel", Amount: amount("10.125")})
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeInvalidAmount)
		})

		It("should reject long descriptions", func() {
			long := make([]byte, 501)
			for i := range long {
				long[i] = 'x'
			}
			_, err := service.Submit(ctx, tech, CreateExpenseDTO{Description: string(long), Amount: amount("1")})
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeValidationFailed)
		})

		It("should reject future dates", func() {
			_, err := service.Submit(ctx, tech, CreateExpenseDTO{Description: "Flight", Amount: amount("300"), Date: "2025-06-11"})
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeInvalidDate)
		})

		It("should reject malformed dates", func() {
			_, err := service.Submit(ctx, tech, CreateExpenseDTO{Description: "Flight", Amount: amount("300"), Date: "June 1st"})
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeInvalidDate)
		})

		It("should reject categories outside the catalogue", func() {
			_, err := service.Submit(ctx, tech, CreateExpenseDTO{Description: "Ads", Amount: amount("20"), Category: "marketing"})
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeInvalidCategory)
		})

		It("should wrap store failures", func() {
			repo.createError = errors.New("disk full")
			_, err := service.Submit(ctx, tech, CreateExpenseDTO{Description: "Taxi", Amount: amount("9")})
			expectAppError(err, http.StatusInternalServerError, "INTERNAL_ERROR")
		})
	})

	Describe("Review", func() {
		var pending *Expense

		BeforeEach(func() {
			pending = submit(tech, "150.00", "travel")
		})

		It("should approve a pending expense", func() {
			now = now.Add(time.Hour)
			e, err := service.Review(ctx, hr, pending.ID, ReviewExpenseDTO{Status: "approved", HRNotes: " within policy "})
			Expect(err).NotTo(HaveOccurred())

			Expect(e.Status).To(Equal(StatusApproved))
			Expect(*e.ApprovedBy).To(Equal("Hiro"))
			Expect(*e.ApprovedByUserID).To(Equal(hr.ID))
			Expect(*e.ApprovalDate).To(Equal(now))
			Expect(e.HRNotes).To(Equal("within policy"))

			stored, err := service.GetByID(ctx, pending.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(StatusApproved))
		})

		It("should reject a pending expense", func() {
			e, err := service.Review(ctx, hr, pending.ID, ReviewExpenseDTO{Status: "Rejected"})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Status).To(Equal(StatusRejected))
		})

		It("should only let HR review", func() {
			_, err := service.Review(ctx, tech, pending.ID, ReviewExpenseDTO{Status: "approved"})
			expectAppError(err, http.StatusForbidden, internal.ErrCodeDepartmentDenied)
		})

		It("should reject unknown outcomes", func() {
			_, err := service.Review(ctx, hr, pending.ID, ReviewExpenseDTO{Status: "pending"})
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeInvalidStatus)

			_, err = service.Review(ctx, hr, pending.ID, ReviewExpenseDTO{})
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeRequiredField)
		})

		It("should report missing expenses", func() {
			_, err := service.Review(ctx, hr, 99, ReviewExpenseDTO{Status: "approved"})
			Expect(err).To(MatchError(internal.ErrExpenseNotFound))
		})

		It("should refuse a second review", func() {
			_, err := service.Review(ctx, hr, pending.ID, ReviewExpenseDTO{Status: "approved"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Review(ctx, hr, pending.ID, ReviewExpenseDTO{Status: "rejected"})
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeExpenseReviewed)
		})

		It("should refuse when another reviewer wins the race", func() {
			repo.racedStatus = StatusRejected
			_, err := service.Review(ctx, hr, pending.ID, ReviewExpenseDTO{Status: "approved"})
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeExpenseReviewed)
		})
	})

	Describe("Listing", func() {
		It("should list newest first", func() {
			first := submit(tech, "1", "travel")
			second := submit(hr, "2", "travel")

			all, err := service.List(ctx, 0, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))
			Expect(all[0].ID).To(Equal(second.ID))
			Expect(all[1].ID).To(Equal(first.ID))

			mine, err := service.ListByUser(ctx, tech.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(mine).To(HaveLen(1))
			Expect(mine[0].ID).To(Equal(first.ID))
		})

		It("should return an empty list rather than nil", func() {
			all, err := service.ListByUser(ctx, 42)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).NotTo(BeNil())
			Expect(all).To(BeEmpty())
		})
	})
})
