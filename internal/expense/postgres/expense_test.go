package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/core/department"
	"github.com/frahmantamala/deptdesk/internal/expense"
	"github.com/frahmantamala/deptdesk/internal/expense/postgres"
	"github.com/frahmantamala/deptdesk/internal/testutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestExpenseRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ExpenseRepository Suite")
}

var _ = Describe("ExpenseRepository", func() {
	var (
		db   *gorm.DB
		repo *postgres.ExpenseRepository
		ctx  context.Context
		base time.Time
	)

	newExpense := func(userID int64, value string, offset time.Duration) *expense.Expense {
		at := base.Add(offset)
		return &expense.Expense{
			Description:         "Lunch with vendor",
			Amount:              decimal.RequireFromString(value),
			Category:            "travel",
			Date:                at,
			CreatedBy:           "Fina",
			CreatedByDepartment: department.Finance,
			CreatedByUserID:     userID,
			Status:              expense.StatusPending,
			CreatedAt:           at,
			UpdatedAt:           at,
		}
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		base = time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
		db, err = testutil.NewSQLite()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(testutil.Close, db)
		repo = postgres.NewExpenseRepository(db)
	})

	Describe("Create", func() {
		It("should assign an id and keep the decimal amount", func() {
			e := newExpense(3, "150.25", 0)
			Expect(repo.Create(ctx, e)).To(Succeed())
			Expect(e.ID).To(BeNumerically(">", 0))

			stored, err := repo.GetByID(ctx, e.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Amount.Equal(decimal.RequireFromString("150.25"))).To(BeTrue())
			Expect(stored.CreatedByDepartment).To(Equal(department.Finance))
			Expect(stored.Status).To(Equal(expense.StatusPending))
		})
	})

	Describe("GetByID", func() {
		It("should map a missing row to ErrExpenseNotFound", func() {
			_, err := repo.GetByID(ctx, 77)
			Expect(err).To(MatchError(internal.ErrExpenseNotFound))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			Expect(repo.Create(ctx, newExpense(3, "1", 0))).To(Succeed())
			Expect(repo.Create(ctx, newExpense(4, "2", time.Minute))).To(Succeed())
			Expect(repo.Create(ctx, newExpense(3, "3", 2*time.Minute))).To(Succeed())
		})

		It("should order newest first", func() {
			all, err := repo.List(ctx, 0, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(3))
			Expect(all[0].Amount.String()).To(Equal("3"))
			Expect(all[2].Amount.String()).To(Equal("1"))
		})

		It("should page", func() {
			page, err := repo.List(ctx, 1, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(page).To(HaveLen(1))
			Expect(page[0].Amount.String()).To(Equal("2"))
		})

		It("should filter by submitter", func() {
			mine, err := repo.ListByUser(ctx, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(mine).To(HaveLen(2))
			for _, e := range mine {
				Expect(e.CreatedByUserID).To(BeEquivalentTo(3))
			}
		})
	})

	Describe("UpdateIfStatus", func() {
		It("should write only while the status matches", func() {
			e := newExpense(3, "40", 0)
			Expect(repo.Create(ctx, e)).To(Succeed())

			e.Review(expense.StatusApproved, 1, "Hana", "ok", base.Add(time.Hour))
			written, err := repo.UpdateIfStatus(ctx, e, expense.StatusPending)
			Expect(err).NotTo(HaveOccurred())
			Expect(written).To(BeTrue())

			e.Review(expense.StatusRejected, 1, "Hana", "", base.Add(2*time.Hour))
			written, err = repo.UpdateIfStatus(ctx, e, expense.StatusPending)
			Expect(err).NotTo(HaveOccurred())
			Expect(written).To(BeFalse())

			stored, err := repo.GetByID(ctx, e.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(expense.StatusApproved))
			Expect(*stored.ApprovedBy).To(Equal("Hana"))
			Expect(stored.HRNotes).To(Equal("ok"))
		})
	})
})
