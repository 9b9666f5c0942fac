package expense_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/category"
	categoryPostgres "github.com/frahmantamala/deptdesk/internal/category/postgres"
	"github.com/frahmantamala/deptdesk/internal/core/department"
	"github.com/frahmantamala/deptdesk/internal/expense"
	expensePostgres "github.com/frahmantamala/deptdesk/internal/expense/postgres"
	"github.com/frahmantamala/deptdesk/internal/testutil"
	"github.com/frahmantamala/deptdesk/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("Expense Handler", func() {
	var (
		router chi.Router
		caller *internal.User
		tech   *internal.User
		hr     *internal.User
	)

	BeforeEach(func() {
		db, err := testutil.NewSQLite()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(testutil.Close, db)

		categories := category.NewService(categoryPostgres.NewCategoryRepository(db), logger.Discard())
		_, err = categories.EnsureDefaults(context.Background())
		Expect(err).NotTo(HaveOccurred())

		service := expense.NewService(expensePostgres.NewExpenseRepository(db), categories, nil, logger.Discard())
		h := expense.NewHandler(service)

		tech = &internal.User{ID: 7, Name: "Theo", Department: department.Tech}
		hr = &internal.User{ID: 2, Name: "Hana", Department: department.HR}
		caller = tech

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithUser(r.Context(), caller)))
			})
		})
		router.Get("/expenses", h.List)
		router.Post("/expenses", h.Create)
		router.Get("/expenses/user/{userId}", h.ListByUser)
		router.Get("/expenses/{id}", h.Get)
		router.Put("/expenses/{id}/approve", h.Approve)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder) *expense.Expense {
		var e expense.Expense
		ExpectWithOffset(1, json.Unmarshal(w.Body.Bytes(), &e)).To(Succeed())
		return &e
	}

	It("should submit, list and approve a travel expense", func() {
		w := do(http.MethodPost, "/expenses", `{"description": "Train to Bandung", "amount": 150.00, "category": "travel"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		created := decode(w)
		Expect(created.Status).To(Equal(expense.StatusPending))
		Expect(created.CreatedByDepartment).To(Equal(department.Tech))

		w = do(http.MethodGet, "/expenses", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var listed []*expense.Expense
		Expect(json.Unmarshal(w.Body.Bytes(), &listed)).To(Succeed())
		Expect(listed).To(HaveLen(1))
		Expect(listed[0].ID).To(Equal(created.ID))
		Expect(listed[0].Description).To(Equal("Train to Bandung"))
		Expect(listed[0].Amount.Equal(decimal.NewFromInt(150))).To(BeTrue())
		Expect(listed[0].Category).To(Equal("travel"))
		Expect(listed[0].CreatedBy).To(Equal("Theo"))

		caller = hr
		w = do(http.MethodPut, fmt.Sprintf("/expenses/%d/approve", created.ID), `{"status": "approved"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		approved := decode(w)
		Expect(approved.Status).To(Equal(expense.StatusApproved))
		Expect(*approved.ApprovedBy).To(Equal("Hana"))
		Expect(approved.ApprovalDate).NotTo(BeNil())

		w = do(http.MethodGet, fmt.Sprintf("/expenses/%d", created.ID), "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w).Status).To(Equal(expense.StatusApproved))
	})

	It("should list a user's own expenses", func() {
		Expect(do(http.MethodPost, "/expenses", `{"description": "Pens", "amount": "3.50"}`).Code).To(Equal(http.StatusCreated))
		caller = hr
		Expect(do(http.MethodPost, "/expenses", `{"description": "Course", "amount": 200, "category": "training"}`).Code).To(Equal(http.StatusCreated))

		w := do(http.MethodGet, fmt.Sprintf("/expenses/user/%d", tech.ID), "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var listed []*expense.Expense
		Expect(json.Unmarshal(w.Body.Bytes(), &listed)).To(Succeed())
		Expect(listed).To(HaveLen(1))
		Expect(listed[0].Category).To(Equal("office-supplies"))
	})

	It("should forbid non-HR approval", func() {
		created := decode(do(http.MethodPost, "/expenses", `{"description": "Taxi", "amount": 20}`))

		w := do(http.MethodPut, fmt.Sprintf("/expenses/%d/approve", created.ID), `{"status": "approved"}`)
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("should report unknown expenses", func() {
		w := do(http.MethodGet, "/expenses/404", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(ContainSubstring("Expense not found"))
	})

	It("should reject malformed bodies", func() {
		w := do(http.MethodPost, "/expenses", `{"amount": "lots"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
