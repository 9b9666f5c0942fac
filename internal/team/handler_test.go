package team_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/core/department"
	"github.com/frahmantamala/deptdesk/internal/team"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Team Handler", func() {
	var (
		f      *fixture
		router chi.Router
		caller *internal.User
	)

	BeforeEach(func() {
		f = newFixture()
		caller = &internal.User{ID: f.hrA, Name: "Hannah", Department: department.HR}

		h := team.NewHandler(f.service)
		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithUser(r.Context(), caller)))
			})
		})
		router.Get("/teams/my-team", h.MyTeam)
		router.Post("/teams/add-member", h.AddMember)
		router.Delete("/teams/remove-member/{userId}", h.RemoveMember)
		router.Get("/teams/my-hr", h.MyHR)
		router.Get("/teams/unassigned/{department}", h.Unassigned)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should return an empty team on first access", func() {
		w := do(http.MethodGet, "/teams/my-team", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		var view team.View
		Expect(json.Unmarshal(w.Body.Bytes(), &view)).To(Succeed())
		Expect(view.HRUser.ID).To(Equal(f.hrA))
		Expect(view.TechMembers).To(BeEmpty())
		Expect(w.Body.String()).To(ContainSubstring(`"techMembers":[]`))
	})

	It("should accept the legacy techUserId field", func() {
		w := do(http.MethodPost, "/teams/add-member", fmt.Sprintf(`{"techUserId": %d}`, f.tech[0]))

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp team.MemberChangeResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Message).To(Equal("Team member added successfully"))
		Expect(resp.Team.TechMembers).To(HaveLen(1))
	})

	It("should add a member of the requested department", func() {
		w := do(http.MethodPost, "/teams/add-member", fmt.Sprintf(`{"userId": %d, "department": "it"}`, f.itUser))

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp team.MemberChangeResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Team.ITMembers[0].ID).To(Equal(f.itUser))
	})

	It("should require a user id", func() {
		w := do(http.MethodPost, "/teams/add-member", `{"department": "Tech"}`)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should remove a member by path id", func() {
		Expect(do(http.MethodPost, "/teams/add-member", fmt.Sprintf(`{"userId": %d, "department": "Tech"}`, f.tech[0])).Code).To(Equal(http.StatusOK))

		w := do(http.MethodDelete, fmt.Sprintf("/teams/remove-member/%d?department=Tech", f.tech[0]), "")

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp team.MemberChangeResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Team.TechMembers).To(BeEmpty())
	})

	It("should report the assigned HR of a member", func() {
		Expect(do(http.MethodPost, "/teams/add-member", fmt.Sprintf(`{"userId": %d, "department": "Tech"}`, f.tech[1])).Code).To(Equal(http.StatusOK))
		caller = &internal.User{ID: f.tech[1], Department: department.Tech}

		w := do(http.MethodGet, "/teams/my-hr", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp team.AssignedHRResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.AssignedHR).NotTo(BeNil())
		Expect(resp.AssignedHR.ID).To(Equal(f.hrA))
	})

	It("should report a null HR for uncovered users", func() {
		caller = &internal.User{ID: f.tech[0], Department: department.Tech}

		w := do(http.MethodGet, "/teams/my-hr", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"assignedHR":null`))
	})

	It("should list unassigned users of a department", func() {
		w := do(http.MethodGet, "/teams/unassigned/Tech", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		var users []map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &users)).To(Succeed())
		Expect(users).To(HaveLen(2))
	})
})
