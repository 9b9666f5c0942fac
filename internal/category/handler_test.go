package category_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/deptdesk/internal/category"
	categoryPostgres "github.com/frahmantamala/deptdesk/internal/category/postgres"
	"github.com/frahmantamala/deptdesk/internal/testutil"
	"github.com/frahmantamala/deptdesk/internal/transport"
	"github.com/frahmantamala/deptdesk/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Category Handler Integration", func() {
	var (
		db      *gorm.DB
		service *category.Service
		handler *category.Handler
	)

	BeforeEach(func() {
		var err error
		db, err = testutil.NewSQLite()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(testutil.Close, db)

		repo := categoryPostgres.NewCategoryRepository(db)
		service = category.NewService(repo, logger.Discard())
		handler = category.NewHandler(transport.NewBaseHandler(logger.Discard()), service)

		_, err = service.EnsureDefaults(context.Background())
		Expect(err).NotTo(HaveOccurred())
		_, err = service.SetActive(context.Background(), "marketing", false)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should handle GET /categories request successfully", func() {
		req := httptest.NewRequest(http.MethodGet, "/categories", nil)
		w := httptest.NewRecorder()

		handler.GetCategories(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response category.CategoriesResponse
		err := json.NewDecoder(w.Body).Decode(&response)
		Expect(err).NotTo(HaveOccurred())

		names := make([]string, len(response.Categories))
		for i, c := range response.Categories {
			names[i] = c.Name
			Expect(c.Description).NotTo(BeEmpty())
			Expect(c.IsDefault).To(Equal(c.Name == category.DefaultCategory), c.Name)
		}
		Expect(names).To(ConsistOf("equipment", "hardware", "maintenance", "office-supplies", "software", "training", "travel"))
	})
})
