package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/frahmantamala/deptdesk/internal/category"
	categoryPostgres "github.com/frahmantamala/deptdesk/internal/category/postgres"
	"github.com/frahmantamala/deptdesk/internal/testutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCategoryPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Category Postgres Suite")
}

var _ = Describe("Category PostgreSQL Repository", func() {
	var (
		repo category.RepositoryAPI
		ctx  context.Context
		now  time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
		db, err := testutil.NewSQLite()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(testutil.Close, db)

		repo = categoryPostgres.NewCategoryRepository(db)
	})

	Describe("Create", func() {
		It("should create a new category successfully", func() {
			c := category.NewCategory("travel", "Business travel", now)

			err := repo.Create(ctx, c)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.ID).To(BeNumerically(">", 0))
			Expect(c.CreatedAt).NotTo(BeZero())
		})

		It("should fail to create duplicate category", func() {
			Expect(repo.Create(ctx, category.NewCategory("travel", "Business travel", now))).To(Succeed())

			err := repo.Create(ctx, category.NewCategory("travel", "Duplicate", now))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetAll", func() {
		It("should return every category ordered by name, including inactive ones", func() {
			for _, name := range []string{"travel", "equipment", "software"} {
				Expect(repo.Create(ctx, category.NewCategory(name, name, now))).To(Succeed())
			}
			inactive, err := repo.GetByName(ctx, "software")
			Expect(err).NotTo(HaveOccurred())
			inactive.Deactivate(now)
			Expect(repo.Update(ctx, inactive)).To(Succeed())

			all, err := repo.GetAll(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(3))
			Expect(all[0].Name).To(Equal("equipment"))
			Expect(all[1].Name).To(Equal("software"))
			Expect(all[1].IsActive).To(BeFalse())
			Expect(all[2].Name).To(Equal("travel"))
		})
	})

	Describe("GetByName", func() {
		It("should return nil for an unknown name", func() {
			c, err := repo.GetByName(ctx, "nonexistent")
			Expect(err).NotTo(HaveOccurred())
			Expect(c).To(BeNil())
		})

		It("should round-trip the stored fields", func() {
			Expect(repo.Create(ctx, category.NewCategory("hardware", "Spare parts", now))).To(Succeed())

			c, err := repo.GetByName(ctx, "hardware")
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Description).To(Equal("Spare parts"))
			Expect(c.IsActive).To(BeTrue())
		})
	})

	Describe("Update", func() {
		It("should reactivate a category", func() {
			c := category.NewCategory("training", "Courses", now)
			c.Deactivate(now)
			Expect(repo.Create(ctx, c)).To(Succeed())

			c.Activate(now.Add(time.Hour))
			Expect(repo.Update(ctx, c)).To(Succeed())

			stored, err := repo.GetByName(ctx, "training")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.IsActive).To(BeTrue())
		})
	})
})
