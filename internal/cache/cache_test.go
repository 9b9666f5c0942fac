package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/frahmantamala/deptdesk/internal/cache"
	"github.com/frahmantamala/deptdesk/pkg/logger"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCache(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cache Suite")
}

var _ = Describe("Client", func() {
	ctx := context.Background()

	Context("when no address is configured", func() {
		var c *cache.Client

		BeforeEach(func() {
			c = cache.New("", "", 0, logger.Discard())
		})

		It("is disabled and behaves like a permanent miss", func() {
			Expect(c).To(BeNil())

			Expect(c.Set(ctx, "k", []byte("v"), time.Minute)).To(Succeed())
			val, err := c.Get(ctx, "k")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(BeNil())

			var out map[string]int
			Expect(c.SetJSON(ctx, "j", map[string]int{"a": 1}, time.Minute)).To(Succeed())
			Expect(c.GetJSON(ctx, "j", &out)).To(BeFalse())
			Expect(c.Delete(ctx, "k", "j")).To(Succeed())
			Expect(c.Ping(ctx)).To(HaveOccurred())
			Expect(c.Close()).To(Succeed())
		})
	})

	Context("when redis is unreachable", func() {
		var c *cache.Client

		BeforeEach(func() {
			c = cache.New("127.0.0.1:1", "", 0, logger.Discard())
		})

		AfterEach(func() {
			_ = c.Close()
		})

		It("swallows errors instead of failing the caller", func() {
			Expect(c.Set(ctx, "k", []byte("v"), time.Minute)).To(Succeed())
			val, err := c.Get(ctx, "k")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(BeNil())
			Expect(c.Delete(ctx, "k")).To(Succeed())
			Expect(c.Ping(ctx)).To(HaveOccurred())
		})
	})
})
