package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/frahmantamala/deptdesk/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(TraceID(r.Context())))
})

var _ = Describe("RequestID", func() {
	It("should mint a trace id when none is sent", func() {
		w := httptest.NewRecorder()
		RequestID(ok).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get(TraceHeader)
		Expect(id).To(HaveLen(36))
		Expect(w.Body.String()).To(Equal(id))
	})

	It("should propagate the caller's trace id", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(TraceHeader, "trace-123")
		w := httptest.NewRecorder()
		RequestID(ok).ServeHTTP(w, req)

		Expect(w.Header().Get(TraceHeader)).To(Equal("trace-123"))
		Expect(w.Body.String()).To(Equal("trace-123"))
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("should answer 500 without leaking the panic", func() {
		boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("db password leaked") })
		w := httptest.NewRecorder()
		RecoveryMiddleware(logger.Discard())(boom).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).To(ContainSubstring(`"error":"Something went wrong!"`))
		Expect(w.Body.String()).NotTo(ContainSubstring("password"))
	})
})

var _ = Describe("CORS", func() {
	preflight := func(origin string) *http.Request {
		req := httptest.NewRequest(http.MethodOptions, "/api/issues", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		return req
	}

	It("should answer preflight requests for allowed origins", func() {
		w := httptest.NewRecorder()
		CORS("http://localhost:3000, https://desk.example.com")(ok).ServeHTTP(w, preflight("https://desk.example.com"))

		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://desk.example.com"))
		Expect(w.Header().Get("Access-Control-Allow-Headers")).To(ContainSubstring("Authorization"))
	})

	It("should not grant unknown origins", func() {
		w := httptest.NewRecorder()
		CORS("http://localhost:3000")(ok).ServeHTTP(w, preflight("https://evil.example.com"))

		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})

	It("should allow everything with a wildcard", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
		req.Header.Set("Origin", "https://anywhere.example.com")
		w := httptest.NewRecorder()
		CORS("*")(ok).ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
	})
})

var _ = Describe("Sensitive field filtering", func() {
	It("should mask credentials in JSON bodies", func() {
		out := filterSensitiveBody([]byte(`{"email":"a@b.c","password":"hunter22","nested":{"token":"x"}}`))

		Expect(out).To(ContainSubstring(`"email":"a@b.c"`))
		Expect(out).NotTo(ContainSubstring("hunter22"))
		Expect(strings.Count(out, "[FILTERED]")).To(Equal(2))
	})

	It("should mask authorization headers", func() {
		h := http.Header{}
		h.Set("Authorization", "Bearer abc")
		h.Set("Accept", "application/json")

		filtered := filterSensitiveHeaders(h)
		Expect(filtered["Authorization"]).To(Equal("[FILTERED]"))
		Expect(filtered["Accept"]).To(Equal("application/json"))
	})

	It("should pass requests through the logger untouched", func() {
		body := `{"title":"Printer"}`
		echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, _ := io.ReadAll(r.Body)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write(data)
		})
		w := httptest.NewRecorder()
		LoggingMiddleware(echo).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/issues", strings.NewReader(body)))

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Body.String()).To(Equal(body))
	})
})
