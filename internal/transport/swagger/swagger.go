package swagger

import (
	"net/http"

	"github.com/go-chi/chi"
	httpSwagger "github.com/swaggo/http-swagger"
)

const specPath = "/openapi.yml"

// Mount serves the OpenAPI document at /openapi.yml and the Swagger UI
// pointing at it under /swagger/.
func Mount(r chi.Router, spec []byte) {
	r.Get(specPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(spec)
	})
	r.Handle("/swagger/*", httpSwagger.Handler(httpSwagger.URL(specPath)))
}
