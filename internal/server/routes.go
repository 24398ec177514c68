package server

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Routes wires the API handlers behind the request logger. CORS headers are
// added only when allowedOrigins is not empty.
func (s *ServerContext) Routes(allowedOrigins ...string) http.Handler {
	router := mux.NewRouter()
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	router.HandleFunc("/api/validate/{kind}", s.HandleValidate).Methods(http.MethodPost)
	router.HandleFunc("/api/datasets", s.HandleDatasetsList).Methods(http.MethodGet)
	router.HandleFunc("/api/datasets/{name}/preview.{format:svg|webp}", s.HandlePreview).Methods(http.MethodGet)

	var handler http.Handler = router
	if len(allowedOrigins) > 0 {
		handler = handlers.CORS(
			handlers.AllowedOrigins(allowedOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Accept", "Content-Type", "If-None-Match"}),
			handlers.ExposedHeaders([]string{"ETag"}),
		)(router)
	}

	return RequestLogger(handler)
}
