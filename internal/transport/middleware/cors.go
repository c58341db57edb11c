package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS opens the API to the web client origins; an empty list allows any.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", HeaderUserID, HeaderUsername, HeaderTraceID},
		ExposedHeaders:   []string{HeaderTraceID, "Content-Disposition", "X-Report-Count"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
