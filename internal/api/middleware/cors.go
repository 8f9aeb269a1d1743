package middleware

import (
	"github.com/go-chi/cors"
)

// NewCORS builds the CORS policy for the API. Only the headers the JSON
// endpoints read are allowed; the quote provider's API key never travels
// on inbound requests.
func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	})
}
