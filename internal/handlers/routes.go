package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// ReservedCodes are top-level paths a generated code must never shadow.
var ReservedCodes = []string{"health", "shorten", "metrics", "docs", "openapi", "schemas"}

// RegisterRoutes registers all short link routes.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-root",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Service index",
		Tags:        []string{"Service"},
	}, urlHandler.Root)

	// POST /shorten - Create short link
	huma.Register(api, huma.Operation{
		OperationID:   "shorten-url",
		Method:        http.MethodPost,
		Path:          "/shorten",
		Summary:       "Create short link",
		Description:   "Creates a short link, or returns the live one already pointing at the same URL.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusCreated,
	}, urlHandler.ShortenURL)

	// GET /{code} - Redirect to original URL
	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the original URL and counts the access. Expired links return 404.",
		Tags:        []string{"URLs"},
		Errors:      []int{http.StatusNotFound},
	}, urlHandler.RedirectToURL)

	huma.Register(api, huma.Operation{
		OperationID: "get-analytics",
		Method:      http.MethodGet,
		Path:        "/{code}/analytics",
		Summary:     "Get click count",
		Tags:        []string{"Analytics"},
		Errors:      []int{http.StatusNotFound},
	}, urlHandler.GetAnalytics)

	huma.Register(api, huma.Operation{
		OperationID: "get-qr-code",
		Method:      http.MethodGet,
		Path:        "/{code}/qr",
		Summary:     "Render QR code",
		Description: "Renders a PNG QR code of the original URL. Counts as an access.",
		Tags:        []string{"URLs"},
		Errors:      []int{http.StatusNotFound},
	}, urlHandler.GetQRCode)
}
