package handlers

import "time"

// MaxTTLSeconds caps a requested lifetime at ten years.
const MaxTTLSeconds = 10 * 365 * 24 * 60 * 60

// ShortenRequest is the request body for creating a short link.
type ShortenRequest struct {
	Body struct {
		URL string `doc:"The URL to shorten" example:"https://example.com/very/long/path" json:"url" minLength:"1"`
		TTL int    `doc:"Time-to-live in seconds (defaults to the server setting)" json:"ttl,omitempty" maximum:"315360000" minimum:"0" required:"false"`
	}
}

// ShortenResponse is the response for a successfully created short link.
type ShortenResponse struct {
	Location string `doc:"The short URL location" header:"Location"`
	Body     struct {
		Code        string    `doc:"The short code"               example:"abc123"                             json:"code"`
		ShortURL    string    `doc:"The full short URL"           example:"http://localhost:8000/abc123"       json:"shortUrl"`
		OriginalURL string    `doc:"The original URL"             example:"https://example.com/very/long/path" json:"originalUrl"`
		ExpiresAt   time.Time `doc:"When the short link stops resolving"                                         json:"expiresAt"`
	}
}

// CodeRequest identifies a short link by its code.
type CodeRequest struct {
	Code string `doc:"The short code" example:"abc123" path:"code"`
}

// RedirectResponse redirects the client to the original URL.
type RedirectResponse struct {
	Status       int
	Location     string `header:"Location"`
	CacheControl string `header:"Cache-Control"`
}

// AnalyticsResponse reports the access count of a short link.
type AnalyticsResponse struct {
	Body struct {
		ShortID    string `doc:"The short code"                  example:"abc123" json:"shortId"`
		ClickCount int64  `doc:"Number of successful resolutions" example:"42"     json:"clickCount"`
	}
}

// QRCodeRequest identifies the short link to render and the image size.
type QRCodeRequest struct {
	Code string `doc:"The short code" example:"abc123" path:"code"`
	Size int    `default:"256" doc:"Image width and height in pixels" maximum:"1024" minimum:"64" query:"size"`
}

// QRCodeResponse is a PNG image encoding the original URL.
type QRCodeResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// RootResponse describes the service and its endpoints.
type RootResponse struct {
	Body struct {
		Message   string            `json:"message"`
		Endpoints map[string]string `json:"endpoints"`
	}
}
