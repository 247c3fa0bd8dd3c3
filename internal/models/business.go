package models

// Business is a candidate service provider supplied by the caller on each
// recommendation request. It is never persisted; the catalog lives in the
// mobile app and arrives fresh with every call.
type Business struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}
