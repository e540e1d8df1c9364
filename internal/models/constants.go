package models

// Document store collections.
const (
	CollectionService      = "service"
	CollectionAnnouncement = "announcement"
	CollectionBooking      = "booking"
	CollectionInquiry      = "inquiry"
)

const StatusReceived = "received"

const (
	// MaxFallbackErrorLen bounds the error text attached to fallback responses.
	MaxFallbackErrorLen = 120

	// MaxDiagnosticsCollections bounds the collection names reported by diagnostics.
	MaxDiagnosticsCollections = 10

	// MaxDiagnosticsErrorLen bounds error text inside diagnostics.
	MaxDiagnosticsErrorLen = 50
)
