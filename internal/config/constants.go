package config

// Default paths
const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./cocktails.db"

	// DefaultThumbnailsDir is where favorite thumbnails are cached
	DefaultThumbnailsDir = "./thumbnails"
)
