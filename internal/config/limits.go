package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxFolderNameLength = 255

	// MaxDocumentNameLength is the maximum length for document names.
	// Same bound as folder names for consistency.
	MaxDocumentNameLength = 255

	// MaxBulkMoveFolders caps how many folders one bulk-move request may
	// carry. Each candidate costs at least one ancestor walk, so an
	// unbounded batch would turn into an unbounded number of queries.
	MaxBulkMoveFolders = 100
)
