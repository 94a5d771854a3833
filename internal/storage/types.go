package storage

type Config struct {
	// BaseURL is the storage provider's project URL, e.g.
	// https://project.supabase.co.
	BaseURL string

	// ServiceKey authorizes bucket administration and signed upload
	// issuance.
	ServiceKey string

	Bucket string

	// FileSizeLimit caps a single upload, in bytes.
	FileSizeLimit int64
}
