package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	MimeVideo       = "video/"
	MimeImage       = "image/"
	MimeJPEG        = "image/jpeg"
	MimePNG         = "image/png"
	MimeOctetStream = "application/octet-stream"
)

var (
	AllowedVideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm"}
	AllowedProofMimeTypes  = []string{MimeJPEG, MimePNG}
)
