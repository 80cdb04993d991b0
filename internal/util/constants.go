package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeVideo       = "video/"
	MimePDF         = "application/pdf"
	MimeOctetStream = "application/octet-stream"
)

var AllowedVideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".webm"}
