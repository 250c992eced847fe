package models

// RemoteObject identifies one downloadable object as returned by a folder
// listing. Size is the listed size in bytes and is advisory only; the
// stream is authoritative.
type RemoteObject struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Name   string `json:"name"`
	Size   int64  `json:"size"`
}

type DownloadItem struct {
	RemotePath   string `json:"remote_path"`
	LocalPath    string `json:"local_path"`
	Size         int64  `json:"size"`
	LastModified string `json:"last_modified,omitempty"`
}

type DownloadResult struct {
	BucketName       string         `json:"bucket_name"`
	SourcePath       string         `json:"source_path"`
	Items            []DownloadItem `json:"items"`
	TotalFiles       int            `json:"total_files"`
	TotalSizeBytes   int64          `json:"total_size_bytes"`
	TotalSizeHuman   string         `json:"total_size_human"`
	OperationTime    string         `json:"operation_time"`
	DownloadDuration string         `json:"download_duration"`
}

type FailedItem struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

// FolderSummary is the settled accounting of one folder download session:
// every listed object appears either in the succeeded count or in Failed.
type FolderSummary struct {
	SessionID        string       `json:"session_id"`
	BucketName       string       `json:"bucket_name"`
	Prefix           string       `json:"prefix"`
	Destination      string       `json:"destination"`
	TotalObjects     int          `json:"total_objects"`
	Succeeded        int          `json:"succeeded"`
	Failed           []FailedItem `json:"failed"`
	TotalSizeBytes   int64        `json:"total_size_bytes"`
	TotalSizeHuman   string       `json:"total_size_human"`
	OperationTime    string       `json:"operation_time"`
	DownloadDuration string       `json:"download_duration"`
}
