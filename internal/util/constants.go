package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeJSON = "application/json"
)

// 学习深度上限
const MaxStudyDepth = 3
