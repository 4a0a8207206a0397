package message

import (
	"mime"
	"path/filepath"
	"strings"
)

// officeTypes maps extensions the platform mime registry often misses,
// notably office documents and archives.
var officeTypes = map[string]string{
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".doc":  "application/msword",
	".xls":  "application/vnd.ms-excel",
	".ppt":  "application/vnd.ms-powerpoint",
	".pdf":  "application/pdf",
	".zip":  "application/zip",
	".rar":  "application/x-rar-compressed",
}

// contentTypeByExt resolves a file's MIME type by extension. Unknown
// extensions fall back to application/octet-stream.
func contentTypeByExt(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := officeTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		// Strip any charset parameter; transports set their own.
		if i := strings.Index(ct, ";"); i >= 0 {
			ct = strings.TrimSpace(ct[:i])
		}
		return ct
	}
	return "application/octet-stream"
}
