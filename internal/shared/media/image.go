package media

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// Image is an attached picture held in memory
type Image struct {
	Filename string
	MIMEType string
	Data     []byte
}

// NewImage wraps raw bytes, sniffing the content type when none is given
func NewImage(filename, mimeType string, data []byte) *Image {
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	if filename == "" {
		filename = "image" + Extension(mimeType)
	}
	return &Image{Filename: filename, MIMEType: mimeType, Data: data}
}

// DataURL encodes the image as a data: URL
func (i *Image) DataURL() string {
	return "data:" + i.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// Size returns the payload length in bytes
func (i *Image) Size() int {
	if i == nil {
		return 0
	}
	return len(i.Data)
}

// Extension maps an image content type to a file extension, defaulting to .png
func Extension(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
