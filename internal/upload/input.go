package upload

import (
	"mime/multipart"
	"strings"
)

// ImageInput is the single entry shape for both inbound image forms. A nil
// ImageInput means no image was submitted.
type ImageInput interface {
	isImageInput()
}

// FileRef is a multipart file upload.
type FileRef struct {
	Header *multipart.FileHeader
}

// InlineBase64 is a base64-encoded payload with a declared MIME type. Data
// holds the raw base64 text with any data-URI prefix already stripped.
type InlineBase64 struct {
	Data     string
	MimeType string
}

func (FileRef) isImageInput()      {}
func (InlineBase64) isImageInput() {}

// FromMultipart wraps a multipart file header; nil in, nil out.
func FromMultipart(fh *multipart.FileHeader) ImageInput {
	if fh == nil {
		return nil
	}
	return FileRef{Header: fh}
}

// FromBase64 accepts either a data URI ("data:image/png;base64,...") or raw
// base64 text with a separately declared MIME type. Empty input means no
// image.
func FromBase64(data, declaredType string) ImageInput {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil
	}
	if strings.HasPrefix(data, "data:") {
		meta, payload, ok := strings.Cut(data[len("data:"):], ",")
		if ok {
			declaredType = strings.TrimSuffix(meta, ";base64")
			data = payload
		}
	}
	return InlineBase64{Data: data, MimeType: declaredType}
}
