package upload

import "errors"

var (
	// ErrUnsupportedMediaType rejects non-image payloads before any remote call.
	ErrUnsupportedMediaType = errors.New("only image files are allowed")
	// ErrPayloadTooLarge rejects payloads over the configured size ceiling.
	ErrPayloadTooLarge = errors.New("image exceeds the maximum allowed size")
	// ErrInvalidPayload covers undecodable input, e.g. corrupt base64.
	ErrInvalidPayload = errors.New("invalid image payload")
	// ErrUploadFailed wraps any remote-store failure during the transfer.
	ErrUploadFailed = errors.New("image upload failed")
	// ErrDeletionFailed wraps a failed or underivable remote deletion.
	ErrDeletionFailed = errors.New("image deletion failed")
)
