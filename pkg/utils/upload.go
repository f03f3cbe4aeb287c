package utils

import (
	"errors"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
)

const MimePNG = "image/png"

// UploadedFile is a fully read and validated multipart upload.
type UploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReadUpload pulls a single PNG file out of a multipart request. It runs
// before any handler logic so nothing is persisted for a rejected upload.
// Both the declared part type and the sniffed content must be PNG.
func ReadUpload(r *http.Request, field string, maxBytes int64) (*UploadedFile, error) {
	// allow some headroom for the multipart envelope itself
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes+1<<20)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, ErrFileTooLarge
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			return nil, ErrNoFile
		default:
			return nil, NewError(ErrValidation, "Invalid multipart form.")
		}
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, ErrNoFile
		}
		return nil, err
	}
	defer file.Close()

	if header.Size > maxBytes {
		return nil, ErrFileTooLarge
	}
	if header.Header.Get("Content-Type") != MimePNG {
		return nil, ErrWrongMimeType
	}

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, ErrNoFile
	}
	if !mimetype.Detect(data).Is(MimePNG) {
		return nil, ErrWrongMimeType
	}

	return &UploadedFile{
		Filename:    header.Filename,
		ContentType: MimePNG,
		Data:        data,
	}, nil
}
