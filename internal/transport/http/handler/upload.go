package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

var errNoFile = errors.New("no file uploaded")

// readUpload pulls the named multipart file out of the request, enforcing
// the size cap before buffering it in memory. It returns errNoFile when the
// field is absent so callers can treat the upload as optional.
func readUpload(r *http.Request, field string, maxBytes int64) (string, []byte, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil, errNoFile
		}
		return "", nil, fmt.Errorf("read uploaded file failed: %w", err)
	}
	defer file.Close()

	if header.Size > maxBytes {
		return "", nil, fmt.Errorf("file too large (max %d bytes)", maxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return "", nil, fmt.Errorf("read uploaded file failed: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return "", nil, fmt.Errorf("file too large (max %d bytes)", maxBytes)
	}

	return header.Header.Get("Content-Type"), data, nil
}
