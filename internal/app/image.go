package app

import (
	"encoding/base64"
	"fmt"
)

// dataURI encodes an uploaded image the way the API stores it: inline, next
// to the record it decorates.
func dataURI(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
