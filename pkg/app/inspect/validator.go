package inspect

import (
	"strings"

	"github.com/deploymenttheory/go-shelllink/pkg/app"
)

// Validate validates a read request
func (r *Request) Validate() error {
	if r.Path == "" {
		return app.NewError(app.ErrCodeInvalidInput, "link path is required", nil)
	}
	return nil
}

// Validate validates a scan request and normalizes its extensions
func (r *ScanRequest) Validate() error {
	if r.Source == "" {
		return app.NewError(app.ErrCodeInvalidInput, "scan source is required", nil)
	}
	for i, ext := range r.Extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return app.NewError(app.ErrCodeInvalidInput, "empty extension in filter", nil)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		r.Extensions[i] = ext
	}
	return nil
}
