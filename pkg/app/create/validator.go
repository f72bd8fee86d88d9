package create

import (
	"fmt"
	"strings"

	"github.com/deploymenttheory/go-shelllink/pkg/app"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink"
)

const invalidNameChars = `<>:"/\|?*`

// Validate validates a create request
func (r *Request) Validate() error {
	if r.OutputPath == "" {
		return app.NewError(app.ErrCodeInvalidInput, "output path is required", nil)
	}
	if _, _, err := SplitWindowsPath(r.Target); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid target path", err)
	}
	if _, err := shelllink.ParseShowCommand(r.ShowCommand); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid show command", err)
	}
	if r.AppUserModelID != "" && strings.ContainsAny(r.AppUserModelID, " \t") {
		return app.NewError(app.ErrCodeInvalidInput, "app user model id must not contain whitespace", nil)
	}
	return nil
}

// SplitWindowsPath splits an absolute drive path such as C:\Tools\app.exe
// into its upper-case drive letter and path components. Forward slashes are
// accepted as separators.
func SplitWindowsPath(p string) (byte, []string, error) {
	if len(p) < 3 || p[1] != ':' || (p[2] != '\\' && p[2] != '/') {
		return 0, nil, fmt.Errorf("%q is not an absolute drive path", p)
	}
	letter := p[0] &^ 0x20
	if letter < 'A' || letter > 'Z' {
		return 0, nil, fmt.Errorf("invalid drive letter %q", p[0])
	}

	var parts []string
	for _, part := range strings.FieldsFunc(p[3:], func(r rune) bool { return r == '\\' || r == '/' }) {
		if part == "." || part == ".." {
			return 0, nil, fmt.Errorf("relative component %q in %q", part, p)
		}
		if strings.ContainsAny(part, invalidNameChars) {
			return 0, nil, fmt.Errorf("invalid character in %q", part)
		}
		parts = append(parts, part)
	}
	return letter, parts, nil
}
