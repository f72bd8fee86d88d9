package create

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
	"howett.net/plist"

	"github.com/deploymenttheory/go-shelllink/pkg/app"
)

// FormatOutput reports the written link in the requested format
func FormatOutput(w io.Writer, response *Response, format string) error {
	switch format {
	case app.FormatTable:
		fmt.Fprintf(w, "Wrote %d bytes to %s\n", response.Size, response.OutputPath)
		fmt.Fprintf(w, "Target: %s\n", response.Target)
		fmt.Fprintf(w, "Flags:  %s\n", strings.Join(response.LinkFlags, ", "))
		return nil
	case app.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(response)
	case app.FormatYAML:
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		encoder.SetIndent(2)
		return encoder.Encode(response)
	case app.FormatPlist:
		return plist.NewEncoderForFormat(w, plist.XMLFormat).Encode(response)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
