package inspect

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"
	"howett.net/plist"

	"github.com/deploymenttheory/go-shelllink/pkg/app"
)

const (
	colorReset = "\x1b[0m"
	colorRed   = "\x1b[31m"
	colorGreen = "\x1b[32m"
)

const timeLayout = "2006-01-02 15:04:05"

// FormatOutput writes a decoded link in the requested format
func FormatOutput(w io.Writer, response *Response, format string) error {
	if format == app.FormatTable {
		return formatLinkTable(w, &response.Link)
	}
	return encode(w, response, format)
}

// FormatScanOutput writes scan results in the requested format. Color
// applies to the table status column only.
func FormatScanOutput(w io.Writer, response *ScanResponse, format string, color bool) error {
	if format == app.FormatTable {
		return formatScanTable(w, response, color)
	}
	return encode(w, response, format)
}

func encode(w io.Writer, v any, format string) error {
	switch format {
	case app.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case app.FormatYAML:
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		encoder.SetIndent(2)
		return encoder.Encode(v)
	case app.FormatPlist:
		encoder := plist.NewEncoderForFormat(w, plist.XMLFormat)
		encoder.Indent("  ")
		return encoder.Encode(v)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// formatLinkTable prints a link as aligned key/value rows
func formatLinkTable(out io.Writer, v *LinkView) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	row := func(key, value string) {
		if value != "" {
			fmt.Fprintf(w, "%s\t%s\n", key, value)
		}
	}

	row("Source", v.Source)
	row("Target", v.Target)
	row("Link flags", strings.Join(v.LinkFlags, ", "))
	row("File attributes", strings.Join(v.FileAttributes, ", "))
	row("Created", v.CreationTime.Format(timeLayout))
	row("Accessed", v.AccessTime.Format(timeLayout))
	row("Modified", v.WriteTime.Format(timeLayout))
	row("File size", fmt.Sprint(v.FileSize))
	row("Icon index", fmt.Sprint(v.IconIndex))
	row("Show command", v.ShowCommand)
	row("Name", v.Name)
	row("Relative path", v.RelativePath)
	row("Working dir", v.WorkingDir)
	row("Arguments", v.Arguments)
	row("Icon location", v.IconLocation)

	if li := v.LinkInfo; li != nil {
		row("Drive type", li.DriveType)
		row("Serial number", li.SerialNumber)
		row("Volume label", li.VolumeLabel)
		row("Local base path", li.LocalBasePath)
		row("Common path suffix", li.CommonPathSuffix)
	}

	if ed := v.ExtraData; ed != nil {
		row("Icon environment", ed.IconEnvironment)
		if ed.Tracker != nil {
			row("Machine ID", ed.Tracker.MachineID)
			row("Volume ID", ed.Tracker.VolumeID)
			row("Object ID", ed.Tracker.ObjectID)
		}
		if ed.Console != nil {
			row("Console font", ed.Console.FaceName)
		}
		for _, f := range ed.SpecialFolders {
			row("Special folder", fmt.Sprintf("%s (offset %d)", f.Folder, f.Offset))
		}
		for _, f := range ed.KnownFolders {
			row("Known folder", fmt.Sprintf("%s (offset %d)", f.Folder, f.Offset))
		}
		for _, k := range sortedKeys(ed.Properties) {
			row(k, ed.Properties[k])
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(v.IDList) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TYPE\tNAME\tSIZE\tMODIFIED\n")
	fmt.Fprintf(w, "----\t----\t----\t--------\n")
	for _, e := range v.IDList {
		modified := ""
		if e.Modified != nil {
			modified = e.Modified.Format(timeLayout)
		}
		size := ""
		if e.Type == "file" {
			size = fmt.Sprint(e.FileSize)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Type, e.Value, size, modified)
	}
	return w.Flush()
}

// formatScanTable prints one row per scanned entry and a summary line
func formatScanTable(out io.Writer, response *ScanResponse, color bool) error {
	if response.Total == 0 {
		fmt.Fprintln(out, "No link files found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "PATH\tTARGET / ERROR\tSTATUS\n")
	fmt.Fprintf(w, "----\t--------------\t------\n")
	for _, r := range response.Results {
		detail, status, tint := r.Target, "OK", colorGreen
		if !r.OK {
			detail, status, tint = r.Error, "FAIL", colorRed
		}
		if color {
			status = tint + status + colorReset
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Path, detail, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nScanned %d link", response.Total)
	if response.Total != 1 {
		fmt.Fprint(out, "s")
	}
	fmt.Fprintf(out, " in %s (%s): %d decoded, %d failed in %v\n",
		response.Source, response.Kind, response.Succeeded, response.Failed, response.Duration.Round(time.Millisecond))
	return nil
}
