package create

import "time"

// Request represents a request to build a link to a local Windows path
type Request struct {
	// Target is an absolute Windows path such as C:\Tools\app.exe.
	Target     string
	OutputPath string
	// Directory marks the target as a folder rather than a file.
	Directory bool

	Name         string
	Arguments    string
	WorkingDir   string
	RelativePath string
	IconLocation string
	IconIndex    int32
	ShowCommand  string

	// FileSize and Modified describe the target. A zero Modified means now.
	FileSize uint32
	Modified time.Time

	// LinkInfo adds a link info structure for a fixed volume.
	LinkInfo     bool
	VolumeLabel  string
	SerialNumber uint32

	// AppUserModelID is stored in the link's property store when set.
	AppUserModelID string
}

// Response describes the written link
type Response struct {
	OutputPath string   `json:"output_path" yaml:"output_path" plist:"output_path"`
	Size       int      `json:"size" yaml:"size" plist:"size"`
	Target     string   `json:"target" yaml:"target" plist:"target"`
	LinkFlags  []string `json:"link_flags" yaml:"link_flags" plist:"link_flags"`
}
