package inspect

import (
	"time"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/extradata"
)

// Request represents a request to decode a single link file
type Request struct {
	Path string
}

// Response represents a decoded link
type Response struct {
	Link LinkView `json:"link" yaml:"link" plist:"link"`
}

// ScanRequest represents a request to decode every link inside a
// directory or archive
type ScanRequest struct {
	Source          string
	Extensions      []string
	ContinueOnError bool
}

// ScanResponse represents scan results
type ScanResponse struct {
	Source    string        `json:"source" yaml:"source" plist:"source"`
	Kind      string        `json:"kind" yaml:"kind" plist:"kind"`
	Results   []ScanResult  `json:"results" yaml:"results" plist:"results"`
	Total     int           `json:"total" yaml:"total" plist:"total"`
	Succeeded int           `json:"succeeded" yaml:"succeeded" plist:"succeeded"`
	Failed    int           `json:"failed" yaml:"failed" plist:"failed"`
	Duration  time.Duration `json:"duration" yaml:"duration" plist:"duration"`
}

// ScanResult is the outcome of decoding one entry
type ScanResult struct {
	Path   string `json:"path" yaml:"path" plist:"path"`
	Size   int64  `json:"size" yaml:"size" plist:"size"`
	OK     bool   `json:"ok" yaml:"ok" plist:"ok"`
	Target string `json:"target,omitempty" yaml:"target,omitempty" plist:"target,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty" plist:"error,omitempty"`
}

// LinkView is the printable form of a shell link
type LinkView struct {
	Source         string    `json:"source,omitempty" yaml:"source,omitempty" plist:"source,omitempty"`
	Target         string    `json:"target,omitempty" yaml:"target,omitempty" plist:"target,omitempty"`
	LinkFlags      []string  `json:"link_flags" yaml:"link_flags" plist:"link_flags"`
	FileAttributes []string  `json:"file_attributes" yaml:"file_attributes" plist:"file_attributes"`
	CreationTime   time.Time `json:"creation_time" yaml:"creation_time" plist:"creation_time"`
	AccessTime     time.Time `json:"access_time" yaml:"access_time" plist:"access_time"`
	WriteTime      time.Time `json:"write_time" yaml:"write_time" plist:"write_time"`
	FileSize       uint32    `json:"file_size" yaml:"file_size" plist:"file_size"`
	IconIndex      int32     `json:"icon_index" yaml:"icon_index" plist:"icon_index"`
	ShowCommand    string    `json:"show_command" yaml:"show_command" plist:"show_command"`

	IDList   []EntryView   `json:"id_list,omitempty" yaml:"id_list,omitempty" plist:"id_list,omitempty"`
	LinkInfo *LinkInfoView `json:"link_info,omitempty" yaml:"link_info,omitempty" plist:"link_info,omitempty"`

	Name         string `json:"name,omitempty" yaml:"name,omitempty" plist:"name,omitempty"`
	RelativePath string `json:"relative_path,omitempty" yaml:"relative_path,omitempty" plist:"relative_path,omitempty"`
	WorkingDir   string `json:"working_dir,omitempty" yaml:"working_dir,omitempty" plist:"working_dir,omitempty"`
	Arguments    string `json:"arguments,omitempty" yaml:"arguments,omitempty" plist:"arguments,omitempty"`
	IconLocation string `json:"icon_location,omitempty" yaml:"icon_location,omitempty" plist:"icon_location,omitempty"`

	ExtraData *ExtraDataView `json:"extra_data,omitempty" yaml:"extra_data,omitempty" plist:"extra_data,omitempty"`
}

// EntryView is one ID list entry
type EntryView struct {
	Type       string     `json:"type" yaml:"type" plist:"type"`
	Value      string     `json:"value" yaml:"value" plist:"value"`
	ShortName  string     `json:"short_name,omitempty" yaml:"short_name,omitempty" plist:"short_name,omitempty"`
	FileSize   uint32     `json:"file_size,omitempty" yaml:"file_size,omitempty" plist:"file_size,omitempty"`
	Attributes uint16     `json:"attributes,omitempty" yaml:"attributes,omitempty" plist:"attributes,omitempty"`
	Modified   *time.Time `json:"modified,omitempty" yaml:"modified,omitempty" plist:"modified,omitempty"`
	Created    *time.Time `json:"created,omitempty" yaml:"created,omitempty" plist:"created,omitempty"`
	Accessed   *time.Time `json:"accessed,omitempty" yaml:"accessed,omitempty" plist:"accessed,omitempty"`
}

// LinkInfoView is the link info structure
type LinkInfoView struct {
	DriveType        string `json:"drive_type,omitempty" yaml:"drive_type,omitempty" plist:"drive_type,omitempty"`
	SerialNumber     string `json:"serial_number,omitempty" yaml:"serial_number,omitempty" plist:"serial_number,omitempty"`
	VolumeLabel      string `json:"volume_label,omitempty" yaml:"volume_label,omitempty" plist:"volume_label,omitempty"`
	LocalBasePath    string `json:"local_base_path,omitempty" yaml:"local_base_path,omitempty" plist:"local_base_path,omitempty"`
	CommonPathSuffix string `json:"common_path_suffix,omitempty" yaml:"common_path_suffix,omitempty" plist:"common_path_suffix,omitempty"`
}

// ExtraDataView lists the decoded extra data blocks
type ExtraDataView struct {
	Console         *extradata.Console `json:"console,omitempty" yaml:"console,omitempty" plist:"console,omitempty"`
	Tracker         *TrackerView       `json:"tracker,omitempty" yaml:"tracker,omitempty" plist:"tracker,omitempty"`
	IconEnvironment string             `json:"icon_environment,omitempty" yaml:"icon_environment,omitempty" plist:"icon_environment,omitempty"`
	SpecialFolders  []FolderView       `json:"special_folders,omitempty" yaml:"special_folders,omitempty" plist:"special_folders,omitempty"`
	KnownFolders    []FolderView       `json:"known_folders,omitempty" yaml:"known_folders,omitempty" plist:"known_folders,omitempty"`
	Properties      map[string]string  `json:"properties,omitempty" yaml:"properties,omitempty" plist:"properties,omitempty"`
}

// TrackerView is the distributed link tracker block
type TrackerView struct {
	MachineID     string `json:"machine_id" yaml:"machine_id" plist:"machine_id"`
	VolumeID      string `json:"volume_id" yaml:"volume_id" plist:"volume_id"`
	ObjectID      string `json:"object_id" yaml:"object_id" plist:"object_id"`
	BirthVolumeID string `json:"birth_volume_id" yaml:"birth_volume_id" plist:"birth_volume_id"`
	BirthObjectID string `json:"birth_object_id" yaml:"birth_object_id" plist:"birth_object_id"`
}

// FolderView is a special or known folder reference
type FolderView struct {
	Folder string `json:"folder" yaml:"folder" plist:"folder"`
	Offset uint32 `json:"offset" yaml:"offset" plist:"offset"`
}
