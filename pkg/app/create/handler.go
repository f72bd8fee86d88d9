// Package create builds shell links to local Windows paths.
package create

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/deploymenttheory/go-shelllink/pkg/app"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/extradata"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/idlist"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/linkinfo"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/propstore"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/wire"
)

// dosResolution is the granularity of the times stored in ID list entries.
const dosResolution = 2 * time.Second

// Handle builds the link and writes it to the output path
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cp, err := wire.LookupCodePage(ctx.CodePage)
	if err != nil {
		return nil, app.NewError(app.ErrCodeInvalidInput, "invalid code page", err)
	}

	l, err := Build(req, cp)
	if err != nil {
		return nil, err
	}

	data, err := l.Marshal(shelllink.WithCodePage(ctx.CodePage))
	if err != nil {
		return nil, app.NewError(app.ErrCodeEncode, "failed to encode link", err)
	}
	if err := os.WriteFile(req.OutputPath, data, 0o644); err != nil {
		return nil, app.NewError(app.ErrCodeWrite, "failed to write link", err)
	}

	ctx.Logger.Debug("wrote link",
		zap.String("path", req.OutputPath),
		zap.Int("size", len(data)),
		zap.Stringer("link_flags", l.Flags()))
	ctx.Log(fmt.Sprintf("Wrote %d bytes to %s", len(data), req.OutputPath))

	return &Response{
		OutputPath: req.OutputPath,
		Size:       len(data),
		Target:     l.Target(),
		LinkFlags:  l.Flags().Names(),
	}, nil
}

// Build assembles the link described by req. ANSI copies of the icon
// environment path use cp.
func Build(req *Request, cp wire.CodePage) (*shelllink.ShellLink, error) {
	letter, parts, err := SplitWindowsPath(req.Target)
	if err != nil {
		return nil, app.NewError(app.ErrCodeInvalidInput, "invalid target path", err)
	}
	show, err := shelllink.ParseShowCommand(req.ShowCommand)
	if err != nil {
		return nil, app.NewError(app.ErrCodeInvalidInput, "invalid show command", err)
	}

	modified := req.Modified
	if modified.IsZero() {
		modified = time.Now()
	}
	modified = modified.UTC().Truncate(dosResolution)

	entries := []idlist.Entry{
		idlist.Root{Location: idlist.MyComputer},
		idlist.Drive{Letter: letter},
	}
	for i, part := range parts {
		last := i == len(parts)-1
		if last && !req.Directory {
			entries = append(entries, idlist.File{EntryData: idlist.NewEntryData(part, req.FileSize, modified)})
		} else {
			entries = append(entries, idlist.Folder{EntryData: idlist.NewEntryData(part, 0, modified)})
		}
	}

	attrs := shelllink.FileAttributeArchive
	if req.Directory {
		attrs = shelllink.FileAttributeDirectory
	}

	l := &shelllink.ShellLink{
		FileAttributes: attrs,
		CreationTime:   modified,
		AccessTime:     modified,
		WriteTime:      modified,
		FileSize:       req.FileSize,
		IconIndex:      req.IconIndex,
		ShowCommand:    show,
		IDList:         &idlist.IDList{Entries: entries},
		Name:           optional(req.Name),
		RelativePath:   optional(req.RelativePath),
		WorkingDir:     optional(req.WorkingDir),
		Arguments:      optional(req.Arguments),
		IconLocation:   optional(req.IconLocation),
	}
	if req.Directory {
		l.FileSize = 0
	}
	if err := l.IDList.Validate(); err != nil {
		return nil, app.NewError(app.ErrCodeInvalidInput, "invalid target path", err)
	}

	if req.LinkInfo {
		l.LinkInfo = &linkinfo.LinkInfo{
			VolumeID: &linkinfo.VolumeID{
				DriveType:    linkinfo.DriveFixed,
				SerialNumber: req.SerialNumber,
				Label:        req.VolumeLabel,
			},
			LocalBasePath: string(letter) + `:\` + strings.Join(parts, `\`),
		}
	}

	var extra extradata.BlockData
	if strings.Contains(req.IconLocation, "%") {
		extra.IconEnvironment = extradata.NewIconEnvironment(req.IconLocation, cp)
	}
	if req.AppUserModelID != "" {
		id := req.AppUserModelID
		extra.PropertyStore = &propstore.Store{AppUserModel: &propstore.AppUserModelProperties{ID: &id}}
	}
	if !extra.Empty() {
		l.ExtraData = &extra
	}
	return l, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
