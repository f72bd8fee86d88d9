package inspect

import (
	"fmt"
	"sort"
	"time"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/extradata"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/idlist"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/linkinfo"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/propstore"
)

// NewLinkView flattens a decoded link into its printable form.
func NewLinkView(source string, l *shelllink.ShellLink) LinkView {
	v := LinkView{
		Source:         source,
		Target:         l.Target(),
		LinkFlags:      l.LinkFlags.Names(),
		FileAttributes: l.FileAttributes.Names(),
		CreationTime:   l.CreationTime,
		AccessTime:     l.AccessTime,
		WriteTime:      l.WriteTime,
		FileSize:       l.FileSize,
		IconIndex:      l.IconIndex,
		ShowCommand:    l.ShowCommand.String(),
		LinkInfo:       newLinkInfoView(l.LinkInfo),
		Name:           deref(l.Name),
		RelativePath:   deref(l.RelativePath),
		WorkingDir:     deref(l.WorkingDir),
		Arguments:      deref(l.Arguments),
		IconLocation:   deref(l.IconLocation),
		ExtraData:      newExtraDataView(l.ExtraData),
	}
	if l.IDList != nil {
		for _, e := range l.IDList.Entries {
			v.IDList = append(v.IDList, newEntryView(e))
		}
	}
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func newEntryView(e idlist.Entry) EntryView {
	switch v := e.(type) {
	case idlist.Root:
		return EntryView{Type: "root", Value: v.Location.String()}
	case idlist.Drive:
		return EntryView{Type: "drive", Value: string(v.Letter) + `:\`}
	case idlist.Folder:
		return entryDataView("folder", v.EntryData)
	case idlist.File:
		return entryDataView("file", v.EntryData)
	default:
		return EntryView{Type: fmt.Sprintf("%T", e)}
	}
}

func entryDataView(kind string, d idlist.EntryData) EntryView {
	v := EntryView{
		Type:       kind,
		Value:      d.Name(),
		ShortName:  d.ShortName,
		FileSize:   d.FileSize,
		Attributes: d.Attributes,
		Modified:   timePtr(d.Modified),
	}
	if d.Extension != nil {
		v.Created = timePtr(d.Extension.Created)
		v.Accessed = timePtr(d.Extension.Accessed)
	}
	return v
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func newLinkInfoView(li *linkinfo.LinkInfo) *LinkInfoView {
	if li == nil {
		return nil
	}
	v := &LinkInfoView{
		LocalBasePath:    li.LocalBasePath,
		CommonPathSuffix: li.CommonPathSuffix,
	}
	if li.VolumeID != nil {
		v.DriveType = li.VolumeID.DriveType.String()
		v.SerialNumber = fmt.Sprintf("%08X", li.VolumeID.SerialNumber)
		v.VolumeLabel = li.VolumeID.Label
	}
	return v
}

func newExtraDataView(bd *extradata.BlockData) *ExtraDataView {
	if bd.Empty() {
		return nil
	}
	v := &ExtraDataView{
		Console:    bd.Console,
		Properties: propertyMap(bd.PropertyStore),
	}
	if t := bd.Tracker; t != nil {
		v.Tracker = &TrackerView{
			MachineID:     t.MachineID,
			VolumeID:      t.Droid[0].String(),
			ObjectID:      t.Droid[1].String(),
			BirthVolumeID: t.DroidBirth[0].String(),
			BirthObjectID: t.DroidBirth[1].String(),
		}
	}
	if ie := bd.IconEnvironment; ie != nil {
		v.IconEnvironment = ie.TargetUnicode
		if v.IconEnvironment == "" {
			v.IconEnvironment = ie.TargetANSI
		}
	}
	for _, sf := range bd.SpecialFolders {
		v.SpecialFolders = append(v.SpecialFolders, FolderView{Folder: sf.Folder.String(), Offset: sf.Offset})
	}
	for _, kf := range bd.KnownFolders {
		v.KnownFolders = append(v.KnownFolders, FolderView{Folder: kf.Folder.String(), Offset: kf.Offset})
	}
	return v
}

// propertyMap flattens a property store into "group.name" keys.
func propertyMap(s *propstore.Store) map[string]string {
	if s.Empty() {
		return nil
	}
	m := make(map[string]string)
	if b := s.Basic; b != nil {
		putString(m, "basic.item_type_text", b.ItemTypeText)
		putString(m, "basic.item_name_display", b.ItemNameDisplay)
		if b.Size != nil {
			m["basic.size"] = fmt.Sprint(*b.Size)
		}
		putTime(m, "basic.date_created", b.DateCreated)
		putTime(m, "basic.date_modified", b.DateModified)
	}
	if a := s.AppUserModel; a != nil {
		putBool(m, "app_user_model.exclude_from_show_in_new_install", a.ExcludeFromShowInNewInstall)
		putString(m, "app_user_model.id", a.ID)
		putString(m, "app_user_model.relaunch_command", a.RelaunchCommand)
		putString(m, "app_user_model.relaunch_display_name_resource", a.RelaunchDisplayNameResource)
		putString(m, "app_user_model.relaunch_icon_resource", a.RelaunchIconResource)
		putBool(m, "app_user_model.prevent_pinning", a.PreventPinning)
		putBool(m, "app_user_model.is_dual_mode", a.IsDualMode)
	}
	for name, val := range s.Named {
		m["named."+name] = formatValue(val)
	}
	for format, set := range s.Sets {
		for id, val := range set {
			m[fmt.Sprintf("%s.%d", format, id)] = formatValue(val)
		}
	}
	return m
}

func putString(m map[string]string, key string, v *string) {
	if v != nil {
		m[key] = *v
	}
}

func putBool(m map[string]string, key string, v *bool) {
	if v != nil {
		m[key] = fmt.Sprint(*v)
	}
}

func putTime(m map[string]string, key string, v *time.Time) {
	if v != nil {
		m[key] = v.Format(time.RFC3339Nano)
	}
}

func formatValue(v propstore.Value) string {
	switch v := v.(type) {
	case propstore.String:
		return string(v)
	case propstore.Bool:
		return fmt.Sprint(bool(v))
	case propstore.Uint64:
		return fmt.Sprint(uint64(v))
	case propstore.FileTime:
		return time.Time(v).Format(time.RFC3339Nano)
	case propstore.Unparsed:
		return fmt.Sprintf("%s (%d bytes)", v.VT, len(v.Raw))
	default:
		return fmt.Sprint(v)
	}
}

// sortedKeys returns the keys of m in order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
