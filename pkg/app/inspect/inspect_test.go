package inspect

import (
	"archive/tar"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
	"gopkg.in/yaml.v3"
	"howett.net/plist"

	"github.com/deploymenttheory/go-shelllink/pkg/app"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/extradata"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/idlist"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/linkinfo"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/propstore"
)

var modified = time.Date(2023, 5, 17, 9, 30, 0, 0, time.UTC)

func str(s string) *string { return &s }

func sampleLink() *shelllink.ShellLink {
	id := "Contoso.Editor"
	return &shelllink.ShellLink{
		FileAttributes: shelllink.FileAttributeArchive,
		CreationTime:   modified,
		AccessTime:     modified,
		WriteTime:      modified,
		FileSize:       2048,
		ShowCommand:    shelllink.ShowNormal,
		IDList: &idlist.IDList{Entries: []idlist.Entry{
			idlist.Root{Location: idlist.MyComputer},
			idlist.Drive{Letter: 'D'},
			idlist.Folder{EntryData: idlist.NewEntryData("Tools", 0, modified)},
			idlist.File{EntryData: idlist.NewEntryData("editor.exe", 2048, modified)},
		}},
		LinkInfo: &linkinfo.LinkInfo{
			VolumeID:      &linkinfo.VolumeID{DriveType: linkinfo.DriveFixed, SerialNumber: 0x1234ABCD, Label: "Data"},
			LocalBasePath: `D:\Tools\editor.exe`,
		},
		Arguments: str("--new-window"),
		ExtraData: &extradata.BlockData{
			KnownFolders:  []extradata.KnownFolder{{Folder: extradata.FolderDocuments, Offset: 0x14}},
			PropertyStore: &propstore.Store{AppUserModel: &propstore.AppUserModelProperties{ID: &id}},
		},
	}
}

func linkBytes(t *testing.T) []byte {
	t.Helper()
	data, err := sampleLink().MarshalBinary()
	require.NoError(t, err)
	return data
}

func testContext() (*app.Context, *bytes.Buffer) {
	var stderr bytes.Buffer
	ctx := app.NewContext()
	ctx.Stdout = &bytes.Buffer{}
	ctx.Stderr = &stderr
	return ctx, &stderr
}

func TestHandle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editor.lnk")
	require.NoError(t, os.WriteFile(path, linkBytes(t), 0o644))

	ctx, _ := testContext()
	resp, err := Handle(ctx, &Request{Path: path})
	require.NoError(t, err)

	v := resp.Link
	assert.Equal(t, path, v.Source)
	assert.Equal(t, `D:\Tools\editor.exe`, v.Target)
	assert.Contains(t, v.LinkFlags, "IsUnicode")
	assert.Equal(t, []string{"Archive"}, v.FileAttributes)
	assert.Equal(t, "normal", v.ShowCommand)
	assert.Equal(t, "--new-window", v.Arguments)

	require.Len(t, v.IDList, 4)
	assert.Equal(t, EntryView{Type: "root", Value: "MyComputer"}, v.IDList[0])
	assert.Equal(t, `D:\`, v.IDList[1].Value)
	assert.Equal(t, "editor.exe", v.IDList[3].Value)
	assert.Equal(t, modified, *v.IDList[3].Modified)

	require.NotNil(t, v.LinkInfo)
	assert.Equal(t, "1234ABCD", v.LinkInfo.SerialNumber)
	assert.Equal(t, "Data", v.LinkInfo.VolumeLabel)

	require.NotNil(t, v.ExtraData)
	assert.Equal(t, []FolderView{{Folder: "Documents", Offset: 0x14}}, v.ExtraData.KnownFolders)
	assert.Equal(t, map[string]string{"app_user_model.id": "Contoso.Editor"}, v.ExtraData.Properties)
}

func TestHandleErrors(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.lnk")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a link at all"), 0o644))

	tests := []struct {
		name     string
		req      *Request
		wantCode string
	}{
		{name: "missing path", req: &Request{}, wantCode: app.ErrCodeInvalidInput},
		{name: "file that does not exist", req: &Request{Path: filepath.Join(dir, "nope.lnk")}, wantCode: app.ErrCodeSourceAccess},
		{name: "file that is not a link", req: &Request{Path: corrupt}, wantCode: app.ErrCodeDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := testContext()
			_, err := Handle(ctx, tt.req)
			var ce *app.CommonError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.wantCode, ce.Code)
		})
	}
}

func tarXZ(t *testing.T, path string, files map[string][]byte, order []string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	xw, err := xz.NewWriter(f)
	require.NoError(t, err)
	tw := tar.NewWriter(xw)
	for _, name := range order {
		data := files[name]
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0o644, Size: int64(len(data)), Typeflag: tar.TypeReg}))
		_, err := tw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, xw.Close())
	require.NoError(t, f.Close())
}

func TestScanTarXZ(t *testing.T) {
	good := linkBytes(t)
	bad := append([]byte{}, good...)
	bad[4] ^= 0xFF

	path := filepath.Join(t.TempDir(), "links.tar.xz")
	tarXZ(t, path, map[string][]byte{
		"good.lnk":   good,
		"broken.lnk": bad,
		"readme.txt": []byte("ignored"),
	}, []string{"good.lnk", "broken.lnk", "readme.txt"})

	ctx, _ := testContext()
	resp, err := Scan(ctx, &ScanRequest{Source: path, Extensions: []string{"lnk"}, ContinueOnError: true})
	require.NoError(t, err)

	assert.Equal(t, "tar.xz", resp.Kind)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)

	require.Len(t, resp.Results, 2)
	assert.True(t, resp.Results[0].OK)
	assert.Equal(t, `D:\Tools\editor.exe`, resp.Results[0].Target)
	assert.False(t, resp.Results[1].OK)
	assert.Contains(t, resp.Results[1].Error, "class id")
}

func TestScanStopsOnFirstFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lnk"), []byte{1, 2, 3}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lnk"), linkBytes(t), 0o644))

	ctx, _ := testContext()
	resp, err := Scan(ctx, &ScanRequest{Source: dir, Extensions: []string{".lnk"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a.lnk")
	assert.Equal(t, 1, resp.Total)
}

func TestScanReportsOversizedEntries(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.lnk"), linkBytes(t), 0o644))

	ctx, _ := testContext()
	ctx.MaxInputSize = 16
	resp, err := Scan(ctx, &ScanRequest{Source: dir, ContinueOnError: true})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Contains(t, resp.Results[0].Error, "maximum input size")
}

func TestScanTimeout(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lnk"), linkBytes(t), 0o644))

	ctx, _ := testContext()
	ctx.DefaultTimeout = time.Nanosecond
	ctx.SetProgress(func(string, int) { time.Sleep(10 * time.Millisecond) })
	resp, err := Scan(ctx, &ScanRequest{Source: dir, ContinueOnError: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "scan timed out")
	assert.Zero(t, resp.Total)

	ctx.DefaultTimeout = 0
	ctx.SetProgress(nil)
	resp, err = Scan(ctx, &ScanRequest{Source: dir, ContinueOnError: true})
	require.NoError(t, err, "a zero timeout disables the deadline")
	assert.Equal(t, 1, resp.Succeeded)
}

func TestScanValidation(t *testing.T) {
	ctx, _ := testContext()
	_, err := Scan(ctx, &ScanRequest{})
	assert.Error(t, err)

	_, err = Scan(ctx, &ScanRequest{Source: t.TempDir(), Extensions: []string{" "}})
	assert.Error(t, err)

	req := &ScanRequest{Source: "x", Extensions: []string{"lnk", ".URL"}}
	require.NoError(t, req.Validate())
	assert.Equal(t, []string{".lnk", ".URL"}, req.Extensions)
}

func TestFormatOutput(t *testing.T) {
	resp := &Response{Link: NewLinkView("editor.lnk", sampleLink())}

	t.Run("table lists fields and entries", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, FormatOutput(&buf, resp, app.FormatTable))
		out := buf.String()
		assert.Contains(t, out, `D:\Tools\editor.exe`)
		assert.Contains(t, out, "Serial number")
		assert.Contains(t, out, "app_user_model.id")
		assert.Contains(t, out, "editor.exe")
		assert.Contains(t, out, "TYPE")
	})

	t.Run("json round trips", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, FormatOutput(&buf, resp, app.FormatJSON))
		var got Response
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, resp.Link.Target, got.Link.Target)
		assert.Equal(t, resp.Link.LinkFlags, got.Link.LinkFlags)
	})

	t.Run("yaml uses snake case keys", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, FormatOutput(&buf, resp, app.FormatYAML))
		var got map[string]map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "--new-window", got["link"]["arguments"])
	})

	t.Run("plist is xml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, FormatOutput(&buf, resp, app.FormatPlist))
		assert.True(t, strings.HasPrefix(buf.String(), "<?xml"))

		var got map[string]any
		_, err := plist.Unmarshal(buf.Bytes(), &got)
		require.NoError(t, err)
		assert.Contains(t, got, "link")
	})

	t.Run("unknown format", func(t *testing.T) {
		assert.Error(t, FormatOutput(&bytes.Buffer{}, resp, "csv"))
	})
}

func TestFormatScanOutput(t *testing.T) {
	resp := &ScanResponse{
		Source: "links.zip",
		Kind:   "zip",
		Results: []ScanResult{
			{Path: "ok.lnk", OK: true, Target: `C:\x.exe`},
			{Path: "bad.lnk", Error: "invalid shell link class id"},
		},
		Total:     2,
		Succeeded: 1,
		Failed:    1,
	}

	var plain bytes.Buffer
	require.NoError(t, FormatScanOutput(&plain, resp, app.FormatTable, false))
	assert.Contains(t, plain.String(), "FAIL")
	assert.Contains(t, plain.String(), "Scanned 2 links in links.zip (zip): 1 decoded, 1 failed")
	assert.NotContains(t, plain.String(), "\x1b[")

	var colored bytes.Buffer
	require.NoError(t, FormatScanOutput(&colored, resp, app.FormatTable, true))
	assert.Contains(t, colored.String(), colorRed+"FAIL"+colorReset)

	var empty bytes.Buffer
	require.NoError(t, FormatScanOutput(&empty, &ScanResponse{}, app.FormatTable, false))
	assert.Equal(t, "No link files found.\n", empty.String())

	var js bytes.Buffer
	require.NoError(t, FormatScanOutput(&js, resp, app.FormatJSON, true))
	assert.Contains(t, js.String(), `"failed": 1`)
}
