// Package archive enumerates candidate link files inside a directory tree
// or an archive. Supported archives are zip, tar and tar compressed with
// gzip, xz or bzip2.
package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/ulikunitz/xz"
)

// ErrEntryTooLarge is reported for entries above Options.MaxSize. The
// entry's contents are not read.
var ErrEntryTooLarge = errors.New("entry exceeds the maximum input size")

// Kind is the container format of a scan source.
type Kind int

// Source kinds
const (
	KindUnknown Kind = iota
	KindDirectory
	KindZip
	KindTar
	KindTarGzip
	KindTarXZ
	KindTarBzip2
)

var kindNames = map[Kind]string{
	KindUnknown:   "unknown",
	KindDirectory: "directory",
	KindZip:       "zip",
	KindTar:       "tar",
	KindTarGzip:   "tar.gz",
	KindTarXZ:     "tar.xz",
	KindTarBzip2:  "tar.bz2",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Entry is one candidate file. Err is set instead of Data when the entry
// could not be read.
type Entry struct {
	Path string
	Size int64
	Data []byte
	Err  error
}

// Options controls which entries Walk yields.
type Options struct {
	// Extensions are matched case-insensitively against entry names.
	// Empty matches every file.
	Extensions []string
	// MaxSize bounds the bytes read per entry. Zero means unbounded.
	MaxSize int64
}

func (o Options) matches(name string) bool {
	if len(o.Extensions) == 0 {
		return true
	}
	ext := filepath.Ext(name)
	for _, want := range o.Extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// Detect reports the kind of source at path from its file type and name.
func Detect(path string) (Kind, error) {
	info, err := os.Stat(path)
	if err != nil {
		return KindUnknown, err
	}
	if info.IsDir() {
		return KindDirectory, nil
	}
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".zip"):
		return KindZip, nil
	case strings.HasSuffix(name, ".tar"):
		return KindTar, nil
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return KindTarGzip, nil
	case strings.HasSuffix(name, ".tar.xz"), strings.HasSuffix(name, ".txz"):
		return KindTarXZ, nil
	case strings.HasSuffix(name, ".tar.bz2"), strings.HasSuffix(name, ".tbz2"):
		return KindTarBzip2, nil
	}
	return KindUnknown, fmt.Errorf("unsupported scan source: %s", path)
}

// Walk calls fn for every matching regular file under path. Entry paths
// are slash-separated and relative to the source. Walk stops at the first
// error returned by fn or when ctx is done.
func Walk(ctx context.Context, path string, opts Options, fn func(Entry) error) error {
	kind, err := Detect(path)
	if err != nil {
		return err
	}
	switch kind {
	case KindDirectory:
		return walkDir(ctx, path, opts, fn)
	case KindZip:
		return walkZip(ctx, path, opts, fn)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	switch kind {
	case KindTarGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
	case KindTarXZ:
		if r, err = xz.NewReader(f); err != nil {
			return fmt.Errorf("failed to open xz stream: %w", err)
		}
	case KindTarBzip2:
		bz, err := bzip2.NewReader(f, nil)
		if err != nil {
			return fmt.Errorf("failed to open bzip2 stream: %w", err)
		}
		defer bz.Close()
		r = bz
	}
	return walkTar(ctx, r, opts, fn)
}

func walkDir(ctx context.Context, root string, opts Options, fn func(Entry) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() || !opts.matches(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return fn(Entry{Path: filepath.ToSlash(rel), Err: err})
		}

		e := Entry{Path: filepath.ToSlash(rel), Size: info.Size()}
		if opts.MaxSize > 0 && e.Size > opts.MaxSize {
			e.Err = ErrEntryTooLarge
			return fn(e)
		}
		e.Data, e.Err = readFile(path, opts.MaxSize)
		return fn(e)
	})
}

func walkZip(ctx context.Context, path string, opts Options, fn func(Entry) error) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("failed to open zip archive: %w", err)
	}
	defer zr.Close()

	files := make([]*zip.File, 0, len(zr.File))
	for _, f := range zr.File {
		if f.Mode().IsRegular() && opts.matches(f.Name) {
			files = append(files, f)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		e := Entry{Path: f.Name, Size: int64(f.UncompressedSize64)}
		if opts.MaxSize > 0 && e.Size > opts.MaxSize {
			e.Err = ErrEntryTooLarge
		} else {
			e.Data, e.Err = readZipFile(f, opts.MaxSize)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

// readFile reads a directory entry with the same bound as archive members;
// the file may have grown since it was stat'ed.
func readFile(path string, max int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readBounded(f, max)
}

func readZipFile(f *zip.File, max int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return readBounded(rc, max)
}

func walkTar(ctx context.Context, r io.Reader, opts Options, fn func(Entry) error) error {
	tr := tar.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read tar archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg || !opts.matches(hdr.Name) {
			continue
		}

		e := Entry{Path: hdr.Name, Size: hdr.Size}
		if opts.MaxSize > 0 && e.Size > opts.MaxSize {
			e.Err = ErrEntryTooLarge
		} else {
			e.Data, e.Err = readBounded(tr, opts.MaxSize)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
}

// readBounded reads r to the end, failing once more than max bytes arrive.
// Sizes declared by archive headers are not trusted.
func readBounded(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, ErrEntryTooLarge
	}
	return data, nil
}
