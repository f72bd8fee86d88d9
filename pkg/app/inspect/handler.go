// Package inspect decodes link files for the read and scan commands.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/deploymenttheory/go-shelllink/internal/archive"
	"github.com/deploymenttheory/go-shelllink/pkg/app"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink"
)

// errStopScan aborts a scan at the first failure when ContinueOnError is off.
var errStopScan = errors.New("scan stopped")

// Handle decodes the link file named by the request
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx.Log(fmt.Sprintf("Reading link: %s", req.Path))

	f, err := os.Open(req.Path)
	if err != nil {
		return nil, app.NewError(app.ErrCodeSourceAccess, "failed to open link", err)
	}
	defer f.Close()

	l, err := shelllink.Parse(f, ctx.CodecOptions()...)
	if err != nil {
		return nil, app.NewError(app.ErrCodeDecode, fmt.Sprintf("failed to decode %s", req.Path), err)
	}
	ctx.Logger.Debug("decoded link", zap.String("path", req.Path), zap.String("target", l.Target()))

	return &Response{Link: NewLinkView(req.Path, l)}, nil
}

// Scan decodes every matching file inside a directory or archive and
// reports a result per file
func Scan(ctx *app.Context, req *ScanRequest) (*ScanResponse, error) {
	startTime := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	if ctx.DefaultTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = ctx.WithTimeout(ctx.DefaultTimeout)
		defer cancel()
	}

	kind, err := archive.Detect(req.Source)
	if err != nil {
		return nil, app.NewError(app.ErrCodeSourceAccess, "cannot scan source", err)
	}
	ctx.Log(fmt.Sprintf("Scanning %s: %s", kind, req.Source))
	ctx.Progress("Scanning...", 0)

	response := &ScanResponse{Source: req.Source, Kind: kind.String()}
	opts := archive.Options{Extensions: req.Extensions, MaxSize: ctx.MaxInputSize}

	var firstErr error
	err = archive.Walk(ctx, req.Source, opts, func(e archive.Entry) error {
		result := decodeEntry(ctx, e)
		response.Results = append(response.Results, result)
		response.Total++
		if result.OK {
			response.Succeeded++
		} else {
			response.Failed++
			ctx.Logger.Warn("failed to decode link", zap.String("path", e.Path), zap.String("error", result.Error))
			if !req.ContinueOnError {
				firstErr = fmt.Errorf("%s: %s", e.Path, result.Error)
				return errStopScan
			}
		}
		ctx.Progress(e.Path, -1)
		return nil
	})
	response.Duration = time.Since(startTime)

	switch {
	case errors.Is(err, errStopScan):
		return response, app.NewError(app.ErrCodeDecode, "scan stopped at the first failure", firstErr)
	case errors.Is(err, context.DeadlineExceeded):
		return response, app.NewError(app.ErrCodeSourceAccess, fmt.Sprintf("scan timed out after %v", ctx.DefaultTimeout), err)
	case err != nil:
		return response, app.NewError(app.ErrCodeSourceAccess, "failed to scan source", err)
	}

	ctx.Progress("Complete", 100)
	ctx.Log(fmt.Sprintf("Scan completed: %d decoded, %d failed in %v", response.Succeeded, response.Failed, response.Duration))
	return response, nil
}

func decodeEntry(ctx *app.Context, e archive.Entry) ScanResult {
	result := ScanResult{Path: e.Path, Size: e.Size}
	if e.Err != nil {
		result.Error = e.Err.Error()
		return result
	}
	l, err := shelllink.ParseBytes(e.Data, ctx.CodecOptions()...)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.OK = true
	result.Target = l.Target()
	return result
}
