package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mattn/go-colorable"
	"go.uber.org/zap"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink"
)

// DefaultScanTimeout is the scan deadline used when none is configured.
const DefaultScanTimeout = 5 * time.Minute

// Context holds application-wide configuration and state
type Context struct {
	context.Context

	// Output preferences
	OutputFormat string
	Verbose      bool
	Quiet        bool
	NoColor      bool

	// Codec settings
	CodePage     string
	MaxInputSize int64

	// DefaultTimeout bounds long-running operations such as scans. Zero
	// disables it.
	DefaultTimeout time.Duration

	// Stdout receives command output, Stderr progress and errors.
	Stdout io.Writer
	Stderr io.Writer

	Logger *zap.Logger

	// Progress reporting
	ProgressCallback func(message string, percent int)
}

// NewContext creates a new application context
func NewContext() *Context {
	return &Context{
		Context:        context.Background(),
		OutputFormat:   FormatTable,
		CodePage:       "utf-8",
		MaxInputSize:   shelllink.DefaultMaxSize,
		DefaultTimeout: DefaultScanTimeout,
		Stdout:         colorable.NewColorableStdout(),
		Stderr:         colorable.NewColorableStderr(),
		Logger:         zap.NewNop(),
	}
}

// WithTimeout creates a context with timeout
func (c *Context) WithTimeout(timeout time.Duration) (*Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(c.Context, timeout)
	newCtx := *c
	newCtx.Context = ctx
	return &newCtx, cancel
}

// CodecOptions returns the shelllink options selected by the context.
func (c *Context) CodecOptions() []shelllink.Option {
	return []shelllink.Option{
		shelllink.WithCodePage(c.CodePage),
		shelllink.WithMaxSize(c.MaxInputSize),
		shelllink.WithLogger(c.Logger),
	}
}

// SetProgress sets the progress callback function
func (c *Context) SetProgress(callback func(string, int)) {
	c.ProgressCallback = callback
}

// Progress reports progress if callback is set
func (c *Context) Progress(message string, percent int) {
	if c.ProgressCallback != nil {
		c.ProgressCallback(message, percent)
	}
}

// Log outputs a message based on verbosity settings
func (c *Context) Log(message string) {
	if !c.Quiet && c.Verbose {
		fmt.Fprintln(c.Stderr, message)
	}
}

// Error outputs an error message unless quiet
func (c *Context) Error(message string) {
	if !c.Quiet {
		fmt.Fprintln(c.Stderr, "Error:", message)
	}
}
