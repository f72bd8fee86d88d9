package app

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink"
)

func TestContextLogging(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		quiet     bool
		wantLog   bool
		wantError bool
	}{
		{name: "default prints errors only", wantError: true},
		{name: "verbose prints both", verbose: true, wantLog: true, wantError: true},
		{name: "quiet wins over verbose", verbose: true, quiet: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			ctx := NewContext()
			ctx.Stderr = &stderr
			ctx.Verbose = tt.verbose
			ctx.Quiet = tt.quiet

			ctx.Log("decoding")
			ctx.Error("broken")

			assert.Equal(t, tt.wantLog, bytes.Contains(stderr.Bytes(), []byte("decoding")))
			assert.Equal(t, tt.wantError, bytes.Contains(stderr.Bytes(), []byte("Error: broken")))
		})
	}
}

func TestContextDerivation(t *testing.T) {
	ctx := NewContext()
	ctx.Verbose = true

	timed, cancel := ctx.WithTimeout(time.Minute)
	defer cancel()
	assert.True(t, timed.Verbose)
	_, ok := timed.Deadline()
	assert.True(t, ok)

	cancel()
	assert.Error(t, timed.Err())
	assert.NoError(t, ctx.Err(), "parent context is untouched")
	assert.Equal(t, DefaultScanTimeout, ctx.DefaultTimeout)
}

func TestContextProgress(t *testing.T) {
	ctx := NewContext()
	ctx.Progress("ignored without a callback", 10)

	var got []int
	ctx.SetProgress(func(_ string, percent int) { got = append(got, percent) })
	ctx.Progress("half", 50)
	ctx.Progress("done", 100)
	assert.Equal(t, []int{50, 100}, got)
}

func TestCodecOptions(t *testing.T) {
	ctx := NewContext()
	ctx.CodePage = "no-such-code-page"
	_, err := shelllink.ParseBytes(nil, ctx.CodecOptions()...)
	assert.Error(t, err)

	ctx = NewContext()
	ctx.MaxInputSize = 4
	_, err = shelllink.ParseBytes(make([]byte, 5), ctx.CodecOptions()...)
	assert.ErrorIs(t, err, shelllink.ErrInputTooLarge)
}

func TestValidateOutputFormat(t *testing.T) {
	for _, f := range OutputFormats {
		assert.NoError(t, ValidateOutputFormat(f))
	}

	err := ValidateOutputFormat("csv")
	require.Error(t, err)
	var ce *CommonError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrCodeInvalidInput, ce.Code)
}

func TestCommonError(t *testing.T) {
	cause := errors.New("disk on fire")
	err := NewError(ErrCodeSourceAccess, "cannot open link", cause)
	assert.Equal(t, "cannot open link: disk on fire", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "bare", NewError(ErrCodeDecode, "bare", nil).Error())
}
