package shelllink

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/wire"
)

// Option configures Parse and Write.
type Option func(*options) error

type options struct {
	codePage wire.CodePage
	logger   *zap.Logger
	maxSize  int64
}

func newOptions(opts []Option) (*options, error) {
	o := &options{
		codePage: wire.UTF8,
		logger:   zap.NewNop(),
		maxSize:  DefaultMaxSize,
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithCodePage sets the code page of non-Unicode strings. The default is
// strict UTF-8.
func WithCodePage(name string) Option {
	return func(o *options) error {
		cp, err := wire.LookupCodePage(name)
		if err != nil {
			return err
		}
		o.codePage = cp
		return nil
	}
}

// WithLogger traces decoding at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) error {
		if logger != nil {
			o.logger = logger
		}
		return nil
	}
}

// WithMaxSize bounds the number of bytes Parse reads from its source.
func WithMaxSize(n int64) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("max size must be positive, got %d", n)
		}
		o.maxSize = n
		return nil
	}
}
