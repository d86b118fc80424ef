package formats

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphma/pkg/errors"
	"github.com/matzehuels/graphma/pkg/scan"
)

// Options configures how traversers open their source.
type Options struct {
	// Logger receives open/close events and missing-source warnings.
	Logger *log.Logger

	// BufferSize is the scanner buffer capacity in bytes. It bounds the
	// longest line a traverser can read. Zero selects scan.DefaultBufferSize.
	BufferSize int

	// Strict reports a missing file or an empty range as MISSING_SOURCE
	// instead of yielding no edges.
	Strict bool

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.BufferSize == 0 {
		o.BufferSize = scan.DefaultBufferSize
	}
	if err := errors.ValidateBufferSize(o.BufferSize); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}
