package catalog

import (
	"io"
	"runtime"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphma/pkg/errors"
	"github.com/matzehuels/graphma/pkg/formats"
)

// DefaultTTL is how long probed headers stay cached.
const DefaultTTL = 7 * 24 * time.Hour

// Options configures a directory scan.
type Options struct {
	// Formats restricts the scan to these dialects. Empty means all.
	Formats []formats.Format

	// Recursive descends into subdirectories.
	Recursive bool

	// Workers bounds concurrent header probes. Zero selects GOMAXPROCS.
	Workers int

	// SkipInvalid logs and drops files whose header cannot be read instead
	// of failing the scan.
	SkipInvalid bool

	// Refresh ignores cached headers and probes every file again.
	Refresh bool

	// TTL is the cache lifetime of a probed header. Zero selects DefaultTTL.
	TTL time.Duration

	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	for _, f := range o.Formats {
		if err := errors.ValidateFormat(string(f)); err != nil {
			return err
		}
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must not be negative, got %d", o.Workers)
	}
	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

func (o *Options) accepts(f formats.Format) bool {
	return len(o.Formats) == 0 || slices.Contains(o.Formats, f)
}
