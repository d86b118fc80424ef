package formats

import (
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphma/pkg/errors"
	"github.com/matzehuels/graphma/pkg/index"
	"github.com/matzehuels/graphma/pkg/observability"
	"github.com/matzehuels/graphma/pkg/scan"
	"github.com/matzehuels/graphma/pkg/traverse"
)

// record classifies what one call to recordReader.next consumed.
type record int

const (
	recordEnd  record = iota // no more records
	recordEdge               // the cursor holds a new edge
	recordSkip               // a record without an edge, e.g. a DOT attribute line
)

// recordReader is the per-dialect body state machine.
type recordReader[ID comparable] interface {
	next(e *Edge[ID]) (record, error)
}

// lineSkipper is implemented by readers whose records are single lines, so
// records before the window can be skipped without parsing them.
type lineSkipper interface {
	skipRecord() error
}

// headerFunc runs the header phase and returns the body reader together
// with the number of records the header declares. Dialects without such a
// declaration return noLimit.
type headerFunc[ID comparable] func(sc *scan.Scanner) (recordReader[ID], uint64, error)

const noLimit = ^uint64(0)

// recordTraverser drives a recordReader through the traversal protocol.
type recordTraverser[ID comparable] struct {
	sc     *scan.Scanner
	rd     recordReader[ID]
	cursor Edge[ID]
	index  uint64 // logical index of the next record
	hi     uint64
	done   bool

	format Format
	path   string
	logger *log.Logger
}

func openRecords[ID comparable](format Format, path string, rng index.Range, pos uint64, opts Options, header headerFunc[ID]) (traverse.Traverser[*Edge[ID]], error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	if rng.IsEmpty() {
		return missing[ID](opts, format, path, "empty range "+rng.String())
	}

	sc, err := scan.Open(path, opts.BufferSize)
	if errors.Is(err, errors.ErrCodeMissingSource) {
		return missing[ID](opts, format, path, "file does not exist")
	}
	if err != nil {
		return nil, err
	}

	rd, limit, err := header(sc)
	if err != nil {
		_ = sc.Close()
		return nil, err
	}

	t := &recordTraverser[ID]{
		sc:     sc,
		rd:     rd,
		hi:     min(rng.Hi(), limit),
		format: format,
		path:   path,
		logger: opts.Logger,
	}
	observability.Traversal().OnOpen(string(format), path, rng.String())
	t.logger.Debug("traverser opened", "format", format, "path", path, "range", rng, "pos", pos)

	if err := t.skipTo(max(pos, rng.Lo())); err != nil {
		return nil, t.release(err)
	}
	return t, nil
}

func missing[ID comparable](opts Options, format Format, path, reason string) (traverse.Traverser[*Edge[ID]], error) {
	if opts.Strict {
		return nil, errors.New(errors.ErrCodeMissingSource, "%s: %s", path, reason)
	}
	opts.Logger.Warn("source yields no edges", "format", format, "path", path, "reason", reason)
	return traverse.Empty[*Edge[ID]](), nil
}

// skipTo consumes records until the logical index reaches start.
func (t *recordTraverser[ID]) skipTo(start uint64) error {
	sk, lines := t.rd.(lineSkipper)
	for t.index < start && t.index < t.hi {
		if lines {
			if err := sk.skipRecord(); err != nil {
				return err
			}
			t.index++
			continue
		}
		r, err := t.rd.next(&t.cursor)
		if err != nil {
			return err
		}
		if r == recordEnd {
			t.hi = t.index
			return nil
		}
		t.index++
	}
	return nil
}

// advance reads records until one holds an edge or the window ends.
func (t *recordTraverser[ID]) advance() (bool, error) {
	for t.index < t.hi {
		r, err := t.rd.next(&t.cursor)
		if err != nil {
			return false, err
		}
		switch r {
		case recordEnd:
			t.hi = t.index
			return false, nil
		case recordEdge:
			t.index++
			return true, nil
		}
		t.index++
	}
	return false, nil
}

func (t *recordTraverser[ID]) TryStep(action func(*Edge[ID])) (bool, error) {
	if t.done {
		return false, nil
	}
	ok, err := t.advance()
	if err != nil {
		return false, t.release(err)
	}
	if !ok {
		return false, t.release(nil)
	}
	action(&t.cursor)
	return true, nil
}

func (t *recordTraverser[ID]) Drain(action func(*Edge[ID])) error {
	for {
		ok, err := t.TryStep(action)
		if err != nil || !ok {
			return err
		}
	}
}

func (t *recordTraverser[ID]) Loop(ctl traverse.Control, action func(*Edge[ID])) (traverse.Status, error) {
	if t.done {
		return traverse.Done, nil
	}
	refills := t.sc.Refills()
	for {
		ok, err := t.TryStep(action)
		if err != nil {
			return traverse.Exit, err
		}
		if !ok {
			return traverse.Done, nil
		}
		if !ctl.Active() {
			return traverse.Exit, t.release(nil)
		}
		if t.sc.Refills() != refills {
			return traverse.None, nil
		}
	}
}

// Close releases the file early. Traversers close themselves on completion,
// so calling Close is only needed when abandoning one half-way.
func (t *recordTraverser[ID]) Close() error {
	return t.release(nil)
}

// release closes the scanner once and reports cause, or the close error when
// there is no cause.
func (t *recordTraverser[ID]) release(cause error) error {
	if t.done {
		return cause
	}
	t.done = true
	err := t.sc.Close()
	if cause != nil {
		err = cause
	}
	observability.Traversal().OnClose(string(t.format), t.path, t.index, cause)
	if cause != nil {
		t.logger.Debug("traverser failed", "format", t.format, "path", t.path, "record", t.index, "err", cause)
	} else {
		t.logger.Debug("traverser closed", "format", t.format, "path", t.path, "records", t.index)
	}
	return err
}

// converted re-exposes a traverser with ids mapped through fn, using its own
// cursor.
type converted[A, B comparable] struct {
	t      traverse.Traverser[*Edge[A]]
	fn     func(A) B
	cursor Edge[B]
}

func convert[A, B comparable](t traverse.Traverser[*Edge[A]], fn func(A) B) traverse.Traverser[*Edge[B]] {
	return &converted[A, B]{t: t, fn: fn}
}

func (c *converted[A, B]) wrap(action func(*Edge[B])) func(*Edge[A]) {
	return func(e *Edge[A]) {
		c.cursor.Source = c.fn(e.Source)
		c.cursor.Target = c.fn(e.Target)
		action(&c.cursor)
	}
}

func (c *converted[A, B]) TryStep(action func(*Edge[B])) (bool, error) {
	return c.t.TryStep(c.wrap(action))
}

func (c *converted[A, B]) Drain(action func(*Edge[B])) error {
	return c.t.Drain(c.wrap(action))
}

func (c *converted[A, B]) Loop(ctl traverse.Control, action func(*Edge[B])) (traverse.Status, error) {
	return c.t.Loop(ctl, c.wrap(action))
}

func (c *converted[A, B]) Close() error { return traverse.Close(c.t) }

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

// atLine rewrites a token error so it names the line it was found on.
func atLine(sc *scan.Scanner, err error) error {
	return errors.Parse(sc.Line(), "%s", errors.UserMessage(err))
}
