package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/graphma/pkg/cache"
	"github.com/matzehuels/graphma/pkg/catalog"
	"github.com/matzehuels/graphma/pkg/formats"
)

type backend string

const (
	backendFile  backend = "file"
	backendRedis backend = "redis"
	backendNone  backend = "none"
)

// Output kinds of a job.
const (
	outputStats   = "stats"
	outputDegrees = "degrees"
	outputJSON    = "json"
	outputDOT     = "dot"
	outputSVG     = "svg"
)

var outputKinds = []string{outputStats, outputDegrees, outputJSON, outputDOT, outputSVG}

type cacheConfig struct {
	Backend backend           `toml:"backend"`
	Scope   string            `toml:"scope"`
	Redis   cache.RedisConfig `toml:"redis"`
}

type sourceConfig struct {
	Path        string   `toml:"path"`
	Formats     []string `toml:"formats"`
	Recursive   bool     `toml:"recursive"`
	MinEntries  uint64   `toml:"min_entries"`
	MaxEntries  uint64   `toml:"max_entries"`
	SkipInvalid bool     `toml:"skip_invalid"`
}

type ingestConfig struct {
	BufferSize int  `toml:"buffer_size"`
	Strict     bool `toml:"strict"`
	Workers    int  `toml:"workers"`
}

type outputConfig struct {
	Kind     string `toml:"kind"`
	Dir      string `toml:"dir"`
	Top      int    `toml:"top"`
	Detailed bool   `toml:"detailed"`
}

// job is a batch run read from a TOML file:
//
//	name = "small-suitesparse"
//
//	[source]
//	path = "data/suitesparse"
//	formats = ["mtx"]
//	recursive = true
//	max_entries = 40
//
//	[ingest]
//	buffer_size = 65536
//
//	[output]
//	kind = "degrees"
//	top = 5
//
//	[cache]
//	backend = "redis"
//	[cache.redis]
//	addr = "localhost:6379"
type job struct {
	Name   string       `toml:"name"`
	Source sourceConfig `toml:"source"`
	Ingest ingestConfig `toml:"ingest"`
	Output outputConfig `toml:"output"`
	Cache  cacheConfig  `toml:"cache"`
}

// loadJob decodes and validates a job file. Unknown keys are rejected.
func loadJob(path string) (*job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var j job
	md, err := toml.Decode(string(data), &j)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := j.validateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &j, nil
}

func (j *job) validateAndSetDefaults() error {
	if j.Name == "" {
		j.Name = "job"
	}
	if j.Source.Path == "" {
		return fmt.Errorf("source.path is required")
	}
	if _, err := j.formats(); err != nil {
		return err
	}
	if j.Source.MaxEntries > 0 && j.Source.MinEntries > j.Source.MaxEntries {
		return fmt.Errorf("source.min_entries %d exceeds max_entries %d", j.Source.MinEntries, j.Source.MaxEntries)
	}
	if j.Output.Kind == "" {
		j.Output.Kind = outputStats
	}
	if !slices.Contains(outputKinds, j.Output.Kind) {
		return fmt.Errorf("output.kind %q must be one of %s", j.Output.Kind, strings.Join(outputKinds, ", "))
	}
	if j.Output.Dir == "" && (j.Output.Kind == outputJSON || j.Output.Kind == outputDOT || j.Output.Kind == outputSVG) {
		return fmt.Errorf("output.dir is required for %s output", j.Output.Kind)
	}
	return j.Cache.validateAndSetDefaults()
}

func (c *cacheConfig) validateAndSetDefaults() error {
	if c.Backend == "" {
		c.Backend = backendFile
	}
	switch c.Backend {
	case backendFile, backendNone:
	case backendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend %q must be file, redis or none", c.Backend)
	}
	return nil
}

func (j *job) formats() ([]formats.Format, error) {
	return parseFormatList(j.Source.Formats)
}

// catalogOptions maps the source section onto a catalog scan.
func (j *job) catalogOptions() (catalog.Options, error) {
	fs, err := j.formats()
	if err != nil {
		return catalog.Options{}, err
	}
	return catalog.Options{
		Formats:     fs,
		Recursive:   j.Source.Recursive,
		Workers:     j.Ingest.Workers,
		SkipInvalid: j.Source.SkipInvalid,
	}, nil
}

// accepts reports whether d is inside the configured entry bounds.
func (j *job) accepts(d formats.Descriptor) bool {
	if d.Entries < j.Source.MinEntries {
		return false
	}
	return j.Source.MaxEntries == 0 || d.Entries <= j.Source.MaxEntries
}

func parseFormatList(names []string) ([]formats.Format, error) {
	var out []formats.Format
	for _, n := range names {
		f, err := formats.ParseFormat(strings.ToLower(strings.TrimSpace(n)))
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
