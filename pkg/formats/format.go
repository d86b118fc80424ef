package formats

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/graphma/pkg/errors"
)

// Format names an edge-list dialect.
type Format string

const (
	MTX     Format = "mtx"
	DOT     Format = "dot"
	GML     Format = "gml"
	GraphML Format = "graphml"
)

// Formats lists every supported dialect.
var Formats = []Format{MTX, DOT, GML, GraphML}

func (f Format) String() string { return string(f) }

// ParseFormat converts a dialect name into a Format.
func ParseFormat(name string) (Format, error) {
	if err := errors.ValidateFormat(name); err != nil {
		return "", err
	}
	return Format(name), nil
}

// DetectFormat infers the dialect from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mtx":
		return MTX, nil
	case ".dot", ".gv":
		return DOT, nil
	case ".gml":
		return GML, nil
	case ".graphml", ".xml":
		return GraphML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "cannot infer format of %s", path)
}
