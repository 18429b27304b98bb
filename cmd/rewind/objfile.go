package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"
	"github.com/signadot/rewind/libdiff"
)

// Format is an i/o format for documents and deltas.
type Format int

const (
	JSONFormat Format = iota
	YAMLFormat
)

func ParseFormat(v string) (Format, error) {
	switch v {
	case "json", "j":
		return JSONFormat, nil
	case "yaml", "yml", "y":
		return YAMLFormat, nil
	}
	return JSONFormat, fmt.Errorf("unknown format %q", v)
}

func (f Format) String() string {
	switch f {
	case YAMLFormat:
		return "yaml"
	default:
		return "json"
	}
}

// readInput reads the named file, or cc.In if path is "-".
func readInput(cc *cli.Context, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cc.In)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", path, err)
	}
	return data, nil
}

func getDoc(cc *cli.Context, path string, fmat Format) (any, error) {
	data, err := readInput(cc, path)
	if err != nil {
		return nil, err
	}
	return decodeDoc(data, fmat)
}

func decodeDoc(data []byte, fmat Format) (any, error) {
	var doc any
	switch fmat {
	case YAMLFormat:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("error decoding yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("error decoding json: %w", err)
		}
	}
	return doc, nil
}

// getDelta reads and decodes a delta.  A delta encoding "null", or one
// with no operations, decodes to nil, meaning no change.
func getDelta(cc *cli.Context, path string, fmat Format, merge bool) (libdiff.Delta, error) {
	data, err := readInput(cc, path)
	if err != nil {
		return nil, err
	}
	if merge {
		md := &libdiff.MergeDelta{}
		if err := unmarshalAs(data, fmat, md); err != nil {
			return nil, fmt.Errorf("error decoding merge delta: %w", err)
		}
		if len(md.Forward) == 0 {
			return nil, nil
		}
		return md, nil
	}
	ch := &libdiff.Change{}
	if err := unmarshalAs(data, fmat, ch); err != nil {
		return nil, fmt.Errorf("error decoding delta: %w", err)
	}
	if ch.Op == "" {
		return nil, nil
	}
	return ch, nil
}

func unmarshalAs(data []byte, fmat Format, v any) error {
	if fmat == YAMLFormat {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

func encodeDoc(w io.Writer, doc any, fmat Format) error {
	switch fmat {
	case YAMLFormat:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("error encoding yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding json: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	}
}

func pickDiffer(merge bool) libdiff.Differ {
	if merge {
		return libdiff.NewMergePatch()
	}
	return libdiff.NewStructural()
}
