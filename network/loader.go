// SPDX-License-Identifier: MIT
package network

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/routechoice/core"
	"github.com/katalvlaran/routechoice/costfn"
)

// File is the on-disk form of a network.
//
//	links:
//	  - {id: e1, from: A, to: B, free_flow_time: 10, capacity: 100,
//	     function: {kind: bpr, alpha: 0.15, beta: 4}}
//	demand:
//	  - {origin: A, destination: B, flow: 100}
//	routes:            # optional, OD ID → routes → link IDs
//	  "A|B": [[e1]]
type File struct {
	Links  []FileLink            `yaml:"links" toml:"links"`
	Demand []Demand              `yaml:"demand" toml:"demand"`
	Routes map[string][][]string `yaml:"routes" toml:"routes"`
}

// FileLink is one link entry of a File.
type FileLink struct {
	ID           string      `yaml:"id" toml:"id"`
	From         string      `yaml:"from" toml:"from"`
	To           string      `yaml:"to" toml:"to"`
	FreeFlowTime float64     `yaml:"free_flow_time" toml:"free_flow_time"`
	Capacity     float64     `yaml:"capacity" toml:"capacity"`
	Function     costfn.Spec `yaml:"function" toml:"function"`
}

// LoadFile reads a YAML (.yaml, .yml) or TOML (.toml) network file and
// builds the Network. Explicit routes in the file take precedence over
// options passed by the caller.
func LoadFile(path string, opts ...Option) (*Network, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("network: read %s: %w", path, err)
	}

	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err = dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("network: decode %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(raw), &f)
		if err != nil {
			return nil, fmt.Errorf("network: decode %s: %w", path, err)
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return nil, fmt.Errorf("network: decode %s: unknown keys %v", path, undec)
		}
	default:
		return nil, fmt.Errorf("%q: %w", ext, ErrUnsupportedFormat)
	}

	return f.Build(opts...)
}

// Build turns a decoded File into a Network.
func (f File) Build(opts ...Option) (*Network, error) {
	g := core.NewGraph(core.WithMultiLinks())
	for _, l := range f.Links {
		if _, err := g.AddLink(l.ID, l.From, l.To, l.FreeFlowTime, l.Capacity, l.Function); err != nil {
			return nil, fmt.Errorf("network: link %q: %w", l.ID, err)
		}
	}
	if len(f.Routes) > 0 {
		opts = append(opts, WithRouteSets(f.Routes))
	}

	return New(g, f.Demand, opts...)
}
