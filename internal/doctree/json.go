package doctree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/dgallion1/texgen/internal/latex"
)

// ErrFilesNotAllowed is returned when a JSON tree references local files
// and the decoder was not allowed to follow them.
var ErrFilesNotAllowed = errors.New("file-backed nodes are not allowed")

const defaultMaxDepth = 64

// DecodeOptions controls DecodeJSON.
type DecodeOptions struct {
	// AllowFiles permits code and text_from_file nodes.
	AllowFiles bool
	// MaxDepth bounds nesting; 0 means 64.
	MaxDepth int
}

type docSpec struct {
	Title    string     `json:"title"`
	Author   string     `json:"author"`
	Date     string     `json:"date"`
	Class    string     `json:"class"`
	Options  []string   `json:"options"`
	Packages []string   `json:"packages"`
	Children []nodeSpec `json:"children"`
}

// nodeSpec is the JSON form of a node. A bare string or number stands for
// a raw_text node holding that text.
type nodeSpec struct {
	Kind     string       `json:"kind"`
	Level    string       `json:"level"`
	Title    string       `json:"title"`
	Text     string       `json:"text"`
	Escape   bool         `json:"escape"`
	Name     string       `json:"name"`
	Marker   string       `json:"marker"`
	Body     string       `json:"body"`
	Label    string       `json:"label"`
	Numbered *bool        `json:"numbered"`
	Path     string       `json:"path"`
	Caption  string       `json:"caption"`
	Scale    *float64     `json:"scale"`
	Language string       `json:"language"`
	Child    *nodeSpec    `json:"child"`
	Children []nodeSpec   `json:"children"`
	Items    []nodeSpec   `json:"items"`
	Rows     [][]nodeSpec `json:"rows"`
	Cells    []nodeSpec   `json:"cells"`

	// present holds the lower-cased keys the node object carried.
	present []string
}

// kindFields lists the keys each kind reads besides "kind".
var kindFields = map[string][]string{
	"section":        {"level", "title", "children"},
	"raw_text":       {"text", "escape"},
	"text":           {"text", "escape"},
	"equation":       {"body", "label", "numbered"},
	"bloc":           {"name", "children"},
	"itemize":        {"items"},
	"enumerate":      {"items"},
	"tag":            {"marker", "child"},
	"item":           {"child"},
	"tabular":        {"rows", "cells"},
	"math":           {"text"},
	"graphic":        {"path", "caption", "scale"},
	"code":           {"path", "language"},
	"text_from_file": {"path"},
}

func (n *nodeSpec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty node")
	}
	switch data[0] {
	case '{':
		var keys map[string]json.RawMessage
		if err := json.Unmarshal(data, &keys); err != nil {
			return err
		}
		type plain nodeSpec
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode((*plain)(n)); err != nil {
			return err
		}
		lower := make(map[string]bool, len(keys))
		for k := range keys {
			lower[strings.ToLower(k)] = true
		}
		n.present = slices.Sorted(maps.Keys(lower))
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = nodeSpec{Kind: "raw_text", Text: s, present: []string{"text"}}
		return nil
	case '[', 'n':
		return fmt.Errorf("node must be an object, string or number, got %s", data)
	default:
		*n = nodeSpec{Kind: "raw_text", Text: string(data), present: []string{"text"}}
		return nil
	}
}

// DecodeJSON reads a document description and builds it with the latex
// constructors.
func DecodeJSON(r io.Reader, opts DecodeOptions) (*DocTree, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	var spec docSpec
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}

	tree := &DocTree{
		Title:   spec.Title,
		Author:  spec.Author,
		Date:    spec.Date,
		Class:   spec.Class,
		Options: spec.Options,
	}
	tree.Require(spec.Packages...)
	b := builder{opts: opts}
	for i := range spec.Children {
		n, err := b.build(&spec.Children[i], 1)
		if err != nil {
			return nil, fmt.Errorf("children[%d]: %w", i, err)
		}
		tree.Append(n)
	}
	return tree, nil
}

type builder struct {
	opts DecodeOptions
}

func (b builder) build(s *nodeSpec, depth int) (latex.Node, error) {
	if depth > b.opts.MaxDepth {
		return nil, fmt.Errorf("nesting deeper than %d", b.opts.MaxDepth)
	}
	kind := strings.ToLower(s.Kind)
	if err := s.checkFields(kind); err != nil {
		return nil, err
	}
	switch kind {
	case "section":
		level, err := parseLevel(s.Level)
		if err != nil {
			return nil, err
		}
		sec := latex.NewSectionLevel(level, s.Title)
		return sec, b.appendAll(sec, s.Children, depth)
	case "raw_text", "text":
		if s.Escape {
			return latex.Text(latex.Escape(s.Text)), nil
		}
		return latex.Text(s.Text), nil
	case "equation":
		eq := latex.NewEquation(s.Body).WithLabel(s.Label)
		if s.Numbered != nil {
			eq.Numbered = *s.Numbered
		}
		return eq, nil
	case "bloc":
		if s.Name == "" {
			return nil, fmt.Errorf("bloc without a name")
		}
		bloc := latex.NewBloc(s.Name)
		return bloc, b.appendAll(bloc, s.Children, depth)
	case "itemize", "enumerate":
		bloc := latex.NewBloc(strings.ToLower(s.Kind))
		for i := range s.Items {
			child, err := b.build(&s.Items[i], depth+1)
			if err != nil {
				return nil, fmt.Errorf("items[%d]: %w", i, err)
			}
			bloc.Add(latex.Item(child))
		}
		return bloc, nil
	case "tag", "item":
		if s.Child == nil {
			return nil, fmt.Errorf("%s without a child", s.Kind)
		}
		child, err := b.build(s.Child, depth+1)
		if err != nil {
			return nil, fmt.Errorf("child: %w", err)
		}
		if strings.EqualFold(s.Kind, "item") {
			return latex.Item(child), nil
		}
		return latex.NewTag(s.Marker, child), nil
	case "tabular":
		return b.tabular(s, depth)
	case "math":
		return latex.NewMath(s.Text), nil
	case "graphic":
		g := latex.NewGraphic(s.Path, s.Caption)
		g.Scale = s.Scale
		return g, nil
	case "code":
		if !b.opts.AllowFiles {
			return nil, fmt.Errorf("code %q: %w", s.Path, ErrFilesNotAllowed)
		}
		return latex.NewCode(s.Path, s.Language), nil
	case "text_from_file":
		if !b.opts.AllowFiles {
			return nil, fmt.Errorf("text_from_file %q: %w", s.Path, ErrFilesNotAllowed)
		}
		return latex.NewTextFromFile(s.Path), nil
	case "":
		return nil, fmt.Errorf("node without a kind")
	}
	return nil, fmt.Errorf("unknown node kind %q", s.Kind)
}

// checkFields rejects keys that the kind does not read. Unknown kinds are
// left for build to report.
func (s *nodeSpec) checkFields(kind string) error {
	allowed, ok := kindFields[kind]
	if !ok {
		return nil
	}
	for _, f := range s.present {
		if f != "kind" && !slices.Contains(allowed, f) {
			return fmt.Errorf("%s node does not take %q", kind, f)
		}
	}
	return nil
}

func (b builder) appendAll(parent latex.Node, specs []nodeSpec, depth int) error {
	for i := range specs {
		child, err := b.build(&specs[i], depth+1)
		if err != nil {
			return fmt.Errorf("children[%d]: %w", i, err)
		}
		if err := latex.AppendChild(parent, child); err != nil {
			return err
		}
	}
	return nil
}

func (b builder) tabular(s *nodeSpec, depth int) (latex.Node, error) {
	if len(s.Rows) > 0 && len(s.Cells) > 0 {
		return nil, fmt.Errorf("tabular with both rows and cells")
	}
	rows := s.Rows
	if len(s.Cells) > 0 {
		rows = [][]nodeSpec{s.Cells}
	}
	built := make([][]latex.Node, 0, len(rows))
	for i, row := range rows {
		cells := make([]latex.Node, 0, len(row))
		for j := range row {
			c, err := b.build(&row[j], depth+1)
			if err != nil {
				return nil, fmt.Errorf("rows[%d][%d]: %w", i, j, err)
			}
			cells = append(cells, c)
		}
		built = append(built, cells)
	}
	return latex.NewTabular(built), nil
}

func parseLevel(s string) (latex.Level, error) {
	switch strings.ToLower(s) {
	case "", "section":
		return latex.LevelSection, nil
	case "subsection":
		return latex.LevelSubsection, nil
	case "subsubsection":
		return latex.LevelSubsubsection, nil
	case "paragraph":
		return latex.LevelParagraph, nil
	}
	return 0, fmt.Errorf("unknown section level %q", s)
}
