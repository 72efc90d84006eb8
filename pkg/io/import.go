package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/toposort/pkg/errors"
	"github.com/matzehuels/toposort/pkg/toposort"
)

// Supported relation and order formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatTOML = "toml"
)

// RelationFormats lists the formats accepted by [ReadRelations].
var RelationFormats = []string{FormatText, FormatJSON, FormatTOML}

// Relations is a list of precedence relations with string identifiers, in
// the order they were read.
type Relations []toposort.Pair[string]

// Pairs returns the relations for use with [toposort.SortFunc].
func (r Relations) Pairs() []toposort.Pair[string] { return r }

// Numeric reports whether every identifier is an unsigned decimal integer,
// the form [Relations.Ints] accepts.
func (r Relations) Numeric() bool {
	for _, p := range r {
		if !isDenseID(p.Before) || !isDenseID(p.After) {
			return false
		}
	}
	return true
}

// Ints converts the relations to dense integer relations. Identifiers must
// be unsigned decimal integers: "+7" and "-7" fail with
// ErrCodeInvalidRelation, while leading zeros are accepted, so "007" and
// "7" name the same item.
func (r Relations) Ints() ([]toposort.Relation, error) {
	out := make([]toposort.Relation, len(r))
	for i, p := range r {
		before, err := parseDenseID(p.Before)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidRelation, err, "relation %d", i+1)
		}
		after, err := parseDenseID(p.After)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidRelation, err, "relation %d", i+1)
		}
		out[i] = toposort.Relation{Before: before, After: after}
	}
	return out, nil
}

func isDenseID(s string) bool {
	_, err := parseDenseID(s)
	return err == nil
}

func parseDenseID(s string) (int, error) {
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%q is negative", s)
	}
	if strings.HasPrefix(s, "+") {
		return 0, fmt.Errorf("%q must not carry a sign", s)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer identifier", s)
	}
	return n, nil
}

// FormatFromPath picks a relation format from a file extension. Files
// without a recognized extension are read as text.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	}
	return FormatText
}

// ImportRelations reads the relation file at path, choosing the format with
// [FormatFromPath]. A missing file yields ErrCodeFileNotFound.
func ImportRelations(path string) (Relations, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rels, err := ReadRelations(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rels, nil
}

// ReadRelations decodes relations from r in the given format. Every
// identifier is checked with [errs.ValidateIdentifier]. ReadRelations does
// not close r.
func ReadRelations(r io.Reader, format string) (Relations, error) {
	if err := errs.ValidateFormat(format, RelationFormats...); err != nil {
		return nil, err
	}

	var (
		rels Relations
		err  error
	)
	switch format {
	case FormatJSON:
		rels, err = readJSON(r)
	case FormatTOML:
		rels, err = readTOML(r)
	default:
		rels, err = readText(r)
	}
	if err != nil {
		return nil, err
	}

	for i, p := range rels {
		if err := errs.ValidateIdentifier(p.Before); err != nil {
			return nil, fmt.Errorf("relation %d: %w", i+1, err)
		}
		if err := errs.ValidateIdentifier(p.After); err != nil {
			return nil, fmt.Errorf("relation %d: %w", i+1, err)
		}
	}
	return rels, nil
}

func readText(r io.Reader) (Relations, error) {
	var rels Relations
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		switch len(fields) {
		case 0:
			continue
		case 2:
			rels = append(rels, toposort.Pair[string]{Before: fields[0], After: fields[1]})
		default:
			return nil, errs.New(errs.ErrCodeInvalidRelation, "line %d: expected 2 identifiers, got %d", line, len(fields))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "read relations")
	}
	return rels, nil
}

// ident accepts a JSON string or number.
type ident string

func (id *ident) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ident(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("identifier must be a string or a number, got %s", b)
	}
	*id = ident(n.String())
	return nil
}

type jsonRelations struct {
	Relations []struct {
		Before *ident `json:"before"`
		After  *ident `json:"after"`
	} `json:"relations"`
}

func readJSON(r io.Reader) (Relations, error) {
	var data jsonRelations
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode JSON relations")
	}

	rels := make(Relations, 0, len(data.Relations))
	for i, rel := range data.Relations {
		if rel.Before == nil || rel.After == nil {
			return nil, errs.New(errs.ErrCodeInvalidRelation, "relation %d: both before and after are required", i+1)
		}
		rels = append(rels, toposort.Pair[string]{Before: string(*rel.Before), After: string(*rel.After)})
	}
	return rels, nil
}

type tomlRelations struct {
	Relation []struct {
		Before any `toml:"before"`
		After  any `toml:"after"`
	} `toml:"relation"`
}

func readTOML(r io.Reader) (Relations, error) {
	var data tomlRelations
	if _, err := toml.NewDecoder(r).Decode(&data); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode TOML relations")
	}

	rels := make(Relations, 0, len(data.Relation))
	for i, rel := range data.Relation {
		before, err := tomlIdent(rel.Before)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidRelation, err, "relation %d: before", i+1)
		}
		after, err := tomlIdent(rel.After)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidRelation, err, "relation %d: after", i+1)
		}
		rels = append(rels, toposort.Pair[string]{Before: before, After: after})
	}
	return rels, nil
}

func tomlIdent(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case nil:
		return "", fmt.Errorf("missing identifier")
	}
	return "", fmt.Errorf("identifier must be a string or an integer, got %T", v)
}
