package io

import (
	"encoding/json"
	"fmt"
	"io"

	errs "github.com/matzehuels/toposort/pkg/errors"
	"github.com/matzehuels/toposort/pkg/toposort"
)

// OrderFormats lists the formats accepted by [WriteOrder].
var OrderFormats = []string{FormatText, FormatJSON}

type order[T comparable] struct {
	Order     []T  `json:"order"`
	Remaining []T  `json:"remaining"`
	Complete  bool `json:"complete"`
}

// WriteOrder writes res to w. The text format prints the ordered
// identifiers one per line and leaves out the remaining items; the JSON
// format includes both lists and a completeness flag.
func WriteOrder[T comparable](w io.Writer, res toposort.Result[T], format string) error {
	if err := errs.ValidateFormat(format, OrderFormats...); err != nil {
		return err
	}

	if format == FormatText {
		for _, id := range res.Order {
			if _, err := fmt.Fprintln(w, id); err != nil {
				return err
			}
		}
		return nil
	}

	out := order[T]{Order: res.Order, Remaining: res.Remaining, Complete: res.Complete()}
	if out.Order == nil {
		out.Order = []T{}
	}
	if out.Remaining == nil {
		out.Remaining = []T{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
