package casm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// Hint is a parsed hint held in its canonical form: compact JSON. Two hints
// are the same hint exactly when their canonical texts are equal.
type Hint struct {
	raw json.RawMessage
}

// ParseHint parses a JSON hint object into its canonical form.
func ParseHint(data []byte) (Hint, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return Hint{}, fmt.Errorf("invalid hint: %w", err)
	}
	if buf.Len() == 0 || buf.Bytes()[0] != '{' {
		return Hint{}, fmt.Errorf("invalid hint: expected a JSON object, got %s", buf.String())
	}
	return Hint{raw: buf.Bytes()}, nil
}

// Code returns the canonical serialized text of the hint. The hint
// interpreter resolves hints by this text at execution time.
func (h Hint) Code() string {
	return string(h.raw)
}

// Name returns the hint variant, i.e. the single key of the hint object, or
// "" if the hint is not a single-key object.
func (h Hint) Name() string {
	var variants map[string]json.RawMessage
	if err := json.Unmarshal(h.raw, &variants); err != nil || len(variants) != 1 {
		return ""
	}
	for name := range variants {
		return name
	}
	return ""
}

// MarshalJSON returns the canonical form.
func (h Hint) MarshalJSON() ([]byte, error) {
	if len(h.raw) == 0 {
		return []byte("null"), nil
	}
	return h.raw, nil
}

// UnmarshalJSON parses a hint object.
func (h *Hint) UnmarshalJSON(data []byte) error {
	parsed, err := ParseHint(data)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// APTracking tracks the allocation pointer across a hint's scope.
type APTracking struct {
	Group  int `json:"group"`
	Offset int `json:"offset"`
}

// FlowTrackingData is the reference-tracking metadata attached to a program hint.
type FlowTrackingData struct {
	APTracking   APTracking     `json:"ap_tracking"`
	ReferenceIDs map[string]int `json:"reference_ids"`
}

// HintParams is a hint as attached to a program offset.
type HintParams struct {
	Code             string           `json:"code"`
	AccessibleScopes []string         `json:"accessible_scopes"`
	FlowTrackingData FlowTrackingData `json:"flow_tracking_data"`
}

func (p HintParams) clone() HintParams {
	p.AccessibleScopes = slices.Clone(p.AccessibleScopes)
	p.FlowTrackingData.ReferenceIDs = maps.Clone(p.FlowTrackingData.ReferenceIDs)
	return p
}

// cloneHintParams deep-copies a list of program hints.
func cloneHintParams(params []HintParams) []HintParams {
	if params == nil {
		return nil
	}
	out := make([]HintParams, len(params))
	for i, p := range params {
		out[i] = p.clone()
	}
	return out
}

// newHintParams returns the program entry for hint, with empty tracking metadata.
func newHintParams(hint Hint) HintParams {
	return HintParams{
		Code:             hint.Code(),
		AccessibleScopes: []string{},
		FlowTrackingData: FlowTrackingData{
			ReferenceIDs: map[string]int{},
		},
	}
}

// offsetHints is the list of hints attached to one program offset.
type offsetHints struct {
	Offset int
	Hints  []Hint
}

// MarshalJSON encodes the pair [offset, [hint, ...]].
func (o offsetHints) MarshalJSON() ([]byte, error) {
	hints := o.Hints
	if hints == nil {
		hints = []Hint{}
	}
	return json.Marshal([]any{o.Offset, hints})
}

// UnmarshalJSON decodes the pair [offset, [hint, ...]].
func (o *offsetHints) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("hint entry must be an [offset, hints] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &o.Offset); err != nil {
		return fmt.Errorf("hint offset: %w", err)
	}
	return json.Unmarshal(pair[1], &o.Hints)
}

// casmHints is the wire list of hints grouped by program offset. It decodes
// both the CASM pair list and the program map {"offset": [{"code": ...}]}.
type casmHints []offsetHints

func (h casmHints) MarshalJSON() ([]byte, error) {
	if h == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]offsetHints(h))
}

func (h *casmHints) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*h = nil
		return nil
	}
	if data[0] == '[' {
		var pairs []offsetHints
		if err := json.Unmarshal(data, &pairs); err != nil {
			return err
		}
		*h = pairs
		return nil
	}

	var byOffset map[string][]HintParams
	if err := json.Unmarshal(data, &byOffset); err != nil {
		return err
	}
	out := make(casmHints, 0, len(byOffset))
	for key, params := range byOffset {
		offset, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("hint offset %q: %w", key, err)
		}
		entry := offsetHints{Offset: offset, Hints: make([]Hint, 0, len(params))}
		for _, p := range params {
			hint, err := ParseHint([]byte(p.Code))
			if err != nil {
				return fmt.Errorf("hint at offset %d: %w", offset, err)
			}
			entry.Hints = append(entry.Hints, hint)
		}
		out = append(out, entry)
	}
	slices.SortFunc(out, func(a, b offsetHints) int { return a.Offset - b.Offset })
	*h = out
	return nil
}

// hintTable is the decoded form of a class's hints: the per-offset program
// entries plus the reverse lookaside from canonical text to parsed hint.
type hintTable struct {
	byOffset map[int][]HintParams
	byCode   map[string]Hint
}

// newHintTable builds the program entries and lookaside from the wire hints.
func newHintTable(wire casmHints) (*hintTable, error) {
	t := &hintTable{
		byOffset: make(map[int][]HintParams, len(wire)),
		byCode:   make(map[string]Hint),
	}
	for _, entry := range wire {
		if entry.Offset < 0 {
			return nil, fmt.Errorf("negative hint offset %d", entry.Offset)
		}
		if _, exists := t.byOffset[entry.Offset]; exists {
			return nil, fmt.Errorf("duplicate hints for offset %d", entry.Offset)
		}
		params := make([]HintParams, 0, len(entry.Hints))
		for _, hint := range entry.Hints {
			if len(hint.raw) == 0 {
				return nil, errors.New("empty hint")
			}
			params = append(params, newHintParams(hint))
			t.byCode[hint.Code()] = hint
		}
		t.byOffset[entry.Offset] = params
	}
	return t, nil
}

// count returns the number of hint occurrences in the program.
func (t *hintTable) count() int {
	n := 0
	for _, params := range t.byOffset {
		n += len(params)
	}
	return n
}

// wire regroups the program hints by offset, resolving each hint through the
// lookaside by its canonical text.
func (t *hintTable) wire() (casmHints, error) {
	offsets := slices.Sorted(maps.Keys(t.byOffset))
	out := make(casmHints, 0, len(offsets))
	for _, offset := range offsets {
		entry := offsetHints{Offset: offset, Hints: make([]Hint, 0, len(t.byOffset[offset]))}
		for _, params := range t.byOffset[offset] {
			hint, ok := t.byCode[params.Code]
			if !ok {
				return nil, &HintNotFoundError{Offset: offset, Code: params.Code}
			}
			entry.Hints = append(entry.Hints, hint)
		}
		out = append(out, entry)
	}
	return out, nil
}
