package model

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

var schemaLoader = gojsonschema.NewStringLoader(schemaJSON)

// ErrInvalidDocument reports a payload that does not match the resume schema.
var ErrInvalidDocument = errors.New("invalid resume document")

// ValidateJSON checks a raw resume payload against the embedded schema and
// the id invariants the schema cannot express.
func ValidateJSON(raw []byte) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
	}
	return nil
}

// Validate enforces that every list entity has an id unique within its list.
func (r Resume) Validate() error {
	if err := uniqueIDs("education", len(r.Education), func(i int) string { return r.Education[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("experience", len(r.Experience), func(i int) string { return r.Experience[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("skills", len(r.Skills), func(i int) string { return r.Skills[i].ID }); err != nil {
		return err
	}
	return uniqueIDs("projects", len(r.Projects), func(i int) string { return r.Projects[i].ID })
}

func uniqueIDs(section string, n int, idAt func(int) string) error {
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := strings.TrimSpace(idAt(i))
		if id == "" {
			return fmt.Errorf("%w: %s[%d].id is required", ErrInvalidDocument, section, i)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %s[%d].id %q is duplicated", ErrInvalidDocument, section, i, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
