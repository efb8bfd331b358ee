package classification

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Decode parses classifier output.
//
// The document is either a single Result object or a JSON array of them (a
// batch). Decoding is strict: unknown fields and trailing data are rejected.
func Decode(b []byte) ([]Result, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidClassification)
	}

	var out []Result
	if trimmed[0] == '[' {
		if err := decodeStrict(trimmed, &out); err != nil {
			return nil, err
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("%w: empty batch", ErrInvalidClassification)
		}
	} else {
		var r Result
		if err := decodeStrict(trimmed, &r); err != nil {
			return nil, err
		}
		out = []Result{r}
	}

	for i := range out {
		if out[i].Dimensions == nil {
			return nil, fmt.Errorf("%w: item %d: dimensions is required", ErrInvalidClassification, i)
		}
	}
	return out, nil
}

// DecodeFile reads and decodes the classifier output at path.
func DecodeFile(path string) ([]Result, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read classification: %w", err)
	}
	return Decode(b)
}

func decodeStrict(b []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidClassification, err)
	}
	// Ensure no trailing junk.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing content", ErrInvalidClassification)
	}
	return nil
}
