package db

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// encodeIssues stores the label list as a JSON array. A nil list is
// stored as [] so reads always decode to a slice.
func encodeIssues(issues []string) (string, error) {
	if issues == nil {
		issues = []string{}
	}
	b, err := json.Marshal(issues)
	if err != nil {
		return "", errors.Wrap(err, "encode issues")
	}
	return string(b), nil
}

func decodeIssues(raw string) ([]string, error) {
	issues := []string{}
	if err := json.Unmarshal([]byte(raw), &issues); err != nil {
		return nil, errors.Wrapf(ErrCorruptIssues, "decode %q: %v", raw, err)
	}
	if issues == nil {
		issues = []string{}
	}
	return issues, nil
}
