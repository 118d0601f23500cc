package vp9

import "encoding/json"

// MarshalRecord serializes f using the plain JSON rendering of its
// exported fields. The record schema language and its generated accessors
// are out of scope for this bridge (§6.1), so the CLI tools round-trip the
// in-memory Record through the lowest-ceremony format the standard
// library offers rather than standing up a schema/codegen toolchain this
// module has no other use for.
func MarshalRecord(f *Frame) ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

// UnmarshalRecord parses the JSON rendering produced by MarshalRecord back
// into a Frame.
func UnmarshalRecord(data []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
