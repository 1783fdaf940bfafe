package runstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"
)

// Format is a snapshot encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatProto Format = "proto"
)

// Formats lists the supported snapshot encodings.
var Formats = []Format{FormatJSON, FormatYAML, FormatProto}

// ParseFormat maps a flag value to a Format. "yml" and "pb" are accepted aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "proto", "pb":
		return FormatProto, nil
	}
	return "", fmt.Errorf("unknown snapshot format %q (valid: json, yaml, proto)", s)
}

// Ext is the file extension written for f.
func (f Format) Ext() string {
	if f == FormatProto {
		return "pb"
	}
	return string(f)
}

// EncodeSnapshot serializes rec. The proto form is a google.protobuf.Struct
// holding the same fields as the JSON form.
func EncodeSnapshot(rec *RunRecord, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(rec, "", "  ")
	case FormatYAML:
		return yaml.Marshal(rec)
	case FormatProto:
		st, err := toStruct(rec)
		if err != nil {
			return nil, err
		}
		return proto.Marshal(st)
	}
	return nil, fmt.Errorf("unknown snapshot format %q", format)
}

// DecodeProtoSnapshot reverses EncodeSnapshot(rec, FormatProto).
func DecodeProtoSnapshot(data []byte) (*RunRecord, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decoding proto snapshot: %w", err)
	}
	raw, err := json.Marshal(st.AsMap())
	if err != nil {
		return nil, fmt.Errorf("decoding proto snapshot: %w", err)
	}
	var rec RunRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decoding proto snapshot: %w", err)
	}
	return &rec, nil
}

func toStruct(rec *RunRecord) (*structpb.Struct, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding proto snapshot: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("encoding proto snapshot: %w", err)
	}
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("encoding proto snapshot: %w", err)
	}
	return st, nil
}

// WriteSnapshot writes rec to dir as <scenario>-<run>.<ext> and returns the path.
func WriteSnapshot(dir string, rec *RunRecord, format Format) (string, error) {
	if strings.ContainsAny(rec.ScenarioID, `/\`) {
		return "", fmt.Errorf("scenario id %q must not contain path separators", rec.ScenarioID)
	}
	data, err := EncodeSnapshot(rec, format)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating snapshot dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.%s", rec.ScenarioID, rec.ID, format.Ext()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	return path, nil
}
