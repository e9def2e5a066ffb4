package rotation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"craftsim.ai/internal/protocol"
)

// LoadFile reads rotation requests from a .yaml, .yml or .json file. The
// file holds one request object or a list of them. "type" and
// "protocol_version" may be left out.
func LoadFile(path string) ([]protocol.RotationRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(path)

	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("%s: %w", name, protocol.Wrap(protocol.ErrBadRequest, err, "yaml"))
		}
	case ".json":
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("%s: %w", name, protocol.Wrap(protocol.ErrBadRequest, err, "json"))
		}
	default:
		return nil, fmt.Errorf("%s: unsupported rotation file extension", name)
	}
	reqs, err := decodeDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return reqs, nil
}

// ParseYAML decodes rotation requests from YAML bytes.
func ParseYAML(raw []byte) ([]protocol.RotationRequest, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, protocol.Wrap(protocol.ErrBadRequest, err, "yaml")
	}
	return decodeDocument(doc)
}

func decodeDocument(doc any) ([]protocol.RotationRequest, error) {
	var items []any
	switch v := doc.(type) {
	case []any:
		items = v
	case map[string]any:
		items = []any{v}
	default:
		return nil, protocol.Errorf(protocol.ErrBadRequest, "expected a rotation object or a list of them")
	}

	out := make([]protocol.RotationRequest, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, protocol.Errorf(protocol.ErrBadRequest, "rotations[%d]: not an object", i)
		}
		if _, ok := m["type"]; !ok {
			m["type"] = protocol.TypeRotation
		}
		if _, ok := m["protocol_version"]; !ok {
			m["protocol_version"] = protocol.Version
		}
		raw, err := json.Marshal(m)
		if err != nil {
			return nil, protocol.Wrap(protocol.ErrBadRequest, err, fmt.Sprintf("rotations[%d]", i))
		}
		req, err := protocol.DecodeRotation(raw)
		if err != nil {
			return nil, fmt.Errorf("rotations[%d]: %w", i, err)
		}
		out = append(out, req)
	}
	return out, nil
}
