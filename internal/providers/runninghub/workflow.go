package runninghub

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Default node ids used when a workflow descriptor does not map a field.
// These match the upstream reference workflow layout.
const (
	defaultTextNodeID = "6"
	defaultSeedNodeID = "3"
)

// NodeAssignment binds one input value to an addressable node inside a
// remote workflow.
type NodeAssignment struct {
	NodeID     string `json:"nodeId"`
	FieldName  string `json:"fieldName"`
	FieldValue any    `json:"fieldValue"`
}

// WorkflowConfig is the per-workflow descriptor declaring which node accepts
// which input field. It is supplied externally as JSON and never mutated.
type WorkflowConfig struct {
	NodeInfoList []NodeAssignment `json:"nodeInfoList"`
}

// LoadWorkflowConfig reads a workflow descriptor from disk. A missing file
// yields an empty config so defaults apply; a malformed file is an error.
func LoadWorkflowConfig(path string) (WorkflowConfig, error) {
	var cfg WorkflowConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("runninghub: read workflow config: %w", err)
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("runninghub: parse workflow config: %w", err)
	}
	return cfg, nil
}

// NodeFor returns the node id mapped to fieldName, if any.
func (c WorkflowConfig) NodeFor(fieldName string) (string, bool) {
	for _, n := range c.NodeInfoList {
		if n.FieldName == fieldName && strings.TrimSpace(n.NodeID) != "" {
			return n.NodeID, true
		}
	}
	return "", false
}

// DefaultNodeID returns the documented fallback node id for fields that have
// one. Fields without a default (such as the reference image input) must be
// present in the descriptor.
func DefaultNodeID(fieldName string) (string, bool) {
	switch fieldName {
	case "text":
		return defaultTextNodeID, true
	case "seed":
		return defaultSeedNodeID, true
	default:
		return "", false
	}
}
