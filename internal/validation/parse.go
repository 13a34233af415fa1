package validation

import (
	"encoding/json"
	"errors"
	"fmt"

	"sigs.k8s.io/yaml"

	"github.com/imamik/cliquenet/internal/network"
)

// Parse decodes a network document (JSON or YAML) and checks its shape. It returns
// either a network or the list of structural errors, never both. Topology rules are
// checked separately by Validate once the registry is known.
func Parse(data []byte) (*network.Network, Errors) {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, Errors{invalid("body", "document is not valid JSON or YAML: %v", err)}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(jsonData, &raw); err != nil {
		return nil, Errors{invalid("body", "document must be an object")}
	}

	var n network.Network
	if err := json.Unmarshal(jsonData, &n); err != nil {
		return nil, Errors{decodeError(err)}
	}

	var errs Errors
	if _, ok := raw["id"]; !ok {
		errs = append(errs, invalid("id", "field is required"))
	}
	if _, ok := raw["chainId"]; !ok {
		errs = append(errs, invalid("chainId", "field is required"))
	}
	if _, ok := raw["subnet"]; !ok {
		errs = append(errs, invalid("subnet", "field is required"))
	}
	if _, ok := raw["bootNodeIP"]; !ok {
		if _, legacy := raw["ipBootNode"]; !legacy {
			errs = append(errs, invalid("bootNodeIP", "field is required"))
		}
	}
	if n.Nodes == nil {
		errs = append(errs, invalid("nodes", "field is required and must be a list"))
	}
	if len(errs) > 0 {
		return nil, errs
	}

	if n.Allocations == nil {
		n.Allocations = []network.Allocation{}
	}
	return &n, nil
}

// ParseNode decodes a single node document.
func ParseNode(data []byte) (*network.Node, Errors) {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, Errors{invalid("body", "document is not valid JSON or YAML: %v", err)}
	}
	var node network.Node
	if err := json.Unmarshal(jsonData, &node); err != nil {
		return nil, Errors{decodeError(err)}
	}
	return &node, nil
}

func decodeError(err error) ValidationError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return invalid(field, "expected %s, got %s", typeErr.Type, typeErr.Value)
	}
	return ValidationError{Field: "body", Message: fmt.Sprintf("cannot decode document: %v", err), Kind: KindInvalid}
}
