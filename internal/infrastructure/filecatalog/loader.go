package filecatalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"ShoppingAssistant/internal/catalog"
	"ShoppingAssistant/internal/domain"
)

// Loader reads catalog exports from disk. JSON and YAML are accepted,
// either as a bare array or as {"products": [...]}.
type Loader struct{}

var _ catalog.Loader = Loader{}

// Name identifies the strategy inside the registry.
func (Loader) Name() string {
	return "file"
}

// Load reads req.Location. The "format" option forces json or yaml;
// otherwise the file extension decides.
func (Loader) Load(ctx context.Context, req catalog.Request) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(req.Location)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", req.Location, err)
	}

	format := strings.ToLower(req.Options["format"])
	if format == "" {
		format = formatOf(req.Location)
	}

	products, err := Decode(raw, format)
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", req.Location, err)
	}
	return products, nil
}

// Decode parses a catalog document in the given format ("json" or "yaml").
func Decode(raw []byte, format string) ([]domain.Product, error) {
	switch format {
	case "json":
		return decodeJSON(raw)
	case "yaml", "yml":
		return decodeYAML(raw)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
}

type envelope struct {
	Products []domain.Product `json:"products" yaml:"products"`
}

func decodeJSON(raw []byte) ([]domain.Product, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var doc envelope
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, err
		}
		return doc.Products, nil
	}

	var products []domain.Product
	if err := json.Unmarshal(trimmed, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func decodeYAML(raw []byte) ([]domain.Product, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	if root.Kind == yaml.MappingNode {
		var doc envelope
		if err := root.Decode(&doc); err != nil {
			return nil, err
		}
		return doc.Products, nil
	}

	var products []domain.Product
	if err := root.Decode(&products); err != nil {
		return nil, err
	}
	return products, nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
