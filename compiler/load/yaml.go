package load

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAML schema files describe records without Go source:
//
//	package: models
//	imports:
//	  uuid: github.com/google/uuid
//	records:
//	  - name: User
//	    shape: module
//	    annotations:
//	      - table_name: users
//	      - primary_key: [id]
//	    fields:
//	      - name: id
//	        type: uint64
//	      - name: name
//	        type: "*string"
//	        annotations: [nullable, {type: String(255)}]
//
// Annotation lists hold bare flags or single-key maps. A mapping is accepted
// too, in which case a null value marks a flag.
type (
	yamlFile struct {
		Package string            `yaml:"package"`
		Imports map[string]string `yaml:"imports"`
		Records []*yamlRecord     `yaml:"records"`
	}

	yamlRecord struct {
		Name        string         `yaml:"name"`
		Shape       string         `yaml:"shape"`
		Package     string         `yaml:"package"`
		Annotations annotationList `yaml:"annotations"`
		Fields      []*yamlField   `yaml:"fields"`
		line        int
	}

	yamlField struct {
		Name        string         `yaml:"name"`
		Type        string         `yaml:"type"`
		Annotations annotationList `yaml:"annotations"`
		line        int
	}

	annotationList []*Annotation
)

// UnmarshalYAML implements yaml.Unmarshaler for yamlRecord.
func (r *yamlRecord) UnmarshalYAML(node *yaml.Node) error {
	type plain yamlRecord
	if err := node.Decode((*plain)(r)); err != nil {
		return err
	}
	r.line = node.Line
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler for yamlField.
func (f *yamlField) UnmarshalYAML(node *yaml.Node) error {
	type plain yamlField
	if err := node.Decode((*plain)(f)); err != nil {
		return err
	}
	f.line = node.Line
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler for annotationList.
func (l *annotationList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		for _, item := range node.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				*l = append(*l, newAnnotation(item.Value, nil))
			case yaml.MappingNode:
				if len(item.Content) != 2 {
					return fmt.Errorf("line %d: annotation must have a single key", item.Line)
				}
				a, err := yamlAnnotation(item.Content[0], item.Content[1])
				if err != nil {
					return err
				}
				*l = append(*l, a)
			default:
				return fmt.Errorf("line %d: expected flag or key/value annotation", item.Line)
			}
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			a, err := yamlAnnotation(node.Content[i], node.Content[i+1])
			if err != nil {
				return err
			}
			*l = append(*l, a)
		}
	case yaml.ScalarNode:
		if node.ShortTag() != "!!null" {
			*l = append(*l, newAnnotation(node.Value, nil))
		}
	default:
		return fmt.Errorf("line %d: expected list or map of annotations, got %v", node.Line, node.Kind)
	}
	return nil
}

func yamlAnnotation(key, value *yaml.Node) (*Annotation, error) {
	if key.Kind != yaml.ScalarNode || key.Value == "" {
		return nil, fmt.Errorf("line %d: invalid annotation key", key.Line)
	}
	return newAnnotation(key.Value, yamlLiteral(value)), nil
}

// yamlLiteral converts a value node into a literal. The resolved YAML tag
// selects the literal kind; null values are flags.
func yamlLiteral(node *yaml.Node) *Literal {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			return nil
		case "!!str":
			return &Literal{Kind: LitString, Value: node.Value}
		case "!!int":
			return &Literal{Kind: LitInt, Value: node.Value}
		case "!!float":
			return &Literal{Kind: LitFloat, Value: node.Value}
		case "!!bool":
			return &Literal{Kind: LitBool, Value: node.Value}
		default:
			return &Literal{Kind: LitOther, Value: node.Value}
		}
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return &Literal{Kind: LitOther}
			}
			items = append(items, item.Value)
		}
		return ListLit(items...)
	default:
		return &Literal{Kind: LitOther}
	}
}

// ParseYAML parses a YAML schema file. If src is nil, the file is read from
// filename.
func ParseYAML(filename string, src []byte) ([]*Record, error) {
	if src == nil {
		b, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("load: read schema: %w", err)
		}
		src = b
	}
	var f yamlFile
	if err := yaml.Unmarshal(src, &f); err != nil {
		return nil, fmt.Errorf("load: parse %s: %w", filename, err)
	}
	records := make([]*Record, 0, len(f.Records))
	for _, yr := range f.Records {
		if strings.TrimSpace(yr.Name) == "" {
			return nil, fmt.Errorf("load: %s:%d: record name is required", filename, yr.line)
		}
		shape, err := ParseShape(yr.Shape)
		if err != nil {
			return nil, fmt.Errorf("%w (%s:%d)", err, filename, yr.line)
		}
		r := &Record{
			Name:        yr.Name,
			Pos:         fmt.Sprintf("%s:%d", filename, yr.line),
			Shape:       shape,
			Package:     yr.Package,
			Dir:         sourceDir(filename),
			Imports:     f.Imports,
			Annotations: yr.Annotations,
		}
		if r.Package == "" {
			r.Package = f.Package
		}
		if r.Package == "" {
			r.Package = filepath.Base(filepath.Dir(filename))
		}
		for _, yf := range yr.Fields {
			if yf.Name == "" || yf.Type == "" {
				return nil, fmt.Errorf("load: %s:%d: record %s: field name and type are required", filename, yf.line, yr.Name)
			}
			r.Fields = append(r.Fields, &Field{
				Name:        yf.Name,
				Type:        yf.Type,
				Pos:         fmt.Sprintf("%s:%d", filename, yf.line),
				Annotations: yf.Annotations,
			})
		}
		records = append(records, r)
	}
	return records, nil
}
