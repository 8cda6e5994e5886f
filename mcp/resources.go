package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lvillar/bizdoc"
	"github.com/lvillar/bizdoc/record"
	"github.com/lvillar/bizdoc/template"
)

// registerResources exposes the built-in templates, presets, and
// sample records as MCP resources.
func registerResources(s *Server) {
	for _, kind := range bizdoc.Kinds() {
		kind := kind
		s.AddResource(Resource{
			URI:         fmt.Sprintf("bizdoc://templates/default/%s", kind),
			Name:        fmt.Sprintf("Default %s template", kind),
			Description: fmt.Sprintf("Built-in %s template as importable JSON", kind),
			MIMEType:    "application/json",
			Handler: func(uri string) ([]ResourceContent, error) {
				data, err := template.Export(template.Default(kind))
				if err != nil {
					return nil, err
				}
				return []ResourceContent{{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				}}, nil
			},
		})

		s.AddResource(Resource{
			URI:         fmt.Sprintf("bizdoc://samples/%s", kind),
			Name:        fmt.Sprintf("Sample %s record", kind),
			Description: fmt.Sprintf("Example %s record in the shape the render tools accept", kind),
			MIMEType:    "application/json",
			Handler: func(uri string) ([]ResourceContent, error) {
				data, err := json.MarshalIndent(record.Sample(kind), "", "  ")
				if err != nil {
					return nil, err
				}
				return []ResourceContent{{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				}}, nil
			},
		})
	}

	s.AddResource(Resource{
		URI:         "bizdoc://presets",
		Name:        "Style presets",
		Description: "Names of the template style presets accepted by apply_preset",
		MIMEType:    "text/plain",
		Handler: func(uri string) ([]ResourceContent, error) {
			return []ResourceContent{{
				URI:      uri,
				MIMEType: "text/plain",
				Text:     strings.Join(template.PresetNames(), "\n"),
			}}, nil
		},
	})
}
