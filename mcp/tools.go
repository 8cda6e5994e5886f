package mcp

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lvillar/bizdoc"
	"github.com/lvillar/bizdoc/bundle"
	"github.com/lvillar/bizdoc/record"
	"github.com/lvillar/bizdoc/render"
	"github.com/lvillar/bizdoc/template"
)

// registerTools wires the document tool set into the server.
func registerTools(s *Server) {
	s.AddTool(Tool{
		Name:        "render_document",
		Description: "Render a business document (invoice, estimate, debit note, receipt, report) to PDF. Uses the built-in template and a sample record unless overridden.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"kind": map[string]interface{}{
					"type":        "string",
					"description": "Document kind: invoice, estimate, debit_note, receipt, or report (default: invoice)",
				},
				"template": map[string]interface{}{
					"type":        "object",
					"description": "Template JSON as produced by export_template (optional)",
				},
				"record": map[string]interface{}{
					"type":        "object",
					"description": "Document record with party and items (optional; a sample record is used when omitted)",
				},
			},
		},
		Handler: handleRenderDocument,
	})

	s.AddTool(Tool{
		Name:        "preview_page",
		Description: "Rasterize one page of a rendered document to a PNG preview.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"kind": map[string]interface{}{
					"type":        "string",
					"description": "Document kind (default: invoice)",
				},
				"template": map[string]interface{}{
					"type":        "object",
					"description": "Template JSON (optional)",
				},
				"record": map[string]interface{}{
					"type":        "object",
					"description": "Document record (optional)",
				},
				"page": map[string]interface{}{
					"type":        "number",
					"description": "Zero-based page index (default: 0)",
				},
				"zoom": map[string]interface{}{
					"type":        "number",
					"description": "Raster density in pixels per millimeter (default: 4)",
				},
			},
		},
		Handler: handlePreviewPage,
	})

	s.AddTool(Tool{
		Name:        "validate_template",
		Description: "Validate and repair a template payload. Returns the repaired template JSON, or an error when the payload is not a template at all.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"template": map[string]interface{}{
					"type":        "object",
					"description": "Template JSON to validate",
				},
			},
			"required": []string{"template"},
		},
		Handler: handleValidateTemplate,
	})

	s.AddTool(Tool{
		Name:        "apply_preset",
		Description: "Apply a named style preset to a template and return the restyled template JSON.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"preset": map[string]interface{}{
					"type":        "string",
					"description": "Preset name; see list_presets",
				},
				"kind": map[string]interface{}{
					"type":        "string",
					"description": "Document kind whose default template to restyle (default: invoice)",
				},
				"template": map[string]interface{}{
					"type":        "object",
					"description": "Template JSON to restyle instead of a default (optional)",
				},
			},
			"required": []string{"preset"},
		},
		Handler: handleApplyPreset,
	})

	s.AddTool(Tool{
		Name:        "list_presets",
		Description: "List the available template style presets.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Handler: handleListPresets,
	})

	s.AddTool(Tool{
		Name:        "compute_totals",
		Description: "Compute the subtotal, discount, tax-inclusive GST, and grand total of a document record.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"record": map[string]interface{}{
					"type":        "object",
					"description": "Document record with items",
				},
			},
			"required": []string{"record"},
		},
		Handler: handleComputeTotals,
	})

	s.AddTool(Tool{
		Name:        "merge_documents",
		Description: "Merge several rendered PDFs (base64) into one, optionally stamping watermark text across every page.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"documents": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Base64-encoded PDFs, merged in order",
				},
				"stamp": map[string]interface{}{
					"type":        "string",
					"description": "Watermark text drawn diagonally on every page (optional)",
				},
				"page_numbers": map[string]interface{}{
					"type":        "boolean",
					"description": "Stamp bundle-wide page numbers (default: false)",
				},
			},
			"required": []string{"documents"},
		},
		Handler: handleMergeDocuments,
	})
}

// argKind reads the kind argument, defaulting to invoice.
func argKind(args map[string]interface{}) (bizdoc.DocKind, error) {
	raw, ok := args["kind"].(string)
	if !ok || raw == "" {
		return bizdoc.KindInvoice, nil
	}
	kind, err := bizdoc.ParseKind(raw)
	if err != nil {
		return "", fmt.Errorf("kind: %w", err)
	}
	return kind, nil
}

// argTemplate reads the template argument, falling back to the
// built-in default for the kind.
func argTemplate(args map[string]interface{}, kind bizdoc.DocKind) (template.Template, error) {
	raw, ok := args["template"]
	if !ok || raw == nil {
		return template.Default(kind), nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return template.Template{}, fmt.Errorf("template: %w", err)
	}
	return template.Import(data)
}

// argRecord reads the record argument, falling back to the sample
// record for the kind.
func argRecord(args map[string]interface{}, kind bizdoc.DocKind) (*record.Document, error) {
	raw, ok := args["record"]
	if !ok || raw == nil {
		return record.Sample(kind), nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	var doc record.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	if doc.Kind == "" {
		doc.Kind = kind
	}
	return &doc, nil
}

func handleRenderDocument(args map[string]interface{}) (ToolResult, error) {
	kind, err := argKind(args)
	if err != nil {
		return ToolResult{}, err
	}
	tpl, err := argTemplate(args, kind)
	if err != nil {
		return ToolResult{}, err
	}
	doc, err := argRecord(args, kind)
	if err != nil {
		return ToolResult{}, err
	}

	var buf bytes.Buffer
	if err := render.NewRenderer().PDF(&buf, tpl, doc); err != nil {
		return ToolResult{}, err
	}
	return ToolResult{
		Content: []ContentBlock{
			{
				Type: "text",
				Text: fmt.Sprintf("Rendered %s %s (%d bytes)", kind, doc.Number, buf.Len()),
			},
			{
				Type:     "resource",
				MIMEType: "application/pdf",
				Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
			},
		},
	}, nil
}

func handlePreviewPage(args map[string]interface{}) (ToolResult, error) {
	kind, err := argKind(args)
	if err != nil {
		return ToolResult{}, err
	}
	tpl, err := argTemplate(args, kind)
	if err != nil {
		return ToolResult{}, err
	}
	doc, err := argRecord(args, kind)
	if err != nil {
		return ToolResult{}, err
	}

	page := 0
	if p, ok := args["page"].(float64); ok && p >= 0 {
		page = int(p)
	}
	zoom := 4.0
	if z, ok := args["zoom"].(float64); ok && z > 0 {
		zoom = z
	}

	var buf bytes.Buffer
	if err := render.NewRenderer().PNG(&buf, tpl, doc, page, zoom); err != nil {
		return ToolResult{}, err
	}
	return ToolResult{
		Content: []ContentBlock{{
			Type:     "resource",
			MIMEType: "image/png",
			Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
		}},
	}, nil
}

func handleValidateTemplate(args map[string]interface{}) (ToolResult, error) {
	raw, ok := args["template"]
	if !ok {
		return ToolResult{}, fmt.Errorf("template argument is required")
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return ToolResult{}, err
	}
	tpl, err := template.Import(data)
	if err != nil {
		return ToolResult{}, err
	}
	out, err := template.Export(tpl)
	if err != nil {
		return ToolResult{}, err
	}
	return ToolResult{
		Content: []ContentBlock{{Type: "text", Text: string(out)}},
	}, nil
}

func handleApplyPreset(args map[string]interface{}) (ToolResult, error) {
	name, _ := args["preset"].(string)
	kind, err := argKind(args)
	if err != nil {
		return ToolResult{}, err
	}
	tpl, err := argTemplate(args, kind)
	if err != nil {
		return ToolResult{}, err
	}
	styled, err := template.ApplyPreset(tpl, name)
	if err != nil {
		return ToolResult{}, err
	}
	out, err := template.Export(styled)
	if err != nil {
		return ToolResult{}, err
	}
	return ToolResult{
		Content: []ContentBlock{{Type: "text", Text: string(out)}},
	}, nil
}

func handleListPresets(map[string]interface{}) (ToolResult, error) {
	return ToolResult{
		Content: []ContentBlock{{
			Type: "text",
			Text: strings.Join(template.PresetNames(), "\n"),
		}},
	}, nil
}

func handleComputeTotals(args map[string]interface{}) (ToolResult, error) {
	doc, err := argRecord(args, bizdoc.KindInvoice)
	if err != nil {
		return ToolResult{}, err
	}
	if err := doc.Validate(); err != nil {
		return ToolResult{}, err
	}
	tot := doc.ComputeTotals()

	var result strings.Builder
	fmt.Fprintf(&result, "Subtotal: %s\n", record.FormatMoney(tot.Subtotal))
	if !tot.Discount.IsZero() {
		fmt.Fprintf(&result, "Discount: %s\n", record.FormatMoney(tot.Discount))
	}
	fmt.Fprintf(&result, "GST (incl.): %s\n", record.FormatMoney(tot.Tax))
	fmt.Fprintf(&result, "Grand Total: %s\n", record.FormatMoney(tot.Grand))
	fmt.Fprintf(&result, "In words: %s", record.AmountInWords(tot.Grand))

	return ToolResult{
		Content: []ContentBlock{{Type: "text", Text: result.String()}},
	}, nil
}

func handleMergeDocuments(args map[string]interface{}) (ToolResult, error) {
	rawDocs, ok := args["documents"].([]interface{})
	if !ok || len(rawDocs) == 0 {
		return ToolResult{}, fmt.Errorf("documents argument is required")
	}

	var opts []bundle.Option
	if stamp, ok := args["stamp"].(string); ok && stamp != "" {
		opts = append(opts, bundle.WithStamp(bundle.Stamp{Text: stamp}))
	}
	if on, ok := args["page_numbers"].(bool); ok && on {
		opts = append(opts, bundle.WithPageNumbers(""))
	}

	b := bundle.New(opts...)
	for i, raw := range rawDocs {
		s, ok := raw.(string)
		if !ok {
			return ToolResult{}, fmt.Errorf("document %d: not a base64 string", i+1)
		}
		data, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return ToolResult{}, fmt.Errorf("document %d: %w", i+1, err)
		}
		if err := b.Append(bytes.NewReader(data)); err != nil {
			return ToolResult{}, fmt.Errorf("document %d: %w", i+1, err)
		}
	}

	var out bytes.Buffer
	if err := b.Output(&out); err != nil {
		return ToolResult{}, err
	}
	return ToolResult{
		Content: []ContentBlock{
			{
				Type: "text",
				Text: fmt.Sprintf("Merged %d documents into %d pages (%d bytes)",
					len(rawDocs), b.Pages(), out.Len()),
			},
			{
				Type:     "resource",
				MIMEType: "application/pdf",
				Data:     base64.StdEncoding.EncodeToString(out.Bytes()),
			},
		},
	}, nil
}
