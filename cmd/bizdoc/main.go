// Command bizdoc renders small-business documents (invoices, estimates,
// debit notes, receipts, reports) from JSON records and templates.
//
// # Usage
//
//	bizdoc render  [-kind invoice] [-template t.json] [-record r.json] [-o out.pdf]
//	bizdoc preview [-kind invoice] [-template t.json] [-record r.json] [-page 0] [-zoom 4] [-o out.png]
//	bizdoc validate -template t.json
//	bizdoc merge   [-stamp DRAFT] [-numbers] -o out.pdf a.pdf b.pdf ...
//	bizdoc mcp
//
// The mcp subcommand starts an MCP (Model Context Protocol) server on
// stdio exposing the same operations as tools. Configuration for
// Claude Desktop:
//
//	{
//	  "mcpServers": {
//	    "bizdoc": {
//	      "command": "bizdoc",
//	      "args": ["mcp"]
//	    }
//	  }
//	}
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/lvillar/bizdoc"
	"github.com/lvillar/bizdoc/bundle"
	"github.com/lvillar/bizdoc/mcp"
	"github.com/lvillar/bizdoc/record"
	"github.com/lvillar/bizdoc/render"
	"github.com/lvillar/bizdoc/template"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	bizdoc.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	var err error
	switch os.Args[1] {
	case "render":
		err = runRender(os.Args[2:])
	case "preview":
		err = runPreview(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "merge":
		err = runMerge(os.Args[2:])
	case "mcp":
		err = mcp.NewServer().Run()
	case "-h", "-help", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "bizdoc: unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "bizdoc: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: bizdoc <render|preview|validate|merge|mcp> [flags]")
}

// loadInputs resolves the template and record for render/preview from
// their flags, falling back to the built-in default template and the
// sample record for the kind.
func loadInputs(kindName, tplPath, recPath string) (template.Template, *record.Document, error) {
	kind, err := bizdoc.ParseKind(kindName)
	if err != nil {
		return template.Template{}, nil, err
	}

	tpl := template.Default(kind)
	if tplPath != "" {
		data, err := os.ReadFile(tplPath)
		if err != nil {
			return template.Template{}, nil, err
		}
		if tpl, err = template.Import(data); err != nil {
			return template.Template{}, nil, err
		}
	}

	doc := record.Sample(kind)
	if recPath != "" {
		data, err := os.ReadFile(recPath)
		if err != nil {
			return template.Template{}, nil, err
		}
		doc = &record.Document{}
		if err := json.Unmarshal(data, doc); err != nil {
			return template.Template{}, nil, fmt.Errorf("record %s: %w", recPath, err)
		}
		if doc.Kind == "" {
			doc.Kind = kind
		}
	}
	return tpl, doc, nil
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	kind := fs.String("kind", "invoice", "document kind")
	tplPath := fs.String("template", "", "template JSON file (default: built-in)")
	recPath := fs.String("record", "", "record JSON file (default: sample data)")
	out := fs.String("o", "out.pdf", "output file")
	fs.Parse(args)

	tpl, doc, err := loadInputs(*kind, *tplPath, *recPath)
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := render.NewRenderer().PDF(f, tpl, doc); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", *out)
	return nil
}

func runPreview(args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	kind := fs.String("kind", "invoice", "document kind")
	tplPath := fs.String("template", "", "template JSON file (default: built-in)")
	recPath := fs.String("record", "", "record JSON file (default: sample data)")
	page := fs.Int("page", 0, "zero-based page index")
	zoom := fs.Float64("zoom", 4, "raster density in pixels per millimeter")
	out := fs.String("o", "out.png", "output file")
	fs.Parse(args)

	tpl, doc, err := loadInputs(*kind, *tplPath, *recPath)
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := render.NewRenderer().PNG(f, tpl, doc, *page, *zoom); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", *out)
	return nil
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	tplPath := fs.String("template", "", "template JSON file")
	fs.Parse(args)

	if *tplPath == "" {
		return fmt.Errorf("validate: -template is required")
	}
	data, err := os.ReadFile(*tplPath)
	if err != nil {
		return err
	}
	tpl, err := template.Import(data)
	if err != nil {
		return err
	}
	repaired, err := template.Export(tpl)
	if err != nil {
		return err
	}
	os.Stdout.Write(repaired)
	fmt.Println()
	return nil
}

func runMerge(args []string) error {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	stamp := fs.String("stamp", "", "watermark text drawn on every page")
	numbers := fs.Bool("numbers", false, "stamp bundle-wide page numbers")
	out := fs.String("o", "merged.pdf", "output file")
	fs.Parse(args)

	inputs := fs.Args()
	if len(inputs) == 0 {
		return fmt.Errorf("merge: no input files")
	}

	var opts []bundle.Option
	if *stamp != "" {
		opts = append(opts, bundle.WithStamp(bundle.Stamp{Text: *stamp}))
	}
	if *numbers {
		opts = append(opts, bundle.WithPageNumbers(""))
	}

	if err := bundle.MergeFiles(*out, inputs, opts...); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", *out)
	return nil
}
