// Command docgen-cli fills a document template from the terminal: it loads a
// catalog, prompts for each field, validates the values, and writes the
// rendered document as text, HTML, or an exported PDF/DOCX.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/goliatone/go-docgen/pkg/catalog"
	"github.com/goliatone/go-docgen/pkg/export"
	"github.com/goliatone/go-docgen/pkg/preview"
	"github.com/goliatone/go-docgen/pkg/prompt"
	"github.com/goliatone/go-docgen/pkg/session"
)

func main() {
	templateID := flag.String("template", "", "template id to fill (lists templates when empty)")
	catalogDir := flag.String("catalog", "", "directory of template files (built-in catalog if empty)")
	output := flag.String("output", "", "output file (stdout if empty)")
	format := flag.String("format", "text", "output format: text, html, pdf, docx")
	apiURL := flag.String("api-url", os.Getenv("API_URL"), "backend API base URL (required for pdf/docx)")
	token := flag.String("token", os.Getenv("API_TOKEN"), "bearer token for the backend API")
	flag.Parse()

	ctx := context.Background()

	cat, err := loadCatalog(*catalogDir)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	if strings.TrimSpace(*templateID) == "" {
		listTemplates(cat)
		return
	}

	tpl, ok := cat.Get(*templateID)
	if !ok {
		log.Fatalf("Unknown template %q; run without -template to list", *templateID)
	}

	sess, err := session.New(tpl)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	if err := prompt.Fill(ctx, prompt.NewSurveyDriver(), sess); err != nil {
		if errors.Is(err, prompt.ErrInterrupted) {
			os.Exit(1)
		}
		log.Fatalf("Failed to collect values: %v", err)
	}

	data, name, err := produce(ctx, sess, *format, *apiURL, *token)
	if err != nil {
		log.Fatalf("Failed to produce document: %v", err)
	}

	if *output != "" {
		name = *output
	}
	if name == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
	fmt.Printf("Document written to %s\n", name)
}

func produce(ctx context.Context, sess *session.Session, format, apiURL, token string) ([]byte, string, error) {
	switch format {
	case "text":
		return []byte(sess.Render()), "", nil
	case "html":
		html, err := preview.HTML(sess.Template(), sess.Values())
		if err != nil {
			return nil, "", err
		}
		return html, sess.Template().ID + ".html", nil
	case "pdf", "docx":
		if strings.TrimSpace(apiURL) == "" {
			return nil, "", fmt.Errorf("-api-url is required for %s export", format)
		}
		client, err := export.New(apiURL, export.WithTokenProvider(func() string { return token }))
		if err != nil {
			return nil, "", err
		}
		file, err := client.Export(ctx, sess.Template().ID, sess.Values(), export.Format(format))
		if err != nil {
			return nil, "", err
		}
		return file.Data, file.Name, nil
	default:
		return nil, "", fmt.Errorf("unknown format %q", format)
	}
}

func loadCatalog(dir string) (*catalog.Catalog, error) {
	if strings.TrimSpace(dir) == "" {
		return catalog.Builtin()
	}
	return catalog.LoadFS(os.DirFS(dir))
}

func listTemplates(cat *catalog.Catalog) {
	fmt.Println("Available templates:")
	for _, tpl := range cat.List() {
		fmt.Printf("  %-24s %s\n", tpl.ID, tpl.Title)
	}
}
