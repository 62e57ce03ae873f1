// Package content loads the static text and images shown on the dashboard.
//
// The page copy lives in content.yaml and the informational blurb in
// about.md, both embedded in the binary. Nothing here affects loading or
// searching datasets.
package content

import (
	_ "embed"
	"fmt"
	"html/template"
	"net/url"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultYAML []byte

//go:embed about.md
var defaultAbout []byte

// Image is a remote picture shown on the page.
type Image struct {
	URL   string `yaml:"url"`
	Width int    `yaml:"width"`
}

// Page is the dashboard copy.
type Page struct {
	Title string `yaml:"title"`
	Icon  string `yaml:"icon"`
	Logo  Image  `yaml:"logo"`

	Sidebar struct {
		ToolsHeading  string   `yaml:"tools_heading"`
		Tools         []string `yaml:"tools"`
		UploadHeading string   `yaml:"upload_heading"`
		UploadLabel   string   `yaml:"upload_label"`
	} `yaml:"sidebar"`

	Info struct {
		Heading string `yaml:"heading"`
	} `yaml:"info"`

	Search struct {
		Heading string `yaml:"heading"`
		Label   string `yaml:"label"`
		Button  string `yaml:"button"`
	} `yaml:"search"`

	Preview struct {
		Heading string `yaml:"heading"`
	} `yaml:"preview"`

	Images []Image `yaml:"images"`

	// About is about.md rendered to HTML.
	About template.HTML `yaml:"-"`
}

// Default returns the embedded page content.
func Default() (*Page, error) {
	return Parse(defaultYAML, defaultAbout)
}

// MustDefault is Default for use in main and tests; the embedded files are
// fixed at build time so an error is a programming mistake.
func MustDefault() *Page {
	p, err := Default()
	if err != nil {
		panic(err)
	}
	return p
}

// Parse decodes page copy from YAML and renders the markdown blurb.
func Parse(pageYAML, aboutMD []byte) (*Page, error) {
	var p Page
	if err := yaml.Unmarshal(pageYAML, &p); err != nil {
		return nil, fmt.Errorf("parse page content: %w", err)
	}
	if p.Title == "" {
		return nil, fmt.Errorf("parse page content: title is required")
	}

	images := append([]Image{p.Logo}, p.Images...)
	for _, img := range images {
		if img.URL == "" {
			continue
		}
		if u, err := url.Parse(img.URL); err != nil || u.Scheme != "https" {
			return nil, fmt.Errorf("parse page content: image %q must be an https URL", img.URL)
		}
	}

	p.About = RenderMarkdown(aboutMD)
	return &p, nil
}

// RenderMarkdown converts markdown to HTML. Links open in a new tab and
// raw HTML in the source is dropped.
func RenderMarkdown(md []byte) template.HTML {
	ps := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	doc := ps.Parse(md)

	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank | html.SkipHTML,
	})
	return template.HTML(markdown.Render(doc, renderer))
}
