// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package export renders a page into a single self-contained HTML
// document. The same document serves three surfaces: the admin preview
// frame, the public page, and the downloadable export. Styling comes from
// the Tailwind CDN and the Inter webfont, so the file needs no assets
// from this server and can be hosted anywhere as-is.
package export

import (
	"bytes"
	"fmt"
	"html/template"

	"digitaldrive/internal/markdown"
	"digitaldrive/internal/models"
	"digitaldrive/internal/slug"
)

// tileView is a tile prepared for the document template.
type tileView struct {
	Title           string
	DescriptionHTML template.HTML
	ImageURL        string
	LinkURL         string
	HasLink         bool
	IsExternal      bool
	LinkBadge       string
}

// pageView is a page prepared for the document template. The page's two
// brand colors appear both at full strength and with a "20" hex-alpha
// suffix (12.5% opacity) for tinted backgrounds.
type pageView struct {
	Title            string
	DescriptionHTML  template.HTML
	HeaderColor      template.CSS
	AccentColor      template.CSS
	HeaderColorSoft  template.CSS
	AccentColorSoft  template.CSS
	AccentColorAttr  string
	FeatureImage     string
	FeatureImageLink string
	HasFeatureImage  bool
	Tiles            []tileView
}

var documentTmpl = template.Must(template.New("document").Parse(documentHTML))

// Document renders a page with its tiles into a complete HTML document.
// The output is deterministic for a given page value.
func Document(p *models.Page) ([]byte, error) {
	view, err := buildView(p)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := documentTmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename returns the download name for a page's export, derived from
// its title. Titles that slug to nothing fall back to "page.html".
func Filename(title string) string {
	return slug.Filename(title, "page", "html")
}

func buildView(p *models.Page) (*pageView, error) {
	view := &pageView{
		Title:            p.Title,
		HeaderColor:      template.CSS(p.HeaderColor),
		AccentColor:      template.CSS(p.AccentColor),
		HeaderColorSoft:  template.CSS(p.HeaderColor + "20"),
		AccentColorSoft:  template.CSS(p.AccentColor + "20"),
		AccentColorAttr:  p.AccentColor,
		FeatureImage:     p.FeatureImage,
		FeatureImageLink: p.FeatureImageLink,
		HasFeatureImage:  p.HasFeatureImage(),
	}

	if p.Description != "" {
		html, err := markdown.ToHTML(p.Description)
		if err != nil {
			return nil, fmt.Errorf("render page description: %w", err)
		}
		view.DescriptionHTML = template.HTML(html)
	}

	for _, t := range p.Tiles {
		tv := tileView{
			Title:      t.Title,
			ImageURL:   t.ImageURL,
			LinkURL:    t.LinkURL,
			HasLink:    t.HasLink(),
			IsExternal: t.LinkType == models.LinkTypeExternal,
			LinkBadge:  t.LinkBadge(),
		}
		if t.Description != "" {
			html, err := markdown.ToHTML(t.Description)
			if err != nil {
				return nil, fmt.Errorf("render tile description: %w", err)
			}
			tv.DescriptionHTML = template.HTML(html)
		}
		view.Tiles = append(view.Tiles, tv)
	}

	return view, nil
}

const documentHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<script src="https://cdn.tailwindcss.com"></script>
<link href="https://fonts.googleapis.com/css2?family=Inter:wght@300;400;500;600;700;800;900&display=swap" rel="stylesheet">
<style>
  body { font-family: 'Inter', sans-serif; }
  .dynamic-text { color: {{.HeaderColor}}; }
  .dynamic-accent-bg { background-color: {{.AccentColorSoft}}; }
  .dynamic-accent-text { color: {{.AccentColor}}; }
  .page-bg { background: linear-gradient(135deg, {{.HeaderColorSoft}}, {{.AccentColorSoft}}); }
</style>
</head>
<body class="page-bg">
<nav class="bg-white shadow-sm sticky top-0 z-50 w-full border-b border-gray-200">
  <div class="max-w-7xl mx-auto px-4 sm:px-6 lg:px-8">
    <div class="flex justify-between h-16 items-center">
      <a class="flex items-center space-x-2" href="https://www.digitaldrive.pk">
        <span class="text-xl font-semibold text-gray-900">Digital Drive</span>
      </a>
      <a href="https://www.linkedin.com/company/digital-drive-pk/" target="_blank" rel="noopener noreferrer" class="text-gray-500 hover:text-gray-900 transition-colors duration-200 p-2" aria-label="Digital Drive LinkedIn">
        <svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" class="w-5 h-5"><path d="M16 8a6 6 0 0 1 6 6v7h-4v-7a2 2 0 0 0-2-2 2 2 0 0 0-2 2v7h-4v-7a6 6 0 0 1 6-6z"></path><rect width="4" height="12" x="2" y="9"></rect><circle cx="4" cy="4" r="2"></circle></svg>
      </a>
    </div>
  </div>
</nav>
<div class="container min-h-screen mx-auto px-4 py-8">
  <div class="text-center mb-12">
    <h1 class="text-4xl md:text-6xl font-bold mb-4 dynamic-text">{{.Title}}</h1>
    {{- if .DescriptionHTML}}
    <div class="text-xl max-w-2xl mx-auto text-gray-600">{{.DescriptionHTML}}</div>
    {{- end}}
  </div>
  {{- if .HasFeatureImage}}
  <div class="mb-12">
    {{- if .FeatureImageLink}}
    <a href="{{.FeatureImageLink}}"><img src="{{.FeatureImage}}" alt="{{.Title}}" class="w-full max-h-[400px] object-cover rounded-2xl shadow-lg"></a>
    {{- else}}
    <img src="{{.FeatureImage}}" alt="{{.Title}}" class="w-full max-h-[400px] object-cover rounded-2xl shadow-lg">
    {{- end}}
  </div>
  {{- end}}
  {{- if .Tiles}}
  <div class="grid md:grid-cols-2 lg:grid-cols-3 xl:grid-cols-4 gap-6">
    {{- range .Tiles}}
    <div class="bg-white rounded-2xl shadow-lg overflow-hidden group h-full flex flex-col">
      {{- if .ImageURL}}
      <div class="aspect-video overflow-hidden"><img src="{{.ImageURL}}" alt="{{.Title}}" class="w-full h-full object-cover group-hover:scale-110 transition-transform duration-300"></div>
      {{- end}}
      <div class="p-6 flex-grow flex flex-col">
        <h3 class="text-xl font-bold text-gray-900 mb-2">{{.Title}}</h3>
        {{- if .DescriptionHTML}}
        <div class="text-gray-600 mb-4 line-clamp-3 flex-grow">{{.DescriptionHTML}}</div>
        {{- end}}
        {{- if .HasLink}}
        <div class="flex items-center justify-between mt-auto pt-4">
          <span class="text-sm font-medium px-3 py-1 rounded-full dynamic-accent-bg dynamic-accent-text">{{.LinkBadge}}</span>
          <a href="{{.LinkURL}}"{{if .IsExternal}} target="_blank" rel="noopener noreferrer"{{else}} data-internal="true"{{end}} class="opacity-50 hover:opacity-100 transition-opacity" aria-label="Open {{.Title}}">
            <svg xmlns="http://www.w3.org/2000/svg" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="{{$.AccentColorAttr}}" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><path d="M18 13v6a2 2 0 0 1-2 2H5a2 2 0 0 1-2-2V8a2 2 0 0 1 2-2h6"></path><polyline points="15 3 21 3 21 9"></polyline><line x1="10" y1="14" x2="21" y2="3"></line></svg>
          </a>
        </div>
        {{- end}}
      </div>
    </div>
    {{- end}}
  </div>
  {{- else}}
  <div class="text-center py-20">
    <h2 class="text-2xl font-bold text-gray-900 mb-2">No Tiles Added</h2>
    <p class="text-gray-600">This page doesn't have any tiles yet.</p>
  </div>
  {{- end}}
</div>
<script>
// Inside the admin preview frame internal links cannot resolve; on the
// published page this block is a no-op.
if (window.self !== window.top) {
  document.querySelectorAll('a[data-internal]').forEach(function (a) {
    a.addEventListener('click', function (e) {
      e.preventDefault();
      alert('Internal links open on the published public page.');
    });
  });
}
</script>
<footer class="bg-white py-6 mt-auto border-t border-gray-200">
  <div class="container mx-auto px-4 sm:px-6 lg:px-8 text-center">
    <div class="flex flex-col sm:flex-row justify-center items-center space-y-2 sm:space-y-0 sm:space-x-6 mb-3">
      <a href="https://www.digitaldrive.pk" target="_blank" rel="noopener noreferrer" class="text-sm font-medium hover:underline dynamic-accent-text">Digital Drive</a>
      <a href="mailto:hello@digitaldrive.pk" class="text-sm text-gray-500 hover:underline">hello@digitaldrive.pk</a>
    </div>
    <p class="text-xs text-gray-400">&copy; 2026 Digital Drive. All rights reserved.</p>
  </div>
</footer>
</body>
</html>
`
