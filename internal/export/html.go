// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"html/template"
	"io"
	"sort"

	"github.com/awindex/awindex/pkg/types"
)

// htmlPage is the static listing page: records grouped by source, then by
// their first category path.
var htmlPage = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<main>
<h1>{{.Title}}</h1>
{{range .Sources}}
<section>
<h2>{{.Name}}</h2>
{{range .Groups}}
{{if .Category}}<h3>{{.Category}}</h3>{{end}}
<ul>
{{range .Records}}
<li><a href="{{.URL}}">{{.Title}}</a>{{if .Abstract}} &mdash; {{.Abstract}}{{end}}</li>
{{end}}
</ul>
{{end}}
</section>
{{end}}
</main>
</body>
</html>
`))

type htmlData struct {
	Title   string
	Sources []htmlSource
}

type htmlSource struct {
	Name   string
	Groups []htmlGroup
}

type htmlGroup struct {
	Category string
	Records  []*types.IndexRecord
}

// WriteHTML renders the static HTML export of the record set. Sources
// keep their configured order; categories within a source are sorted,
// with uncategorized records first.
func WriteHTML(w io.Writer, title string, records []*types.IndexRecord) error {
	data := htmlData{Title: title}

	bySource := map[string]map[string][]*types.IndexRecord{}
	var sourceOrder []string
	for _, rec := range records {
		groups, ok := bySource[rec.Source]
		if !ok {
			groups = map[string][]*types.IndexRecord{}
			bySource[rec.Source] = groups
			sourceOrder = append(sourceOrder, rec.Source)
		}
		category := ""
		if len(rec.Categories) > 0 {
			category = rec.Categories[0]
		}
		groups[category] = append(groups[category], rec)
	}

	for _, name := range sourceOrder {
		groups := bySource[name]
		categories := make([]string, 0, len(groups))
		for c := range groups {
			categories = append(categories, c)
		}
		sort.Strings(categories)

		src := htmlSource{Name: name}
		for _, c := range categories {
			src.Groups = append(src.Groups, htmlGroup{Category: c, Records: groups[c]})
		}
		data.Sources = append(data.Sources, src)
	}

	if err := htmlPage.Execute(w, data); err != nil {
		return fmt.Errorf("rendering HTML export: %w", err)
	}
	return nil
}
