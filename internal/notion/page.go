package notion

import "strings"

// RichTextSpan is a rendered span in a page property read back from
// the API.
type RichTextSpan struct {
	PlainText string `json:"plain_text"`
}

// FileValue is a file entry read back from a files property.
type FileValue struct {
	Name     string        `json:"name"`
	Type     string        `json:"type"`
	External *ExternalFile `json:"external"`
}

// PropertyValue is one page property as returned by the API. Only the
// field matching Type is populated.
type PropertyValue struct {
	Type        string         `json:"type"`
	Title       []RichTextSpan `json:"title"`
	RichText    []RichTextSpan `json:"rich_text"`
	Select      *SelectOption  `json:"select"`
	MultiSelect []SelectOption `json:"multi_select"`
	Number      *float64       `json:"number"`
	Relation    []RelationRef  `json:"relation"`
	Files       []FileValue    `json:"files"`
	URL         string         `json:"url"`
}

// Plain returns the property's text content: the joined spans for title
// and rich text properties, the option name for selects, otherwise "".
func (p PropertyValue) Plain() string {
	joinSpans := func(spans []RichTextSpan) string {
		var builder strings.Builder
		for _, span := range spans {
			builder.WriteString(span.PlainText)
		}
		return strings.TrimSpace(builder.String())
	}
	switch p.Type {
	case "title":
		return joinSpans(p.Title)
	case "rich_text":
		return joinSpans(p.RichText)
	case "select":
		if p.Select != nil {
			return p.Select.Name
		}
	case "url":
		return p.URL
	}
	return ""
}

// MultiSelectNames returns the option names of a multi-select property.
func (p PropertyValue) MultiSelectNames() []string {
	names := make([]string, 0, len(p.MultiSelect))
	for _, option := range p.MultiSelect {
		names = append(names, option.Name)
	}
	return names
}

// Page is a database page read back from the API.
type Page struct {
	ID         string                   `json:"id"`
	Cover      *Cover                   `json:"cover"`
	Icon       *Icon                    `json:"icon"`
	Properties map[string]PropertyValue `json:"properties"`
}

// Title returns the page's title text, searching for the single property
// of type "title".
func (p Page) Title() string {
	for _, property := range p.Properties {
		if property.Type == "title" {
			return property.Plain()
		}
	}
	return ""
}

// HasCover reports whether the page already has a cover image.
func (p Page) HasCover() bool {
	return p.Cover != nil
}
