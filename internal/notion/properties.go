package notion

// Properties is the property payload for a page create or update. Keys
// are property names in the target database; absent keys are untouched.
type Properties map[string]any

// TextContent is the inner text of a rich text item.
type TextContent struct {
	Content string `json:"content"`
}

// RichTextItem is one span of rich text.
type RichTextItem struct {
	Text TextContent `json:"text"`
}

// SelectOption names one option of a select or multi-select property.
type SelectOption struct {
	Name string `json:"name"`
}

// RelationRef points at a related page.
type RelationRef struct {
	ID string `json:"id"`
}

// ExternalFile is a file hosted outside Notion.
type ExternalFile struct {
	URL string `json:"url"`
}

// FileRef is one entry of a files property.
type FileRef struct {
	Name     string       `json:"name"`
	Type     string       `json:"type"`
	External ExternalFile `json:"external"`
}

// Icon is a page icon. Only emoji icons are written.
type Icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji"`
}

// Cover is a page cover image.
type Cover struct {
	Type     string       `json:"type"`
	External ExternalFile `json:"external"`
}

type titleProperty struct {
	Title []RichTextItem `json:"title"`
}

type richTextProperty struct {
	RichText []RichTextItem `json:"rich_text"`
}

type selectProperty struct {
	Select SelectOption `json:"select"`
}

type multiSelectProperty struct {
	MultiSelect []SelectOption `json:"multi_select"`
}

type numberProperty struct {
	Number float64 `json:"number"`
}

type relationProperty struct {
	Relation []RelationRef `json:"relation"`
}

type filesProperty struct {
	Files []FileRef `json:"files"`
}

type urlProperty struct {
	URL string `json:"url"`
}

// NewTitle builds a title property value.
func NewTitle(text string) any {
	return titleProperty{Title: []RichTextItem{{Text: TextContent{Content: text}}}}
}

// NewRichText builds a rich text property value.
func NewRichText(text string) any {
	return richTextProperty{RichText: []RichTextItem{{Text: TextContent{Content: text}}}}
}

// NewSelect builds a select property value.
func NewSelect(name string) any {
	return selectProperty{Select: SelectOption{Name: name}}
}

// NewMultiSelect builds a multi-select property value.
func NewMultiSelect(names []string) any {
	options := make([]SelectOption, 0, len(names))
	for _, name := range names {
		options = append(options, SelectOption{Name: name})
	}
	return multiSelectProperty{MultiSelect: options}
}

// NewNumber builds a number property value.
func NewNumber(value float64) any {
	return numberProperty{Number: value}
}

// NewRelation builds a relation property value.
func NewRelation(pageIDs []string) any {
	refs := make([]RelationRef, 0, len(pageIDs))
	for _, id := range pageIDs {
		refs = append(refs, RelationRef{ID: id})
	}
	return relationProperty{Relation: refs}
}

// NewExternalFiles builds a files property holding external URLs.
func NewExternalFiles(name string, urls []string) any {
	files := make([]FileRef, 0, len(urls))
	for _, u := range urls {
		files = append(files, FileRef{Name: name, Type: "external", External: ExternalFile{URL: u}})
	}
	return filesProperty{Files: files}
}

// NewURL builds a url property value.
func NewURL(u string) any {
	return urlProperty{URL: u}
}

// NewEmojiIcon builds a page emoji icon.
func NewEmojiIcon(emoji string) *Icon {
	if emoji == "" {
		return nil
	}
	return &Icon{Type: "emoji", Emoji: emoji}
}

// NewExternalCover builds a page cover from an external URL.
func NewExternalCover(url string) *Cover {
	if url == "" {
		return nil
	}
	return &Cover{Type: "external", External: ExternalFile{URL: url}}
}
