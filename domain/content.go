package domain

// ContentType identifies the kind of content document the pipeline works on.
type ContentType string

const (
	ContentTypeArticle     ContentType = "article"
	ContentTypeInterview   ContentType = "interview"
	ContentTypePublication ContentType = "publication"
)

// Valid reports whether t is one of the known content kinds.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeArticle, ContentTypeInterview, ContentTypePublication:
		return true
	default:
		return false
	}
}

// ContentReference identifies one unit of work. Immutable once a workflow starts.
type ContentReference struct {
	ContentID   string      `json:"content_id"`
	ContentType ContentType `json:"content_type"`
	Slug        string      `json:"slug"`
}

// Validate checks the reference before a workflow is started.
func (r ContentReference) Validate() error {
	if r.ContentID == "" {
		return ErrMissingContentID
	}
	if r.Slug == "" {
		return ErrMissingSlug
	}
	if !r.ContentType.Valid() {
		return ErrUnsupportedContentType
	}
	return nil
}

// TaxonomyRef is an expanded taxonomy reference as returned by the content store.
type TaxonomyRef struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

// Span is an inline text child of a body block.
type Span struct {
	Type string `json:"_type"`
	Text string `json:"text"`
}

// Block is one element of a rich-body block list. Only text blocks carry
// span children; other block kinds (images, embeds) are skipped by the cleaner.
type Block struct {
	Type     string `json:"_type"`
	Style    string `json:"style,omitempty"`
	Children []Span `json:"children,omitempty"`
}

// Interviewee describes the person featured in an interview document.
type Interviewee struct {
	Name         string `json:"name"`
	Role         string `json:"role,omitempty"`
	Organization string `json:"organization,omitempty"`
	Bio          string `json:"bio,omitempty"`
}

// RawContent is a content document fetched from the content store with
// taxonomy references expanded inline. The pipeline only reads it.
type RawContent struct {
	ID          string      `json:"_id"`
	Type        ContentType `json:"_type"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	Dek         string      `json:"dek,omitempty"`
	PublishedAt string      `json:"publishedAt,omitempty"`
	Body        []Block     `json:"body,omitempty"`

	// Interview-only fields. The at-time values reflect the interviewee's
	// position when the interview took place, not their current one.
	Interviewee        *Interviewee `json:"interviewee,omitempty"`
	RoleAtTime         string       `json:"roleAtTime,omitempty"`
	OrganizationAtTime string       `json:"organizationAtTime,omitempty"`

	Sectors []TaxonomyRef `json:"sectors,omitempty"`
	Regions []TaxonomyRef `json:"regions,omitempty"`
	Tags    []TaxonomyRef `json:"tags,omitempty"`
}

// ContentMetadata is extracted alongside the fetched document so later stages
// can tag and filter without re-fetching. Taxonomy refs are flattened to titles.
type ContentMetadata struct {
	Type        ContentType `json:"type"`
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	PublishedAt string      `json:"published_at,omitempty"`
	Sectors     []string    `json:"sectors,omitempty"`
	Regions     []string    `json:"regions,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
}

// CleanedContent is the flat text projection of a RawContent document.
// It is consumed only by the summarizer and never persisted standalone.
type CleanedContent struct {
	Title       string          `json:"title"`
	Dek         string          `json:"dek,omitempty"`
	Body        string          `json:"body"`
	Interviewee *Interviewee    `json:"interviewee,omitempty"`
	Metadata    ContentMetadata `json:"metadata"`
}
