package entry

import "strings"

// Author is a name and timestamp pair (creation or last update).
type Author struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

type Tag struct {
	Name string `json:"name"`
}

type Category struct {
	Name string `json:"name"`
}

// FrontMatter is the metadata block of an entry.
type FrontMatter struct {
	Title      string     `json:"title"`
	Categories []Category `json:"categories"`
	Tags       []Tag      `json:"tags"`
}

// Entry is a single blog entry. Content is markdown and is only populated
// by GetEntry.
type Entry struct {
	EntryID     string      `json:"entryId"`
	Content     string      `json:"content,omitempty"`
	FrontMatter FrontMatter `json:"frontMatter"`
	Created     Author      `json:"created"`
	Updated     Author      `json:"updated"`
}

type EntryEdge struct {
	Node   Entry  `json:"node"`
	Cursor string `json:"cursor"`
}

// PageInfo carries cursor pagination state. The upstream schema spells the
// backward flag "hadPreviousPage".
type PageInfo struct {
	StartCursor     string `json:"startCursor,omitempty"`
	EndCursor       string `json:"endCursor"`
	HasNextPage     bool   `json:"hasNextPage"`
	HasPreviousPage bool   `json:"hadPreviousPage,omitempty"`
}

// EntryConnection is one page of entries.
type EntryConnection struct {
	Edges    []EntryEdge `json:"edges"`
	PageInfo PageInfo    `json:"pageInfo"`
}

// EntriesQuery filters and paginates GetEntries.
type EntriesQuery struct {
	First      int
	After      string
	Tag        string
	Categories []string
}

// CategoryPath joins category names into a breadcrumb, e.g. "Go > Tools".
func (fm FrontMatter) CategoryPath() string {
	names := make([]string, 0, len(fm.Categories))
	for _, c := range fm.Categories {
		names = append(names, c.Name)
	}
	return strings.Join(names, " > ")
}

// TagNames returns the tag names in order.
func (fm FrontMatter) TagNames() []string {
	names := make([]string, 0, len(fm.Tags))
	for _, t := range fm.Tags {
		names = append(names, t.Name)
	}
	return names
}
