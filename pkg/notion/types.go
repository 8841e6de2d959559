package notion

import (
	"strings"

	"github.com/vrerv/md-to-notion/pkg/block"
)

// Page identifies a remote page.
type Page struct {
	ID    string
	URL   string
	Title string
}

// Children is one page of a block's child list.
type Children struct {
	Results    []block.Block `json:"results"`
	HasMore    bool          `json:"has_more"`
	NextCursor string        `json:"next_cursor"`
}

type richText struct {
	PlainText string `json:"plain_text"`
	Text      *struct {
		Content string `json:"content"`
	} `json:"text,omitempty"`
}

type property struct {
	Type  string     `json:"type"`
	Title []richText `json:"title"`
}

type pageObject struct {
	Object     string              `json:"object"`
	ID         string              `json:"id"`
	URL        string              `json:"url"`
	Archived   bool                `json:"archived"`
	Properties map[string]property `json:"properties"`
}

// title returns the text of the page's title property. Database rows name
// the property freely, so any property of type title is accepted.
func (p pageObject) title() string {
	prop, ok := p.Properties["title"]
	if !ok {
		for _, candidate := range p.Properties {
			if candidate.Type == "title" {
				prop = candidate
				ok = true
				break
			}
		}
	}
	if !ok {
		return ""
	}

	var b strings.Builder
	for _, rt := range prop.Title {
		switch {
		case rt.PlainText != "":
			b.WriteString(rt.PlainText)
		case rt.Text != nil:
			b.WriteString(rt.Text.Content)
		}
	}
	return b.String()
}

type pageParent struct {
	PageID string `json:"page_id"`
}

type titleText struct {
	Text struct {
		Content string `json:"content"`
	} `json:"text"`
}

type createPageRequest struct {
	Parent     pageParent `json:"parent"`
	Properties struct {
		Title []titleText `json:"title"`
	} `json:"properties"`
}

type appendRequest struct {
	Children []block.Block `json:"children"`
	After    string        `json:"after,omitempty"`
}

type appendResponse struct {
	Results []block.Block `json:"results"`
}

type archiveRequest struct {
	Archived bool `json:"archived"`
}
