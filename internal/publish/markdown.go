package publish

import (
	"bytes"
	"sort"
	"strconv"
	"strings"
	"time"

	"upi-cli/internal/model"
)

type RenderOptions struct {
	IncludeComments bool
}

// RenderPostMarkdown renders a post as a standalone markdown page. Content
// arrives as stored HTML and is converted via HTMLToMarkdown.
func RenderPostMarkdown(p model.Post, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(p.Title))
	writeLn("")

	writeLn("## Meta")
	writeLn("")
	writeLn("- Slug: " + p.Slug)
	writeLn("- Status: " + string(p.Status))
	if strings.TrimSpace(p.Author.Name) != "" {
		writeLn("- Author: " + strings.TrimSpace(p.Author.Name))
	}
	if len(p.Categories) > 0 {
		cats := make([]string, 0, len(p.Categories))
		for _, c := range p.Categories {
			c = strings.TrimSpace(c)
			if c == "" {
				continue
			}
			cats = append(cats, c)
		}
		sort.Strings(cats)
		if len(cats) > 0 {
			writeLn("- Categories: " + strings.Join(cats, ", "))
		}
	}
	if len(p.Tags) > 0 {
		tags := make([]string, 0, len(p.Tags))
		for _, t := range p.Tags {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			tags = append(tags, t)
		}
		sort.Strings(tags)
		if len(tags) > 0 {
			writeLn("- Tags: " + strings.Join(tags, ", "))
		}
	}
	if p.PublishedAt != nil {
		writeLn("- Published: " + p.PublishedAt.UTC().Format(time.RFC3339))
	}
	if p.ReadTime > 0 {
		writeLn("- Read time: " + strconv.Itoa(p.ReadTime) + " min")
	}

	excerpt := strings.TrimSpace(p.Excerpt)
	if excerpt != "" {
		writeLn("")
		writeLn("## Excerpt")
		writeLn("")
		writeLn(excerpt)
	}

	content := strings.TrimSpace(HTMLToMarkdown(p.Content))
	if content != "" {
		writeLn("")
		writeLn(content)
	}

	if opt.IncludeComments && len(p.Comments) > 0 {
		writeLn("")
		writeLn("## Comments")
		for _, c := range p.Comments {
			writeComment(writeLn, c, false)
			for _, r := range c.Replies {
				writeComment(writeLn, r, true)
			}
		}
	}

	return buf.String()
}

func writeComment(writeLn func(string), c model.Comment, reply bool) {
	head := c.User.Name
	if strings.TrimSpace(head) == "" {
		head = "anonymous"
	}
	prefix := "### "
	if reply {
		prefix = "#### "
	}
	writeLn("")
	writeLn(prefix + head + " (" + c.CreatedAt.UTC().Format(time.RFC3339) + ")")
	writeLn("")
	writeLn(strings.TrimSpace(c.Content))
}

// HTMLToMarkdown makes stored blog HTML readable as markdown: block tags
// become paragraph breaks, headings and list items keep their markers, the
// rest is stripped.
func HTMLToMarkdown(html string) string {
	s := html
	for _, tag := range []string{"</p>", "</h1>", "</h2>", "</h3>", "</li>", "<br>", "<br/>", "<br />"} {
		s = strings.ReplaceAll(s, tag, tag+"\n\n")
	}
	s = strings.ReplaceAll(s, "<h1>", "# ")
	s = strings.ReplaceAll(s, "<h2>", "## ")
	s = strings.ReplaceAll(s, "<h3>", "### ")
	s = strings.ReplaceAll(s, "<li>", "- ")
	s = stripTags(s)
	return strings.TrimSpace(s)
}

func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
