// Package markdown renders readme markdown to HTML with repository-aware
// link rewriting, so relative references keep working outside GitHub.
package markdown

import (
	"bytes"
	"path"
	"strings"

	"github.com/russross/blackfriday/v2"
)

// Context identifies the repository location a document was fetched from.
// Relative links and images are rewritten against it. A zero Context
// leaves destinations untouched.
type Context struct {
	Owner  string
	Repo   string
	Branch string

	// Dir is the in-repo directory holding the document, empty for the
	// repository root.
	Dir string
}

// Render converts markdown source to HTML. Relative link destinations are
// rewritten to absolute github.com blob URLs and relative images to raw
// URLs, resolved against ctx.
func Render(source string, ctx Context) string {
	parser := blackfriday.New(blackfriday.WithExtensions(blackfriday.CommonExtensions))
	root := parser.Parse([]byte(source))

	root.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if !entering {
			return blackfriday.GoToNext
		}
		switch node.Type {
		case blackfriday.Image:
			node.LinkData.Destination = ctx.rewrite(node.LinkData.Destination, "raw")
		case blackfriday.Link:
			node.LinkData.Destination = ctx.rewrite(node.LinkData.Destination, "blob")
		}
		return blackfriday.GoToNext
	})

	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags,
	})
	var buf bytes.Buffer
	renderer.RenderHeader(&buf, root)
	root.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		return renderer.RenderNode(&buf, node, entering)
	})
	renderer.RenderFooter(&buf, root)
	return buf.String()
}

func (c Context) rewrite(dest []byte, kind string) []byte {
	if c.Owner == "" || c.Repo == "" {
		return dest
	}
	s := string(dest)
	if s == "" || isAbsolute(s) {
		return dest
	}

	var p string
	if strings.HasPrefix(s, "/") {
		p = strings.TrimPrefix(s, "/")
	} else {
		p = path.Join(c.Dir, s)
	}

	branch := c.Branch
	if branch == "" {
		branch = "master"
	}
	return []byte("https://github.com/" + c.Owner + "/" + c.Repo + "/" + kind + "/" + branch + "/" + p)
}

// isAbsolute reports whether a destination needs no rewriting: full URLs,
// protocol-relative URLs, in-page anchors and mail links.
func isAbsolute(s string) bool {
	switch {
	case strings.HasPrefix(s, "#"),
		strings.HasPrefix(s, "//"),
		strings.HasPrefix(s, "mailto:"),
		strings.HasPrefix(s, "data:"):
		return true
	}
	if i := strings.Index(s, "://"); i > 0 {
		return true
	}
	return false
}
