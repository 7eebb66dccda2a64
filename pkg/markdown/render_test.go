package markdown

import (
	"strings"
	"testing"
)

var repoCtx = Context{Owner: "acme", Repo: "widget", Branch: "main"}

func TestRenderBasicHTML(t *testing.T) {
	html := Render("# Title\n\nSome *emphasis* here.", Context{})
	if !strings.Contains(html, "<h1>Title</h1>") {
		t.Errorf("missing heading in %q", html)
	}
	if !strings.Contains(html, "<em>emphasis</em>") {
		t.Errorf("missing emphasis in %q", html)
	}
}

func TestRenderRewritesRelativeLinks(t *testing.T) {
	html := Render("[docs](docs/guide.md)", repoCtx)
	want := `href="https://github.com/acme/widget/blob/main/docs/guide.md"`
	if !strings.Contains(html, want) {
		t.Errorf("html = %q, want link %s", html, want)
	}
}

func TestRenderRewritesRelativeImagesToRaw(t *testing.T) {
	html := Render("![shot](images/shot.png)", repoCtx)
	want := `src="https://github.com/acme/widget/raw/main/images/shot.png"`
	if !strings.Contains(html, want) {
		t.Errorf("html = %q, want image %s", html, want)
	}
}

func TestRenderResolvesAgainstDocumentDir(t *testing.T) {
	ctx := repoCtx
	ctx.Dir = "docs"
	html := Render("![shot](../images/shot.png)", ctx)
	want := `src="https://github.com/acme/widget/raw/main/images/shot.png"`
	if !strings.Contains(html, want) {
		t.Errorf("html = %q, want image %s", html, want)
	}
}

func TestRenderRootedPathIgnoresDir(t *testing.T) {
	ctx := repoCtx
	ctx.Dir = "docs"
	html := Render("[license](/LICENSE)", ctx)
	want := `href="https://github.com/acme/widget/blob/main/LICENSE"`
	if !strings.Contains(html, want) {
		t.Errorf("html = %q, want link %s", html, want)
	}
}

func TestRenderLeavesAbsoluteDestinationsAlone(t *testing.T) {
	for _, dest := range []string{
		"https://example.com/page",
		"//cdn.example.com/a.png",
		"#section",
		"mailto:dev@example.com",
	} {
		html := Render("[x]("+dest+")", repoCtx)
		if !strings.Contains(html, dest) {
			t.Errorf("destination %q was rewritten: %q", dest, html)
		}
	}
}

func TestRenderZeroContextLeavesLinksAlone(t *testing.T) {
	html := Render("[docs](docs/guide.md)", Context{})
	if !strings.Contains(html, `href="docs/guide.md"`) {
		t.Errorf("relative link rewritten without context: %q", html)
	}
}

func TestRenderDefaultsBranchToMaster(t *testing.T) {
	html := Render("[a](a.md)", Context{Owner: "acme", Repo: "widget"})
	if !strings.Contains(html, "/blob/master/a.md") {
		t.Errorf("html = %q, want master branch fallback", html)
	}
}
