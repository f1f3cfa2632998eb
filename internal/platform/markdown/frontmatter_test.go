package markdown

import (
	"strings"
	"testing"
)

func TestRenderFrontmatter(t *testing.T) {
	out, err := RenderFrontmatter(map[string]any{"currency": "R$", "records": 3}, "# Watch history\n")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out, "---\n") {
		t.Fatalf("missing opening separator: %q", out)
	}
	if !strings.Contains(out, "currency: R$\n") || !strings.Contains(out, "records: 3\n") {
		t.Fatalf("missing meta keys: %q", out)
	}
	if !strings.HasSuffix(out, "---\n\n# Watch history\n") {
		t.Fatalf("body not separated from frontmatter: %q", out)
	}
}
