package notes

import (
	"testing"

	"github.com/Iron-Ham/relnotes/internal/forge"
)

func TestFormatTitle(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		format Format
		want   string
	}{
		{
			name:   "backticks converted in html",
			title:  "`wp cli`",
			format: FormatHTML,
			want:   "<code>wp cli</code>",
		},
		{
			name:   "backticks preserved in markdown",
			title:  "`wp cli`",
			format: FormatMarkdown,
			want:   "`wp cli`",
		},
		{
			name:   "surrounding whitespace trimmed",
			title:  "  Fix config parsing  ",
			format: FormatMarkdown,
			want:   "Fix config parsing",
		},
		{
			name:   "multiple spans converted",
			title:  "Support `--ssh` and `--http` flags",
			format: FormatHTML,
			want:   "Support <code>--ssh</code> and <code>--http</code> flags",
		},
		{
			name:   "plain title unchanged in html",
			title:  "Improve error messages",
			format: FormatHTML,
			want:   "Improve error messages",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatTitle(tt.title, tt.format)
			if got != tt.want {
				t.Errorf("FormatTitle(%q, %q) = %q, want %q", tt.title, tt.format, got, tt.want)
			}
		})
	}
}

func TestPullRequestEntry(t *testing.T) {
	pr := forge.PullRequest{
		Title:  "Add `--porcelain` output",
		Number: 123,
		URL:    "https://github.com/wp-cli/wp-cli/pull/123",
	}

	gotMarkdown := PullRequestEntry(pr, FormatMarkdown)
	wantMarkdown := "- Add `--porcelain` output [[#123](https://github.com/wp-cli/wp-cli/pull/123)]\n"
	if gotMarkdown != wantMarkdown {
		t.Errorf("markdown entry = %q, want %q", gotMarkdown, wantMarkdown)
	}

	gotHTML := PullRequestEntry(pr, FormatHTML)
	wantHTML := `<li>Add <code>--porcelain</code> output [<a href="https://github.com/wp-cli/wp-cli/pull/123">#123</a>]</li>`
	if gotHTML != wantHTML {
		t.Errorf("html entry = %q, want %q", gotHTML, wantHTML)
	}
}

func TestRepoHeading(t *testing.T) {
	gotMarkdown := RepoHeading("wp-cli/wp-cli", FormatMarkdown)
	wantMarkdown := "#### [wp-cli/wp-cli](https://github.com/wp-cli/wp-cli)\n"
	if gotMarkdown != wantMarkdown {
		t.Errorf("markdown heading = %q, want %q", gotMarkdown, wantMarkdown)
	}

	gotHTML := RepoHeading("wp-cli/wp-cli", FormatHTML)
	wantHTML := "<h4><a href=\"https://github.com/wp-cli/wp-cli\">wp-cli/wp-cli</a></h4>\n"
	if gotHTML != wantHTML {
		t.Errorf("html heading = %q, want %q", gotHTML, wantHTML)
	}
}

func TestWrapEntries(t *testing.T) {
	entries := []string{"<li>one</li>", "<li>two</li>"}
	gotHTML := WrapEntries(entries, FormatHTML)
	wantHTML := "<ul>\n<li>one</li>\n<li>two</li>\n</ul>\n"
	if gotHTML != wantHTML {
		t.Errorf("html wrap = %q, want %q", gotHTML, wantHTML)
	}

	// An empty entry list still yields the wrapper in HTML mode.
	gotEmpty := WrapEntries(nil, FormatHTML)
	wantEmpty := "<ul>\n</ul>\n"
	if gotEmpty != wantEmpty {
		t.Errorf("empty html wrap = %q, want %q", gotEmpty, wantEmpty)
	}

	// Markdown entries are already newline-terminated; wrapping is
	// plain concatenation.
	gotMarkdown := WrapEntries([]string{"- one\n", "- two\n"}, FormatMarkdown)
	wantMarkdown := "- one\n- two\n"
	if gotMarkdown != wantMarkdown {
		t.Errorf("markdown wrap = %q, want %q", gotMarkdown, wantMarkdown)
	}

	if got := WrapEntries(nil, FormatMarkdown); got != "" {
		t.Errorf("empty markdown wrap = %q, want %q", got, "")
	}
}
