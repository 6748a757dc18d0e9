package notes

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Iron-Ham/relnotes/internal/forge"
)

// Format selects the output markup for aggregated notes.
type Format string

// Supported output formats.
const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Source selects where notes for a milestone come from.
type Source string

// Supported note sources.
const (
	// SourceRelease reads the pre-written body of a published release,
	// falling back to pull request titles when no release exists.
	SourceRelease Source = "release"
	// SourcePullRequest synthesizes notes from merged pull request titles.
	SourcePullRequest Source = "pull-request"
)

// inlineCode matches a backtick-delimited inline code span.
var inlineCode = regexp.MustCompile("`([^`]+)`")

// FormatTitle trims a title and, in HTML mode, converts backtick spans
// to <code> wrappers. Markdown titles pass through unchanged.
func FormatTitle(title string, format Format) string {
	title = strings.TrimSpace(title)
	if format == FormatHTML {
		title = inlineCode.ReplaceAllString(title, "<code>$1</code>")
	}
	return title
}

// PullRequestEntry renders one merged pull request as a list entry.
// Markdown entries are newline-terminated; HTML entries are bare <li>
// elements, joined and terminated by WrapEntries.
func PullRequestEntry(pr forge.PullRequest, format Format) string {
	title := FormatTitle(pr.Title, format)
	if format == FormatHTML {
		return fmt.Sprintf("<li>%s [<a href=%q>#%d</a>]</li>", title, pr.URL, pr.Number)
	}
	return fmt.Sprintf("- %s [[#%d](%s)]\n", title, pr.Number, pr.URL)
}

// RepoHeading renders a level-4 heading linking to the repository's
// canonical URL.
func RepoHeading(repo string, format Format) string {
	url := "https://github.com/" + repo
	if format == FormatHTML {
		return fmt.Sprintf("<h4><a href=%q>%s</a></h4>\n", url, repo)
	}
	return fmt.Sprintf("#### [%s](%s)\n", repo, url)
}

// WrapEntries joins accumulated pull request entries into the final
// emission for one aggregation: an unordered-list wrapper in HTML mode,
// plain concatenation in markdown mode. An empty entry list yields an
// empty wrapper, which is a valid outcome when every milestone resolved
// via a release body.
func WrapEntries(entries []string, format Format) string {
	if format == FormatHTML {
		var b strings.Builder
		b.WriteString("<ul>\n")
		for _, e := range entries {
			b.WriteString(e)
			b.WriteString("\n")
		}
		b.WriteString("</ul>\n")
		return b.String()
	}
	return strings.Join(entries, "")
}
