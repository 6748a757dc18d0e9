// Package notes implements the release notes aggregation core: the
// per-repository aggregator, the cross-repository bundle traversal, and
// the output formatting. Every aggregation is a fresh sequence of
// read-only queries against the forge; no state survives between runs.
package notes

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Iron-Ham/relnotes/internal/config"
	relerrors "github.com/Iron-Ham/relnotes/internal/errors"
	"github.com/Iron-Ham/relnotes/internal/forge"
	"github.com/Iron-Ham/relnotes/internal/logging"
)

// Aggregator collects release notes from the forge and writes formatted
// output. Diagnostics go through the logger, never into the output
// stream.
type Aggregator struct {
	forge forge.Client
	log   *logging.Logger
	out   io.Writer
	cfg   *config.Config
}

// NewAggregator creates an Aggregator writing formatted notes to out.
func NewAggregator(client forge.Client, log *logging.Logger, out io.Writer, cfg *config.Config) *Aggregator {
	return &Aggregator{
		forge: client,
		log:   log,
		out:   out,
		cfg:   cfg,
	}
}

// Request is the transient parameter bundle for one repository
// aggregation.
type Request struct {
	// Repo is a repository identifier, either "owner/name" or a bare
	// name that gets the default organization prepended
	Repo string
	// Milestones are the requested milestone titles, in caller order.
	// May be empty.
	Milestones []string
	Source     Source
	Format     Format
}

// Repo aggregates notes for the requested milestones of one repository
// and emits them to the output writer. Requested titles with no matching
// milestone produce a single warning and are skipped; everything that
// matched is still processed.
func (a *Aggregator) Repo(ctx context.Context, req Request) error {
	repo := a.normalizeRepo(req.Repo)

	available, err := a.forge.Milestones(ctx, repo, forge.MilestoneAll)
	if err != nil {
		return fmt.Errorf("failed to list milestones for %s: %w", repo, err)
	}

	matched, unmatched := matchMilestones(available, req.Milestones)
	if len(unmatched) > 0 {
		a.log.Warn("milestones not found",
			"repo", repo,
			"milestones", strings.Join(unmatched, ", "))
	}

	var entries []string
	for _, m := range matched {
		es, err := a.milestoneEntries(ctx, repo, m, req.Source, req.Format)
		if err != nil {
			return err
		}
		entries = append(entries, es...)
	}

	fmt.Fprint(a.out, WrapEntries(entries, req.Format))
	return nil
}

// milestoneEntries resolves notes for a single matched milestone. The
// release source is an explicit two-step cascade: try the published
// release body first, and when none exists run the pull-request path for
// the same milestone.
func (a *Aggregator) milestoneEntries(ctx context.Context, repo string, m forge.Milestone, source Source, format Format) ([]string, error) {
	switch source {
	case SourceRelease:
		tag := releaseTag(m.Title)
		rel, err := a.forge.ReleaseByTag(ctx, repo, tag)
		if err != nil {
			a.log.Warn("release lookup failed",
				"repo", repo, "tag", tag, "error", err)
		}
		if rel != nil {
			// A published release carries pre-formatted notes:
			// emit the body directly and accumulate nothing.
			body := rel.Body
			if !strings.HasSuffix(body, "\n") {
				body += "\n"
			}
			fmt.Fprint(a.out, body)
			return nil, nil
		}
		a.log.Warn("no release found for tag, using pull request titles",
			"repo", repo, "tag", tag)
		return a.pullRequestEntries(ctx, repo, m, format)
	case SourcePullRequest:
		return a.pullRequestEntries(ctx, repo, m, format)
	default:
		return nil, &relerrors.UnknownSourceError{Source: string(source)}
	}
}

// pullRequestEntries renders one entry per merged pull request attached
// to the milestone, in the order the forge returns them.
func (a *Aggregator) pullRequestEntries(ctx context.Context, repo string, m forge.Milestone, format Format) ([]string, error) {
	prs, err := a.forge.MergedPullRequests(ctx, repo, m.Number)
	if err != nil {
		return nil, fmt.Errorf("failed to list merged pull requests for %s milestone %q: %w", repo, m.Title, err)
	}

	entries := make([]string, 0, len(prs))
	for _, pr := range prs {
		entries = append(entries, PullRequestEntry(pr, format))
	}
	return entries, nil
}

// normalizeRepo expands a bare repository name with the default
// organization. Identifiers already containing a "/" pass through.
func (a *Aggregator) normalizeRepo(repo string) string {
	if strings.Contains(repo, "/") {
		return repo
	}
	return a.cfg.Org + "/" + repo
}

// matchMilestones resolves requested titles against available
// milestones, preserving the caller's order. Titles with no match are
// returned separately, also in caller order.
func matchMilestones(available []forge.Milestone, names []string) (matched []forge.Milestone, unmatched []string) {
	for _, name := range names {
		found := false
		for _, m := range available {
			if m.Title == name {
				matched = append(matched, m)
				found = true
				break
			}
		}
		if !found {
			unmatched = append(unmatched, name)
		}
	}
	return matched, unmatched
}

// releaseTag derives the release tag for a milestone title: the title
// itself when already "v"-prefixed, otherwise "v" plus the title.
func releaseTag(title string) string {
	if strings.HasPrefix(title, "v") {
		return title
	}
	return "v" + title
}
