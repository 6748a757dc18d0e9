package forge

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/go-github/v72/github"

	relerrors "github.com/Iron-Ham/relnotes/internal/errors"
)

// GitHub implements Client against the GitHub REST API.
type GitHub struct {
	client *github.Client
}

// NewGitHub creates a GitHub client. An empty token means unauthenticated
// requests; a non-empty baseURL points at a GitHub Enterprise instance.
func NewGitHub(token, baseURL string) (*GitHub, error) {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, err
		}
	}
	return &GitHub{client: client}, nil
}

// Milestones lists all milestones in the given state, following
// pagination to exhaustion.
func (g *GitHub) Milestones(ctx context.Context, repo string, state MilestoneState) ([]Milestone, error) {
	owner, name := SplitRepo(repo)
	opts := &github.MilestoneListOptions{
		State:       string(state),
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var milestones []Milestone
	for {
		page, resp, err := g.client.Issues.ListMilestones(ctx, owner, name, opts)
		if err != nil {
			return nil, err
		}
		for _, m := range page {
			milestones = append(milestones, Milestone{
				Title:  m.GetTitle(),
				Number: m.GetNumber(),
				State:  MilestoneState(m.GetState()),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return milestones, nil
}

// ReleaseByTag fetches the release published for tag. A 404 is mapped to
// (nil, nil): absence of a release is expected, not an error.
func (g *GitHub) ReleaseByTag(ctx context.Context, repo, tag string) (*Release, error) {
	owner, name := SplitRepo(repo)
	rel, resp, err := g.client.Repositories.GetReleaseByTag(ctx, owner, name, tag)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &Release{
		TagName: rel.GetTagName(),
		Body:    rel.GetBody(),
	}, nil
}

// MergedPullRequests lists the merged pull requests attached to a
// milestone. The milestone filter lives on the issues endpoint, so this
// lists closed issues for the milestone number and keeps the ones that
// are merged pull requests.
func (g *GitHub) MergedPullRequests(ctx context.Context, repo string, milestone int) ([]PullRequest, error) {
	owner, name := SplitRepo(repo)
	opts := &github.IssueListByRepoOptions{
		Milestone:   strconv.Itoa(milestone),
		State:       "closed",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var prs []PullRequest
	for {
		page, resp, err := g.client.Issues.ListByRepo(ctx, owner, name, opts)
		if err != nil {
			return nil, err
		}
		for _, issue := range page {
			links := issue.GetPullRequestLinks()
			if links == nil || links.MergedAt == nil {
				continue
			}
			prs = append(prs, PullRequest{
				Title:  issue.GetTitle(),
				Number: issue.GetNumber(),
				URL:    issue.GetHTMLURL(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.ListOptions.Page = resp.NextPage
	}
	return prs, nil
}

// FileContents fetches the raw content of path at ref. Any failure is
// surfaced as a *relerrors.FetchError carrying the observed status code.
func (g *GitHub) FileContents(ctx context.Context, repo, ref, path string) ([]byte, error) {
	owner, name := SplitRepo(repo)
	file, _, resp, err := g.client.Repositories.GetContents(ctx, owner, name, path, &github.RepositoryContentGetOptions{
		Ref: ref,
	})
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		return nil, relerrors.NewFetchError(repo+"/"+path+"@"+ref, status, err)
	}
	if file == nil {
		return nil, relerrors.NewFetchError(repo+"/"+path+"@"+ref, resp.StatusCode, relerrors.New("path is a directory"))
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, relerrors.NewFetchError(repo+"/"+path+"@"+ref, resp.StatusCode, err)
	}
	return []byte(content), nil
}
