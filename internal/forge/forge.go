// Package forge abstracts the remote code-hosting API consumed by the
// aggregator. The aggregation logic only ever issues the four read-only
// queries defined on Client, which keeps it testable against a fake and
// independent of the underlying HTTP client.
package forge

import (
	"context"
	"strings"
)

// MilestoneState filters milestone listings by lifecycle state.
type MilestoneState string

// Milestone states accepted by Client.Milestones.
const (
	MilestoneOpen   MilestoneState = "open"
	MilestoneClosed MilestoneState = "closed"
	MilestoneAll    MilestoneState = "all"
)

// Milestone is a named grouping of changes in a hosted project.
// Identity is (repository, Number).
type Milestone struct {
	Title  string
	Number int
	State  MilestoneState
}

// Release is a published release. Body carries the pre-formatted notes.
type Release struct {
	TagName string
	Body    string
}

// PullRequest is a merged change request associated with a milestone.
type PullRequest struct {
	Title  string
	Number int
	URL    string
}

// Client is the read-only query surface of the hosting API.
type Client interface {
	// Milestones lists the repository's milestones in the given state,
	// fully paginated.
	Milestones(ctx context.Context, repo string, state MilestoneState) ([]Milestone, error)

	// ReleaseByTag fetches the published release for an exact tag.
	// A missing release is a valid outcome: it returns (nil, nil),
	// never an error, when no release exists for the tag.
	ReleaseByTag(ctx context.Context, repo, tag string) (*Release, error)

	// MergedPullRequests lists merged pull requests linked to the
	// milestone's numeric identifier, in the order the API returns them.
	MergedPullRequests(ctx context.Context, repo string, milestone int) ([]PullRequest, error)

	// FileContents fetches raw file content at a ref. Failures carry the
	// observed HTTP status as an *errors.FetchError.
	FileContents(ctx context.Context, repo, ref, path string) ([]byte, error)
}

// SplitRepo splits an "owner/name" repository identifier.
func SplitRepo(repo string) (owner, name string) {
	owner, name, _ = strings.Cut(repo, "/")
	return owner, name
}
