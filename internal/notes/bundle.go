package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/gobwas/glob"

	"github.com/Iron-Ham/relnotes/internal/forge"
)

// manifest is the subset of a composer-lock-style dependency manifest
// the bundle traversal needs: the pinned name and version of every
// package in the bundle.
type manifest struct {
	Packages []manifestPackage `json:"packages"`
}

type manifestPackage struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Bundle walks the configured bundle: first the fixed top-level
// repositories, aggregating each one's lowest open milestone, then the
// sub-packages discovered through the bundle root's dependency manifest,
// aggregating every closed milestone newer than the pinned version.
//
// Sub-packages are not deduplicated against the fixed repository list;
// a package appearing in both passes is emitted by both.
func (a *Aggregator) Bundle(ctx context.Context, source Source, format Format) error {
	for _, repo := range a.cfg.Bundle.Repos {
		milestones, err := a.forge.Milestones(ctx, repo, forge.MilestoneAll)
		if err != nil {
			return fmt.Errorf("failed to list milestones for %s: %w", repo, err)
		}

		lowest := a.lowestOpen(milestones)
		if lowest == nil {
			a.log.Warn("no open milestone", "repo", repo)
			continue
		}

		fmt.Fprint(a.out, RepoHeading(repo, format))
		err = a.Repo(ctx, Request{
			Repo:       repo,
			Milestones: []string{lowest.Title},
			Source:     source,
			Format:     format,
		})
		if err != nil {
			return err
		}
	}

	return a.bundlePackages(ctx, source, format)
}

// bundlePackages aggregates notes for the sub-packages pinned in the
// bundle root's dependency manifest. The manifest is read at the tag of
// the root's highest closed milestone, falling back to the configured
// ref when no closed milestone exists. A failed manifest fetch aborts
// the run.
func (a *Aggregator) bundlePackages(ctx context.Context, source Source, format Format) error {
	root := a.cfg.Bundle.Root

	closed, err := a.forge.Milestones(ctx, root, forge.MilestoneClosed)
	if err != nil {
		return fmt.Errorf("failed to list milestones for %s: %w", root, err)
	}

	ref := a.cfg.Bundle.FallbackRef
	if highest := a.highestClosed(closed); highest != nil {
		ref = releaseTag(highest.Title)
	}

	raw, err := a.forge.FileContents(ctx, root, ref, a.cfg.Bundle.ManifestPath)
	if err != nil {
		return fmt.Errorf("failed to fetch dependency manifest: %w", err)
	}

	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("failed to parse dependency manifest: %w", err)
	}

	sort.Slice(m.Packages, func(i, j int) bool {
		return m.Packages[i].Name < m.Packages[j].Name
	})

	command, err := glob.Compile(a.cfg.Bundle.CommandPattern)
	if err != nil {
		return fmt.Errorf("invalid command package pattern %q: %w", a.cfg.Bundle.CommandPattern, err)
	}
	extras := make(map[string]bool, len(a.cfg.Bundle.ExtraPackages))
	for _, name := range a.cfg.Bundle.ExtraPackages {
		extras[name] = true
	}

	for _, pkg := range m.Packages {
		if !command.Match(pkg.Name) && !extras[pkg.Name] {
			continue
		}
		if err := a.packageMilestones(ctx, pkg, source, format); err != nil {
			return err
		}
	}
	return nil
}

// packageMilestones aggregates every closed milestone of pkg whose title
// is strictly newer than the version pinned in the manifest.
func (a *Aggregator) packageMilestones(ctx context.Context, pkg manifestPackage, source Source, format Format) error {
	pin, err := semver.NewVersion(strings.TrimPrefix(pkg.Version, "v"))
	if err != nil {
		a.log.Debug("skipping package with unparsable pinned version",
			"package", pkg.Name, "version", pkg.Version)
		return nil
	}

	closed, err := a.forge.Milestones(ctx, pkg.Name, forge.MilestoneClosed)
	if err != nil {
		return fmt.Errorf("failed to list milestones for %s: %w", pkg.Name, err)
	}

	for _, m := range closed {
		v, err := semver.NewVersion(m.Title)
		if err != nil {
			a.log.Debug("skipping milestone with unparsable title",
				"repo", pkg.Name, "milestone", m.Title)
			continue
		}
		if !v.GreaterThan(pin) {
			continue
		}

		fmt.Fprint(a.out, RepoHeading(pkg.Name, format))
		err = a.Repo(ctx, Request{
			Repo:       pkg.Name,
			Milestones: []string{m.Title},
			Source:     source,
			Format:     format,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// lowestOpen selects the open milestone with the semantically lowest
// version title. Titles that don't parse as versions are skipped.
func (a *Aggregator) lowestOpen(milestones []forge.Milestone) *forge.Milestone {
	var best *forge.Milestone
	var bestVersion *semver.Version

	for i := range milestones {
		m := &milestones[i]
		if m.State != forge.MilestoneOpen {
			continue
		}
		v, err := semver.NewVersion(m.Title)
		if err != nil {
			a.log.Debug("skipping milestone with unparsable title", "milestone", m.Title)
			continue
		}
		if best == nil || v.LessThan(bestVersion) {
			best, bestVersion = m, v
		}
	}
	return best
}

// highestClosed selects the closed milestone with the semantically
// highest version title. Titles that don't parse as versions are
// skipped.
func (a *Aggregator) highestClosed(milestones []forge.Milestone) *forge.Milestone {
	var best *forge.Milestone
	var bestVersion *semver.Version

	for i := range milestones {
		m := &milestones[i]
		if m.State != forge.MilestoneClosed {
			continue
		}
		v, err := semver.NewVersion(m.Title)
		if err != nil {
			a.log.Debug("skipping milestone with unparsable title", "milestone", m.Title)
			continue
		}
		if best == nil || v.GreaterThan(bestVersion) {
			best, bestVersion = m, v
		}
	}
	return best
}
