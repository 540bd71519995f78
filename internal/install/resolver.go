package install

import (
	"context"
	"fmt"

	"github.com/google/go-github/v72/github"
)

const (
	releaseOwner = "k0sproject"
	releaseRepo  = "k0s"
)

// ReleaseResolver resolves the "latest" version specifier to a concrete
// release tag. Resolution happens at most once per run; callers freeze the
// result in the Request so "latest" cannot change meaning mid-run.
type ReleaseResolver interface {
	LatestVersion(ctx context.Context) (string, error)
}

// GitHubResolver resolves releases against the upstream GitHub repository.
type GitHubResolver struct {
	client *github.Client
}

// NewGitHubResolver returns a resolver backed by the public GitHub API.
func NewGitHubResolver() *GitHubResolver {
	return &GitHubResolver{client: github.NewClient(nil)}
}

// LatestVersion returns the tag of the newest published k0s release.
func (r *GitHubResolver) LatestVersion(ctx context.Context) (string, error) {
	release, _, err := r.client.Repositories.GetLatestRelease(ctx, releaseOwner, releaseRepo)
	if err != nil {
		return "", fmt.Errorf("query latest %s/%s release: %w", releaseOwner, releaseRepo, err)
	}

	tag := release.GetTagName()
	if tag == "" {
		return "", fmt.Errorf("latest %s/%s release has no tag", releaseOwner, releaseRepo)
	}
	return tag, nil
}
