package updater

import (
	"context"
	"fmt"
	"strings"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/guiyumin/ytdlp-api/internal/core/version"
)

const (
	repoOwner = "guiyumin"
	repoName  = "ytdlp-api"
)

func newUpdater() (*selfupdate.Updater, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, err
	}
	return selfupdate.NewUpdater(selfupdate.Config{
		Source: source,
	})
}

// currentVersion strips a leading "v" so it compares as semver
func currentVersion() string {
	return strings.TrimPrefix(version.Version, "v")
}

func detectLatest(ctx context.Context, u *selfupdate.Updater) (*selfupdate.Release, bool, error) {
	latest, found, err := u.DetectLatest(ctx, selfupdate.NewRepositorySlug(repoOwner, repoName))
	if err != nil {
		return nil, false, fmt.Errorf("failed to check for updates: %w", err)
	}
	return latest, found, nil
}

// CheckUpdate reports the latest release and whether it is newer than this build
func CheckUpdate(ctx context.Context) (*selfupdate.Release, bool, error) {
	u, err := newUpdater()
	if err != nil {
		return nil, false, err
	}

	latest, found, err := detectLatest(ctx, u)
	if err != nil || !found {
		return nil, false, err
	}

	if latest.LessOrEqual(currentVersion()) {
		return latest, false, nil
	}
	return latest, true, nil
}

// Update replaces the running executable with the latest release
func Update(ctx context.Context) error {
	u, err := newUpdater()
	if err != nil {
		return err
	}

	latest, found, err := detectLatest(ctx, u)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no releases found for %s/%s", repoOwner, repoName)
	}

	if latest.LessOrEqual(currentVersion()) {
		fmt.Printf("Already up to date (v%s)\n", currentVersion())
		return nil
	}

	fmt.Printf("Updating from v%s to %s...\n", currentVersion(), latest.Version())

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	if err := u.UpdateTo(ctx, latest, exe); err != nil {
		return fmt.Errorf("failed to update: %w", err)
	}

	fmt.Printf("Successfully updated to %s\n", latest.Version())
	return nil
}
