package verify

import (
	"fmt"
	"strings"
)

// CommitStrategy controls whether commit messages must carry a short link.
type CommitStrategy string

const (
	CommitAllCommits CommitStrategy = "ALL_COMMITS"
	CommitNever      CommitStrategy = "NEVER"
)

// TitleStrategy controls whether the pull request title must carry a short link.
type TitleStrategy string

const (
	TitleAlways TitleStrategy = "ALWAYS"
	TitleNever  TitleStrategy = "NEVER"
)

// NoIDStrategy controls whether, and in which casing, a NOID marker is accepted.
type NoIDStrategy string

const (
	NoIDNever           NoIDStrategy = "NEVER"
	NoIDCaseInsensitive NoIDStrategy = "CASE_INSENSITIVE"
	NoIDUpperCase       NoIDStrategy = "UPPER_CASE"
	NoIDLowerCase       NoIDStrategy = "LOWER_CASE"
)

// Config is fixed for the duration of a run.
type Config struct {
	Commit CommitStrategy
	Title  TitleStrategy
	NoID   NoIDStrategy
}

// DefaultConfig mirrors the action's documented input defaults.
func DefaultConfig() Config {
	return Config{
		Commit: CommitAllCommits,
		Title:  TitleNever,
		NoID:   NoIDNever,
	}
}

func ParseCommitStrategy(s string) (CommitStrategy, error) {
	v, err := parseChoice("commit_verification_strategy", s,
		string(CommitAllCommits), string(CommitNever))
	return CommitStrategy(v), err
}

func ParseTitleStrategy(s string) (TitleStrategy, error) {
	v, err := parseChoice("title_verification_strategy", s,
		string(TitleAlways), string(TitleNever))
	return TitleStrategy(v), err
}

func ParseNoIDStrategy(s string) (NoIDStrategy, error) {
	v, err := parseChoice("noid_verification_strategy", s,
		string(NoIDNever), string(NoIDCaseInsensitive), string(NoIDUpperCase), string(NoIDLowerCase))
	return NoIDStrategy(v), err
}

func parseChoice(setting, s string, choices ...string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for _, c := range choices {
		if normalized == c {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid %s %q: expected one of %s", setting, s, strings.Join(choices, ", "))
}
