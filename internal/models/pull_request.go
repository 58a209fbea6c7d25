package models

// PullRequest is the part of a GitHub pull request the verifier reads.
type PullRequest struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	URL    string `json:"html_url"`
	// CommitsURL is the REST endpoint listing the PR's commits.
	CommitsURL string `json:"commits_url"`
}

type GithubRepository struct {
	FullName string `json:"full_name"`
}

// GithubWebhookPayload is the body of a pull_request event, both as delivered to a webhook and
// as written to GITHUB_EVENT_PATH inside an Actions runner.
type GithubWebhookPayload struct {
	Action      string           `json:"action"`
	Number      int              `json:"number"`
	PullRequest PullRequest      `json:"pull_request"`
	Repository  GithubRepository `json:"repository"`
}

type GithubCommit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
	} `json:"commit"`
}
