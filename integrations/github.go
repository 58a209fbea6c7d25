package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/chxlky/trello-verify-action/internal/models"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	DefaultGithubAPIURL = "https://api.github.com"
	commitsPerPage      = 100
)

type GithubClient struct {
	Client *http.Client
	APIURL string
}

// NewGithubClient returns a client authenticated with token. An empty token yields an
// unauthenticated client, which only works against public repositories.
func NewGithubClient(ctx context.Context, token, apiURL string) *GithubClient {
	if apiURL == "" {
		apiURL = DefaultGithubAPIURL
	}
	httpClient := &http.Client{}
	if token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}
	return &GithubClient{
		Client: httpClient,
		APIURL: strings.TrimRight(apiURL, "/"),
	}
}

// CommitsURL builds the pull request commits endpoint for repo ("owner/name").
func (gc *GithubClient) CommitsURL(repo string, number int) string {
	return fmt.Sprintf("%s/repos/%s/pulls/%d/commits", gc.APIURL, repo, number)
}

// PullRequestCommits returns the commit messages of a pull request in commit order.
func (gc *GithubClient) PullRequestCommits(ctx context.Context, commitsURL string) ([]string, error) {
	base, err := url.Parse(commitsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid commits url %q: %w", commitsURL, err)
	}

	var messages []string
	for page := 1; ; page++ {
		query := base.Query()
		query.Set("per_page", strconv.Itoa(commitsPerPage))
		query.Set("page", strconv.Itoa(page))
		u := *base
		u.RawQuery = query.Encode()

		var commits []models.GithubCommit
		if err := gc.get(ctx, &u, &commits); err != nil {
			return nil, err
		}
		for _, c := range commits {
			messages = append(messages, c.Commit.Message)
		}
		if len(commits) < commitsPerPage {
			break
		}
	}

	zap.L().Debug("Fetched pull request commits", zap.String("url", commitsURL), zap.Int("count", len(messages)))
	return messages, nil
}

func (gc *GithubClient) get(ctx context.Context, u *url.URL, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create get request for %s: %w", u.Path, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := gc.Client.Do(req)
	if err != nil {
		return fmt.Errorf("API endpoint %s error: %w", u.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API endpoint %s error: %d %s", u.Path, resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode GitHub response for %s: %w", u.Path, err)
	}
	return nil
}

// PullRequestEvent is a GitHub event together with the client used to fetch the rest of the
// pull request on demand.
type PullRequestEvent struct {
	Name    string
	Payload models.GithubWebhookPayload
	github  *GithubClient
}

// NewWebhookEvent decodes a webhook delivery body for the event called name.
func NewWebhookEvent(gc *GithubClient, name string, body []byte) (*PullRequestEvent, error) {
	var payload models.GithubWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode %s event payload: %w", name, err)
	}
	return &PullRequestEvent{Name: name, Payload: payload, github: gc}, nil
}

// LoadActionEvent reads the triggering event from the GitHub Actions runner environment.
func LoadActionEvent(gc *GithubClient) (*PullRequestEvent, error) {
	name := os.Getenv("GITHUB_EVENT_NAME")
	path := os.Getenv("GITHUB_EVENT_PATH")
	if path == "" {
		return nil, fmt.Errorf("GITHUB_EVENT_PATH is not set; is this running inside GitHub Actions?")
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event payload: %w", err)
	}
	return NewWebhookEvent(gc, name, body)
}

func (e *PullRequestEvent) EventName() string { return e.Name }

func (e *PullRequestEvent) Action() string { return e.Payload.Action }

func (e *PullRequestEvent) PullRequest() models.PullRequest { return e.Payload.PullRequest }

func (e *PullRequestEvent) CommitMessages(ctx context.Context) ([]string, error) {
	commitsURL := e.Payload.PullRequest.CommitsURL
	if commitsURL == "" {
		number := e.Payload.PullRequest.Number
		if number == 0 {
			number = e.Payload.Number
		}
		commitsURL = e.github.CommitsURL(e.Payload.Repository.FullName, number)
	}
	return e.github.PullRequestCommits(ctx, commitsURL)
}
