// Package verify decides whether a pull request references a usable Trello card and links the
// pull request to that card.
package verify

import (
	"context"
	"slices"

	"github.com/chxlky/trello-verify-action/internal/models"
)

const SupportedEvent = "pull_request"

// SupportedActions is in the order failure messages list them.
var SupportedActions = []string{"opened", "reopened", "edited"}

// EventSource describes the GitHub event that triggered the run.
type EventSource interface {
	EventName() string
	Action() string
	PullRequest() models.PullRequest
	CommitMessages(ctx context.Context) ([]string, error)
}

// CardService is the subset of the Trello API the verifier needs.
type CardService interface {
	GetCard(ctx context.Context, shortLink string) (*models.TrelloCard, error)
	GetCardAttachments(ctx context.Context, shortLink string) ([]models.TrelloAttachment, error)
	AddURLAttachment(ctx context.Context, shortLink, attachmentURL string) (*models.TrelloAttachment, error)
}

// Run verifies a single pull request event. A nil error means the check passed; otherwise the
// error is an *Error whose message is meant for the PR author.
func Run(ctx context.Context, cfg Config, events EventSource, cards CardService) error {
	if event := events.EventName(); event != SupportedEvent {
		return unsupportedEvent(event)
	}
	if action := events.Action(); !slices.Contains(SupportedActions, action) {
		return unsupportedAction(action)
	}

	pr := events.PullRequest()
	var shortLink string

	switch cfg.Title {
	case TitleAlways:
		id, err := checkTitle(pr.Title, cfg.NoID)
		if err != nil {
			return err
		}
		if id != "" {
			shortLink = id
		}
	case TitleNever:
	}

	switch cfg.Commit {
	case CommitAllCommits:
		messages, err := events.CommitMessages(ctx)
		if err != nil {
			return upstream(err)
		}
		id, err := checkCommits(messages, cfg.NoID)
		if err != nil {
			return err
		}
		if id != "" {
			shortLink = id
		}
	case CommitNever:
	}

	if shortLink == "" {
		return nil
	}
	return verifyCard(ctx, cards, shortLink, pr.URL)
}

func checkTitle(title string, noID NoIDStrategy) (string, error) {
	token := Extract(title)
	if token.Kind == Absent {
		return "", missingTitleShortLink(title)
	}
	return resolve(token, noID)
}

// checkCommits reconciles the commit messages against each other only; the title is checked
// separately.
func checkCommits(messages []string, noID NoIDStrategy) (string, error) {
	token, err := Reconcile(ExtractAll(messages))
	if err != nil {
		return "", err
	}
	if token.Kind == Absent {
		return "", missingCommitShortLink()
	}
	return resolve(token, noID)
}

// resolve returns the card short link a token points at, or "" for an accepted NOID.
func resolve(token Token, noID NoIDStrategy) (string, error) {
	if token.Kind == NoID {
		return "", CheckNoID(token.Value, noID)
	}
	return token.Value, nil
}

func verifyCard(ctx context.Context, cards CardService, shortLink, prURL string) error {
	card, err := cards.GetCard(ctx, shortLink)
	if err != nil {
		return upstream(err)
	}
	if card.Closed {
		return cardClosed(shortLink)
	}

	attachments, err := cards.GetCardAttachments(ctx, shortLink)
	if err != nil {
		return upstream(err)
	}
	for _, a := range attachments {
		if a.URL == prURL {
			return nil
		}
	}

	if _, err := cards.AddURLAttachment(ctx, shortLink, prURL); err != nil {
		return upstream(err)
	}
	return nil
}
