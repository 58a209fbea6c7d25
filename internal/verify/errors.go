package verify

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	UnsupportedEvent Kind = iota + 1
	UnsupportedAction
	MissingShortLink
	ShortLinkMismatch
	NoIDPolicyViolation
	CardClosed
	UpstreamServiceError
)

func (k Kind) String() string {
	switch k {
	case UnsupportedEvent:
		return "unsupported_event"
	case UnsupportedAction:
		return "unsupported_action"
	case MissingShortLink:
		return "missing_short_link"
	case ShortLinkMismatch:
		return "short_link_mismatch"
	case NoIDPolicyViolation:
		return "noid_policy_violation"
	case CardClosed:
		return "card_closed"
	case UpstreamServiceError:
		return "upstream_service_error"
	default:
		return "unknown"
	}
}

// Error is a failed verification. Message is shown to the PR author as-is.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the Kind of a verification failure, or 0 if err is not one.
func KindOf(err error) Kind {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Kind
	}
	return 0
}

const examples = `"[abc123] My work description" or "[NOID] My work description"`

func unsupportedEvent(event string) *Error {
	return &Error{
		Kind:    UnsupportedEvent,
		Message: fmt.Sprintf("Github event \"%s\" is unsupported. Only \"%s\" is supported.", event, SupportedEvent),
	}
}

func unsupportedAction(action string) *Error {
	quoted := make([]string, len(SupportedActions))
	for i, a := range SupportedActions {
		quoted[i] = `"` + a + `"`
	}
	return &Error{
		Kind: UnsupportedAction,
		Message: fmt.Sprintf("Github action \"%s\" is unsupported. Only %s are supported.",
			action, strings.Join(quoted, ", ")),
	}
}

func missingCommitShortLink() *Error {
	return &Error{
		Kind: MissingShortLink,
		Message: "A Trello short link is missing from all commits in your PR. " +
			"Please include at least one like the following examples: " + examples,
	}
}

func missingTitleShortLink(title string) *Error {
	return &Error{
		Kind: MissingShortLink,
		Message: fmt.Sprintf("PR title \"%s\" did not contain a valid trello short link. ", title) +
			"Please include one like in the following examples: " + examples,
	}
}

func shortLinkMismatch(first, second string) *Error {
	return &Error{
		Kind: ShortLinkMismatch,
		Message: fmt.Sprintf("Your PR contained Trello short links that did not match: \"%s\" and \"%s\" differ. ", first, second) +
			"You cannot currently include more than one Trello card per PR. " +
			"But please reach out to me if this is something your team needs, you savages.",
	}
}

func noIDForbidden() *Error {
	return &Error{
		Kind: NoIDPolicyViolation,
		Message: "This PR should not include any NOID short links. If you need this functionality please " +
			`enable it via the "noid_verification_strategy" setting for this Github Action`,
	}
}

func noIDCase(want, literal string) *Error {
	return &Error{
		Kind:    NoIDPolicyViolation,
		Message: fmt.Sprintf("NOID short link needed to be %s case but was \"%s\"", want, literal),
	}
}

func cardClosed(shortLink string) *Error {
	return &Error{
		Kind:    CardClosed,
		Message: fmt.Sprintf("Trello card \"%s\" needs to be in an open state, but it is currently marked as closed.", shortLink),
	}
}

func upstream(err error) *Error {
	return &Error{Kind: UpstreamServiceError, Message: err.Error(), Err: err}
}
