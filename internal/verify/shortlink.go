package verify

import (
	"regexp"
	"strings"
)

// NoIDMarker is the bracketed literal that declares a PR has no Trello card.
const NoIDMarker = "noid"

var shortLinkPattern = regexp.MustCompile(`^\[([[:alnum:]]+)\]\s`)

type TokenKind int

const (
	Absent TokenKind = iota
	CardLink
	NoID
)

func (k TokenKind) String() string {
	switch k {
	case CardLink:
		return "card link"
	case NoID:
		return "noid"
	default:
		return "absent"
	}
}

// Token is the result of scanning one piece of text. Value keeps the casing it was written in.
type Token struct {
	Kind  TokenKind
	Value string
}

// Extract reads a "[token] rest" prefix from text.
func Extract(text string) Token {
	m := shortLinkPattern.FindStringSubmatch(text)
	if m == nil {
		return Token{Kind: Absent}
	}
	if strings.EqualFold(m[1], NoIDMarker) {
		return Token{Kind: NoID, Value: m[1]}
	}
	return Token{Kind: CardLink, Value: m[1]}
}

// ExtractAll extracts a token from every text, preserving order.
func ExtractAll(texts []string) []Token {
	tokens := make([]Token, 0, len(texts))
	for _, t := range texts {
		tokens = append(tokens, Extract(t))
	}
	return tokens
}
