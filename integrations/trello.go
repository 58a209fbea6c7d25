package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/chxlky/trello-verify-action/internal/models"
	"go.uber.org/zap"
)

const DefaultTrelloBaseURL = "https://api.trello.com/1"

// TrelloClient talks to the Trello REST API. Credentials are sent as key/token query
// parameters: https://developer.atlassian.com/cloud/trello/guides/rest-api/authorization/
type TrelloClient struct {
	Client   *http.Client
	APIKey   string
	APIToken string
	BaseURL  string
}

func NewTrelloClient(key, token, baseURL string) *TrelloClient {
	if baseURL == "" {
		baseURL = DefaultTrelloBaseURL
	}
	return &TrelloClient{
		Client:   &http.Client{},
		APIKey:   key,
		APIToken: token,
		BaseURL:  strings.TrimRight(baseURL, "/"),
	}
}

func (tc *TrelloClient) GetCard(ctx context.Context, shortLink string) (*models.TrelloCard, error) {
	var card models.TrelloCard
	if err := tc.do(ctx, http.MethodGet, "/cards/"+url.PathEscape(shortLink), nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (tc *TrelloClient) GetCardAttachments(ctx context.Context, shortLink string) ([]models.TrelloAttachment, error) {
	var attachments []models.TrelloAttachment
	path := fmt.Sprintf("/cards/%s/attachments", url.PathEscape(shortLink))
	if err := tc.do(ctx, http.MethodGet, path, nil, &attachments); err != nil {
		return nil, err
	}
	return attachments, nil
}

func (tc *TrelloClient) AddURLAttachment(ctx context.Context, shortLink, attachmentURL string) (*models.TrelloAttachment, error) {
	query := url.Values{}
	query.Set("url", attachmentURL)

	var attachment models.TrelloAttachment
	path := fmt.Sprintf("/cards/%s/attachments", url.PathEscape(shortLink))
	if err := tc.do(ctx, http.MethodPost, path, query, &attachment); err != nil {
		return nil, err
	}

	zap.L().Info("Attached pull request to Trello card",
		zap.String("shortLink", shortLink), zap.String("url", attachmentURL), zap.String("attachmentID", attachment.ID))
	return &attachment, nil
}

func (tc *TrelloClient) do(ctx context.Context, method, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("key", tc.APIKey)
	query.Set("token", tc.APIToken)

	req, err := http.NewRequestWithContext(ctx, method, tc.BaseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create %s request for %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")

	zap.L().Debug("Calling Trello API", zap.String("method", method), zap.String("path", path))

	resp, err := tc.Client.Do(req)
	if err != nil {
		return fmt.Errorf("API endpoint %s error: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API endpoint %s error: %d %s", path, resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode Trello response for %s: %w", path, err)
	}
	return nil
}
