// Package gamebanana wraps the GameBanana apiv11 REST API for the
// Deadlock game id: browsing submissions, fetching mod details with
// downloadable files, and listing sections and category trees.
package gamebanana

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

const (
	defaultBaseURL = "https://gamebanana.com/apiv11"

	// deadlockGameID is GameBanana's row id for Deadlock.
	deadlockGameID = 20948

	userAgent = "dmm/1.0"
)

// Client wraps the GameBanana apiv11 API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	gameID     int64
}

// NewClient creates a new GameBanana API client. If httpClient is nil,
// http.DefaultClient is used.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		gameID:     deadlockGameID,
	}
}

// SetBaseURL overrides the API endpoint (used by tests).
func (c *Client) SetBaseURL(base string) {
	c.baseURL = base
}

// doRequest performs a GET against the API and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, path string, result interface{}) (err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing response body: %w", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("GameBanana API error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// BrowseQuery selects a page of catalog submissions.
type BrowseQuery struct {
	Section    string // submission model, defaults to "Mod"
	Page       int
	PerPage    int
	Search     string
	CategoryID int64
}

// Browse fetches one page of submissions for the game.
func (c *Client) Browse(ctx context.Context, q BrowseQuery) (*ModsPage, error) {
	section := q.Section
	if section == "" {
		section = "Mod"
	}

	params := url.Values{}
	params.Set("_nPerpage", strconv.Itoa(q.PerPage))
	params.Set("_nPage", strconv.Itoa(q.Page))
	params.Set("_aFilters[Generic_Game]", strconv.FormatInt(c.gameID, 10))
	if q.Search != "" {
		params.Set("_sSearchString", q.Search)
	}
	if q.CategoryID != 0 {
		params.Set("_aFilters[Generic_Category]", strconv.FormatInt(q.CategoryID, 10))
	}

	var raw modsPageRaw
	if err := c.doRequest(ctx, "/"+section+"/Index?"+params.Encode(), &raw); err != nil {
		return nil, err
	}

	page := &ModsPage{
		TotalCount: raw.Metadata.RecordCount,
		IsComplete: raw.Metadata.IsComplete,
		PerPage:    raw.Metadata.PerPage,
	}
	for _, r := range raw.Records {
		page.Records = append(page.Records, r.clean())
	}
	return page, nil
}

// GetModDetails fetches one submission's full record, including its
// downloadable files.
func (c *Client) GetModDetails(ctx context.Context, section string, modID int64) (*ModDetails, error) {
	if section == "" {
		section = "Mod"
	}

	path := fmt.Sprintf("/%s/%d?_csvProperties=%s", section, modID,
		url.QueryEscape("_idRow,_sName,_sText,_aCategory,_aFiles,_aPreviewMedia"))

	var raw modDetailsRaw
	if err := c.doRequest(ctx, path, &raw); err != nil {
		return nil, err
	}
	return raw.clean(), nil
}

// Sections lists the submission types the game accepts.
func (c *Client) Sections(ctx context.Context) ([]Section, error) {
	var raw []sectionRaw
	path := fmt.Sprintf("/Game/%d/CategoryTree", c.gameID)
	if err := c.doRequest(ctx, path, &raw); err != nil {
		return nil, err
	}

	out := make([]Section, len(raw))
	for i, r := range raw {
		out[i] = Section(r)
	}
	return out, nil
}

// CategoryTree fetches the nested category structure for a section's
// category model.
func (c *Client) CategoryTree(ctx context.Context, categoryModel string) ([]CategoryNode, error) {
	var raw []categoryNodeRaw
	path := fmt.Sprintf("/Util/%s/NestedStructure?_idGameRow=%d", categoryModel, c.gameID)
	if err := c.doRequest(ctx, path, &raw); err != nil {
		return nil, err
	}

	var out []CategoryNode
	for _, r := range raw {
		out = append(out, r.clean())
	}
	return out, nil
}
