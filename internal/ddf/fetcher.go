package ddf

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// FetchAll pages through the Property endpoint and accumulates every record
// matching filter, up to maxRecords. Pagination is $top/$skip with a fixed
// page size; the provider is exhausted when a page comes back short, or when
// the response's @odata.count says there is nothing past the current offset.
// Any non-success page aborts the whole fetch — a partial catalog risks
// masking deletions, so the accumulated pages are discarded with the error.
func (c *Client) FetchAll(ctx context.Context, token, filter string, maxRecords int) ([]Property, error) {
	top := c.pageSize()
	var all []Property

	for skip := 0; ; skip += top {
		page, err := c.fetchPage(ctx, token, filter, top, skip)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Value...)

		if maxRecords > 0 && len(all) >= maxRecords {
			return all[:maxRecords], nil
		}
		if len(page.Value) < top {
			return all, nil
		}
		if page.Count > 0 && skip+len(page.Value) >= page.Count {
			return all, nil
		}
	}
}

func (c *Client) fetchPage(ctx context.Context, token, filter string, top, skip int) (*PropertyResponse, error) {
	params := url.Values{}
	if filter != "" {
		params.Set("$filter", filter)
	}
	params.Set("$top", fmt.Sprint(top))
	params.Set("$skip", fmt.Sprint(skip))
	params.Set("$count", "true")

	pageURL := fmt.Sprintf("%s/Property?%s", c.APIURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ddf: build request for %s: %w", pageURL, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("ddf: fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ddf: status %d at $skip=%d", resp.StatusCode, skip)
	}

	var page PropertyResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("ddf: decode page at $skip=%d: %w", skip, err)
	}

	return &page, nil
}
