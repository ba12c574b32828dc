package portal

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

func (c *Client) Item(ctx context.Context, token, itemID string) (*Item, error) {
	endpoint := c.SharingURL("/content/items/" + url.PathEscape(itemID))

	var resp Item
	if err := c.getJSON(ctx, "item", endpoint, token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// QueryTable runs an attribute query against one layer or table of a feature service.
func (c *Client) QueryTable(ctx context.Context, token, serviceURL string, layer int, where string) (*QueryResponse, error) {
	endpoint := strings.TrimRight(serviceURL, "/") + "/" + strconv.Itoa(layer) + "/query"
	form := url.Values{
		"where":     {where},
		"outFields": {"*"},
	}

	var resp QueryResponse
	if err := c.postForm(ctx, "query", endpoint, token, form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
