package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	DefaultPageSize = 50
	maxPages        = 2000
)

// ListAll là chế độ "isAll": gọi lặp với limit/offset cho tới khi nhận một page ngắn
func ListAll[T any](ctx context.Context, c *Client, name, path string, query url.Values) ([]T, error) {
	var all []T

	for page := 0; page < maxPages; page++ {
		q := url.Values{}
		for k, v := range query {
			q[k] = append([]string(nil), v...)
		}
		q.Set("limit", strconv.Itoa(c.pageSize))
		q.Set("offset", strconv.Itoa(page*c.pageSize))

		var items []T
		if err := c.Do(ctx, Call{Name: name, Method: http.MethodGet, Path: path, Query: q}, &items); err != nil {
			return nil, err
		}

		all = append(all, items...)
		if len(items) < c.pageSize {
			return all, nil
		}
	}

	return nil, fmt.Errorf("%s: more than %d pages", name, maxPages)
}
