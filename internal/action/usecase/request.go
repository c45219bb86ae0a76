package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"saas-action-bot/internal/action"
	"saas-action-bot/internal/model"
)

// preparedRequest is a resolved request, rebuilt into an *http.Request per attempt.
type preparedRequest struct {
	method string
	url    string
	header http.Header
	body   []byte
}

// prepare places every parameter by its declared location. Undeclared parameters go
// to the body for write methods and to the query string otherwise.
func prepare(baseURL string, ep model.Endpoint, params map[string]any) (preparedRequest, error) {
	if baseURL == "" {
		return preparedRequest{}, fmt.Errorf("%w: no API base URL", action.ErrInvalidRequest)
	}

	method := strings.ToUpper(ep.Method)
	path := ep.Path
	query := url.Values{}
	header := http.Header{}
	body := map[string]any{}

	for name, v := range params {
		loc := model.InQuery
		if ep.IsWrite() {
			loc = model.InBody
		}
		if p, ok := ep.Param(name); ok && p.In != "" {
			loc = p.In
		}

		switch loc {
		case model.InPath:
			path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(stringify(v)))
		case model.InHeader:
			header.Set(name, stringify(v))
		case model.InBody:
			body[name] = v
		default:
			query.Set(name, stringify(v))
		}
	}

	if strings.Contains(path, "{") {
		return preparedRequest{}, fmt.Errorf("%w: unfilled path parameter in %s", action.ErrInvalidRequest, path)
	}

	u := strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	pr := preparedRequest{method: method, url: u, header: header}
	if len(body) > 0 {
		b, err := json.Marshal(body)
		if err != nil {
			return preparedRequest{}, fmt.Errorf("%w: %v", action.ErrInvalidRequest, err)
		}
		pr.body = b
	}
	return pr, nil
}

func (p preparedRequest) build(ctx context.Context, authorization string) (*http.Request, error) {
	var body io.Reader
	if p.body != nil {
		body = bytes.NewReader(p.body)
	}
	req, err := http.NewRequestWithContext(ctx, p.method, p.url, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", action.ErrInvalidRequest, err)
	}
	for k, vs := range p.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if p.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", authorization)
	return req, nil
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case nil:
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
