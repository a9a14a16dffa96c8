package search

import (
	"context"
	"fmt"

	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/search"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

type Options struct {
	EngineID string
	Language string
	Country  string
	Count    int
}

type CustomSearch struct {
	svc  *customsearch.Service
	opts Options
}

func NewCustomSearch(ctx context.Context, opts Options, clientOpts ...option.ClientOption) (*CustomSearch, error) {
	if opts.EngineID == "" {
		return nil, fmt.Errorf("search engine id is required")
	}
	svc, err := customsearch.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create custom search service: %w", err)
	}
	return &CustomSearch{svc: svc, opts: opts}, nil
}

func (c *CustomSearch) Search(ctx context.Context, query string) ([]search.Result, error) {
	call := c.svc.Cse.List().Q(query).Cx(c.opts.EngineID)
	if c.opts.Count > 0 {
		call = call.Num(int64(c.opts.Count))
	}
	if c.opts.Language != "" {
		call = call.Lr(c.opts.Language)
	}
	if c.opts.Country != "" {
		call = call.Gl(c.opts.Country)
	}
	res, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("custom search request failed: %w", err)
	}
	results := make([]search.Result, 0, len(res.Items))
	for _, item := range res.Items {
		if item == nil {
			continue
		}
		results = append(results, search.Result{
			Title:   item.Title,
			Snippet: item.Snippet,
			Link:    item.Link,
		})
	}
	return results, nil
}
