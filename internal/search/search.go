package search

import "context"

type Result struct {
	Title   string
	Snippet string
	Link    string
}

type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}
