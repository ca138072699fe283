package search

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/neurixa/neurixa/internal/application"
)

// ArticleIndex wraps the Elasticsearch articles index. Reads serve the public
// search endpoint; writes come from the event worker.
type ArticleIndex struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewArticleIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *ArticleIndex {
	return &ArticleIndex{ES: es, Index: index, Logger: logger}
}

// ArticleDocument is the indexed shape of a published article.
type ArticleDocument struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	PublishedAt time.Time `json:"published_at"`
}

// IndexArticle upserts one document by article id.
func (a *ArticleIndex) IndexArticle(ctx context.Context, doc ArticleDocument) error {
	if a.ES == nil || a.Index == "" {
		return nil
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: a.Index, DocumentID: doc.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, a.ES)
	if err != nil {
		if a.Logger != nil {
			a.Logger.WithError(err).WithField("article_id", doc.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && a.Logger != nil {
		a.Logger.WithField("status", res.Status()).WithField("article_id", doc.ID).Warn("es index response error")
	}
	return nil
}

// Search performs a multi_match over title, excerpt, and slug.
func (a *ArticleIndex) Search(ctx context.Context, q string, size int) ([]application.ArticleHit, error) {
	if a.ES == nil || a.Index == "" {
		return []application.ArticleHit{}, nil
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "excerpt", "slug"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := a.ES.Search(a.ES.Search.WithContext(c), a.ES.Search.WithIndex(a.Index), a.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string                 `json:"_id"`
				Source application.ArticleHit `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]application.ArticleHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hit := h.Source
		if hit.ID == "" {
			hit.ID = h.ID
		}
		out = append(out, hit)
	}
	return out, nil
}

var _ application.ArticleSearcher = (*ArticleIndex)(nil)
