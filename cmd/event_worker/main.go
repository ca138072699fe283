package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/neurixa/neurixa/config"
	"github.com/neurixa/neurixa/internal/domain/blog"
	"github.com/neurixa/neurixa/internal/infrastructure/search"
	"github.com/neurixa/neurixa/pkg/helpers"
)

// Consumes blog domain events from RabbitMQ and keeps the Elasticsearch
// article index in sync.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-worker", cfg.Env)

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Fatalf("failed to init elasticsearch client: %v", err)
	}
	index := search.NewArticleIndex(es, cfg.ESArticlesIndex, logger)

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQEventQueue)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer consumer.Close()

	deliveries, err := consumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithField("queue", cfg.RabbitMQEventQueue).Info("event worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("event worker stopping")
			return
		case d, ok := <-deliveries:
			if !ok {
				logger.Warn("delivery channel closed")
				return
			}
			switch d.Type {
			case blog.EventArticlePublished:
				var evt blog.ArticlePublishedEvent
				if err := json.Unmarshal(d.Body, &evt); err != nil {
					logger.WithError(err).Warn("malformed article.published event")
					_ = d.Nack(false, false)
					continue
				}
				doc := search.ArticleDocument{
					ID:          evt.ArticleID,
					Slug:        evt.Slug,
					Title:       evt.Title,
					Excerpt:     evt.Excerpt,
					PublishedAt: evt.PublishedAt,
				}
				if err := index.IndexArticle(ctx, doc); err != nil {
					// Requeue once; the broker redelivers until ES recovers.
					_ = d.Nack(false, true)
					continue
				}
				_ = d.Ack(false)
			case blog.EventCommentApproved:
				var evt blog.CommentApprovedEvent
				if err := json.Unmarshal(d.Body, &evt); err != nil {
					logger.WithError(err).Warn("malformed comment.approved event")
					_ = d.Nack(false, false)
					continue
				}
				logger.WithField("comment_id", evt.CommentID).WithField("article_id", evt.ArticleID).Info("comment approved")
				_ = d.Ack(false)
			default:
				logger.WithField("type", d.Type).Warn("unknown event type")
				_ = d.Nack(false, false)
			}
		}
	}
}
