package router

import (
	"github.com/ndelorme/trellis/internal/application"
	"github.com/ndelorme/trellis/internal/container"
	pginfra "github.com/ndelorme/trellis/internal/infrastructure/postgres"
	handlers "github.com/ndelorme/trellis/internal/interface/http"
	"github.com/ndelorme/trellis/internal/router/modules"
)

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	edges := pginfra.NewRelationshipRepository(pool)
	posts := pginfra.NewPostRepository(pool)

	accounts := application.NewAccountService(
		users,
		container.GetJWT(),
		container.GetGCS(),
		cfg.GCSBucket,
		logger,
		container.GetES(),
		cfg.ESUsersIndex,
		cfg.SearchLimit,
	)
	relationships := application.NewRelationshipService(
		users,
		edges,
		container.GetRedis(),
		container.GetRabbitPub(),
		logger,
	)
	feed := application.NewFeedService(posts, relationships, logger, cfg.FeedLimit)

	accountHandler := handlers.NewAccountHandler(accounts, logger, cfg.CookieDomain, cfg.CookieSecure)
	relationshipHandler := handlers.NewRelationshipHandler(relationships, logger)
	feedHandler := handlers.NewFeedHandler(feed, logger)

	r.Add(modules.NewAccountModule(accountHandler, container.GetJWT()))
	r.Add(modules.NewRelationshipModule(relationshipHandler, container.GetJWT()))
	r.Add(modules.NewFeedModule(feedHandler, container.GetJWT()))
}
