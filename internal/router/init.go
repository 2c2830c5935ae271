package router

import (
	app "github.com/bookwormhq/bookworm-api/internal/application"
	"github.com/bookwormhq/bookworm-api/internal/container"
	"github.com/bookwormhq/bookworm-api/internal/infrastructure/mongodb"
	handlers "github.com/bookwormhq/bookworm-api/internal/interface/http"
	"github.com/bookwormhq/bookworm-api/internal/router/modules"
	"github.com/bookwormhq/bookworm-api/internal/upload"
)

// InitModules initializes all application modules and registers them with the
// router registry. Called once during application startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	users := mongodb.NewUserRepository(container.GetMongo())
	books := mongodb.NewBookRepository(container.GetMongo())

	pipeline := upload.NewPipeline(
		upload.NewGCSStorage(container.GetGCS(), cfg.GCSBucket),
		cfg.UploadDir,
		"book-covers",
		cfg.UploadMaxBytes,
		logger,
	)

	authSvc := app.NewAuthService(users, container.GetJWT(), container.GetRabbitPub(), logger)
	bookSvc := app.NewBookService(books, users, pipeline, logger, container.GetES(), cfg.ESBooksIndex)

	r.Add(modules.PingModule{})
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger)))
	r.Add(modules.NewBookModule(handlers.NewBookHandler(bookSvc, logger), users, container.GetJWT()))
}
