// Package classification Campus Events Service.
//
// Backend of the campus event management platform. Students browse and register for events,
// organizers run them and administrators oversee everything.
//
// Terms Of Service:
//
// there are no TOS at this moment, use at your own risk we take no responsibility
//
//	Version: 0.1.0
//	License: TODO
//	Contact: <info@campusevents.com> https://github.com/dhis2-sre/campus-events
//
//	Consumes:
//	  - application/json
//
//	Produces:
//	  - application/json
//
//	SecurityDefinitions:
//	  oauth2:
//	    type: oauth2
//	    tokenUrl: /tokens
//	    refreshUrl: /refresh
//	    flow: password
//
// swagger:meta
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	internalLog "github.com/dhis2-sre/campus-events/internal/log"
	"github.com/dhis2-sre/campus-events/internal/middleware"
	"github.com/dhis2-sre/campus-events/internal/server"
	"github.com/dhis2-sre/campus-events/pkg/config"
	"github.com/dhis2-sre/campus-events/pkg/event"
	"github.com/dhis2-sre/campus-events/pkg/favorite"
	"github.com/dhis2-sre/campus-events/pkg/notification"
	"github.com/dhis2-sre/campus-events/pkg/registration"
	"github.com/dhis2-sre/campus-events/pkg/storage"
	"github.com/dhis2-sre/campus-events/pkg/token"
	"github.com/dhis2-sre/campus-events/pkg/user"
	"github.com/go-mail/mail"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.New()

	logger := slog.New(internalLog.New(internalLog.NewPrettyJSONHandler(os.Stdout, &internalLog.PrettyJSONHandlerOptions{
		HandlerOptions: slog.HandlerOptions{
			AddSource: true,
			Level:     cfg.Logging.Level,
		},
		PrettyPrint: cfg.Logging.Pretty,
	})))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := setupTracing(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("Failed to shut down tracing", "error", err)
		}
	}()

	db, err := storage.NewDatabase(logger, cfg.Postgresql)
	if err != nil {
		return err
	}

	redis, err := storage.NewRedis(cfg.Redis)
	if err != nil {
		return err
	}

	images, err := newImageStore(ctx, logger, cfg.ObjectStorage)
	if err != nil {
		return err
	}

	connection, err := amqp.Dial(cfg.RabbitMQ.GetUrl())
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %v", err)
	}
	defer func() { _ = connection.Close() }()

	publisher, err := notification.NewPublisher(connection, cfg.RabbitMQ.Queue)
	if err != nil {
		return err
	}
	defer func() { _ = publisher.Close() }()

	userService := user.NewService(user.NewRepository(db))
	err = user.CreateAdminUser(ctx, cfg.AdminUser.Email, cfg.AdminUser.Password, userService)
	if err != nil {
		return err
	}

	privateKey, err := cfg.Authentication.Keys.GetPrivateKey()
	if err != nil {
		return err
	}

	tokenService, err := token.NewService(
		logger,
		token.NewRepository(redis),
		privateKey,
		cfg.Authentication.AccessTokenExpirationSeconds,
		cfg.Authentication.RefreshTokenSecretKey,
		cfg.Authentication.RefreshTokenExpirationSeconds,
	)
	if err != nil {
		return err
	}

	authentication := middleware.NewAuthentication(logger, &privateKey.PublicKey, userService)
	authorization := middleware.NewAuthorization(logger, userService)

	eventService := event.NewService(logger, event.NewRepository(db), images, publisher, cfg.TimeZone, cfg.UIURL, cfg.ObjectStorage.PublicURL)
	registrationService := registration.NewService(logger, registration.NewRepository(db), publisher, cfg.TimeZone)
	favoriteService := favorite.NewService(favorite.NewRepository(db))

	notificationRepository := notification.NewRepository(db)
	notificationService := notification.NewService(notificationRepository)
	broker := notification.NewBroker()
	dialer := mail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	mailer := notification.NewMailer(dialer, cfg.SMTP.From, cfg.UIURL)
	consumer, err := notification.NewConsumer(logger, connection, cfg.RabbitMQ.Queue, notificationRepository, broker, mailer, userService)
	if err != nil {
		return err
	}
	defer func() { _ = consumer.Close() }()

	reminder := notification.NewReminder(logger, notificationRepository, publisher, cfg.Reminder.LeadTime, cfg.TimeZone)
	scheduler, err := reminder.Schedule(cfg.Reminder.Schedule)
	if err != nil {
		return err
	}

	engine, router := server.GetEngine(logger, cfg.BasePath, cfg.AllowedOrigins)
	user.Routes(router, authentication, authorization, user.NewHandler(cfg, userService, tokenService, eventService))
	event.Routes(router, authentication, authorization, event.NewHandler(eventService, cfg.TimeZone))
	registration.Routes(router, authentication, authorization, registration.NewHandler(registrationService, eventService))
	favorite.Routes(router, authentication, favorite.NewHandler(favoriteService))
	notification.Routes(router, authentication, notification.NewHandler(notificationService, broker))

	g, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              ":8080",
		Handler:           engine.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// notification streams end when the service shuts down
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g.Go(func() error {
		logger.Info("Listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down", "streamingUsers", len(broker.Subscribers()))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return consumer.Consume(ctx)
	})

	g.Go(func() error {
		scheduler.Start()
		<-ctx.Done()
		<-scheduler.Stop().Done()
		return nil
	})

	return g.Wait()
}

type imageStore interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
}

func newImageStore(ctx context.Context, logger *slog.Logger, c config.ObjectStorage) (imageStore, error) {
	if c.Kind == config.ObjectStoreMinio {
		return storage.NewMinioClient(ctx, logger, c)
	}

	client, err := storage.NewAWSS3Client(ctx, c)
	if err != nil {
		return nil, err
	}
	return storage.NewS3Client(logger, client, manager.NewUploader(client), c.Bucket), nil
}

// setupTracing exports spans to Jaeger if an endpoint is configured. The returned function flushes
// and stops the exporter.
func setupTracing(c config.Tracing) (func(context.Context) error, error) {
	if c.JaegerEndpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(c.JaegerEndpoint)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Jaeger exporter: %v", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", "campus-events"))),
	)
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}
