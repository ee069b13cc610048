// main package for the narration-service
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/book-expert/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/nats-io/nats.go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/talesai/narration-service/internal/api"
	"github.com/talesai/narration-service/internal/catalog"
	"github.com/talesai/narration-service/internal/config"
	"github.com/talesai/narration-service/internal/core"
	"github.com/talesai/narration-service/internal/identity"
	"github.com/talesai/narration-service/internal/narration"
	"github.com/talesai/narration-service/internal/objectstore"
	"github.com/talesai/narration-service/internal/tts"
	"github.com/talesai/narration-service/internal/voice"
	"github.com/talesai/narration-service/internal/worker"
)

const (
	mongoConnectTimeout   = 10 * time.Second
	httpReadHeaderTimeout = 10 * time.Second
	shutdownTimeout       = 15 * time.Second
)

func setupLogger(logPath string) (*logger.Logger, error) {
	log, err := logger.New(logPath, "narration-service.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

func connectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	err = client.Ping(connectCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	return client, nil
}

// newObjectStore picks the artifact store backend: MinIO for deployments,
// the NATS JetStream store for development setups without S3.
func newObjectStore(
	ctx context.Context,
	cfg *config.Config,
	natsConnection *nats.Conn,
) (core.ObjectStore, error) {
	if cfg.NATS.UseObjectStore {
		jetstreamContext, err := natsConnection.JetStream()
		if err != nil {
			return nil, fmt.Errorf("failed to get jetstream context: %w", err)
		}

		store, err := objectstore.NewNats(jetstreamContext, cfg.NATS.NarrationObjectBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to create NATS object store: %w", err)
		}

		return store, nil
	}

	minioClient, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	store, err := objectstore.NewMinio(
		ctx,
		minioClient,
		cfg.Minio.Bucket,
		time.Duration(cfg.Minio.URLExpiryHours)*time.Hour,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create minio object store: %w", err)
	}

	return store, nil
}

func run() error {
	// 1. Create a temporary logger for the bootstrap process
	bootstrapLog, err := setupLogger(os.TempDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return err
	}

	// 2. Load configuration using the central configurator
	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 3. Initialize the final logger based on the loaded configuration
	finalLog, err := setupLogger(cfg.Paths.BaseLogsDir)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return fmt.Errorf("failed to create final logger: %w", err)
	}

	defer func() {
		closeErr := finalLog.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing final logger: %v\n", closeErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Connect the external collaborators: catalog store, NATS, object
	// store, synthesis vendor, identity provider.
	mongoClient, err := connectMongo(ctx, cfg)
	if err != nil {
		finalLog.Error("Failed to connect to mongo: %v", err)

		return err
	}

	defer func() {
		disconnectErr := mongoClient.Disconnect(context.Background())
		if disconnectErr != nil {
			finalLog.Warn("Failed to disconnect mongo client: %v", disconnectErr)
		}
	}()

	natsConnection, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		finalLog.Error("Failed to connect to NATS: %v", err)

		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer natsConnection.Close()

	store, err := newObjectStore(ctx, cfg, natsConnection)
	if err != nil {
		finalLog.Error("Failed to create object store: %v", err)

		return err
	}

	synthesizer := tts.New(
		cfg.ElevenLabs.BaseURL,
		cfg.ElevenLabs.APIKey,
		time.Duration(cfg.ElevenLabs.TimeoutSeconds)*time.Second,
	)

	identityClient := identity.New(
		cfg.Identity.VerifyURL,
		time.Duration(cfg.Identity.TimeoutSeconds)*time.Second,
	)

	// 5. Assemble the narration workflow.
	catalogStore := catalog.New(mongoClient.Database(cfg.Mongo.Database))
	voices := voice.NewResolver(catalogStore, store, synthesizer, finalLog)
	orchestrator := narration.NewOrchestrator(voices, store, synthesizer, finalLog)

	// 6. Start the NATS narration worker.
	narrationWorker, err := worker.NewNatsWorker(
		natsConnection,
		cfg.NATS.NarrationSubject,
		catalogStore,
		orchestrator,
		finalLog,
	)
	if err != nil {
		finalLog.Error("Failed to create narration worker: %v", err)

		return fmt.Errorf("failed to create narration worker: %w", err)
	}

	workerErr := make(chan error, 1)

	go func() {
		workerErr <- narrationWorker.Run(ctx)
	}()

	// 7. Serve the public API.
	handler := api.NewHandler(catalogStore, orchestrator, voices, finalLog)
	router := api.NewRouter(handler, identityClient, cfg.HTTP.AllowedOrigins)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: httpReadHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		shutdownErr := server.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			finalLog.Warn("HTTP server shutdown failed: %v", shutdownErr)
		}
	}()

	finalLog.System(
		"Narration service listening on :%d, narration subject: %s",
		cfg.HTTP.Port, cfg.NATS.NarrationSubject,
	)

	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		finalLog.Error("HTTP server crashed: %v", err)

		return fmt.Errorf("http server failed: %w", err)
	}

	return <-workerErr
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service exited with error: %v\n", err)
		os.Exit(1)
	}
}
