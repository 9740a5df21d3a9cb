package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-chi/chi/v5"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/cobra"
	grpchealth "google.golang.org/grpc/health"

	apicontext "github.com/dtroode/storefront-server/internal/api/context"
	"github.com/dtroode/storefront-server/internal/api/grpc/health"
	"github.com/dtroode/storefront-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/storefront-server/internal/api/grpc/server"
	apihttp "github.com/dtroode/storefront-server/internal/api/http"
	"github.com/dtroode/storefront-server/internal/config"
	"github.com/dtroode/storefront-server/internal/hasher"
	"github.com/dtroode/storefront-server/internal/idgen"
	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
	"github.com/dtroode/storefront-server/internal/repository/postgres"
	"github.com/dtroode/storefront-server/internal/server"
	"github.com/dtroode/storefront-server/internal/service"
	"github.com/dtroode/storefront-server/internal/storage/memory"
	storage "github.com/dtroode/storefront-server/internal/storage/minio"
	redisstore "github.com/dtroode/storefront-server/internal/storage/redis"
	"github.com/dtroode/storefront-server/internal/token"
)

func newServeCommand(cfg *config.Config, build BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront HTTP API and the gRPC health server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.NewWithWriter(os.Stdout, cfg.Log.Level, cfg.Log.Format)
			fmt.Fprint(cmd.OutOrStdout(), build.String())
			return serve(cmd.Context(), cfg, log)
		},
	}
}

// app is the wired storefront process.
type app struct {
	handler  *apihttp.Handler
	router   chi.Router
	health   *grpchealth.Server
	checker  *health.Checker
	closers  []io.Closer
	ctxMgr   model.ContextManager
	probeSet []string
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	return errors.Join(errs...)
}

// newApp connects the configured backends and builds the HTTP routes.
// Backends without configuration fall back to in-memory stores.
func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	a := &app{ctxMgr: apicontext.NewManager()}
	probes := map[string]health.Probe{}

	ok := false
	defer func() {
		if !ok {
			_ = a.Close()
		}
	}()

	ids, err := idgen.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize id generator: %w", err)
	}

	cat, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}

	passwords, err := hasher.New(cfg.KDF.Algorithm, hasher.Argon2Params{
		Time:   cfg.KDF.Time,
		MemKiB: cfg.KDF.MemKiB,
		Par:    cfg.KDF.Par,
	})
	if err != nil {
		return nil, err
	}

	var durable model.Store = memory.NewStore()
	if cfg.Database.DSN != "" {
		conn, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize durable store: %w", err)
		}
		a.closers = append(a.closers, conn)
		durable = postgres.NewKVRepository(conn.DB)
		probes["postgres"] = conn.Ping
	} else {
		log.Warn("DATABASE_DSN is not set, accounts are kept in memory")
	}

	var tabs model.TabStoreProvider = memory.NewTabStoresWithTTL(cfg.Redis.TabTTL)
	if cfg.Redis.Addr != "" {
		client, err := redisstore.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tab store: %w", err)
		}
		a.closers = append(a.closers, client)
		tabs = redisstore.NewTabStores(client, cfg.Redis.TabTTL)
		probes["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}

	var images *apihttp.ImageHandler
	if cfg.Storage.Endpoint != "" {
		objects, err := newImageStorage(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		images = apihttp.NewImageHandler(objects, log)
		probes["minio"] = func(ctx context.Context) error {
			_, err := objects.Exists(ctx, ".probe")
			return err
		}
	}

	clock := service.SystemClock{}
	sf := service.NewStorefront(service.Dependencies{
		Tabs:    tabs,
		Durable: durable,
		Catalog: cat,
		Hasher:  passwords,
		IDs:     ids,
		Clock:   clock,
		Logger:  log,
	}, service.Options{
		LogMaxEntries: cfg.Log.MaxEntries,
		PaymentPath:   cfg.Checkout.PaymentPath,
		Auth:          service.AuthOptions{LogSignupFailures: cfg.Auth.LogSignupFailures},
	})

	a.health = grpchealth.NewServer()
	a.checker = health.NewChecker(a.health, probes, cfg.GRPC.HealthCheckInterval, log)
	for name := range probes {
		a.probeSet = append(a.probeSet, name)
	}

	a.handler = apihttp.NewHandler(sf, a.ctxMgr, clock, log)
	a.router = apihttp.NewRouter(apihttp.RouterConfig{
		Handler: a.handler,
		Tabs: apihttp.NewTabIdentity(
			token.NewJWT(cfg.JWT.Secret, cfg.JWT.TabTTL),
			ids,
			a.ctxMgr,
			cfg.JWT.TabTTL,
			cfg.HTTP.EnableHTTPS,
			log,
		),
		Images: images,
		Health: a.checker.CheckOnce,
		Logger: log,
	})

	ok = true
	return a, nil
}

func newImageStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage.Client, error) {
	minioClient, err := miniogo.New(cfg.Storage.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	objects, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image storage: %w", err)
	}

	if cfg.Catalog.ImagesDir != "" {
		n, err := objects.Seed(ctx, os.DirFS(cfg.Catalog.ImagesDir))
		if err != nil {
			return nil, fmt.Errorf("failed to seed images: %w", err)
		}
		log.Info("seeded product images", "uploaded", n, "dir", cfg.Catalog.ImagesDir)
	}
	return objects, nil
}

// serve runs both servers until ctx is cancelled, then shuts them down
// within cfg.ShutdownTimeout.
func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		if errors.Is(err, idgen.ErrUnavailable) {
			log.Fatal("random source unavailable", "error", err)
		}
		return err
	}
	defer a.Close()

	httpSrv := apihttp.NewHTTPServer(":"+cfg.HTTP.Port, a.router, a.handler.Close)
	grpcSrv := grpcServer.NewGRPCServer(router.New(a.health, log).Register(), ":"+cfg.GRPC.Port)

	httpSL := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	grpcSL := server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)

	checkCtx, stopChecks := context.WithCancel(ctx)
	defer stopChecks()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.checker.Run(checkCtx)
	}()

	start := func(s model.Server, sl model.SecurityLayer) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				log.Error("failed to start server", "error", err, "address", s.Address())
			}
		}()
	}
	start(httpSrv, httpSL)
	start(grpcSrv, grpcSL)

	log.Info("storefront ready", "probes", a.probeSet)

	<-ctx.Done()
	log.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	for _, s := range []model.Server{httpSrv, grpcSrv} {
		if err := s.Stop(shutdownCtx); err != nil {
			log.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}
	stopChecks()

	wg.Wait()
	log.Info("shutdown complete")
	return nil
}
