package api

import (
	"os"
	"time"

	"gearhouse/catalog/internal/common"
	"gearhouse/catalog/internal/db"
	"gearhouse/catalog/internal/db/repositories"
	"gearhouse/catalog/internal/metrics"
	"gearhouse/catalog/internal/schema"
	"gearhouse/catalog/internal/services"
)

type Repositories struct {
	Vehicles   *repositories.VehicleRepository
	Products   *repositories.ProductRepository
	Categories *repositories.CategoryRepository
	Keys       *repositories.KeysRepo
}

type Services struct {
	Cache       common.CacheInterface
	Invalidator *common.Invalidator
	Session     *common.SessionService
	URLSigner   *common.URLSignerService
	Probe       *schema.Probe
	Migrator    *schema.Migrator
	Resolver    *services.CompatResolver
	Writer      *services.CompatWriter
	Reader      *services.CompatReader
	Seeder      *services.Seeder
}

type Dependencies struct {
	Store    db.Store
	Repo     *Repositories
	Services *Services
}

func InitDependencies(metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	store := db.NewPostgresStore(db.DB)
	redisClient := common.NewRedisClient()

	repos := &Repositories{
		Vehicles:   repositories.NewVehicleRepository(db.PgDB),
		Products:   repositories.NewProductRepository(db.PgDB),
		Categories: repositories.NewCategoryRepository(db.PgDB),
		Keys:       repositories.NewApiKeysRepo(db.DB),
	}

	// CACHE_BACKEND=redis shares the read cache across instances; the default
	// in-process cache is enough for a single node.
	var cacheSvc common.CacheInterface = common.NewCacheService(10*time.Minute, 30*time.Minute)
	if os.Getenv("CACHE_BACKEND") == "redis" {
		cacheSvc = common.NewRedisCacheService(redisClient)
	}

	invalidator := common.NewInvalidator(cacheSvc, redisClient)
	invalidator.Metrics = metricsReg
	probe := schema.NewProbe(store, cacheSvc, schema.DefaultProbeTTL)
	probe.Metrics = metricsReg

	secret := []byte(os.Getenv("DASHBOARD_LINK_SECRET"))
	if len(secret) == 0 {
		secret = []byte("dev-only-secret")
	}

	migrator := schema.NewMigrator(store, probe, schema.NewManagementAPIClientFromEnv(), redisClient)
	migrator.Metrics = metricsReg
	seeder := services.NewSeeder(store, probe, repos.Products, repos.Vehicles, invalidator)
	seeder.Metrics = metricsReg

	svcs := &Services{
		Cache:       cacheSvc,
		Invalidator: invalidator,
		Session:     common.NewSessionService(redisClient),
		URLSigner:   common.NewURLSignerService(secret, redisClient),
		Probe:       probe,
		Migrator:    migrator,
		Resolver:    services.NewCompatResolver(repos.Vehicles),
		Writer:      services.NewCompatWriter(store, probe, invalidator),
		Reader:      services.NewCompatReader(store, probe, repos.Vehicles, invalidator),
		Seeder:      seeder,
	}

	return &Dependencies{
		Store:    store,
		Repo:     repos,
		Services: svcs,
	}, nil
}
