package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dropDatabas3/nido/internal/config"
	"github.com/dropDatabas3/nido/internal/domain/repository"
	"github.com/dropDatabas3/nido/internal/http/server"
	"github.com/dropDatabas3/nido/internal/metrics"
	"github.com/dropDatabas3/nido/internal/migrate"
	"github.com/dropDatabas3/nido/internal/migrate/flagsource"
	"github.com/dropDatabas3/nido/internal/observability/logger"
	"github.com/dropDatabas3/nido/internal/store/dualwrite"
	"github.com/dropDatabas3/nido/internal/store/memory"
	"github.com/dropDatabas3/nido/internal/store/pg"
)

// repos son los repositorios decorados que consume la capa de servicios.
type repos struct {
	Budgets       repository.BudgetRepository
	Inventory     repository.InventoryRepository
	MealPlans     repository.MealPlanRepository
	Tasks         repository.TaskRepository
	Notifications repository.NotificationRepository
	Recipes       repository.RecipeRepository
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("sin archivo .env (%v), siguiendo con el entorno del sistema", err)
	}

	cfgPath := os.Getenv("NIDO_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "nido",
	})
	defer func() { _ = logger.Sync() }()
	lg := logger.Named("main")

	if err := metrics.RegisterMigration(nil); err != nil {
		lg.Fatal("registrando métricas", zap.Error(err))
	}

	ctx := context.Background()

	src, err := buildFlagSource(cfg)
	if err != nil {
		lg.Fatal("flag source", zap.Error(err))
	}
	flags := migrate.NewFlagManager(src, migrate.FlagManagerOptions{
		TTL:          cfg.Migration.CacheTTL,
		FetchTimeout: cfg.Migration.FetchTimeout,
	})
	if err := flags.Prime(ctx); err != nil {
		// No fatal: sin config inicial todo resuelve a primary_only.
		lg.Warn("prime de flags falló, arrancando en primary_only", zap.Error(err))
	}

	pool := migrate.NewShadowPool(
		cfg.Migration.ShadowWorkers,
		cfg.Migration.ShadowQueue,
		cfg.Migration.SecondaryTimeout,
	)
	defer pool.Close()

	verifier := migrate.NewVerifier(migrate.VerifierOptions{
		IgnoreFields: cfg.Migration.IgnoreFields,
		SampleRate:   cfg.Migration.SampleRate,
	})

	primary, err := buildStore(ctx, cfg.Stores.Primary, lg)
	if err != nil {
		lg.Fatal("store primario", zap.Error(err))
	}
	secondary, err := buildStore(ctx, cfg.Stores.Secondary, lg)
	if err != nil {
		lg.Fatal("store secundario", zap.Error(err))
	}

	core := func(endpoint string) *migrate.Core {
		return migrate.NewCore(migrate.CoreConfig{
			Endpoint:         endpoint,
			Flags:            flags,
			Verifier:         verifier,
			Pool:             pool,
			SecondaryTimeout: cfg.Migration.SecondaryTimeout,
		})
	}

	app := repos{
		Budgets:       dualwrite.NewBudgetRepository(primary.Budgets, secondary.Budgets, core("/api/budget")),
		Inventory:     dualwrite.NewInventoryRepository(primary.Inventory, secondary.Inventory, core("/api/inventory")),
		MealPlans:     dualwrite.NewMealPlanRepository(primary.MealPlans, secondary.MealPlans, core("/api/mealplan")),
		Tasks:         dualwrite.NewTaskRepository(primary.Tasks, secondary.Tasks, core("/api/task")),
		Notifications: dualwrite.NewNotificationRepository(primary.Notifications, secondary.Notifications, core("/api/notification")),
		Recipes:       dualwrite.NewRecipeRepository(primary.Recipes, secondary.Recipes, core("/api/recipe")),
	}
	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: server.New(server.Deps{
			Flags:   flags,
			Budgets: app.Budgets,
			Tasks:   app.Tasks,
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		lg.Info("nido escuchando", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatal("server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	lg.Info("apagando")
	shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shCtx)
}

// storeSet es el juego completo de repos de un backend.
type storeSet struct {
	Budgets       repository.BudgetRepository
	Inventory     repository.InventoryRepository
	MealPlans     repository.MealPlanRepository
	Tasks         repository.TaskRepository
	Notifications repository.NotificationRepository
	Recipes       repository.RecipeRepository
}

func buildStore(ctx context.Context, sc config.StoreConfig, lg *zap.Logger) (storeSet, error) {
	mem := memory.New()
	set := storeSet{
		Budgets:       mem.Budgets(),
		Inventory:     mem.Inventory(),
		MealPlans:     mem.MealPlans(),
		Tasks:         mem.Tasks(),
		Notifications: mem.Notifications(),
		Recipes:       mem.Recipes(),
	}
	if sc.Driver == "postgres" {
		dbpool, err := pg.Connect(ctx, sc.DSN)
		if err != nil {
			return storeSet{}, err
		}
		// El driver postgres cubre budgets; el resto de las entidades
		// sigue sobre el backend en memoria hasta completar sus adapters.
		set.Budgets = pg.NewBudgetPG(dbpool)
		lg.Info("postgres conectado (budgets)", zap.String("driver", sc.Driver))
	}
	return set, nil
}

func buildFlagSource(cfg *config.Config) (migrate.Source, error) {
	fs := cfg.Migration.FlagSource
	switch fs.Kind {
	case "file":
		return flagsource.NewFile(fs.Path), nil
	case "redis":
		return flagsource.NewRedis(flagsource.RedisConfig{
			Addr:     fs.Redis.Addr,
			Password: fs.Redis.Password,
			DB:       fs.Redis.DB,
			Key:      fs.Redis.Key,
		}), nil
	case "http":
		return flagsource.NewHTTP(flagsource.HTTPConfig{
			URL:      fs.HTTP.URL,
			Secret:   fs.HTTP.Secret,
			Issuer:   fs.HTTP.Issuer,
			Audience: fs.HTTP.Audience,
		}), nil
	default: // static: sin endpoints, todo primary_only
		return flagsource.NewStatic(migrate.FlagConfig{Version: "static-empty"}), nil
	}
}
