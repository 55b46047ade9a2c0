package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/pharmaline-backend/api/controllers"
	"github.com/angelmondragon/pharmaline-backend/api/middleware"
	"github.com/angelmondragon/pharmaline-backend/internal/interpreter"
	"github.com/angelmondragon/pharmaline-backend/internal/inventory"
	"github.com/angelmondragon/pharmaline-backend/pkg/config"
	"github.com/angelmondragon/pharmaline-backend/pkg/logger"
	"github.com/angelmondragon/pharmaline-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	interp interpreter.Interpreter,
	agg inventory.Aggregator,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	chatPolicy := middleware.NewChatRateLimitPolicy(
		"chat",
		cfg.ChatRateLimit.Window,
		cfg.ChatRateLimit.IPLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbP,
			"redis":    redisPinger(redisClient),
		}))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.With(middleware.ChatRateLimit(chatPolicy, rateStore(redisClient), logg)).
			Post("/chat", controllers.AdminChat(interp, logg))
		r.Get("/inventory", controllers.AdminInventory(agg, logg))
		r.Get("/inventory/low-stock", controllers.AdminLowStock(agg, logg))
	})

	return r
}

// redisPinger avoids handing a typed nil pointer to the readiness map.
func redisPinger(client *redis.Client) controllers.Pinger {
	if client == nil {
		return nil
	}
	return client
}

func rateStore(client *redis.Client) middleware.RateLimiterStore {
	if client == nil {
		return nil
	}
	return client
}
