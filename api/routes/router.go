package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smallwonder/storefront-api/api/controllers"
	"github.com/smallwonder/storefront-api/api/middleware"
	"github.com/smallwonder/storefront-api/internal/cart"
	"github.com/smallwonder/storefront-api/internal/catalog"
	"github.com/smallwonder/storefront-api/internal/content"
	"github.com/smallwonder/storefront-api/internal/emails"
	"github.com/smallwonder/storefront-api/internal/members"
	"github.com/smallwonder/storefront-api/internal/orders"
	"github.com/smallwonder/storefront-api/internal/reviews"
	"github.com/smallwonder/storefront-api/internal/tickets"
	"github.com/smallwonder/storefront-api/internal/uploads"
	"github.com/smallwonder/storefront-api/pkg/config"
	"github.com/smallwonder/storefront-api/pkg/logger"
	"github.com/smallwonder/storefront-api/pkg/metrics"
	"github.com/smallwonder/storefront-api/pkg/redis"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *metrics.HTTPMetrics
	Redis   *redis.Client

	Pingers map[string]controllers.Pinger

	Reviews reviews.Service
	Widget  *reviews.WidgetClient
	Uploads uploads.Service
	Emails  emails.Service
	Tickets tickets.Service
	Catalog catalog.Service
	Cart    cart.Service
	Orders  orders.Service
	Members members.Service
	Content content.Service
}

// New builds the HTTP handler tree.
func New(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(),
	)

	r.Get("/health/live", controllers.HealthLive(cfg.App))
	r.Get("/health/ready", controllers.HealthReady(logg, deps.Pingers))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.RateLimit(deps.Redis, cfg.RateLimit, logg))

		api.With(
			middleware.ReviewSubmitLimit(deps.Redis, cfg.RateLimit, logg),
			middleware.Idempotency(deps.Redis, logg),
		).Post("/addReview", controllers.AddReview(deps.Reviews, logg))

		// Legacy path kept for the storefront widget swap-over.
		api.Get("/reviews/aws/{slug}", controllers.ListStoredReviews(deps.Reviews, logg))
		api.Get("/reviews/{slug}", controllers.ListWidgetReviews(deps.Widget, logg))

		api.Get("/generateUploadUrl", controllers.GenerateUploadURL(deps.Uploads, logg))

		api.Route("/emails", func(em chi.Router) {
			em.Use(middleware.Idempotency(deps.Redis, logg))
			em.Post("/abandoned-cart", controllers.SendAbandonedCart(deps.Emails, logg))
			em.Post("/customer-service", controllers.SubmitCustomerService(deps.Tickets, logg))
		})

		api.Route("/v1", func(v1 chi.Router) {
			v1.Get("/products", controllers.ListProducts(deps.Catalog, logg))
			v1.Get("/products/{slug}", controllers.GetProduct(deps.Catalog, logg))
			v1.Get("/collections/{slug}", controllers.GetCollection(deps.Catalog, logg))

			v1.Route("/cart", func(c chi.Router) {
				c.Get("/", controllers.GetCart(deps.Cart, logg))
				c.With(middleware.Idempotency(deps.Redis, logg)).
					Post("/items", controllers.AddCartItem(deps.Cart, logg))
				c.Delete("/items/{lineItemId}", controllers.RemoveCartItem(deps.Cart, logg))
				c.Patch("/items/{lineItemId}", controllers.UpdateCartItem(deps.Cart, logg))
			})

			v1.With(middleware.Idempotency(deps.Redis, logg)).
				Post("/checkout", controllers.Checkout(deps.Cart, logg))

			v1.Group(func(member chi.Router) {
				member.Use(middleware.RequireMember(cfg.Session, logg))
				member.Get("/orders", controllers.ListOrders(deps.Orders, logg))
				member.Get("/orders/{orderId}", controllers.GetOrder(deps.Orders, logg))
				member.Get("/account", controllers.GetAccount(deps.Members, logg))
				member.Put("/account", controllers.UpdateAccount(deps.Members, logg))
			})

			v1.Get("/blog", controllers.ListBlogPosts(deps.Content, logg))
			v1.Get("/blog/{slug}", controllers.GetBlogPost(deps.Content, logg))
		})
	})

	return r
}
