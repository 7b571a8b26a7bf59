package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/shopfront/internal/application/appstate"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	State        *appstate.State
	Logger       zerolog.Logger
	Service      string
	CatalogCache CatalogCache // nil sin caché
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", NewHealthHandler(deps.Service, deps.CatalogCache).Get)

	api := app.Group("/api")

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.State, deps.Logger)
	products.Get("/", productHandler.List)
	products.Post("/refresh", productHandler.Refresh)
	products.Post("/next", productHandler.Next)
	products.Post("/retry", productHandler.Retry)
	products.Delete("/error", productHandler.ClearError)

	// Cart
	cart := api.Group("/cart")
	cartHandler := NewCartHandler(deps.State)
	cart.Get("/", cartHandler.Get)
	cart.Delete("/", cartHandler.Clear)
	cart.Get("/summary.pdf", cartHandler.SummaryPDF)
	cart.Post("/items", cartHandler.AddItem)
	cart.Put("/items/:id", cartHandler.UpdateItem)
	cart.Delete("/items/:id", cartHandler.RemoveItem)

	// Wishlist
	wishlist := api.Group("/wishlist")
	wishlistHandler := NewWishlistHandler(deps.State)
	wishlist.Get("/", wishlistHandler.Get)
	wishlist.Post("/toggle", wishlistHandler.Toggle)
	wishlist.Delete("/:id", wishlistHandler.Remove)

	// Profile
	profile := api.Group("/profile")
	profileHandler := NewProfileHandler(deps.State)
	profile.Get("/", profileHandler.Get)
	profile.Put("/", profileHandler.Save)
	profile.Patch("/", profileHandler.UpdateDraft)
	profile.Post("/avatar", profileHandler.PickAvatar)

	// Estado y avisos
	stateHandler := NewStateHandler(deps.State, deps.Logger)
	api.Get("/state", stateHandler.Get)
	api.Delete("/notices/:id", stateHandler.DismissNotice)

	app.Get("/ws", RequireUpgrade, websocket.New(stateHandler.Stream))
}
