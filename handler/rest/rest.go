package rest

import (
	"errors"
	"net/http"

	"cardmarket/core"
	"cardmarket/handler/render"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(
	challenges core.ChallengeService,
	users core.UserService,
	sales core.SaleService,
	saleStore core.SaleStore,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/signature/{walletType}", signatureHandler(challenges))
	router.Post("/login", loginHandler(users))
	router.Get("/sales", listSalesHandler(saleStore))
	router.Post("/sales", createSaleHandler(sales))
	router.Delete("/sales/{id}", cancelSaleHandler(sales))

	return router
}
