// Package ext serves catalog endpoints for external api clients.
// Requests are authenticated by the hmac token middleware; the entries
// created here are identical in shape to internally created ones.
package ext

import (
	"errors"
	"net/http"
	"time"

	"cardmarket/core"
	"cardmarket/handler/auth"
	"cardmarket/handler/param"
	"cardmarket/handler/render"
	"cardmarket/handler/request"

	"github.com/go-chi/chi"
)

// Handle handle external client requests
func Handle(clients core.ClientStore, cipher core.Cipher, skew time.Duration, cards core.CardStore) http.Handler {
	router := chi.NewRouter()
	router.Use(auth.HandleClientAuthentication(clients, cipher, skew))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Post("/cards", createCardHandler(cards))

	return router
}

func createCardHandler(cards core.CardStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if _, ok := request.NewContext(ctx).GetClient(); !ok {
			render.Unauthorized(w)
			return
		}

		var params struct {
			Network         string `json:"network"`
			ContractAddress string `json:"contract_address"`
			TokenID         string `json:"token_id"`
			Standard        string `json:"standard"`
			Supply          int64  `json:"supply"`
			URI             string `json:"uri,omitempty"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		network := core.Network(params.Network)
		if !network.IsValid() || params.ContractAddress == "" || params.TokenID == "" {
			render.BadRequest(w, errors.New("network, contract_address and token_id required"))
			return
		}

		standard := core.TokenStandard(params.Standard)
		if standard != core.StandardERC721 && standard != core.StandardERC1155 {
			render.BadRequest(w, errors.New("unknown token standard"))
			return
		}

		card := &core.Card{
			Network:         network,
			ContractAddress: params.ContractAddress,
			TokenID:         params.TokenID,
			Standard:        standard,
			Supply:          params.Supply,
			URI:             params.URI,
		}

		if err := cards.UpsertCard(ctx, card); err != nil {
			render.Code(w, err)
			return
		}

		render.JSON(w, card)
	}
}
