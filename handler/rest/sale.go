package rest

import (
	"errors"
	"net/http"
	"time"

	"cardmarket/core"
	"cardmarket/handler/param"
	"cardmarket/handler/render"
	"cardmarket/handler/request"

	"github.com/go-chi/chi"
	"github.com/spf13/cast"
)

func createSaleHandler(sales core.SaleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		user, ok := request.NewContext(ctx).GetUser()
		if !ok {
			render.Unauthorized(w)
			return
		}

		var params struct {
			Network     string `json:"network"`
			CardID      int64  `json:"card_id"`
			TokensCount int64  `json:"tokens_count"`
			Price       string `json:"price"`
			Currency    string `json:"currency"`
			PublishFrom string `json:"publish_from"`
			PublishTo   string `json:"publish_to,omitempty"`
			Signature   string `json:"signature"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		publishFrom, err := time.Parse(time.RFC3339, params.PublishFrom)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		var publishTo *time.Time
		if params.PublishTo != "" {
			t, err := time.Parse(time.RFC3339, params.PublishTo)
			if err != nil {
				render.BadRequest(w, err)
				return
			}
			publishTo = &t
		}

		sale, err := sales.Create(ctx, user, &core.CreateSaleInput{
			Network:     core.Network(params.Network),
			CardID:      params.CardID,
			TokensCount: params.TokensCount,
			Price:       params.Price,
			Currency:    params.Currency,
			PublishFrom: publishFrom,
			PublishTo:   publishTo,
			Signature:   params.Signature,
		})
		if err != nil {
			render.Code(w, err)
			return
		}

		render.JSON(w, sale)
	}
}

func listSalesHandler(sales core.SaleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		cardID := cast.ToInt64(r.URL.Query().Get("cardId"))
		if cardID <= 0 {
			render.BadRequest(w, errors.New("cardId required"))
			return
		}

		items, err := sales.ListByCard(ctx, cardID)
		if err != nil {
			render.Code(w, err)
			return
		}

		render.JSON(w, render.H{"sales": items})
	}
}

func cancelSaleHandler(sales core.SaleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		user, ok := request.NewContext(ctx).GetUser()
		if !ok {
			render.Unauthorized(w)
			return
		}

		if err := sales.Cancel(ctx, user, cast.ToInt64(chi.URLParam(r, "id"))); err != nil {
			render.Code(w, err)
			return
		}

		render.JSON(w, render.H{"ok": true})
	}
}
