package rest

import (
	"net/http"

	"cardmarket/core"
	"cardmarket/handler/param"
	"cardmarket/handler/render"
)

func loginHandler(users core.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			RequestID string `json:"request_id"`
			Signature string `json:"signature"`
			Address   string `json:"address"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		user, err := users.Login(ctx, params.RequestID, params.Signature, params.Address)
		if err != nil {
			render.Code(w, err)
			return
		}

		render.JSON(w, render.H{
			"access_token": user.AccessToken,
			"user":         user,
		})
	}
}
