package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"cardmarket/core"
	"cardmarket/handler/render"

	"github.com/go-chi/chi"
)

// signatureHandler issues a single use login challenge for the wallet
// type and returns the typed data document to sign. No authentication
// required.
func signatureHandler(challenges core.ChallengeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		walletType := core.WalletType(chi.URLParam(r, "walletType"))
		if !walletType.IsValid() {
			render.BadRequest(w, errors.New("unknown wallet type"))
			return
		}

		requestID, document, err := challenges.Issue(ctx, walletType)
		if err != nil {
			render.Code(w, err)
			return
		}

		render.JSON(w, render.H{
			"request_id": requestID,
			"document":   json.RawMessage(document),
		})
	}
}
