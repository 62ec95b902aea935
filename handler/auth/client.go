package auth

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"cardmarket/core"
	"cardmarket/handler/render"
	"cardmarket/handler/request"
	"cardmarket/pkg/sigtoken"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cast"
)

// HandleClientAuthentication guards external client endpoints. The
// caller supplies clientId and time as query parameters and an hmac
// token as the bearer credential. Token and freshness are independent
// checks; both must pass, and every failure renders the same
// unauthorized response.
func HandleClientAuthentication(clients core.ClientStore, cipher core.Cipher, skew time.Duration) func(http.Handler) http.Handler {
	if skew <= 0 {
		skew = 5 * time.Minute
	}

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := logger.FromContext(ctx)

			query := r.URL.Query()

			// replay window first, independent of hmac correctness
			issued := time.Unix(cast.ToInt64(query.Get("time")), 0)
			if d := time.Since(issued); d > skew || d < -skew {
				render.Unauthorized(w)
				return
			}

			client, err := clients.Find(ctx, query.Get("clientId"))
			if err != nil {
				log.WithError(err).Errorln("clients.Find")
				render.Unauthorized(w)
				return
			}

			if client == nil {
				// a missing client record is a provisioning bug, but
				// the caller still just sees unauthorized
				log.Errorln("client not provisioned:", query.Get("clientId"))
				render.Unauthorized(w)
				return
			}

			secret, err := cipher.Decrypt(client.SecretEncrypted)
			if err != nil {
				log.WithError(err).Errorln("decrypt client secret")
				render.Unauthorized(w)
				return
			}

			var body []byte
			if r.Body != nil {
				body, err = io.ReadAll(r.Body)
				if err != nil {
					render.Unauthorized(w)
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			if !sigtoken.Validate(getBearerToken(r), string(secret), r.Method, r.URL.Path, query, body) {
				render.Unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(request.NewContext(ctx).WithClient(client)))
		}

		return http.HandlerFunc(fn)
	}
}
