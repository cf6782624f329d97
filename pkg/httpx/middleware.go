package httpx

import (
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/credgate/pkg/slogx"
)

type Middleware func(http.Handler) http.Handler

// Chain wraps h so that the first middleware listed is the outermost one.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Recover turns a panicking handler into a 500. The panic value is only
// echoed back when exposeDetail is set.
func Recover(exposeDetail bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				err := fmt.Errorf("panic: %v", rec)
				slogx.FromContext(r.Context()).Error("handler panicked", "err", err)
				ErrInternal.WithDetail(err, exposeDetail).WriteError(w)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// NotFound answers every request with the JSON 404 body.
func NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		ErrNotFound.WriteError(w)
	})
}
