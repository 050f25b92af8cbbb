package httpx

import (
	"net/url"

	"github.com/placementhub/portal-api/internal/ports"
)

// redirectRecorder implements ports.Router for one request. The auth
// service drives navigation through the port; the handler then emits the
// recorded redirect as an HTTP redirect or a JSON payload depending on
// the caller.
type redirectRecorder struct {
	current  string
	path     string
	opts     ports.RedirectOptions
	recorded bool
}

var _ ports.Router = (*redirectRecorder)(nil)

func newRedirectRecorder(current string) *redirectRecorder {
	return &redirectRecorder{current: current}
}

func (r *redirectRecorder) Redirect(path string, opts ports.RedirectOptions) {
	r.path = path
	r.opts = opts
	r.recorded = true
	r.current = path
}

func (r *redirectRecorder) CurrentPath() string {
	return r.current
}

// Target returns the recorded redirect destination with the navigation
// intent encoded as a redirect_uri query parameter.
func (r *redirectRecorder) Target() string {
	target := r.path
	if r.opts.Intent != nil && r.opts.Intent.From != "" {
		q := url.Values{}
		q.Set("redirect_uri", r.opts.Intent.From)
		target += "?" + q.Encode()
	}
	return target
}
