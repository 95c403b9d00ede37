// Package router decides which console view a path may show for the current
// auth state.
//
// Logged-out users see the guest routes and logged-in users the authenticated
// ones. A pending phone login pins navigation to /otp until it completes or is
// abandoned.
//
// The /subscribers/{id} check only compares the path id with the client id
// stored after phone login. It keeps honest users on their own page and is
// not an access control boundary: the API must enforce that a customer token
// reads only that customer's records.
package router

import (
	"net/http"
	"net/url"
	"path"
	"strconv"

	"github.com/dmitrijs2005/laundrydesk/internal/client/auth"
	"github.com/go-chi/chi/v5"
)

// Redirect reasons.
const (
	ReasonPendingOTP        = "pending-otp"
	ReasonLoginRequired     = "login-required"
	ReasonGuestOnly         = "guest-only"
	ReasonNotFound          = "not-found"
	ReasonNoChallenge       = "no-challenge"
	ReasonAdminOnly         = "admin-only"
	ReasonForeignSubscriber = "foreign-subscriber"
)

// Decision is the outcome of resolving one path.
type Decision struct {
	// Path is where navigation ends up.
	Path string
	// Pattern is the route pattern Path matched.
	Pattern string
	// Params holds the URL parameters of Pattern.
	Params map[string]string
	// Redirected is set when Path differs from the requested path.
	Redirected bool
	// Reason names the rule behind a redirect.
	Reason string
}

// StateSource provides the auth state; *auth.Manager implements it.
type StateSource interface {
	State() auth.State
}

type Guard struct {
	source StateSource
	guest  *chi.Mux
	authed *chi.Mux
}

func NewGuard(source StateSource) *Guard {
	return &Guard{
		source: source,
		guest:  newMux(GuestRoutes),
		authed: newMux(AuthRoutes),
	}
}

func newMux(patterns []string) *chi.Mux {
	mux := chi.NewRouter()
	for _, p := range patterns {
		mux.Get(p, func(http.ResponseWriter, *http.Request) {})
	}
	return mux
}

// match reports the pattern and params p resolves to in mux.
func match(mux *chi.Mux, p string) (string, map[string]string, bool) {
	rctx := chi.NewRouteContext()
	if !mux.Match(rctx, http.MethodGet, p) {
		return "", nil, false
	}
	var params map[string]string
	if n := len(rctx.URLParams.Keys); n > 0 {
		params = make(map[string]string, n)
		for i, k := range rctx.URLParams.Keys {
			params[k] = rctx.URLParams.Values[i]
		}
	}
	return rctx.RoutePattern(), params, true
}

// Clean reduces a requested location to its path: query and fragment are
// dropped, a leading slash is ensured and trailing slashes removed.
func Clean(raw string) string {
	if u, err := url.Parse(raw); err == nil {
		raw = u.Path
	}
	return path.Clean("/" + raw)
}

// Resolve applies the rules in order: a pending phone login forces /otp, the
// auth state picks the route tree, admin-only routes need role admin, and a
// subscriber page needs the matching client id.
func (g *Guard) Resolve(requested string) Decision {
	p := Clean(requested)
	st := g.source.State()

	if st.Flow.Kind == auth.FlowAwaitingOTP {
		if p != PathOTP {
			return redirect(PathOTP, ReasonPendingOTP)
		}
		return Decision{Path: PathOTP, Pattern: PathOTP}
	}

	if !st.Authenticated() {
		pattern, params, ok := match(g.guest, p)
		switch {
		case !ok:
			return redirect(PathLogin, ReasonLoginRequired)
		case pattern == PathOTP:
			return redirect(PathClientLogin, ReasonNoChallenge)
		}
		return Decision{Path: p, Pattern: pattern, Params: params}
	}

	pattern, params, ok := match(g.authed, p)
	if !ok {
		if gp, _, isGuest := match(g.guest, p); isGuest {
			if gp == PathOTP {
				return redirect(PathHome, ReasonNoChallenge)
			}
			return redirect(PathHome, ReasonGuestOnly)
		}
		return redirect(PathHome, ReasonNotFound)
	}

	if adminOnly[pattern] && !st.IsAdmin() {
		return redirect(PathHome, ReasonAdminOnly)
	}

	if pattern == PathSubscriber {
		id, err := strconv.ParseInt(params["id"], 10, 64)
		if err != nil || !st.HasClientID || id != st.ClientID {
			return redirect(PathHome, ReasonForeignSubscriber)
		}
	}

	return Decision{Path: p, Pattern: pattern, Params: params}
}

func redirect(to, reason string) Decision {
	return Decision{Path: to, Pattern: to, Redirected: true, Reason: reason}
}
