package gate

import "github.com/dtroode/scanportal-client/internal/model"

// Kind is the outcome of a route decision.
type Kind int

const (
	// KindLoading means the session is still bootstrapping; show a placeholder.
	KindLoading Kind = iota
	// KindRender means the requested route renders as is.
	KindRender
	// KindRedirect means the caller must navigate to Target.
	KindRedirect
)

func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindRender:
		return "render"
	case KindRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the gate's answer for one navigation. Target is always a route
// that renders for the same session.
type Decision struct {
	Kind   Kind
	Route  Route
	Target Route
}

// Decide resolves a navigation to raw for the given session.
func Decide(raw string, s model.Session) Decision {
	route := Normalize(raw)

	if s.Initializing {
		return Decision{Kind: KindLoading, Route: route}
	}

	if !s.IsAuthenticated() {
		if route == RouteLogin {
			return Decision{Kind: KindRender, Route: route, Target: route}
		}
		return Decision{Kind: KindRedirect, Route: route, Target: RouteLogin}
	}

	if route == RouteLogin || route == RouteRoot {
		return Decision{Kind: KindRedirect, Route: route, Target: DefaultLanding}
	}

	for _, rule := range routeTable {
		if rule.route == route && rule.allows(s) {
			return Decision{Kind: KindRender, Route: route, Target: route}
		}
	}

	// Unknown paths and routes outside the session's role fall back to the landing page.
	return Decision{Kind: KindRedirect, Route: route, Target: DefaultLanding}
}
