// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/blocknetlabs/blocknet/app/services/node/handlers/v1/nodegrp"
	"github.com/blocknetlabs/blocknet/foundation/blockchain/state"
	"github.com/blocknetlabs/blocknet/foundation/events"
	"github.com/blocknetlabs/blocknet/foundation/web"
	"go.uber.org/zap"
)

// The routes are bound without a version group. Peers locate each other's
// chain endpoint by the fixed /chain path, so the paths are part of the
// network convention and can't move under a version prefix.
const version = ""

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	ndg := nodegrp.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/mine", ndg.Mine)
	app.Handle(http.MethodPost, version, "/transactions/new", ndg.SubmitTransaction)
	app.Handle(http.MethodGet, version, "/chain", ndg.Chain)
	app.Handle(http.MethodPost, version, "/nodes/register", ndg.RegisterNodes)
	app.Handle(http.MethodGet, version, "/nodes/resolve", ndg.Resolve)
	app.Handle(http.MethodGet, version, "/events", ndg.Events)
}
