package cli

import (
	"github.com/jrsteele09/go-crawler-client/api"
	"github.com/jrsteele09/go-crawler-client/auth"
	"github.com/jrsteele09/go-crawler-client/credentials"
	"github.com/jrsteele09/go-crawler-client/internal/config"
	"github.com/jrsteele09/go-crawler-client/internal/errors"
	"github.com/jrsteele09/go-crawler-client/portal"
	"github.com/jrsteele09/go-crawler-client/session"
	"github.com/jrsteele09/go-crawler-client/session/filerepo"
	"github.com/jrsteele09/go-crawler-client/users"
	"github.com/jrsteele09/go-crawler-client/websites"
)

// app wires the client stack together for the commands: config, the
// file-backed session store, the auth gateway, and one service per backend
// resource.
type app struct {
	cfg         config.Config
	sessions    *session.Manager
	gateway     *auth.Gateway
	websites    *websites.Service
	credentials *credentials.Service
	users       *users.Service
	portal      *portal.Service
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	repo, err := filerepo.New(cfg.DataDir)
	if err != nil {
		return nil, errors.Wrapf(err, "[newApp] open session store")
	}
	sessions := session.NewManager(repo)

	client := api.New(cfg.APIURL, sessions, api.WithRequestTimeout(cfg.RequestTimeout))

	return &app{
		cfg:         cfg,
		sessions:    sessions,
		gateway:     auth.New(client, sessions, auth.WithLoginTimeout(cfg.LoginTimeout)),
		websites:    websites.NewService(client, sessions),
		credentials: credentials.NewService(client, sessions),
		users:       users.NewService(client, sessions),
		portal:      portal.NewService(client),
	}, nil
}

// requireLogin gates a command on the stored session: a missing user
// record short-circuits with a login hint before any service call.
func (a *app) requireLogin() error {
	if !a.gateway.IsAuthenticated() {
		return errors.Wrapf(errors.ErrUnauthenticated, "not logged in - run 'sitecrawler login' first")
	}
	return nil
}
