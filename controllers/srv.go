package controllers

import (
	"toolcrib/app"
	"toolcrib/db"
	"toolcrib/lending"
	"toolcrib/logging"
	"toolcrib/session"
)

// Srv bundles the dependencies shared by all controllers.
type Srv struct {
	Repo     *db.Repo
	Coord    *lending.Coordinator
	Sessions *session.Store
	Log      logging.Logger
	Cfg      app.Config
}

func NewSrv(a *app.App) *Srv {
	repo := db.NewRepo(a.DB)
	return &Srv{
		Repo:     repo,
		Coord:    lending.New(repo, repo.Loans(), a.Log),
		Sessions: a.Sessions(),
		Log:      a.Log,
		Cfg:      a.Config,
	}
}
