package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/ajbgithub/aivideos/config"
	"github.com/ajbgithub/aivideos/internal/auth"
	"github.com/ajbgithub/aivideos/internal/blobstore"
	"github.com/ajbgithub/aivideos/internal/lookup"
	"github.com/ajbgithub/aivideos/internal/seeds"
	"github.com/ajbgithub/aivideos/internal/uploads"
	"github.com/ajbgithub/aivideos/internal/videostore"
)

// ApplicationHandler holds shared dependencies for handlers. Stores are
// interfaces so tests can swap them for fakes.
type ApplicationHandler struct {
	Logger   *logrus.Logger
	Videos   videostore.Store
	Blobs    blobstore.Store
	Uploads  *uploads.Orchestrator
	Lookup   *lookup.Service
	Seeds    *seeds.Library
	Sessions auth.SessionProvider
	Settings config.Settings
}

// NewApplicationHandler creates an ApplicationHandler with the given
// dependencies.
func NewApplicationHandler(
	logger *logrus.Logger,
	videos videostore.Store,
	blobs blobstore.Store,
	orchestrator *uploads.Orchestrator,
	lookupSvc *lookup.Service,
	seedLib *seeds.Library,
	sessions auth.SessionProvider,
	settings config.Settings,
) *ApplicationHandler {
	return &ApplicationHandler{
		Logger:   logger,
		Videos:   videos,
		Blobs:    blobs,
		Uploads:  orchestrator,
		Lookup:   lookupSvc,
		Seeds:    seedLib,
		Sessions: sessions,
		Settings: settings,
	}
}
