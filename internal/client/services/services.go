// Package services contains the application services of the cargodesk
// client: authentication and token refresh, application submission, and
// reference catalog lookups. They talk to the backend through the
// authenticated HTTP core in package client.
package services

import (
	"context"

	"github.com/dmitrijs2005/cargodesk/internal/client/client"
)

// API is the part of *client.Client the services use.
type API interface {
	Do(ctx context.Context, req *client.Request) (*client.Response, error)
	DoAnonymous(ctx context.Context, req *client.Request) (*client.Response, error)
}

// Navigator moves the user interface to another screen.
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

type NavigatorFunc func(ctx context.Context, path string)

func (f NavigatorFunc) Navigate(ctx context.Context, path string) { f(ctx, path) }

const (
	DefaultLoginPath   = "/login"
	DefaultSuccessPath = "/applications"
)
