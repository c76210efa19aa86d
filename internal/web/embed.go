// Package web holds the embedded templates and static assets of both apps
// and the renderer that executes them.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:templates static
var files embed.FS

const (
	AppPictorial = "pictorial"
	AppTutorial  = "tutorial"
)

// Templates returns the template directory of one app.
func Templates(app string) (fs.FS, error) {
	return fs.Sub(files, "templates/"+app)
}

// Static returns the shared static assets, rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
