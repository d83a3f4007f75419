// Package cli provides the command-line interface for the adp application.
package cli

import (
	"github.com/bestball/adp/internal/app"
	"github.com/spf13/cobra"
)

// SetApp stores the Application for the command being run.
func SetApp(cmd *cobra.Command, a *app.Application) {
	globalApp = a
}

// GetAppFromCmd retrieves the Application stored by SetApp.
func GetAppFromCmd(cmd *cobra.Command) *app.Application {
	return globalApp
}

// Only one command runs per process.
var globalApp *app.Application
