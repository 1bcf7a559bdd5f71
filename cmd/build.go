/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"log/slog"
	"os"

	"github.com/geofr/commatlas/internal/io/exportio"
	"github.com/geofr/commatlas/internal/io/mapio"
	"github.com/geofr/commatlas/internal/io/sourceio"
	commatlas "github.com/geofr/commatlas/pkg"
	"github.com/geofr/commatlas/pkg/config"
	"github.com/spf13/cobra"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds maps, correlations and exports from the open-data files",
	Run: func(_ *cobra.Command, _ []string) {
		cfg := config.New(opts...)
		ca := commatlas.New(cfg)
		ing := sourceio.New(cfg)

		t, err := ca.Assemble(ing)
		if err != nil {
			slog.Error("Cannot assemble the atlas", "error", err)
			os.Exit(1)
		}
		m, err := ca.Correlate(t)
		if err != nil {
			slog.Error("Cannot compute correlations", "error", err)
			os.Exit(1)
		}

		r, err := mapio.New(cfg)
		if err != nil {
			slog.Error("Cannot create renderer", "error", err)
			os.Exit(1)
		}
		if err = ca.Render(r, t, m); err != nil {
			slog.Error("Cannot render maps", "error", err)
			os.Exit(1)
		}

		e, err := exportio.New(cfg)
		if err != nil {
			slog.Error("Cannot create exporter", "error", err)
			os.Exit(1)
		}
		if err = ca.Export(e, t, m); err != nil {
			slog.Error("Cannot export the atlas", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
