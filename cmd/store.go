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

	"github.com/geofr/commatlas/internal/io/mapio"
	"github.com/geofr/commatlas/internal/io/sourceio"
	"github.com/geofr/commatlas/internal/io/storeio"
	commatlas "github.com/geofr/commatlas/pkg"
	"github.com/geofr/commatlas/pkg/config"
	"github.com/geofr/commatlas/pkg/ent/atlas"
	"github.com/geofr/commatlas/pkg/stats"
	"github.com/spf13/cobra"
)

// storeCmd represents the store command
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Saves observations to MySQL and maps the merged aggregate read back",
	Run: func(_ *cobra.Command, _ []string) {
		cfg := config.New(opts...)
		ca := commatlas.New(cfg)
		ing := sourceio.New(cfg)

		st, err := storeio.New(cfg)
		if err != nil {
			slog.Error("Cannot connect to the database", "error", err)
			os.Exit(1)
		}
		defer st.Close()

		if err = ca.Store(st, ing); err != nil {
			slog.Error("Cannot store observations", "error", err)
			os.Exit(1)
		}

		merged, err := st.Merged()
		if err != nil {
			slog.Error("Cannot read merged aggregates", "error", err)
			os.Exit(1)
		}
		regions, err := ing.Regions()
		if err != nil {
			slog.Error("Cannot load commune boundaries", "error", err)
			os.Exit(1)
		}
		t, err := atlas.Join(regions, merged)
		if err != nil {
			slog.Error("Cannot join merged aggregates", "error", err)
			os.Exit(1)
		}

		r, err := mapio.New(cfg)
		if err != nil {
			slog.Error("Cannot create renderer", "error", err)
			os.Exit(1)
		}
		if err = ca.Render(r, t, stats.Matrix{}); err != nil {
			slog.Error("Cannot render maps", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(storeCmd)
}
