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
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	commatlas "github.com/geofr/commatlas/pkg"
	"github.com/geofr/commatlas/pkg/config"
	"github.com/gnames/gnsys"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

//go:embed commatlas.yaml
var configText string

var (
	opts []config.Option
)

type cfgData struct {
	WaterFiles      []string
	RentFiles       []string
	PopulationFile  string
	GeometryFile    string
	OutputDir       string
	JobsNum         int
	BatchSize       int
	RentByCategory  bool
	InteractiveMaps bool
	MyHost          string
	MyUser          string
	MyPass          string
	MyDB            string
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "commatlas",
	Short: "Maps drinking-water quality, rents and population of French communes",
	Long: `commatlas assembles French open data into one commune-level atlas.

It reads drinking-water control results, predicted rents and census
population, aggregates them per commune, joins them onto the commune
boundaries and renders choropleth maps, a correlation matrix and file
exports. The same observations can be saved to MySQL where the merged
aggregate is rebuilt with SQL.`,
	Run: func(cmd *cobra.Command, args []string) {
		version, err := cmd.Flags().GetBool("version")
		if err != nil {
			slog.Error("Cannot get flag", "error", err)
			os.Exit(1)
		}
		if version {
			fmt.Printf("\nversion: %s\nbuild: %s\n\n", commatlas.Version, commatlas.Build)
			os.Exit(0)
		}

		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().BoolP("version", "V", false, "Returns version and build date")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	var err error
	var homeDir, cfgDir string
	configFile := "commatlas"

	// Find home directory.
	homeDir, err = os.UserHomeDir()
	if err != nil {
		slog.Error("Cannot find home dir", "error", err)
		os.Exit(1)
	}
	cfgDir = filepath.Join(homeDir, ".config")

	// Search config in home directory with name "commatlas" (without extension).
	viper.AddConfigPath(cfgDir)
	viper.SetConfigName(configFile)

	configPath := filepath.Join(cfgDir, fmt.Sprintf("%s.yaml", configFile))
	touchConfigFile(configPath)

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		slog.Error("Config file commatlas.yaml not found", "error", err)
		os.Exit(1)
	}
	getOpts()
}

// getOpts imports data from the configuration file. Booleans go
// through viper.IsSet, so an explicit false still overrides the
// default.
func getOpts() []config.Option {
	cfg := cfgData{}
	err := viper.Unmarshal(&cfg)
	if err != nil {
		slog.Error("Cannot unmarshal config file", "error", err)
	}

	if len(cfg.WaterFiles) > 0 {
		opts = append(opts, config.OptWaterFiles(cfg.WaterFiles))
	}
	if len(cfg.RentFiles) > 0 {
		opts = append(opts, config.OptRentFiles(cfg.RentFiles))
	}
	if viper.IsSet("PopulationFile") {
		opts = append(opts, config.OptPopulationFile(cfg.PopulationFile))
	}
	if cfg.GeometryFile != "" {
		opts = append(opts, config.OptGeometryFile(cfg.GeometryFile))
	}
	if cfg.OutputDir != "" {
		opts = append(opts, config.OptOutputDir(cfg.OutputDir))
	}
	if cfg.JobsNum != 0 {
		opts = append(opts, config.OptJobsNum(cfg.JobsNum))
	}
	if cfg.BatchSize != 0 {
		opts = append(opts, config.OptBatchSize(cfg.BatchSize))
	}
	if viper.IsSet("RentByCategory") {
		opts = append(opts, config.OptRentByCategory(cfg.RentByCategory))
	}
	if viper.IsSet("InteractiveMaps") {
		opts = append(opts, config.OptInteractiveMaps(cfg.InteractiveMaps))
	}
	if cfg.MyHost != "" {
		opts = append(opts, config.OptMyHost(cfg.MyHost))
	}
	if cfg.MyUser != "" {
		opts = append(opts, config.OptMyUser(cfg.MyUser))
	}
	if cfg.MyPass != "" {
		opts = append(opts, config.OptMyPass(cfg.MyPass))
	}
	if cfg.MyDB != "" {
		opts = append(opts, config.OptMyDB(cfg.MyDB))
	}
	return opts
}

// touchConfigFile checks if config file exists, and if not, it gets created.
func touchConfigFile(configPath string) {
	fileExists, _ := gnsys.FileExists(configPath)
	if fileExists {
		return
	}

	slog.Info("Creating config file", "path", configPath)
	createConfig(configPath)
}

// createConfig creates config file.
func createConfig(path string) {
	err := gnsys.MakeDir(filepath.Dir(path))
	if err != nil {
		slog.Error("Cannot create config dir", "error", err)
		os.Exit(1)
	}

	err = os.WriteFile(path, []byte(configText), 0644)
	if err != nil {
		slog.Error("Cannot write to config file", "error", err)
		os.Exit(1)
	}
}
