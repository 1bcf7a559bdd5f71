package config

import (
	"path/filepath"
)

var (
	waterFilesAry = []string{
		filepath.Join("data", "CAP_PLV_202411.txt"),
		filepath.Join("data", "CAP_RES_202411.txt"),
		filepath.Join("data", "TTP_PLV_202411.txt"),
		filepath.Join("data", "TTP_RES_202411.txt"),
		filepath.Join("data", "UDI_PLV_202411.txt"),
		filepath.Join("data", "UDI_RES_202411.txt"),
	}
	rentFilesAry = []string{
		filepath.Join("data", "pred-app-mef-dhup.csv"),
		filepath.Join("data", "pred-app3-mef-dhup.csv"),
		filepath.Join("data", "pred-app12-mef-dhup.csv"),
		filepath.Join("data", "pred-mai-mef-dhup.csv"),
	}
)

// Config is a struct that holds configuration parameters for the package.
type Config struct {
	// WaterFiles is a list of drinking-water control files. All files are
	// concatenated before aggregation.
	WaterFiles []string

	// RentFiles is a list of predicted-rent files, one per housing
	// category. All files are concatenated before aggregation.
	RentFiles []string

	// PopulationFile is a census spreadsheet. An empty value skips the
	// population dataset.
	PopulationFile string

	// GeometryFile is a GeoJSON file with commune boundaries.
	GeometryFile string

	// OutputDir is a directory for maps, heatmaps and exports.
	OutputDir string

	// JobsNum is a number of concurrently rendered maps.
	JobsNum int

	// BatchSize is a number of records to be saved in one INSERT
	// statement. Kept under 13_000 so a five-column row set stays below
	// the 65_535 placeholder limit of the MySQL protocol.
	BatchSize int

	// RentByCategory adds one rent column per housing category next to
	// the overall mean.
	RentByCategory bool

	// InteractiveMaps enables Leaflet HTML documents next to the static
	// maps.
	InteractiveMaps bool

	// MyHost is a host name for MySQL.
	MyHost string

	// MyUser is a user name for MySQL.
	MyUser string

	// MyPass is a password for MySQL.
	MyPass string

	// MyDB is a database name for MySQL.
	MyDB string
}

// Option type allows to change settings for Config.
type Option func(*Config)

// OptWaterFiles sets the list of drinking-water control files.
func OptWaterFiles(fs []string) Option {
	return func(cfg *Config) {
		cfg.WaterFiles = fs
	}
}

// OptRentFiles sets the list of predicted-rent files.
func OptRentFiles(fs []string) Option {
	return func(cfg *Config) {
		cfg.RentFiles = fs
	}
}

// OptPopulationFile sets the census spreadsheet path.
func OptPopulationFile(f string) Option {
	return func(cfg *Config) {
		cfg.PopulationFile = f
	}
}

// OptGeometryFile sets the commune boundaries path.
func OptGeometryFile(f string) Option {
	return func(cfg *Config) {
		cfg.GeometryFile = f
	}
}

// OptOutputDir sets a directory for generated artifacts.
func OptOutputDir(d string) Option {
	return func(cfg *Config) {
		cfg.OutputDir = d
	}
}

// OptJobsNum sets parallelism number for map rendering.
func OptJobsNum(j int) Option {
	return func(cfg *Config) {
		cfg.JobsNum = j
	}
}

// OptBatchSize sets the INSERT batch size for the relational store.
func OptBatchSize(s int) Option {
	return func(cfg *Config) {
		cfg.BatchSize = s
	}
}

// OptRentByCategory enables per-category rent columns.
func OptRentByCategory(b bool) Option {
	return func(cfg *Config) {
		cfg.RentByCategory = b
	}
}

// OptInteractiveMaps enables interactive Leaflet documents.
func OptInteractiveMaps(b bool) Option {
	return func(cfg *Config) {
		cfg.InteractiveMaps = b
	}
}

// OptMyHost sets host for MySQL
func OptMyHost(h string) Option {
	return func(cfg *Config) {
		cfg.MyHost = h
	}
}

// OptMyUser sets user for MySQL
func OptMyUser(u string) Option {
	return func(cfg *Config) {
		cfg.MyUser = u
	}
}

// OptMyPass sets password for MySQL
func OptMyPass(p string) Option {
	return func(cfg *Config) {
		cfg.MyPass = p
	}
}

// OptMyDB sets database name for MySQL
func OptMyDB(d string) Option {
	return func(cfg *Config) {
		cfg.MyDB = d
	}
}

func New(opts ...Option) Config {
	res := Config{
		WaterFiles:      waterFilesAry,
		RentFiles:       rentFilesAry,
		PopulationFile:  filepath.Join("data", "POPULATION_MUNICIPALE_COMMUNES_FRANCE.xlsx"),
		GeometryFile:    filepath.Join("data", "a-com2022.json"),
		OutputDir:       "figures",
		JobsNum:         4,
		BatchSize:       10_000,
		InteractiveMaps: true,
		MyHost:          "localhost",
		MyUser:          "root",
		MyDB:            "water_rent_quality",
	}

	for _, opt := range opts {
		opt(&res)
	}

	return res
}
