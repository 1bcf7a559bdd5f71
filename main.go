package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/geofr/commatlas/cmd"
	"github.com/lmittmann/tint"
)

func main() {
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		TimeFormat: time.Kitchen,
	})
	slog.SetDefault(slog.New(handler))

	cmd.Execute()
}
