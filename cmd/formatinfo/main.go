// Command formatinfo prints the parsing profile of a climate file format.
//
// Usage:
//
//	go run ./cmd/formatinfo -format monthly_temp-k_precip-kgm2sec
//	go run ./cmd/formatinfo -list
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/climate-format-etl/internal/format"
)

func main() {
	name := flag.String("format", "", "climate file format identifier to resolve")
	list := flag.Bool("list", false, "list supported formats and exit")
	flag.Parse()

	if !*list && *name == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if code := run(os.Stdout, logger, *name, *list); code != 0 {
		os.Exit(code)
	}
}

func run(w io.Writer, logger *slog.Logger, name string, list bool) int {
	if list {
		for _, f := range format.SupportedFormats() {
			fmt.Fprintln(w, f)
		}
		return 0
	}

	profile, err := format.NewResolver(logger, nil).Resolve(name)
	if err != nil {
		return 1
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(profile); err != nil {
		logger.Error("encode profile", "error", err)
		return 1
	}
	return 0
}
