/*
Mashd starts a mathscript server and begins listening for HTTP requests.

Usage:

	mashd [flags]
	mashd [flags] -c CONFIG_FILE

By default mashd reads its configuration from "mashd.toml" in the current
working directory. This can be changed with the --config/-c flag. The
listen address, JWT signing secret, database backend, and advertised
default units are all read from that file (see server.Config). Only the
listen address (":8080") and the database type (in-memory) fall back to a
default when not given; the other settings have none.

The flags are:

	-v, --version
		Give the current version of mashd and then exit.

	-c, --config FILE
		Use the provided TOML config file. Defaults to "mashd.toml".
*/
package main

import (
	"log"
	"net/http"

	"github.com/spf13/pflag"

	"github.com/dekarrin/mathscript/internal/version"
	"github.com/dekarrin/mathscript/server"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of mashd and then exit.")
	flagConfig  = pflag.StringP("config", "c", "mashd.toml", "Use the given TOML config file.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		log.SetFlags(0)
		log.Printf("mashd %s", version.Current)
		return
	}

	cfg, err := server.LoadConfig(*flagConfig)
	if err != nil {
		log.Fatalf("FATAL could not load config: %s", err.Error())
	}

	store, err := cfg.DB.Connect()
	if err != nil {
		log.Fatalf("FATAL could not connect to database: %s", err.Error())
	}
	defer store.Close()

	api := server.New(cfg, store)

	log.Printf("INFO  mashd %s listening on %s", version.Current, cfg.Listen)
	if err := http.ListenAndServe(cfg.Listen, api.Router()); err != nil {
		log.Fatalf("FATAL server exited: %s", err.Error())
	}
}
