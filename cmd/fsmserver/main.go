/*
Fsmserver starts an FSMC server and begins listening for new connections.

Usage:

	fsmserver [flags]
	fsmserver [flags] -l [[ADDRESS]:PORT]

Once started, the FSMC server will listen for HTTP requests and respond to them
using REST protocol. Logged-in users can compile regexes and regular grammars
into automata, list and delete them, export their transition tables, and run
input strings against them. By default, it will listen on localhost:8080. This
can be changed with the --listen/-l flag (or config via environment var). The
flag argument must be either a full address with port, such as
"192.168.0.2:6001", or just the IP address preceeded by a colon, such as
":6001".

If a JWT token secret is not given, one will be automatically generated from a
secure random source. As a consequence, in this mode of operation all tokens
are rendered invalid as soon as the server shuts down. This is suitable for
testing, but must be given via either CLI flags or environment variable if
running in production.

The flags are:

	-v, --version
		Give the current version of the FSMC server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment variable
		FSMC_LISTEN_ADDRESS, and if that is not given, will default to
		localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less than
		32 bytes in the secret, it will be repeated until it is. The maximum
		size is 64 bytes. If not given, will default to the value of environment
		variable FSMC_TOKEN_SECRET. If no secret is specified or an empty
		secret is given, a random secret will be automatically generated. Note
		that any tokens issued with a random secret will become invalid as soon
		as the server shuts down.

	-c, --config FILE
		Read settings from the given TOML file. It may set the keys listen,
		token_secret, database, unauth_delay_ms, and hash_cost. Environment
		variables and flags override whatever the file sets. If not given, will
		default to the value of environment variable FSMC_CONFIG.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the following:
		inmem, sqlite. inmem has no further params. sqlite needs the path to the
		data directory such as sqlite:path/to/db_dir. If not given, will default
		to the value of environment variable FSMC_DATABASE. If no DB driver is
		specified or an empty one is given, an in-memory database is
		automatically selected.
*/
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dekarrin/fsmc/internal/version"
	"github.com/dekarrin/fsmc/server"
	"github.com/dekarrin/fsmc/server/dao"
	"github.com/dekarrin/fsmc/server/serr"
	"github.com/spf13/pflag"
)

const (
	EnvListen = "FSMC_LISTEN_ADDRESS"
	EnvSecret = "FSMC_TOKEN_SECRET"
	EnvDB     = "FSMC_DATABASE"
	EnvConfig = "FSMC_CONFIG"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of the FSMC server and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
	flagConfig  = pflag.StringP("config", "c", "", "Read settings from the given TOML file.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (FSMC v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	args := pflag.Args()

	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	// the config file is the base that env and flags are applied on top of
	var cfg server.Config
	var fileCfg server.FileConfig
	cfgPath := os.Getenv(EnvConfig)
	if pflag.Lookup("config").Changed {
		cfgPath = *flagConfig
	}
	if cfgPath != "" {
		var err error
		fileCfg, err = server.LoadConfigFile(cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not read config file: %s\n", err.Error())
			os.Exit(1)
		}
		cfg, err = fileCfg.Config()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config file %s: %s\n", cfgPath, err.Error())
			os.Exit(1)
		}
	}

	// get address info
	port := 0
	addr := ""
	listenAddr := fileCfg.Listen
	if env := os.Getenv(EnvListen); env != "" {
		listenAddr = env
	}
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr != "" {
		bindParts := strings.SplitN(listenAddr, ":", 2)
		if len(bindParts) != 2 {
			fmt.Fprintf(os.Stderr, "Listen address is not in ADDRESS:PORT or :PORT format.\nDo -h for help.\n")
			os.Exit(1)
		}

		var err error

		addr = bindParts[0]
		port, err = strconv.Atoi(bindParts[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "%q is not a valid port number.\nDo -h for help.\n", bindParts[1])
			os.Exit(1)
		}
	}

	// look at db connection string
	dbConnStr := os.Getenv(EnvDB)
	if pflag.Lookup("db").Changed {
		dbConnStr = *flagDB
	}
	if dbConnStr != "" {
		db, err := server.ParseDBConnString(dbConnStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Not a valid DB string: %s\nDo -h for help.\n", err.Error())
			os.Exit(1)
		}
		cfg.DB = db
	}

	// get token secret
	tokSecStr := fileCfg.TokenSecret
	if env := os.Getenv(EnvSecret); env != "" {
		tokSecStr = env
	}
	if pflag.Lookup("secret").Changed {
		tokSecStr = *flagSecret
	}
	// was the secret given?
	if tokSecStr != "" {
		// if so, validate it
		cfg.TokenSecret = []byte(tokSecStr)

		for len(cfg.TokenSecret) < server.MinSecretSize {
			doubled := make([]byte, len(cfg.TokenSecret)*2)
			copy(doubled, cfg.TokenSecret)
			copy(doubled[len(cfg.TokenSecret):], cfg.TokenSecret)
			cfg.TokenSecret = doubled
		}

		if len(cfg.TokenSecret) > server.MaxSecretSize {
			// keys would be chopped at 64, so rather than the user thinking
			// they have more security by giving a longer key, refuse to start.
			fmt.Fprintf(os.Stderr, "Token secret is %d bytes, but it must be <= %d bytes\nDo -h for help.\n", len(cfg.TokenSecret), server.MaxSecretSize)
			os.Exit(1)
		}
	} else {
		// use all 64 possible bytes if doing a generated secret
		cfg.TokenSecret = make([]byte, server.MaxSecretSize)
		_, err := rand.Read(cfg.TokenSecret)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not generate token secret: %s\n", err.Error())
			os.Exit(1)
		}

		// yell at the user bc they should know their secret might be bad
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
	}

	// configuration complete, initialize the server
	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	defer srv.Close()
	log.Printf("DEBUG Server initialized")

	// immediately create the admin user so we have someone we can log in as.
	_, err = srv.CreateUser(context.Background(), "admin", "password", "bogus@example.com", dao.Admin)
	if err != nil && !errors.Is(err, serr.ErrAlreadyExists) {
		log.Printf("ERROR could not create initial admin user: %v", err)
		os.Exit(2)
	}
	if !errors.Is(err, serr.ErrAlreadyExists) {
		log.Printf("INFO  Added initial admin user with password 'password'...")
	}

	// okay, now actually launch it
	log.Printf("INFO  Starting FSMC server %s...", version.ServerCurrent)
	srv.ServeForever(addr, port)
}
