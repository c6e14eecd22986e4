package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/peterbourgon/ff"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/nav-router/api"
	"github.com/a-bouts/nav-router/land"
	"github.com/a-bouts/nav-router/route"
	"github.com/a-bouts/nav-router/weather"
	"github.com/a-bouts/nav-router/xmpp"
)

func main() {

	fs := flag.NewFlagSet("nav-router", flag.ExitOnError)
	var (
		port            = fs.Int("port", 8888, "listen port")
		gribDir         = fs.String("grib-dir", "", "directory of the grib files, uniform weather when empty")
		landFile        = fs.String("land-file", "", "land bitmap, no land avoidance when empty")
		tuning          = fs.String("tuning", "", "yaml engine tuning profile")
		gridSpacing     = fs.Float64("grid-spacing", weather.DefaultSpacing, "weather sample spacing in nm")
		refreshInterval = fs.Uint64("refresh-interval", 60, "grib directory refresh in seconds")
		windSpeed       = fs.Float64("wind-speed", 12, "uniform wind speed in knots")
		windFrom        = fs.Float64("wind-from", 270, "uniform wind direction in degrees")
		windowLimit     = fs.Int("window-limit", 4, "routes computed at once for a departure window")
		cpuprofile      = fs.Bool("cpuprofile", false, "profile route requests")
		logLevel        = fs.String("log-level", "info", "")
		logFormat       = fs.String("log-format", "text", "text or json")
		logFile         = fs.String("log-file", "", "rotated log file")
		xmppHost        = fs.String("xmpp-host", "", "")
		xmppJid         = fs.String("xmpp-jid", "", "")
		xmppPassword    = fs.String("xmpp-password", "", "")
		xmppTo          = fs.String("xmpp-to", "", "")
		xmppInsecure    = fs.Bool("xmpp-insecure", false, "")
	)
	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarNoPrefix()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := setupLogging(log.StandardLogger(), logConfig{level: *logLevel, format: *logFormat, file: *logFile}); err != nil {
		log.WithError(err).Fatal("Error setting up logs")
	}

	cfg := route.DefaultConfig()
	if *tuning != "" {
		var err error
		if cfg, err = route.LoadConfig(*tuning); err != nil {
			log.WithError(err).Fatal("Error loading tuning profile")
		}
		log.Infof("Tuning profile '%s' loaded", *tuning)
	}

	opts := []api.Option{
		api.WithCPUProfile(*cpuprofile),
		api.WithWindowLimit(*windowLimit),
		api.WithNotifier(&xmpp.Xmpp{Config: xmpp.Config{
			Host:     *xmppHost,
			Jid:      *xmppJid,
			Password: *xmppPassword,
			To:       *xmppTo,
			Insecure: *xmppInsecure,
		}}),
	}

	if *landFile != "" {
		log.Info("Load lands")
		l, err := land.InitLand(*landFile)
		if err != nil {
			log.WithError(err).Fatal("Error loading lands")
		}
		opts = append(opts, api.WithLand(l))
	}

	var provider weather.Provider
	if *gribDir != "" {
		log.Infof("Load gribs from '%s'", *gribDir)
		g := weather.NewGribs(*gribDir, *gridSpacing)
		log.Infof("%d gribs loaded", g.Len())
		g.Schedule(*refreshInterval)
		provider = g
	} else {
		s := weather.DefaultSample()
		s.WindSpeed = *windSpeed
		s.WindDirection = *windFrom
		s.WindSustained = *windSpeed
		s.WindGusts = *windSpeed
		log.Warnf("No grib directory, uniform %.0f kt wind from %.0f°", *windSpeed, *windFrom)
		provider = weather.Uniform{Sample: s, Spacing: *gridSpacing}
	}

	router := api.InitServer(cfg, provider, opts...)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	log.Infof("Start server on port %d", *port)
	err := http.ListenAndServe(fmt.Sprintf(":%d", *port), handlers.CombinedLoggingHandler(log.StandardLogger().Writer(), cors(router)))
	log.WithError(err).Fatal("Server stopped")
}
