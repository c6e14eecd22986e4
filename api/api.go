package api

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/nav-router/api/model"
	"github.com/a-bouts/nav-router/polar"
	"github.com/a-bouts/nav-router/route"
	"github.com/a-bouts/nav-router/weather"
)

// Notifier is told about every route found
type Notifier interface {
	Enabled() bool
	Send(message string) error
}

type server struct {
	cpuprofile  bool
	cfg         route.Config
	provider    weather.Provider
	land        route.LandChecker
	notifier    Notifier
	windowLimit int
}

type Option func(*server)

func WithCPUProfile(enabled bool) Option {
	return func(s *server) { s.cpuprofile = enabled }
}

// WithLand avoids the land, l must not be a nil pointer
func WithLand(l route.LandChecker) Option {
	return func(s *server) { s.land = l }
}

func WithNotifier(n Notifier) Option {
	return func(s *server) { s.notifier = n }
}

// WithWindowLimit bounds the routes computed at once for a departure window
func WithWindowLimit(limit int) Option {
	return func(s *server) { s.windowLimit = limit }
}

func InitServer(cfg route.Config, p weather.Provider, opts ...Option) *mux.Router {
	s := &server{
		cfg:         cfg,
		provider:    p,
		windowLimit: 4,
	}
	for _, o := range opts {
		o(s)
	}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/route/-/healthz", s.healthz).Methods(http.MethodGet)

	apiV1 := router.PathPrefix("/route/api/v1").Subrouter()
	apiV1.HandleFunc("/route", s.route).Methods(http.MethodPost)
	apiV1.HandleFunc("/window", s.window).Methods(http.MethodPost)
	apiV1.HandleFunc("/tree", s.tree).Methods(http.MethodPost)
	apiV1.HandleFunc("/vmg", s.vmg).Methods(http.MethodGet)
	apiV1.HandleFunc("/polar/{vessel}", s.polar).Methods(http.MethodGet)

	return router
}

func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	type health struct {
		Status string `json:"status"`
	}

	writeJSON(w, http.StatusOK, health{Status: "Ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Error encoding response")
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, route.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, route.ErrNoRoute):
		return http.StatusNotFound
	case errors.Is(err, route.ErrNoWeatherData):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *server) fail(w http.ResponseWriter, logger *log.Entry, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.WithError(err).Error("Route failed")
	} else {
		logger.WithError(err).WithField("status", status).Info("Route failed")
	}
	writeJSON(w, status, model.NewError(err))
}

func requestLogger(action string, req *http.Request) *log.Entry {
	fields := log.Fields{
		"action":  action,
		"request": uuid.NewString(),
	}
	if ip, err := getIp(req); err == nil {
		fields["IP"] = ip
	}
	return log.WithFields(fields)
}

func decode(req *http.Request, v interface{}) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return errors.Wrap(route.ErrInvalidRequest, err.Error())
	}
	return nil
}

func (s *server) route(w http.ResponseWriter, req *http.Request) {
	if s.cpuprofile {
		defer profile.Start(profile.Quiet).Stop()
	}
	logger := requestLogger("route", req)

	var body model.Route
	if err := decode(req, &body); err != nil {
		s.fail(w, logger, err)
		return
	}
	r, err := body.Request()
	if err != nil {
		s.fail(w, logger, err)
		return
	}

	logger.Infof("Route '%s' from %s to %s for a %s leaving at %s", r.Name, r.Start, r.End, r.Vessel, r.Departure.Format(time.RFC3339))
	start := time.Now()

	field, err := route.FieldFor(req.Context(), s.provider, r)
	if err != nil {
		s.fail(w, logger, err)
		return
	}

	found, err := route.NewEngine(s.cfg, field, s.land).Run(req.Context(), r)
	if err != nil {
		s.fail(w, logger, err)
		return
	}
	found.Enrich(field)
	res := model.NewResult(found)

	logger.Infof("Route took %s (%d iterations, score %d)", time.Since(start).String(), found.Stats.Iterations, res.Score.Score)

	s.notify(logger, res)
	writeJSON(w, http.StatusOK, res)
}

func (s *server) window(w http.ResponseWriter, req *http.Request) {
	logger := requestLogger("window", req)

	var body model.Window
	if err := decode(req, &body); err != nil {
		s.fail(w, logger, err)
		return
	}
	r, err := body.Request()
	if err != nil {
		s.fail(w, logger, err)
		return
	}

	logger.Infof("Window '%s' for %d departures", r.Name, len(body.Departures))
	start := time.Now()

	results, err := route.RunWindow(req.Context(), s.cfg, s.provider, s.land, r, body.Departures, s.windowLimit)
	if err != nil {
		s.fail(w, logger, err)
		return
	}

	slots := make([]model.Slot, len(results))
	for i, res := range results {
		slots[i].Departure = res.Departure
		if res.Route != nil {
			result := model.NewResult(res.Route)
			slots[i].Result = &result
		} else if res.Err != nil {
			e := model.NewError(res.Err)
			slots[i].Error = &e
		}
	}

	logger.Infof("Window took %s", time.Since(start).String())
	writeJSON(w, http.StatusOK, slots)
}

// tree runs the router and dumps its search tree, found or not
func (s *server) tree(w http.ResponseWriter, req *http.Request) {
	logger := requestLogger("tree", req)

	var body model.Route
	if err := decode(req, &body); err != nil {
		s.fail(w, logger, err)
		return
	}
	r, err := body.Request()
	if err != nil {
		s.fail(w, logger, err)
		return
	}

	field, err := route.FieldFor(req.Context(), s.provider, r)
	if err != nil {
		s.fail(w, logger, err)
		return
	}

	e := route.NewEngine(s.cfg, field, s.land)
	if _, err := e.Run(req.Context(), r); err != nil && !errors.Is(err, route.ErrNoRoute) {
		s.fail(w, logger, err)
		return
	}

	t := e.Tree()
	if t == nil {
		s.fail(w, logger, errors.New("no search tree"))
		return
	}
	b, err := t.Encode()
	if err != nil {
		s.fail(w, logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/msgpack")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func queryFloat(req *http.Request, name string) (float64, error) {
	v, err := strconv.ParseFloat(req.URL.Query().Get(name), 64)
	if err != nil {
		return 0, errors.Wrapf(route.ErrInvalidRequest, "parameter '%s'", name)
	}
	return v, nil
}

func (s *server) vmg(w http.ResponseWriter, req *http.Request) {
	logger := requestLogger("vmg", req)

	vessel, err := polar.ParseVesselClass(req.URL.Query().Get("vessel"))
	if err != nil {
		s.fail(w, logger, errors.Wrap(route.ErrInvalidRequest, err.Error()))
		return
	}
	var values [3]float64
	for i, name := range []string{"windSpeed", "windFrom", "bearing"} {
		if values[i], err = queryFloat(req, name); err != nil {
			s.fail(w, logger, err)
			return
		}
	}

	heading, vmg := polar.OptimalVMGHeading(values[0], vessel, values[2], values[1])
	writeJSON(w, http.StatusOK, model.VMG{Heading: heading, VMG: vmg})
}

func (s *server) polar(w http.ResponseWriter, req *http.Request) {
	logger := requestLogger("polar", req)

	vessel, err := polar.ParseVesselClass(mux.Vars(req)["vessel"])
	if err != nil {
		s.fail(w, logger, errors.Wrap(route.ErrInvalidRequest, err.Error()))
		return
	}
	ws, err := queryFloat(req, "windSpeed")
	if err != nil {
		s.fail(w, logger, err)
		return
	}
	twa, err := queryFloat(req, "windAngle")
	if err != nil {
		s.fail(w, logger, err)
		return
	}

	writeJSON(w, http.StatusOK, model.Polar{
		VesselClass: vessel,
		WindSpeed:   ws,
		WindAngle:   twa,
		BoatSpeed:   polar.BoatSpeed(ws, twa, vessel),
		NoGo:        polar.IsInNoGoZone(twa, vessel),
	})
}

func summary(res model.Result) string {
	return fmt.Sprintf("Route '%s' for a %s: %.1f nm in %s, score %d/100",
		res.Name, res.Vessel, res.TotalDistanceNm, res.EstimatedTime, res.Score.Score)
}

func (s *server) notify(logger *log.Entry, res model.Result) {
	if s.notifier == nil || !s.notifier.Enabled() {
		return
	}
	message := summary(res)
	go func() {
		if err := s.notifier.Send(message); err != nil {
			logger.WithError(err).Warn("Error sending route notification")
		}
	}()
}

func getIp(r *http.Request) (string, error) {
	//Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}

	//Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		ip = strings.TrimSpace(ip)
		if netIP := net.ParseIP(ip); netIP != nil {
			return ip, nil
		}
	}

	//Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}
	return "", fmt.Errorf("No valid ip found")
}
