package weather

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jasonlvhit/gocron"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/nav-router/latlon"
)

const stampLayout = "2006010215"

// Gribs is the set of GRIB forecast files of a directory, one per valid
// time. Files are named after their run and forecast hour, 2023061412.f006
type Gribs struct {
	dir     string
	spacing float64
	gribs   map[string]*Grib
	lock    sync.RWMutex
	merging sync.Mutex
	stop    chan bool
}

// parseGribName returns the run date and the valid date of a file
func parseGribName(name string) (time.Time, time.Time, error) {
	parts := strings.Split(name, ".")
	if len(parts) < 2 || len(parts[1]) < 2 {
		return time.Time{}, time.Time{}, errors.Errorf("bad grib file name '%s'", name)
	}
	run, err := time.Parse(stampLayout, parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrapf(err, "parse run of '%s'", name)
	}
	h, err := strconv.Atoi(parts[1][1:])
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrapf(err, "parse forecast hour of '%s'", name)
	}
	return run, run.Add(time.Hour * time.Duration(h)), nil
}

func NewGribs(dir string, spacing float64) *Gribs {
	if spacing <= 0 {
		spacing = DefaultSpacing
	}
	g := &Gribs{
		dir:     dir,
		spacing: spacing,
		gribs:   make(map[string]*Grib),
	}
	g.Merge()
	return g
}

func (g *Gribs) files() ([]string, error) {
	var files []string
	err := filepath.Walk(g.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.WithError(err).Errorf("Error walking file '%s'", path)
		} else if info.Mode().IsRegular() && !strings.HasSuffix(info.Name(), ".tmp") {
			files = append(files, info.Name())
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// Merge drops the files gone from the directory and loads the new ones. For
// a valid time the most recent run wins. Files are decoded without holding
// the lock, readers only wait for the swap.
func (g *Gribs) Merge() error {
	g.merging.Lock()
	defer g.merging.Unlock()

	files, err := g.files()
	if err != nil {
		log.WithError(err).Error("Error walking grib files")
		return err
	}

	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f] = true
	}

	g.lock.RLock()
	var removed []string
	for k, gr := range g.gribs {
		if !present[gr.File] {
			removed = append(removed, k)
		}
	}
	// candidate files by valid time, most recent run first
	candidates := make(map[string][]string)
	dates := make(map[string]time.Time)
	for i := len(files) - 1; i >= 0; i-- {
		f := files[i]
		_, date, err := parseGribName(f)
		if err != nil {
			log.WithError(err).Warnf("Skip grib file '%s'", f)
			continue
		}
		stamp := date.Format(stampLayout)
		if current, found := g.gribs[stamp]; found && present[current.File] && current.File >= f {
			continue
		}
		candidates[stamp] = append(candidates[stamp], f)
		dates[stamp] = date
	}
	g.lock.RUnlock()

	loaded := make(map[string]*Grib)
	for stamp, names := range candidates {
		for _, f := range names {
			gr, err := ReadGrib(g.dir, dates[stamp], f)
			if err != nil {
				log.WithError(err).Errorf("Error loading grib file '%s'", f)
				continue
			}
			log.Debugf("Init %s %s", stamp, gr.File)
			loaded[stamp] = gr
			break
		}
	}

	if len(removed) == 0 && len(loaded) == 0 {
		return nil
	}

	g.lock.Lock()
	defer g.lock.Unlock()

	for _, k := range removed {
		log.Infof("Remove grib %s (%s)", k, g.gribs[k].File)
		delete(g.gribs, k)
	}
	for k, gr := range loaded {
		g.gribs[k] = gr
	}
	return nil
}

func (g *Gribs) Len() int {
	g.lock.RLock()
	defer g.lock.RUnlock()
	return len(g.gribs)
}

// Schedule merges the directory every interval
func (g *Gribs) Schedule(interval uint64) {
	s := gocron.NewScheduler()
	job := s.Every(interval).Seconds()
	job.Do(g.Merge)

	g.stop = s.Start()
}

func (g *Gribs) Stop() {
	if g.stop != nil {
		g.stop <- true
		g.stop = nil
	}
}

// find returns the gribs around m and the blend factor, the second one is
// nil when m is outside the forecast
func (g *Gribs) find(m time.Time) (*Grib, *Grib, float64) {
	if len(g.gribs) == 0 {
		return nil, nil, 0
	}

	stamp := m.UTC().Format(stampLayout)

	keys := make([]string, 0, len(g.gribs))
	for k := range g.gribs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if keys[0] > stamp {
		return g.gribs[keys[0]], nil, 0
	}
	for i := range keys {
		if keys[i] > stamp {
			g0, g1 := g.gribs[keys[i-1]], g.gribs[keys[i]]
			h := m.Sub(g0.Date).Minutes()
			delta := g1.Date.Sub(g0.Date).Minutes()
			return g0, g1, h / delta
		}
	}
	return g.gribs[keys[len(keys)-1]], nil, 0
}

// Field samples the loaded forecasts on a lattice around start and end
func (g *Gribs) Field(ctx context.Context, start, end latlon.LatLon, departure time.Time, hours int) (*Field, error) {
	locations := Lattice(Region(start, end, RegionPadding), g.spacing)
	times := HourlyTimes(departure, hours)

	f, err := NewField(locations, times)
	if err != nil {
		return nil, err
	}

	g.lock.RLock()
	defer g.lock.RUnlock()

	if len(g.gribs) == 0 {
		return nil, errors.Errorf("no grib loaded from '%s'", g.dir)
	}

	for t, m := range times {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g0, g1, h := g.find(m)
		for l, loc := range locations {
			if s, ok := sample(g0, g1, h, loc.Lat, loc.Lon); ok {
				f.Set(l, t, s)
			}
		}
	}

	log.WithFields(log.Fields{
		"locations": len(locations),
		"times":     len(times),
		"samples":   f.Len(),
	}).Debug("Grib field")

	return f, nil
}
