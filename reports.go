package selene

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

var runID = time.Now().UnixNano() / int64(time.Millisecond)

func defaultReportsFolder() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".selene", "screenshots", strconv.FormatInt(runID, 10))
}

// Reports tracks saved artifacts. Artifact file names are taken from a
// counter that only grows.
type Reports struct {
	mu             sync.Mutex
	counter        int
	lastScreenshot string
	lastPageSource string
}

func (r *Reports) next() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter++
	return r.counter
}

// LastScreenshot returns the path of the last saved screenshot.
func (r *Reports) LastScreenshot() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastScreenshot
}

// LastPageSource returns the path of the last saved page source.
func (r *Reports) LastPageSource() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastPageSource
}

func (r *Reports) setLastScreenshot(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastScreenshot = path
}

func (r *Reports) setLastPageSource(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastPageSource = path
}

// unsharedReports counts the artifacts of configs built without Reports.
var unsharedReports Reports

func (c *Config) reports() *Reports {
	if c.Reports == nil {
		return &unsharedReports
	}
	return c.Reports
}

func (c *Config) artifactPath(n int, ext string) string {
	folder := c.ReportsFolder
	if folder == "" {
		folder = defaultReportsFolder()
	}
	return filepath.Join(folder, fmt.Sprintf("%d.%s", n, ext))
}

func writeArtifact(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "creating %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// saveScreenshot saves a screenshot of the current page under the reports
// folder and returns its path.
func saveScreenshot(cfg *Config, path string) (string, error) {
	wd, err := cfg.driver()
	if err != nil {
		return "", err
	}
	data, err := wd.Screenshot()
	if err != nil {
		return "", errors.Wrap(err, "taking screenshot")
	}
	if path == "" {
		path = cfg.artifactPath(cfg.reports().next(), "png")
	}
	if err := writeArtifact(path, data); err != nil {
		return "", err
	}
	cfg.reports().setLastScreenshot(path)
	return path, nil
}

// savePageSource saves the current page source under the reports folder and
// returns its path.
func savePageSource(cfg *Config, path string) (string, error) {
	wd, err := cfg.driver()
	if err != nil {
		return "", err
	}
	source, err := wd.PageSource()
	if err != nil {
		return "", errors.Wrap(err, "getting page source")
	}
	if path == "" {
		path = cfg.artifactPath(cfg.reports().next(), "html")
	}
	if err := writeArtifact(path, []byte(source)); err != nil {
		return "", err
	}
	cfg.reports().setLastPageSource(path)
	return path, nil
}

func fileURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return "file://" + filepath.ToSlash(path)
}

// saveFailureArtifacts saves the artifacts enabled in cfg and returns the
// message lines pointing to them. Failures to save become lines too. The
// screenshot and page source of one failure share a counter value.
func saveFailureArtifacts(cfg *Config) []string {
	if cfg.Driver == nil || !(cfg.SaveScreenshotOnFailure || cfg.SavePageSourceOnFailure) {
		return nil
	}
	n := cfg.reports().next()
	var lines []string
	if cfg.SaveScreenshotOnFailure {
		if path, err := saveScreenshot(cfg, cfg.artifactPath(n, "png")); err != nil {
			glog.Warningf("selene: saving screenshot on failure: %v", err)
			lines = append(lines, "Screenshot: failed to save: "+err.Error())
		} else {
			lines = append(lines, "Screenshot: "+fileURI(path))
		}
	}
	if cfg.SavePageSourceOnFailure {
		if path, err := savePageSource(cfg, cfg.artifactPath(n, "html")); err != nil {
			glog.Warningf("selene: saving page source on failure: %v", err)
			lines = append(lines, "PageSource: failed to save: "+err.Error())
		} else {
			lines = append(lines, "PageSource: "+fileURI(path))
		}
	}
	return lines
}
