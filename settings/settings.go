// Package settings loads selene configuration from a .env file, SELENE_*
// environment variables and an optional YAML, TOML or JSON file.
//
// Keys are the mapstructure names below. Environment variables use the SELENE
// prefix and upper case, for example SELENE_TIMEOUT=6s or
// SELENE_BROWSER_NAME=firefox.
package settings

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/wanmail/selene"
)

// EnvPrefix prefixes the environment variables read by Load.
const EnvPrefix = "SELENE"

// Settings mirrors the serializable part of selene.Config together with the
// settings used to start a browser.
type Settings struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	BaseURL      string        `mapstructure:"base_url"`
	WindowWidth  int           `mapstructure:"window_width"`
	WindowHeight int           `mapstructure:"window_height"`

	SetValueByJS              bool `mapstructure:"set_value_by_js"`
	TypeByJS                  bool `mapstructure:"type_by_js"`
	ClickByJS                 bool `mapstructure:"click_by_js"`
	DragAndDropByJS           bool `mapstructure:"drag_and_drop_by_js"`
	WaitForNoOverlapFoundByJS bool `mapstructure:"wait_for_no_overlap_found_by_js"`
	LogOuterHTMLOnFailure     bool `mapstructure:"log_outer_html_on_failure"`

	ReportsFolder           string `mapstructure:"reports_folder"`
	SaveScreenshotOnFailure bool   `mapstructure:"save_screenshot_on_failure"`
	SavePageSourceOnFailure bool   `mapstructure:"save_page_source_on_failure"`

	MatchOnlyVisibleElementsTexts bool `mapstructure:"match_only_visible_elements_texts"`
	MatchOnlyVisibleElementsSize  bool `mapstructure:"match_only_visible_elements_size"`
	IgnoreCase                    bool `mapstructure:"ignore_case"`

	Browser Browser `mapstructure:"browser"`
}

// Browser holds the settings used to start a driver session.
type Browser struct {
	Name            string   `mapstructure:"name"`
	RemoteURL       string   `mapstructure:"remote_url"`
	Headless        bool     `mapstructure:"headless"`
	Args            []string `mapstructure:"args"`
	DriverPath      string   `mapstructure:"driver_path"`
	Port            int      `mapstructure:"port"`
	SeleniumVersion string   `mapstructure:"selenium_version"`
}

// SetDefaults registers the defaults of every key on v. Registering all keys
// lets environment variables override keys absent from config files.
func SetDefaults(v *viper.Viper) {
	d := selene.DefaultConfig()
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("poll_interval", d.PollInterval)
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("window_width", d.WindowWidth)
	v.SetDefault("window_height", d.WindowHeight)
	v.SetDefault("set_value_by_js", d.SetValueByJS)
	v.SetDefault("type_by_js", d.TypeByJS)
	v.SetDefault("click_by_js", d.ClickByJS)
	v.SetDefault("drag_and_drop_by_js", d.DragAndDropByJS)
	v.SetDefault("wait_for_no_overlap_found_by_js", d.WaitForNoOverlapFoundByJS)
	v.SetDefault("log_outer_html_on_failure", d.LogOuterHTMLOnFailure)
	v.SetDefault("reports_folder", d.ReportsFolder)
	v.SetDefault("save_screenshot_on_failure", d.SaveScreenshotOnFailure)
	v.SetDefault("save_page_source_on_failure", d.SavePageSourceOnFailure)
	v.SetDefault("match_only_visible_elements_texts", d.MatchOnlyVisibleElementsTexts)
	v.SetDefault("match_only_visible_elements_size", d.MatchOnlyVisibleElementsSize)
	v.SetDefault("ignore_case", d.IgnoreCase)

	v.SetDefault("browser.name", "chrome")
	v.SetDefault("browser.remote_url", "")
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.args", []string{})
	v.SetDefault("browser.driver_path", "")
	v.SetDefault("browser.port", 0)
	v.SetDefault("browser.selenium_version", "")
}

// Load reads the .env file of the working directory when there is one, then
// the SELENE_* environment and the given config file, if any. Environment
// variables win over the file.
func Load(file string) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(errors.Cause(err)) {
		return nil, errors.Wrap(err, "loading .env")
	}

	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading %s", file)
		}
	}
	return Unmarshal(v)
}

// Unmarshal decodes the settings held by v.
func Unmarshal(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "decoding settings")
	}
	// Comma separated lists come as a single item from the environment.
	if len(s.Browser.Args) == 1 && strings.Contains(s.Browser.Args[0], ",") {
		s.Browser.Args = strings.Split(s.Browser.Args[0], ",")
	}
	return &s, nil
}

// Options converts the settings to configuration options. ReportsFolder is
// only set when given, leaving the per-run default otherwise.
func (s *Settings) Options() []selene.Option {
	opts := []selene.Option{
		selene.Timeout(s.Timeout),
		selene.PollInterval(s.PollInterval),
		selene.BaseURL(s.BaseURL),
		selene.WindowSize(s.WindowWidth, s.WindowHeight),
		selene.SetValueByJS(s.SetValueByJS),
		selene.TypeByJS(s.TypeByJS),
		selene.ClickByJS(s.ClickByJS),
		selene.DragAndDropByJS(s.DragAndDropByJS),
		selene.WaitForNoOverlapFoundByJS(s.WaitForNoOverlapFoundByJS),
		selene.LogOuterHTMLOnFailure(s.LogOuterHTMLOnFailure),
		selene.SaveScreenshotOnFailure(s.SaveScreenshotOnFailure),
		selene.SavePageSourceOnFailure(s.SavePageSourceOnFailure),
		selene.MatchOnlyVisibleElementsTexts(s.MatchOnlyVisibleElementsTexts),
		selene.MatchOnlyVisibleElementsSize(s.MatchOnlyVisibleElementsSize),
		selene.IgnoreCase(s.IgnoreCase),
	}
	if s.ReportsFolder != "" {
		opts = append(opts, selene.ReportsFolder(s.ReportsFolder))
	}
	return opts
}
