package settings_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanmail/selene"
	"github.com/wanmail/selene/settings"
)

func TestLoadDefaults(t *testing.T) {
	s, err := settings.Load("")
	require.NoError(t, err)

	assert.Equal(t, selene.DefaultTimeout, s.Timeout)
	assert.Equal(t, selene.DefaultPollInterval, s.PollInterval)
	assert.True(t, s.SaveScreenshotOnFailure)
	assert.True(t, s.MatchOnlyVisibleElementsTexts)
	assert.False(t, s.ClickByJS)
	assert.Equal(t, "chrome", s.Browser.Name)
	assert.Empty(t, s.Browser.Args)
}

const yamlConfig = `timeout: 2s
base_url: http://file.test
click_by_js: true
reports_folder: /tmp/selene-reports
browser:
  name: firefox
  headless: true
  args: [--width=800, --height=600]
  port: 4444
`

func TestLoadFileAndEnvironment(t *testing.T) {
	file := filepath.Join(t.TempDir(), "selene.yaml")
	require.NoError(t, os.WriteFile(file, []byte(yamlConfig), 0o644))
	t.Setenv("SELENE_TIMEOUT", "6s")
	t.Setenv("SELENE_TYPE_BY_JS", "true")
	t.Setenv("SELENE_BROWSER_REMOTE_URL", "http://grid.test:4444/wd/hub")

	s, err := settings.Load(file)
	require.NoError(t, err)

	assert.Equal(t, 6*time.Second, s.Timeout, "environment wins over the file")
	assert.Equal(t, "http://file.test", s.BaseURL)
	assert.True(t, s.ClickByJS)
	assert.True(t, s.TypeByJS)
	assert.Equal(t, "/tmp/selene-reports", s.ReportsFolder)
	assert.Equal(t, settings.Browser{
		Name:      "firefox",
		RemoteURL: "http://grid.test:4444/wd/hub",
		Headless:  true,
		Args:      []string{"--width=800", "--height=600"},
		Port:      4444,
	}, s.Browser)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := settings.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCommaSeparatedArgs(t *testing.T) {
	v := viper.New()
	settings.SetDefaults(v)
	v.Set("browser.args", []string{"--incognito,--disable-gpu"})

	s, err := settings.Unmarshal(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"--incognito", "--disable-gpu"}, s.Browser.Args)
}

func TestOptions(t *testing.T) {
	v := viper.New()
	settings.SetDefaults(v)
	v.Set("timeout", "3s")
	v.Set("window_width", 1280)
	v.Set("window_height", 720)
	v.Set("ignore_case", true)
	v.Set("reports_folder", "")

	s, err := settings.Unmarshal(v)
	require.NoError(t, err)
	cfg := selene.NewConfig(s.Options()...)

	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 1280, cfg.WindowWidth)
	assert.Equal(t, 720, cfg.WindowHeight)
	assert.True(t, cfg.IgnoreCase)
	assert.NotEmpty(t, cfg.ReportsFolder, "an empty reports folder keeps the default")
}
