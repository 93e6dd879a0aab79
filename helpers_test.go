package selene_test

import (
	"testing"
	"time"

	"github.com/wanmail/selene"
	"github.com/wanmail/selene/internal/seleniumtest"
)

const serverURL = "http://selene.test"

// newBrowser returns a browser driving a fake WebDriver loaded with page.
// Waits are short and failure artifacts go to a temporary directory.
func newBrowser(t *testing.T, page string, opts ...selene.Option) (*selene.Browser, *seleniumtest.Driver) {
	t.Helper()
	d := seleniumtest.New()
	seleniumtest.AddPages(d, serverURL)
	t.Cleanup(func() { d.Quit() })
	if page != "" {
		if err := d.Load(page); err != nil {
			t.Fatalf("d.Load() returned error: %v", err)
		}
	}
	cfg := selene.NewConfig(append([]selene.Option{
		selene.Driver(d),
		selene.Timeout(time.Second),
		selene.PollInterval(10 * time.Millisecond),
		selene.ReportsFolder(t.TempDir()),
	}, opts...)...)
	return selene.NewBrowser(cfg), d
}

func contains(events []string, event string) bool {
	for _, e := range events {
		if e == event {
			return true
		}
	}
	return false
}
