package selene_test

import (
	"fmt"
	"time"

	"github.com/wanmail/selene"
	"github.com/wanmail/selene/be"
	"github.com/wanmail/selene/have"
	"github.com/wanmail/selene/internal/seleniumtest"
	"github.com/wanmail/selene/query"
	"github.com/wanmail/selene/shared"
)

// This example shows how to open a page on a local chromedriver, fill a form
// and wait for the result.
//
// If you want to actually run this example:
//
//  1. Ensure the driver path at the top of the function is correct.
//  2. Add an "Output:" comment at the bottom of the function.
//  3. Run:
//     go test -test.run=Example$ github.com/wanmail/selene
func Example() {
	const driverPath = "/usr/local/bin/chromedriver"

	s := shared.New(shared.DriverOptions{BrowserName: "chrome", DriverPath: driverPath, Headless: true})
	defer s.Quit()
	s.Configure(selene.Timeout(6*time.Second), selene.BaseURL("https://go.dev"))

	if err := s.Open("/play/"); err != nil {
		panic(err) // panic is used only as an example and is not otherwise recommended.
	}
	if err := s.Element("#code").SetValue(`package main

import "fmt"

func main() { fmt.Println("Hello WebDriver!") }`); err != nil {
		panic(err)
	}
	if err := s.Element(selene.ByText("Run")).Click(); err != nil {
		panic(err)
	}
	if err := s.Element("#output").Should(have.Text("Hello WebDriver!")); err != nil {
		panic(err)
	}
}

func ExampleCollection_By() {
	d := seleniumtest.New()
	defer d.Quit()
	d.Load(`<ul>
  <li class="done">write code</li>
  <li>write tests</li>
  <li class="done">review</li>
</ul>`)
	browser := selene.NewBrowser(selene.NewConfig(selene.Driver(d), selene.Timeout(time.Second)))

	done := browser.All("li").By(have.CSSClass("done"))
	texts, err := selene.Get(done, query.Texts)
	if err != nil {
		panic(err)
	}
	fmt.Println(done)
	fmt.Println(texts)
	fmt.Println(browser.All("li").Second().Matching(be.Visible))
	// Output:
	// browser.all(('css selector', 'li')).by(has css class 'done')
	// [write code review]
	// true
}
