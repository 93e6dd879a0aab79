/*
Package selene drives a browser through WebDriver with lazy element references
and implicit waits.

Elements and collections are described by selectors and located again every
time they are used, so a page that re-renders does not leave stale
references behind. Every assertion, query and action waits until it succeeds
or the configured timeout expires; the error then tells what was waited for
and why it never happened.

The driver itself comes from github.com/tebeka/selenium. You need a running
Selenium server or a chromedriver/geckodriver binary; the shared package can
start one for you.

Example usage:

	package main

	import (
		"fmt"
		"time"

		"github.com/tebeka/selenium"

		"github.com/wanmail/selene"
		"github.com/wanmail/selene/be"
		"github.com/wanmail/selene/have"
	)

	func main() {
		wd, err := selenium.NewRemote(selenium.Capabilities{"browserName": "firefox"}, "")
		if err != nil {
			panic(err)
		}
		browser := selene.NewBrowser(selene.NewConfig(
			selene.Driver(wd),
			selene.Timeout(6*time.Second),
			selene.BaseURL("https://go.dev"),
		))
		defer browser.Quit()

		// Errors are ignored for brevity.
		browser.Open("/play/")
		browser.Element("#code").SetValue(`package main

	import "fmt"

	func main() { fmt.Println("Hello WebDriver!") }`)
		browser.Element(selene.ByText("Run")).Click()

		output := browser.Element("#output")
		output.Should(be.Visible)
		output.Should(have.Text("Hello WebDriver!"))
		fmt.Println(browser.All(".Playground-output").Len())
	}

Conditions live in the be and have packages, queries in query and commands in
command. Failed waits save a screenshot and the page source under
Config.ReportsFolder.
*/
package selene
