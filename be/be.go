// Package be names state conditions so that assertions read as sentences:
//
//	browser.Element("#submit").Should(be.Clickable)
//	browser.All(".error").Should(be.Empty)
package be

import (
	"github.com/wanmail/selene"
	"github.com/wanmail/selene/match"
)

var (
	Present     = match.PresentInDOM
	Absent      = match.AbsentInDOM
	Visible     = match.Visible
	Hidden      = match.Hidden
	HiddenInDOM = match.HiddenInDOM
	Enabled     = match.Enabled
	Disabled    = match.Disabled
	Clickable   = match.Clickable
	Selected    = match.Selected
	Focused     = match.Focused
	Blank       = match.Blank
	Empty       = match.Empty
)

// Not holds the inverted state conditions: be.Not.Visible.
var Not = struct {
	Present, Absent, Visible, Hidden, HiddenInDOM, Enabled, Disabled, Clickable, Selected, Focused, Blank match.ElementCondition
	Empty                                                                                                   match.CollectionCondition
}{
	Present:     match.PresentInDOM.Not(),
	Absent:      match.AbsentInDOM.Not(),
	Visible:     match.Visible.Not(),
	Hidden:      match.Hidden.Not(),
	HiddenInDOM: match.HiddenInDOM.Not(),
	Enabled:     match.Enabled.Not(),
	Disabled:    match.Disabled.Not(),
	Clickable:   match.Clickable.Not(),
	Selected:    match.Selected.Not(),
	Focused:     match.Focused.Not(),
	Blank:       match.Blank.Not(),
	Empty:       match.Empty.Not(),
}

// Each lifts an element condition to collections.
func Each(cond selene.Condition[*selene.Element]) match.CollectionCondition { return match.Each(cond) }
