// Package js holds the JavaScript run through WebDriver. Element scripts take
// the element as arguments[0].
package js

import (
	"github.com/pkg/errors"
	"github.com/tebeka/selenium"
)

const (
	// ClearLocalStorage empties window.localStorage.
	ClearLocalStorage = `window.localStorage.clear();`
	// ClearSessionStorage empties window.sessionStorage.
	ClearSessionStorage = `window.sessionStorage.clear();`

	// OuterHTML returns the outer HTML of the element.
	OuterHTML = `return arguments[0].outerHTML;`
	// InnerHTML returns the inner HTML of the element.
	InnerHTML = `return arguments[0].innerHTML;`
	// Property returns the JavaScript property arguments[1] of the element.
	Property = `return arguments[0][arguments[1]];`
	// Attribute returns the attribute arguments[1], or null when missing.
	Attribute = `return arguments[0].getAttribute(arguments[1]);`
	// Value returns the current value of an input.
	Value = `return arguments[0].value;`

	// ElementPrelude exposes the element and the remaining arguments to
	// user scripts run by Element.ExecuteScript.
	ElementPrelude = `var element = arguments[0];
var args = Array.prototype.slice.call(arguments, 1);
`

	// OverlapProbe returns the outer HTML of the element and of the element
	// covering its center, null when nothing covers it.
	OverlapProbe = `var element = arguments[0];
var rect = element.getBoundingClientRect();
var x = rect.left + rect.width / 2;
var y = rect.top + rect.height / 2;
var cover = document.elementFromPoint(x, y);
if (cover === null || element.isSameNode(cover) || element.contains(cover)) {
  return [element.outerHTML, null];
}
return [element.outerHTML, cover.outerHTML];`

	// Click dispatches mouse events at the given offset from the center.
	Click = `var element = arguments[0];
var offsetX = arguments[1];
var offsetY = arguments[2];
var rect = element.getBoundingClientRect();
var x = rect.left + rect.width / 2 + offsetX;
var y = rect.top + rect.height / 2 + offsetY;
['mousedown', 'mouseup', 'click'].forEach(function (type) {
  element.dispatchEvent(new MouseEvent(type, {
    bubbles: true, cancelable: true, view: window, clientX: x, clientY: y
  }));
});
return null;`

	// SetValue replaces the value, honouring maxlength.
	SetValue = `var element = arguments[0];
var text = arguments[1];
var maxlength = element.getAttribute('maxlength') === null ? -1 : parseInt(element.getAttribute('maxlength'));
element.value = maxlength === -1 || text.length <= maxlength ? text : text.substring(0, maxlength);
element.dispatchEvent(new Event('input', {bubbles: true}));
element.dispatchEvent(new Event('change', {bubbles: true}));
return null;`

	// Type appends to the value, honouring maxlength.
	Type = `var element = arguments[0];
var text = element.value + arguments[1];
var maxlength = element.getAttribute('maxlength') === null ? -1 : parseInt(element.getAttribute('maxlength'));
element.value = maxlength === -1 || text.length <= maxlength ? text : text.substring(0, maxlength);
element.dispatchEvent(new Event('input', {bubbles: true}));
element.dispatchEvent(new Event('change', {bubbles: true}));
return null;`

	// Remove detaches the element from the DOM.
	Remove = `arguments[0].remove(); return null;`

	// SetStyleProperty sets style[arguments[1]] to arguments[2].
	SetStyleProperty = `arguments[0].style[arguments[1]] = arguments[2]; return null;`

	// ScrollIntoView scrolls the element to the block position arguments[1].
	ScrollIntoView = `arguments[0].scrollIntoView({block: arguments[1], inline: 'nearest'}); return null;`

	// DragAndDrop fires HTML5 drag events from the element onto arguments[1].
	DragAndDrop = `var source = arguments[0];
var target = arguments[1];
var store = {};
var dataTransfer = {
  dropEffect: 'move',
  effectAllowed: 'all',
  types: [],
  setData: function (format, data) { store[format] = data; this.types.push(format); },
  getData: function (format) { return store[format] === undefined ? '' : store[format]; },
  clearData: function () { store = {}; this.types = []; }
};
function fire(element, type) {
  var event = new Event(type, {bubbles: true, cancelable: true});
  event.dataTransfer = dataTransfer;
  element.dispatchEvent(event);
}
fire(source, 'dragstart');
fire(target, 'dragenter');
fire(target, 'dragover');
fire(target, 'drop');
fire(source, 'dragend');
return null;`

	// CreateFileInput appends a visible file input to the body and returns it.
	CreateFileInput = `var input = document.createElement('input');
input.type = 'file';
input.style.display = 'block';
document.body.appendChild(input);
return input;`

	// DropFile fires drop events carrying the files of the input arguments[1]
	// and removes the input.
	DropFile = `var target = arguments[0];
var input = arguments[1];
var dataTransfer = {files: input.files, types: ['Files']};
['dragenter', 'dragover', 'drop'].forEach(function (type) {
  var event = new Event(type, {bubbles: true, cancelable: true});
  event.dataTransfer = dataTransfer;
  target.dispatchEvent(event);
});
input.remove();
return null;`

	// HasShadowRoot reports whether the element hosts an open shadow root.
	HasShadowRoot = `return !!arguments[0].shadowRoot;`

	// ShadowQuery returns the shadow root descendants matching the CSS
	// selector arguments[1].
	ShadowQuery = `var root = arguments[0].shadowRoot;
if (!root) {
  throw new Error('no such shadow root');
}
return Array.prototype.slice.call(root.querySelectorAll(arguments[1]));`
)

// DropFileOn drops the file at path onto target through a temporary file
// input.
func DropFileOn(wd selenium.WebDriver, target selenium.WebElement, path string) error {
	raw, err := wd.ExecuteScriptRaw(CreateFileInput, []interface{}{})
	if err != nil {
		return err
	}
	input, err := wd.DecodeElement(raw)
	if err != nil {
		return errors.Wrap(err, "decoding file input")
	}
	if err := input.SendKeys(path); err != nil {
		return err
	}
	_, err = wd.ExecuteScript(DropFile, []interface{}{target, input})
	return err
}
