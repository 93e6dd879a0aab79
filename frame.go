package selene

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/tebeka/selenium"
)

// FrameContext switches the driver into the iframe of its container element.
// It works lexically through Enter, Exit and Within, or per attempt for the
// entities returned by Element and All.
type FrameContext struct {
	container *Element
}

// FrameContext returns the frame context of the element, which must be an
// iframe or a frame.
func (e *Element) FrameContext() *FrameContext {
	return &FrameContext{container: e}
}

func (f *FrameContext) String() string { return f.container.String() + ".frame_context" }

// parent returns the frame the container lives in.
func (f *FrameContext) parent() *FrameContext { return f.container.config.frame }

// chain returns the frames from the outermost one down to f.
func (f *FrameContext) chain() []*FrameContext {
	var frames []*FrameContext
	for frame := f; frame != nil; frame = frame.parent() {
		frames = append([]*FrameContext{frame}, frames...)
	}
	return frames
}

// switchIn switches from the context the container lives in into the frame.
func (f *FrameContext) switchIn(wd selenium.WebDriver) error {
	we, err := f.container.Locate()
	if err != nil {
		return err
	}
	return wd.SwitchFrame(we)
}

// entered tracks, per driver, the frames entered with Enter. WebDriver has
// no parent frame command in this client, so leaving a frame means going
// back to the top level context and entering the remaining frames again.
var entered = struct {
	sync.Mutex
	paths map[selenium.WebDriver][]*FrameContext
}{paths: make(map[selenium.WebDriver][]*FrameContext)}

func enteredPath(wd selenium.WebDriver) []*FrameContext {
	entered.Lock()
	defer entered.Unlock()
	return append([]*FrameContext(nil), entered.paths[wd]...)
}

func setEnteredPath(wd selenium.WebDriver, path []*FrameContext) {
	entered.Lock()
	defer entered.Unlock()
	if len(path) == 0 {
		delete(entered.paths, wd)
		return
	}
	entered.paths[wd] = path
}

// restore switches to the top level context and enters path.
func restore(wd selenium.WebDriver, path []*FrameContext) error {
	if err := wd.SwitchFrame(nil); err != nil {
		return errors.Wrap(err, "switching to default content")
	}
	for _, frame := range path {
		if err := frame.switchIn(wd); err != nil {
			return errors.Wrapf(err, "re-entering %s", frame)
		}
	}
	return nil
}

// Enter waits for the container and switches into its frame.
func (f *FrameContext) Enter() error {
	outer := &Element{locator: f.container.locator, config: f.container.config.With(func(c *Config) { c.frame = nil })}
	return outer.perform("switch to frame", func(e *Element) error {
		wd, err := e.driver()
		if err != nil {
			return err
		}
		if err := f.switchIn(wd); err != nil {
			return err
		}
		setEnteredPath(wd, append(enteredPath(wd), f))
		return nil
	})
}

// Exit switches back to the context that was current before Enter.
func (f *FrameContext) Exit() error {
	wd, err := f.container.driver()
	if err != nil {
		return err
	}
	path := enteredPath(wd)
	if len(path) > 0 {
		path = path[:len(path)-1]
	}
	setEnteredPath(wd, path)
	return restore(wd, path)
}

// Within runs fn inside the frame.
func (f *FrameContext) Within(fn func() error) (err error) {
	if err := f.Enter(); err != nil {
		return err
	}
	defer func() {
		if exitErr := f.Exit(); err == nil {
			err = exitErr
		}
	}()
	return fn()
}

// decorate enters the frame chain around every attempt and goes back to the
// previous context afterwards.
func (f *FrameContext) decorate(step Step, next WaitFunc) WaitFunc {
	return func(attempt func() error) error {
		return next(func() (err error) {
			wd, err := f.container.driver()
			if err != nil {
				return err
			}
			previous := enteredPath(wd)
			defer func() {
				if restoreErr := restore(wd, previous); err == nil {
					err = restoreErr
				}
			}()
			for _, frame := range f.chain() {
				if err := frame.switchIn(wd); err != nil {
					return err
				}
			}
			return attempt()
		})
	}
}

func (f *FrameContext) browser() *Browser {
	return NewBrowser(f.container.config.With(func(c *Config) { c.frame = f }))
}

// Element returns an element inside the frame. Every attempt on it enters the
// frame first.
func (f *FrameContext) Element(selector interface{}) *Element {
	return f.browser().element(f.String(), selector)
}

// All returns a collection inside the frame. Every attempt on it enters the
// frame first.
func (f *FrameContext) All(selector interface{}) *Collection {
	return f.browser().all(f.String(), selector)
}
