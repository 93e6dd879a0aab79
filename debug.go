package selene

import (
	"github.com/golang/glog"
)

var debugFlag = false

// SetDebug enables logging of every failed wait attempt. Running with -v=1
// has the same effect.
func SetDebug(debug bool) {
	debugFlag = debug
}

func debugLog(format string, args ...interface{}) {
	if debugFlag || bool(glog.V(1)) {
		glog.Infof(format, args...)
	}
}
