package log

import (
	goflag "flag"
	"fmt"
	"sync"

	"k8s.io/klog/v2"
)

var (
	KlogScope     = RegisterScope("klog", "Messages from libraries logging through klog.", 0)
	configureKlog = sync.Once{}
)

var (
	klogFlagSet     = &goflag.FlagSet{}
	klogFlagSetOnce = sync.Once{}
)

func routeKlog() {
	klog.SetLogger(NewLogrAdapter(KlogScope))
}

// KlogFlags returns klog's own flags, registered on a private flag set, so a
// tool can expose them (for example -v) as options.
func KlogFlags() *goflag.FlagSet {
	klogFlagSetOnce.Do(func() {
		klog.InitFlags(klogFlagSet)
	})
	return klogFlagSet
}

// EnableKlogWithVerbosity sets klog's -v level.
func EnableKlogWithVerbosity(v int) {
	_ = KlogFlags().Set("v", fmt.Sprint(v))
}
