package fdm

import (
	"os"

	kitlog "github.com/go-kit/kit/log"
)

// NewSubsysLogger returns a logger bound with the owning aircraft name and
// the submodel's subsystem tag, mirroring the teacher's SCLogInit: a
// package-level constructor that pins static key/value context so every
// call site only adds what's specific to that log line.
func NewSubsysLogger(aircraft, subsys string) kitlog.Logger {
	l := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	l = kitlog.With(l, "aircraft", aircraft, "subsys", subsys)
	return l
}
