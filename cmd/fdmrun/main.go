package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/flightdyn/fdm6"
)

// This code reads an aircraft configuration and runs the fixed-step
// simulation loop for a fixed duration, printing the final state.

const dateFormat = "2006-01-02 15:04:05"

var (
	aircraft string
	duration time.Duration
	dt       time.Duration
)

func init() {
	flag.StringVar(&aircraft, "aircraft", "", "aircraft TOML name (without extension) under $FDM_AIRCRAFT_DIR")
	flag.DurationVar(&duration, "duration", 60*time.Second, "simulated duration to run")
	flag.DurationVar(&dt, "dt", 20*time.Millisecond, "fixed tick size")
}

func main() {
	flag.Parse()
	if aircraft == "" {
		log.Fatal("no -aircraft provided")
	}

	cfg := fdm.LoadAircraftConfig(aircraft)

	epoch := time.Now().UTC()
	cb := &fdm.FlatEarthGroundCallback{TerrainRadiusFt: fdm.WGS84SemiMajorFt}
	ex, err := fdm.NewExecutor(cfg, epoch, cb)
	if err != nil {
		log.Fatalf("could not build executor: %s", err)
	}
	ex.DtSec = dt.Seconds()

	ticks := int(duration / dt)
	t := epoch
	for i := 0; i < ticks; i++ {
		if err := ex.Run(false, t); err != nil {
			log.Fatalf("tick %d: %s", i, err)
		}
		t = t.Add(dt)
		if ex.Crashed {
			fmt.Printf("crashed at tick %d (%s)\n", i, t.Format(dateFormat))
			break
		}
	}

	snap := ex.Bus.Snapshot()
	fmt.Printf("final state at %s:\n", t.Format(dateFormat))
	for _, k := range []string{"position/h-sl-ft", "position/h-agl-ft", "velocities/vt-fps", "velocities/mach", "attitude/phi-rad", "attitude/theta-rad", "attitude/psi-rad"} {
		fmt.Printf("  %-24s %f\n", k, snap[k])
	}
}
