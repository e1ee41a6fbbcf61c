package cop

// ResourceStatus is the market operator's per-hour resource status code. Each
// hour of a plan carries its own status; there is no transition table between
// consecutive hours.
type ResourceStatus string

const (
	StatusOn       ResourceStatus = "ON"       // online and dispatchable
	StatusOff      ResourceStatus = "OFF"      // offline
	StatusOnTest   ResourceStatus = "ONTEST"   // testing
	StatusOnReg    ResourceStatus = "ONREG"    // providing regulation
	StatusOnRR     ResourceStatus = "ONRR"     // providing responsive reserve
	StatusOnECRS   ResourceStatus = "ONECRS"   // providing ECRS
	StatusOffNS    ResourceStatus = "OFFNS"    // offline non-spin
	StatusOffQS    ResourceStatus = "OFFQS"    // offline quick start
	StatusOut      ResourceStatus = "OUT"      // forced outage
	StatusStartup  ResourceStatus = "STARTUP"  // starting up
	StatusShutdown ResourceStatus = "SHUTDOWN" // shutting down
	StatusOnEmr    ResourceStatus = "ONEMR"    // emergency run
)

// Mode is the internal planning intent for an hour. It never leaves the
// planner - the submission payload carries only the status and limits.
type Mode string

const (
	ModeCharge    Mode = "charge"
	ModeDischarge Mode = "discharge"
	ModeHold      Mode = "hold"
)
