// Package launch assembles debugger launch descriptors from a chosen
// project and run profile.
package launch

// Fixed descriptor constants understood by the editor's debug subsystem.
const (
	// TypeCoreCLR selects the .NET debugger.
	TypeCoreCLR = "coreclr"
	// RequestLaunch starts a new process, as opposed to attaching.
	RequestLaunch = "launch"
	// DescriptorName is the well-known configuration name shown by the
	// debugger UI.
	DescriptorName = ".NET Launch (dotlaunch)"
	// ConsoleIntegrated runs the program in the editor's terminal.
	ConsoleIntegrated = "integratedTerminal"
	// ConsoleOptionsNeverOpen keeps the debug console closed.
	ConsoleOptionsNeverOpen = "neverOpen"
)

// Descriptor is the final launch request handed to the debugger.
type Descriptor struct {
	Type                   string            `json:"type"`
	Request                string            `json:"request"`
	Name                   string            `json:"name"`
	Program                string            `json:"program"`
	Args                   []string          `json:"args"`
	Cwd                    string            `json:"cwd"`
	Console                string            `json:"console"`
	InternalConsoleOptions string            `json:"internalConsoleOptions"`
	Env                    map[string]string `json:"env"`
	// AlreadyResolved tells a host-side resolution hook that this request
	// is complete, so it must not rebuild or re-launch.
	AlreadyResolved bool `json:"__alreadyResolved"`
}
