package app

// Flag selects the single mode flag a program accepts.
type Flag int

const (
	// FlagDebug is --debug/-d: devtools in static mode.
	FlagDebug Flag = iota
	// FlagDev is --dev: live mode against the dev server.
	FlagDev
)

// Variant describes one of the shipped shell programs.
type Variant struct {
	Name        string
	Title       string
	Description string
	Version     string
	Flag        Flag
	IPC         bool
	Bindings    func() map[string]any
}

var Rustui = Variant{
	Name:        "rustui",
	Title:       "Rustui",
	Description: "Example GUI application with a native webview.",
	Version:     "0.0.1",
	Flag:        FlagDebug,
	IPC:         true,
}

var Greeter = Variant{
	Name:        "greeter",
	Title:       "Greeter",
	Description: "Greeter example application.",
	Version:     "0.0.1",
	Flag:        FlagDebug,
	Bindings: func() map[string]any {
		return map[string]any{"getGreeting": Greeting}
	},
}

var Denoui = Variant{
	Name:        "denoui",
	Title:       "Denoui",
	Description: "Example GUI application with live reload.",
	Version:     "0.0.1",
	Flag:        FlagDev,
	IPC:         true,
}

// Greeting backs the getGreeting binding.
func Greeting(name string) string {
	return "Hello " + name + "!"
}
