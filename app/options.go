package app

import "khetao.com/clikit/option"

// CliOptions is a group of options a tool declares together, typically the
// settings of one subsystem.
type CliOptions interface {
	// Flags returns the declarations of the group.
	Flags() []option.Declaration
	// Validate checks the group once its values have been applied.
	Validate() []error
}

// ConfigurableOptions reads parsed values back into the group.
type ConfigurableOptions interface {
	ApplyFlags(store *option.Store) []error
}

// CompletableOptions fills in values derived from the ones parsed.
type CompletableOptions interface {
	Complete() error
}

// PrintableOptions describes the group in verbose output.
type PrintableOptions interface {
	String() string
}
