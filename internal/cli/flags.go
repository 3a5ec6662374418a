package cli

// DefaultInput is translated when no file argument is given
const DefaultInput = "source.xlsx"

// Flags holds all command-line flag values
type Flags struct {
	CfgFile    string
	ListModels bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{}
}

// InputPath returns the file to translate for the positional arguments
func InputPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return DefaultInput
}
