package cli

import (
	"github.com/spf13/pflag"

	"github.com/alnah/pdftextfmt/internal/split"
)

// splitFlag is the --split value. It remembers whether it was set so the
// configured split_mode applies otherwise.
type splitFlag struct {
	mode split.Mode
	set  bool
}

func (f *splitFlag) String() string {
	return f.mode.String()
}

// Set parses one of full, half or third. Matching is case-sensitive.
func (f *splitFlag) Set(s string) error {
	m, err := split.ParseMode(s)
	if err != nil {
		return err
	}
	f.mode = m
	f.set = true
	return nil
}

func (f *splitFlag) Type() string {
	return "mode"
}

var _ pflag.Value = (*splitFlag)(nil)
