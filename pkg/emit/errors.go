package emit

import "fmt"

// UnsupportedConstruct reports a node the backend cannot emit. There is
// no source file/line to report (the behavioural tree is built by
// explicit hdlir constructors, not parsed from a text file), so Detail
// carries whatever context the backend captured instead — typically the
// process name and a String() rendering of the offending node.
type UnsupportedConstruct struct {
	Kind    string
	Process string
	Detail  string
}

func (e *UnsupportedConstruct) Error() string {
	return fmt.Sprintf("emit: unsupported construct %s in process %q: %s", e.Kind, e.Process, e.Detail)
}
