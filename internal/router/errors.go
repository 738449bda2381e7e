package router

import (
	"fmt"
	"strings"
)

// NoMatchError reports that no definition matched a request. It keeps
// the host values that were tried and the requested URI so the 404
// surface can echo them back for diagnostics.
type NoMatchError struct {
	TriedHosts []string
	URI        string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no API found for hosts [%s] or path %s",
		strings.Join(e.TriedHosts, ", "), e.URI)
}
