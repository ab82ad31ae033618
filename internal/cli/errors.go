package cli

import (
	"fmt"
	"strings"
)

type invalidIDError struct {
	arg string
}

func (e invalidIDError) Error() string {
	return fmt.Sprintf("invalid plate id: %q", strings.TrimSpace(e.arg))
}

// notAppliedError reports a create/update that the dashboard logged and dropped.
type notAppliedError struct {
	op string
}

func (e notAppliedError) Error() string {
	return fmt.Sprintf("%s was not applied (see log output above)", e.op)
}
