package fx

import (
	"github.com/rotisserie/eris"
)

var errNoEURRate = eris.New("fx: no EUR rate in response")

func errUnexpectedStatus(code int) error {
	return eris.Errorf("fx: unexpected status %d", code)
}
