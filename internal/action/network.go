package action

import (
	"context"

	"codeberg.org/mutker/hostctl/internal/errors"
	"codeberg.org/mutker/hostctl/internal/wol"
)

func (d *Dispatcher) registerNetwork() {
	d.register(&action{
		name:     "wol",
		endpoint: "/wol?mac=",
		category: CategoryNetwork,
		detached: true,
		handler:  d.wakeOnLAN,
	})
}

// wakeOnLAN treats a missing address as a bad request and a malformed one as
// a server error.
func (d *Dispatcher) wakeOnLAN(ctx context.Context, req Request) Result {
	mac := req.Param("mac")
	if mac == "" {
		return Fail(KindBadRequest, "No MAC provided")
	}

	if _, err := d.deps.WOL.Send(ctx, mac); err != nil {
		if errors.HasCode(err, wol.ErrMalformedMAC) {
			return Fail(KindServerError, err.Error())
		}
		return classify(err)
	}

	return OK(Payload{"success": true, "mac": mac})
}
