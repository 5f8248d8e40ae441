package action

import (
	"context"
	"strconv"
)

func (d *Dispatcher) registerProcess() {
	d.register(&action{
		name:     "kill",
		endpoint: "/kill/{pid}",
		category: CategoryProcess,
		detached: true,
		handler:  d.kill,
	})
}

func (d *Dispatcher) kill(ctx context.Context, req Request) Result {
	pid, err := strconv.ParseInt(req.Param("pid"), 10, 32)
	if err != nil || pid <= 0 {
		return Fail(KindBadRequest, "Invalid pid: "+req.Param("pid"))
	}

	name, err := d.deps.Processes.Kill(ctx, int32(pid))
	if err != nil {
		return classify(err)
	}

	return OK(Payload{
		"success": true,
		"killed":  map[string]any{"pid": pid, "name": name},
	})
}
