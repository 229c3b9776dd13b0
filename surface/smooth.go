package surface

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/notargets/gocst/smoother"
)

// Smooth refits stations start..end of every sheet along the span, keeping
// stations start and end exactly
func (sf *Surface) Smooth(start, end int, opts smoother.Options) (err error) {
	const op = "surface.Smooth"
	if err = sf.requireGrid(op); err != nil {
		return
	}
	for _, s := range sf.grid.Sheets {
		if err = smoother.Smooth(s, start, end, opts); err != nil {
			return errors.Wrapf(err, "%s: surface %s", op, sf.Name)
		}
	}
	sf.grid.SyncLeadingEdges()
	sf.state = Smoothed
	glog.V(1).Infof("%s: surface %s stations %d..%d with %v", op, sf.Name, start, end, opts.Kernel)
	return
}
