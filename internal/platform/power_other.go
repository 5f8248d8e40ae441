//go:build !linux && !windows

package platform

import (
	"context"

	"codeberg.org/mutker/hostctl/internal/errors"
)

var planSchemes = map[PowerPlan]string{}

func rootMount() string {
	return "/"
}

// unsupportedPower reports every power operation as unsupported.
type unsupportedPower struct{}

func newPower(Options) Power {
	return unsupportedPower{}
}

func (unsupportedPower) PowerStatus(context.Context) (PowerStatus, error) {
	return PowerStatus{}, errors.New().WithMessage(ErrUnsupported, "battery status unsupported on this OS")
}

func (unsupportedPower) ActivePowerPlan(context.Context) (string, error) {
	return "", errors.New().WithMessage(ErrUnsupported, "power plans unsupported on this OS")
}

func (unsupportedPower) SetPowerPlan(_ context.Context, plan PowerPlan) error {
	return errors.New().WithData(ErrUnsupported, string(plan))
}

func (unsupportedPower) Transition(_ context.Context, action PowerAction) error {
	return errors.New().WithData(ErrUnsupported, string(action))
}
