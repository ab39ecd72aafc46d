// Package shaker orchestrates motion dispatch: it turns a motion request
// into a command script, transmits it, recovers once from an axes-not-homed
// rejection, and guarantees the device ends the operation at a known
// position.
package shaker

import (
	"context"
	"fmt"

	"shaker-host/pkg/config"
	"shaker-host/pkg/errors"
	"shaker-host/pkg/gcode"
	"shaker-host/pkg/log"
	"shaker-host/pkg/metrics"
	"shaker-host/pkg/moonraker"
	"shaker-host/pkg/motion"
)

// Request is one motion dispatch request. Target selects a named coordinate
// and applies to the orbital pattern only.
type Request struct {
	Pattern     motion.Pattern
	RPM         int
	DurationSec float64
	Target      string
}

// Result reports a completed dispatch.
type Result struct {
	// Params describes the profile derivation.
	Params motion.Params

	// Target is the named coordinate used, if any.
	Target string

	// TargetCoords is the named coordinate's position, if any.
	TargetCoords *config.Coordinate

	// Lines is the number of command lines generated.
	Lines int

	// ControllerResponse is the controller's reply to the primary script.
	ControllerResponse moonraker.Result

	// OriginResponse is the controller's reply to the orbital
	// return-to-origin script. Nil for other patterns.
	OriginResponse moonraker.Result

	// OriginPosition is the resting position the orbital pattern parked
	// at. Nil for other patterns.
	OriginPosition *config.Coordinate
}

// Dispatcher generates and transmits motion command sequences.
type Dispatcher struct {
	cfg    *config.Config
	calc   *motion.Calculator
	enc    *gcode.Encoder
	client moonraker.API
	logger *log.Logger
	stats  *metrics.ShakerMetrics
}

// New creates a dispatcher bound to a controller client.
func New(cfg *config.Config, client moonraker.API) *Dispatcher {
	return &Dispatcher{
		cfg:    cfg,
		calc:   motion.NewCalculator(cfg.Geometry, cfg.Feedrates),
		enc:    gcode.NewEncoder(cfg.Feedrates),
		client: client,
		logger: log.GetLogger("dispatch"),
		stats:  metrics.Global(),
	}
}

// homingWait is sent between the recovery home and the resend.
const homingWait = "M400 ; wait for homing to complete"

// sendWithRecovery transmits a script. If the controller rejects it because
// the axes are not homed, it homes X and Y, waits, and resends exactly once.
// Any other failure, and a second homing failure, propagate unchanged.
func (d *Dispatcher) sendWithRecovery(ctx context.Context, script string) (moonraker.Result, error) {
	d.stats.SendTotal.Inc(nil)
	result, err := d.client.SendGCode(ctx, script)
	if err == nil {
		return result, nil
	}
	if !errors.IsHomingRequired(err) {
		d.countFailure(err)
		return nil, err
	}

	d.logger.WithError(err).Warn("axes not homed, homing and retrying")
	d.stats.HomingRecoveries.Inc(nil)

	if _, herr := d.client.SendGCode(ctx, gcode.CmdHomeXY); herr != nil {
		d.countFailure(herr)
		return nil, herr
	}
	if _, werr := d.client.SendGCode(ctx, homingWait); werr != nil {
		d.countFailure(werr)
		return nil, werr
	}

	d.stats.SendTotal.Inc(nil)
	result, err = d.client.SendGCode(ctx, script)
	if err != nil {
		d.countFailure(err)
		return nil, err
	}
	return result, nil
}

func (d *Dispatcher) countFailure(err error) {
	code := string(errors.ErrInternal)
	if devErr, ok := err.(*errors.DeviceError); ok {
		code = string(devErr.Code)
	}
	d.stats.SendFailures.Inc(metrics.Labels{"code": code})
}

// Run executes one motion request end to end.
func (d *Dispatcher) Run(ctx context.Context, req Request) (*Result, error) {
	if err := motion.Validate(req.RPM, req.DurationSec); err != nil {
		return nil, errors.ValidationError("request", err.Error())
	}

	switch req.Pattern {
	case motion.Orbital:
		return d.runOrbital(ctx, req)
	case motion.Linear:
		return d.runLinear(ctx, req)
	case motion.Helical3D:
		return d.runHelical(ctx, req)
	default:
		return nil, errors.InternalError(fmt.Errorf("unknown pattern %d", req.Pattern))
	}
}

// runOrbital dispatches the orbital pattern. After the primary motion the
// device always converges back to the shared origin, regardless of which
// named target the run centered on, so a second independent return sequence
// is sent with the same recovery contract.
func (d *Dispatcher) runOrbital(ctx context.Context, req Request) (*Result, error) {
	var center *config.Coordinate
	var targetCoords *config.Coordinate
	if req.Target != "" {
		c, ok := d.cfg.Geometry.Target(req.Target)
		if !ok {
			return nil, errors.ValidationError("target", fmt.Sprintf("unknown target: %s", req.Target))
		}
		center = &config.Coordinate{X: c.X, Y: c.Y}
		targetCoords = &c
	}

	profile := d.calc.Orbital(req.RPM, req.DurationSec, center)
	script := d.enc.Script(profile)
	params := d.calc.OrbitalParams(req.RPM, req.DurationSec, profile)

	d.logger.WithFields(log.Fields{
		"pattern": "orbital", "rpm": req.RPM, "duration": req.DurationSec,
		"target": req.Target, "feedrate": params.FeedRate, "samples": params.Samples,
		"lines": script.Len(),
	}).Info("dispatching motion script")
	d.stats.DispatchTotal.Inc(metrics.Labels{"pattern": "orbital"})

	response, err := d.sendWithRecovery(ctx, script.String())
	if err != nil {
		return nil, err
	}

	origin := config.Coordinate{X: d.cfg.Geometry.Center.X, Y: d.cfg.Geometry.Center.Y}
	returnSeq := d.enc.ReturnToOrigin(origin)
	d.logger.Info("returning to origin (%g, %g)", origin.X, origin.Y)
	originResponse, err := d.sendWithRecovery(ctx, returnSeq.String())
	if err != nil {
		return nil, err
	}

	return &Result{
		Params:             params,
		Target:             req.Target,
		TargetCoords:       targetCoords,
		Lines:              script.Len(),
		ControllerResponse: response,
		OriginResponse:     originResponse,
		OriginPosition:     &origin,
	}, nil
}

func (d *Dispatcher) runLinear(ctx context.Context, req Request) (*Result, error) {
	profile := d.calc.Linear(req.RPM, req.DurationSec)
	script := d.enc.Script(profile)
	params := d.calc.LinearParams(req.RPM, req.DurationSec, profile)

	d.logger.WithFields(log.Fields{
		"pattern": "linear", "rpm": req.RPM, "duration": req.DurationSec,
		"feedrate": params.FeedRate, "samples": params.Samples, "lines": script.Len(),
	}).Info("dispatching motion script")
	d.stats.DispatchTotal.Inc(metrics.Labels{"pattern": "linear"})

	response, err := d.sendWithRecovery(ctx, script.String())
	if err != nil {
		return nil, err
	}

	return &Result{
		Params:             params,
		Lines:              script.Len(),
		ControllerResponse: response,
	}, nil
}

func (d *Dispatcher) runHelical(ctx context.Context, req Request) (*Result, error) {
	profile := d.calc.Helical3D(req.RPM, req.DurationSec)
	script := d.enc.Script(profile)
	params := d.calc.HelicalParams(req.RPM, req.DurationSec, profile)

	d.logger.WithFields(log.Fields{
		"pattern": "3d", "rpm": req.RPM, "duration": req.DurationSec,
		"feedrate": params.FeedRate, "samples": params.Samples, "lines": script.Len(),
	}).Info("dispatching motion script")
	d.stats.DispatchTotal.Inc(metrics.Labels{"pattern": "3d"})

	response, err := d.sendWithRecovery(ctx, script.String())
	if err != nil {
		return nil, err
	}

	return &Result{
		Params:             params,
		Lines:              script.Len(),
		ControllerResponse: response,
	}, nil
}

// MoveTo positions the device at a named target using the positioning feed
// rate, under the same homing recovery contract as a motion script.
func (d *Dispatcher) MoveTo(ctx context.Context, target string) (*Result, error) {
	c, ok := d.cfg.Geometry.Target(target)
	if !ok {
		return nil, errors.ValidationError("target", fmt.Sprintf("unknown target: %s", target))
	}

	line := d.enc.PositionTo(c)
	d.logger.WithFields(log.Fields{"target": target, "command": line}).Info("positioning to target")

	response, err := d.sendWithRecovery(ctx, line)
	if err != nil {
		return nil, err
	}

	return &Result{
		Target:             target,
		TargetCoords:       &c,
		Lines:              1,
		ControllerResponse: response,
	}, nil
}

// Prepare fetches controller info and homes all axes so motion requests can
// follow immediately.
func (d *Dispatcher) Prepare(ctx context.Context) (moonraker.Result, error) {
	info, err := d.client.PrinterInfo(ctx)
	if err != nil {
		return nil, err
	}
	d.logger.Info("controller info fetched, homing all axes")
	if _, err := d.client.SendGCode(ctx, gcode.CmdHomeAll); err != nil {
		d.countFailure(err)
		return nil, err
	}
	return info, nil
}

// Pause sends the controller's pause macro.
func (d *Dispatcher) Pause(ctx context.Context) (moonraker.Result, error) {
	result, err := d.client.SendGCode(ctx, gcode.CmdPause)
	if err != nil {
		d.countFailure(err)
		return nil, err
	}
	return result, nil
}

// Geometry exposes the configured geometry for response payloads.
func (d *Dispatcher) Geometry() config.Geometry {
	return d.cfg.Geometry
}
