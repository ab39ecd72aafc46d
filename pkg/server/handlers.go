// Motion and controller endpoint handlers.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"shaker-host/pkg/config"
	"shaker-host/pkg/errors"
	"shaker-host/pkg/motion"
	"shaker-host/pkg/shaker"
)

// motionRequest is the request body for the pattern endpoints.
type motionRequest struct {
	Target  string  `json:"target,omitempty"`
	RPM     int     `json:"rpm"`
	TimeSec float64 `json:"time_sec"`
}

// decodeMotionRequest parses and validates a motion request body.
func decodeMotionRequest(r *http.Request) (*motionRequest, error) {
	var req motionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.ValidationError("body", fmt.Sprintf("malformed request body: %v", err))
	}
	if req.RPM <= 0 {
		return nil, errors.ValidationError("rpm", "rpm must be greater than 0")
	}
	if req.TimeSec <= 0 {
		return nil, errors.ValidationError("time_sec", "time_sec must be greater than 0")
	}
	return &req, nil
}

// handleOrbital runs the orbital pattern on a named target and reports the
// motion plus the origin return.
func (s *Server) handleOrbital(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	req, err := decodeMotionRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if req.Target == "" {
		s.writeError(w, errors.ValidationError("target", "target is required for orbital mode"))
		return
	}

	res, err := s.dispatcher.Run(r.Context(), shaker.Request{
		Pattern:     motion.Orbital,
		RPM:         req.RPM,
		DurationSec: req.TimeSec,
		Target:      req.Target,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeSuccess(w, "orbital mode completed", map[string]interface{}{
		"parameters": map[string]interface{}{
			"target":       res.Target,
			"rpm":          req.RPM,
			"duration_sec": req.TimeSec,
			"coordinates":  geometryCoordinates(res.TargetCoords),
			"radius_mm":    s.dispatcher.Geometry().OrbitalRadius,
		},
		"gcode_lines":        res.Lines,
		"moonraker_response": res.ControllerResponse,
		"home_response":      res.OriginResponse,
		"home_position":      geometryCoordinates(res.OriginPosition),
	})
}

// handleLinear runs the linear reciprocating pattern.
func (s *Server) handleLinear(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	req, err := decodeMotionRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.dispatcher.Run(r.Context(), shaker.Request{
		Pattern:     motion.Linear,
		RPM:         req.RPM,
		DurationSec: req.TimeSec,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeSuccess(w, "linear mode completed", map[string]interface{}{
		"parameters": map[string]interface{}{
			"rpm":          req.RPM,
			"duration_sec": req.TimeSec,
			"amplitude_mm": s.dispatcher.Geometry().LinearAmplitude,
		},
		"gcode_lines":        res.Lines,
		"moonraker_response": res.ControllerResponse,
	})
}

// handleHelical runs the 3D helical wobble pattern.
func (s *Server) handleHelical(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	req, err := decodeMotionRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.dispatcher.Run(r.Context(), shaker.Request{
		Pattern:     motion.Helical3D,
		RPM:         req.RPM,
		DurationSec: req.TimeSec,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	geo := s.dispatcher.Geometry()
	s.writeSuccess(w, "3d mode completed", map[string]interface{}{
		"parameters": map[string]interface{}{
			"rpm":            req.RPM,
			"duration_sec":   req.TimeSec,
			"radius_mm":      geo.HelicalRadius,
			"amplitude_z_mm": geo.HelicalZAmplitude,
			"center_xyz":     []float64{geo.Center.X, geo.Center.Y, geo.Center.Z},
		},
		"gcode_lines":        res.Lines,
		"moonraker_response": res.ControllerResponse,
	})
}

// handleRun fetches controller info and homes all axes so shaking can start.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet) {
		return
	}

	info, err := s.dispatcher.Prepare(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeSuccess(w, "shaker ready", map[string]interface{}{
		"printer_data": info,
	})
}

// handlePause sends the controller's pause macro.
func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}

	result, err := s.dispatcher.Pause(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeSuccess(w, "shaker paused", map[string]interface{}{
		"moonraker_response": result,
	})
}

// geometryCoordinates converts a coordinate for response payloads.
func geometryCoordinates(c *config.Coordinate) map[string]float64 {
	if c == nil {
		return nil
	}
	return map[string]float64{"x": c.X, "y": c.Y, "z": c.Z}
}
