package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/ccom-unh/cpa"
	"github.com/goccy/go-json"
)

type cpaRequest struct {
	Own    *cpa.Vessel `json:"own"`
	Target *cpa.Vessel `json:"target"`
}

type cpaResponse struct {
	Result         cpa.Result `json:"result"`
	Cardinal       string     `json:"cardinal"`
	InPast         bool       `json:"in_past"`
	CurrentRange   float64    `json:"current_range"`
	CurrentBearing float64    `json:"current_bearing"`
}

type coursesRequest struct {
	cpaRequest
	N        int     `json:"n"`
	MinSpeed float64 `json:"min_speed"`
	MaxSpeed float64 `json:"max_speed"`
}

// statusFor maps an error to the HTTP status returned to the client.
func statusFor(err error) int {
	switch {
	case errors.Is(err, cpa.ErrInvalidKinematics), errors.Is(err, cpa.ErrCoincident):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func errorBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}

// vessels returns the own ship and target of a request, both of which are required.
func (r cpaRequest) vessels() (own, target cpa.Vessel, err error) {
	switch {
	case r.Own == nil:
		return own, target, errors.New("missing own")
	case r.Target == nil:
		return own, target, errors.New("missing target")
	}
	return *r.Own, *r.Target, nil
}

// handleCPA computes the CPA for the posted own ship and target.
func handleCPA(body io.Reader) (int, interface{}) {
	var req cpaRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return statusFor(err), errorBody(err)
	}
	own, target, err := req.vessels()
	if err != nil {
		return statusFor(err), errorBody(err)
	}
	rslt := own.CPA(target)
	rng, brg := own.RangeBearingTo(target)
	return http.StatusOK, cpaResponse{Result: rslt, Cardinal: cpa.Cardinal(rslt.Bearing), InPast: rslt.InPast(), CurrentRange: rng, CurrentBearing: brg}
}

// handleCollisionCourses computes the target courses leading to a collision with own ship.
func handleCollisionCourses(body io.Reader) (int, interface{}) {
	var req coursesRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return statusFor(err), errorBody(err)
	}
	own, target, err := req.vessels()
	if err != nil {
		return statusFor(err), errorBody(err)
	}
	courses, err := cpa.CollisionCourses(own, target, req.N, req.MinSpeed, req.MaxSpeed)
	if err != nil {
		return statusFor(err), errorBody(err)
	}
	return http.StatusOK, courses
}
