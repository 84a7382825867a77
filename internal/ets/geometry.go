package ets

import (
	"fmt"

	"github.com/woozymasta/jsonfg-validator/internal/document"
)

// collectPositions walks a geometry recursively and returns every position
// tuple it contains, covering rings, multi-geometries and the members of a
// GeometryCollection.
func collectPositions(g *document.Geometry) ([][]float64, error) {
	var out [][]float64

	for i := range g.Geometries {
		nested, err := collectPositions(&g.Geometries[i])
		if err != nil {
			return nil, err
		}
		out = append(out, nested...)
	}

	if g.Coordinates == nil {
		return out, nil
	}
	return walkCoordinates(g.Coordinates, out)
}

// walkCoordinates descends a coordinates value until it reaches number
// tuples. An array whose first element is a number is one position.
func walkCoordinates(node any, out [][]float64) ([][]float64, error) {
	arr, ok := node.([]any)
	if !ok {
		return nil, fmt.Errorf("malformed coordinates: expected array, got %T", node)
	}
	if len(arr) == 0 {
		return out, nil
	}

	if _, ok := arr[0].(float64); ok {
		pos := make([]float64, 0, len(arr))
		for _, v := range arr {
			n, ok := v.(float64)
			if !ok {
				return nil, fmt.Errorf("malformed position: mixed values in tuple")
			}
			pos = append(pos, n)
		}
		return append(out, pos), nil
	}

	var err error
	for _, child := range arr {
		if out, err = walkCoordinates(child, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// checkCoordinateDimension verifies every position in the geometry has the
// same dimensionality: uniformly 2D or uniformly 3D, never mixed.
func (s *Suite) checkCoordinateDimension() (Result, error) {
	status := Result{ID: testID("req/core/coordinate-dimension"), Code: CodePassed}

	g := s.doc.Geometry
	if g == nil {
		status.Code = CodeSkipped
		status.Message = "Geometry is null"
		return status, nil
	}

	positions, err := collectPositions(g)
	if err != nil {
		status.Code = CodeFailed
		status.Message = err.Error()
		return status, nil
	}

	dims := make(map[int]struct{})
	for _, pos := range positions {
		dims[len(pos)] = struct{}{}
	}
	if len(dims) > 1 {
		status.Code = CodeFailed
		status.Message = "Geometry dimensions are inconsistent"
	}

	// TODO: also check the place member once it is covered by the suite

	return status, nil
}

// checkGeometryWGS84 verifies every position is inside WGS84 bounds:
// longitude in [-180, 180] and latitude in [-90, 90].
func (s *Suite) checkGeometryWGS84() (Result, error) {
	status := Result{ID: testID("req/core/geometry-wgs84"), Code: CodePassed}

	g := s.doc.Geometry
	if g == nil {
		status.Code = CodeSkipped
		status.Message = "Geometry is null"
		return status, nil
	}

	positions, err := collectPositions(g)
	if err != nil {
		status.Code = CodeFailed
		status.Message = err.Error()
		return status, nil
	}

	for _, pos := range positions {
		if len(pos) < 2 {
			status.Code = CodeFailed
			status.Message = fmt.Sprintf("position has %d value(s), expected at least 2", len(pos))
			return status, nil
		}

		lon, lat := pos[0], pos[1]
		if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
			status.Code = CodeFailed
			status.Message = "Geometry coordinates are out of bounds"
			return status, nil
		}
	}

	return status, nil
}
