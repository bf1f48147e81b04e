package openroute_client

import (
	"github.com/init-pkg/meal-routes/domain/app"
	"github.com/rotisserie/eris"
)

// DecodePolyline decodes an encoded polyline (precision 5) as returned in
// route geometries.
func DecodePolyline(encoded string) ([]app.Coordinates, error) {
	var (
		points   []app.Coordinates
		lat, lng int
		i        int
	)

	for i < len(encoded) {
		dlat, next, err := decodeValue(encoded, i)
		if err != nil {
			return nil, err
		}
		dlng, next, err := decodeValue(encoded, next)
		if err != nil {
			return nil, err
		}
		i = next

		lat += dlat
		lng += dlng
		points = append(points, app.Coordinates{Lat: float64(lat) / 1e5, Lng: float64(lng) / 1e5})
	}

	return points, nil
}

func decodeValue(encoded string, i int) (int, int, error) {
	var result, shift int
	for {
		if i >= len(encoded) {
			return 0, i, eris.New("truncated polyline")
		}
		b := int(encoded[i]) - 63
		i++
		if b < 0 || b > 63 {
			return 0, i, eris.Errorf("invalid polyline character %q", encoded[i-1])
		}
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), i, nil
	}
	return result >> 1, i, nil
}
