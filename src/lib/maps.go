package lib

import (
	"context"

	"portal/src/config"

	"googlemaps.github.io/maps"
)

var mapsClient *maps.Client

func GetMapsClient() (*maps.Client, error) {
	if mapsClient != nil {
		return mapsClient, nil
	}
	cli, err := maps.NewClient(maps.WithAPIKey(config.GAPI_API_KEY))
	if err != nil {
		return nil, err
	}
	mapsClient = cli
	return cli, nil
}

// NewMapsClient Replace maps instance with custom client implementation
func NewMapsClient(c *maps.Client) *maps.Client {
	mapsClient = c
	return mapsClient
}

// GeocodeAddress resolves a campus address or place name to coordinates for
// the map view.
func GeocodeAddress(ctx context.Context, address string) ([]maps.GeocodingResult, error) {
	cli, err := GetMapsClient()
	if err != nil {
		return nil, err
	}
	return cli.Geocode(ctx, &maps.GeocodingRequest{Address: address})
}
