package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Route computes a route between two points, with traffic segments when
// traffic is requested.
func (c *Client) Route(ctx context.Context, req RouteRequest) (*Route, error) {
	route := &Route{}
	if err := c.do(ctx, http.MethodPost, EndpointRoute, req, route); err != nil {
		return nil, err
	}
	return route, nil
}

// SearchLocations geocodes a free text query.
func (c *Client) SearchLocations(ctx context.Context, query string) ([]Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Location{}, nil
	}

	params := url.Values{}
	params.Set("query", query)

	var locations []Location
	if err := c.do(ctx, http.MethodGet, EndpointLocation+"?"+params.Encode(), nil, &locations); err != nil {
		return nil, err
	}
	if locations == nil {
		locations = []Location{}
	}
	return locations, nil
}

// ReverseGeocode names the place at a coordinate.
func (c *Client) ReverseGeocode(ctx context.Context, at Coordinate) (*Location, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(at.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(at.Lon, 'f', -1, 64))

	location := &Location{}
	if err := c.do(ctx, http.MethodGet, EndpointLocation+"?"+params.Encode(), nil, location); err != nil {
		return nil, err
	}
	return location, nil
}
