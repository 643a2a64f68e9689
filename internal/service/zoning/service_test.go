package zoning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripointhq/TPD-BookingService/internal/domain"
	"github.com/tripointhq/TPD-BookingService/internal/integrations/routing"
)

type fakeRoutingClient struct {
	routes map[string]float64
	err    map[string]error
}

func (f *fakeRoutingClient) GetRoute(_ context.Context, from, to string) (*routing.Route, error) {
	key := from + "->" + to
	if err, ok := f.err[key]; ok {
		return nil, err
	}
	if mins, ok := f.routes[key]; ok {
		return &routing.Route{DriveTimeMinutes: mins}, nil
	}
	return nil, routing.ErrRouteNotFound
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testBases = []Base{
	{Name: "Tonbridge", Postcode: "TN9 1PP"},
	{Name: "Eltham", Postcode: "SE9 4HA"},
}

func TestClassify_PicksNearestBase(t *testing.T) {
	client := &fakeRoutingClient{routes: map[string]float64{
		"TN9 1PP->ME16 0AA": 38.2,
		"SE9 4HA->ME16 0AA": 52.9,
	}}
	svc := NewService(client, testBases, nopLogger{})

	result, err := svc.Classify(context.Background(), "ME16 0AA")
	require.NoError(t, err)

	assert.Equal(t, domain.ZoneB, result.Zone)
	assert.Equal(t, 38, result.DriveTimeMins)
	assert.Equal(t, "Tonbridge", result.BaseName)
}

func TestClassify_RoundsDriveTime(t *testing.T) {
	client := &fakeRoutingClient{routes: map[string]float64{
		"TN9 1PP->TN1 1AA": 25.5,
		"SE9 4HA->TN1 1AA": 60.0,
	}}
	svc := NewService(client, testBases, nopLogger{})

	result, err := svc.Classify(context.Background(), "TN1 1AA")
	require.NoError(t, err)

	// 25.5 rounds to 26, just over the zone A boundary.
	assert.Equal(t, 26, result.DriveTimeMins)
	assert.Equal(t, domain.ZoneB, result.Zone)
}

func TestClassify_TieGoesToFirstBase(t *testing.T) {
	client := &fakeRoutingClient{routes: map[string]float64{
		"TN9 1PP->BR1 1AA": 20,
		"SE9 4HA->BR1 1AA": 20,
	}}
	svc := NewService(client, testBases, nopLogger{})

	result, err := svc.Classify(context.Background(), "BR1 1AA")
	require.NoError(t, err)

	assert.Equal(t, "Tonbridge", result.BaseName)
}

func TestClassify_OutOfArea(t *testing.T) {
	client := &fakeRoutingClient{routes: map[string]float64{
		"TN9 1PP->M1 1AA": 240,
		"SE9 4HA->M1 1AA": 235,
	}}
	svc := NewService(client, testBases, nopLogger{})

	result, err := svc.Classify(context.Background(), "M1 1AA")
	require.NoError(t, err)

	assert.Equal(t, domain.ZoneOutOfArea, result.Zone)
	assert.False(t, result.Zone.Serviceable())
}

func TestClassify_SkipsFailedBase(t *testing.T) {
	client := &fakeRoutingClient{
		routes: map[string]float64{"SE9 4HA->DA1 1AA": 30},
		err:    map[string]error{"TN9 1PP->DA1 1AA": routing.ErrInternal},
	}
	svc := NewService(client, testBases, nopLogger{})

	result, err := svc.Classify(context.Background(), "DA1 1AA")
	require.NoError(t, err)
	assert.Equal(t, "Eltham", result.BaseName)
}

func TestClassify_AllBasesFail(t *testing.T) {
	client := &fakeRoutingClient{}
	svc := NewService(client, testBases, nopLogger{})

	_, err := svc.Classify(context.Background(), "ZZ1 1ZZ")
	assert.ErrorIs(t, err, ErrRouteUnavailable)
}

func TestClassify_EmptyPostcode(t *testing.T) {
	svc := NewService(&fakeRoutingClient{}, testBases, nopLogger{})

	_, err := svc.Classify(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrInvalidPostcode)
}
