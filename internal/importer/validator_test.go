package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"eventfinder/internal/model"
)

// MockEventStore is a mock implementation of EventStore.
type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) BulkInsert(ctx context.Context, drafts []model.EventDraft) ([]model.Event, error) {
	args := m.Called(ctx, drafts)
	var events []model.Event
	if v := args.Get(0); v != nil {
		events = v.([]model.Event)
	}
	return events, args.Error(1)
}

// MockGeocoder is a mock implementation of Geocoder.
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, text string) (*model.GeocodeResult, error) {
	args := m.Called(ctx, text)
	var res *model.GeocodeResult
	if v := args.Get(0); v != nil {
		res = v.(*model.GeocodeResult)
	}
	return res, args.Error(1)
}

func validDraft(n string) model.EventDraft {
	return model.EventDraft{
		EventDate: "2099-06-01",
		EventTime: "3pm - 5pm",
		EventType: "fair",
		Address:   n + " Main St",
		City:      "New York",
		State:     "NY",
		Zip:       "10001",
	}
}

func TestBulkImportRejectsWholeBatchOnOneBadRow(t *testing.T) {
	store := new(MockEventStore)
	geo := new(MockGeocoder)
	geo.On("Geocode", mock.Anything, mock.Anything).
		Return(&model.GeocodeResult{Latitude: 40.75, Longitude: -73.99}, nil)

	bad := validDraft("2")
	bad.City = "" // row 2 is missing its city

	im := New(store, geo, zap.NewNop())
	events, rowErrs := im.ValidateAndInsert(context.Background(),
		[]model.EventDraft{validDraft("1"), bad, validDraft("3")})

	assert.Nil(t, events)
	require.Len(t, rowErrs, 1)
	assert.Equal(t, 2, rowErrs[0].Row)
	assert.Contains(t, rowErrs[0].Error, "city is required")

	// All-or-nothing: no writes happen when any row failed.
	store.AssertNotCalled(t, "BulkInsert")
}

func TestBulkImportHappyPathInsertsEveryRow(t *testing.T) {
	store := new(MockEventStore)
	geo := new(MockGeocoder)
	geo.On("Geocode", mock.Anything, mock.Anything).
		Return(&model.GeocodeResult{Latitude: 40.75, Longitude: -73.99}, nil)

	inserted := []model.Event{{ID: 11}, {ID: 12}, {ID: 13}}
	store.On("BulkInsert", mock.Anything, mock.MatchedBy(func(drafts []model.EventDraft) bool {
		if len(drafts) != 3 {
			return false
		}
		for _, d := range drafts {
			// Every staged row carries its resolved coordinates.
			if d.Latitude == nil || d.Longitude == nil {
				return false
			}
		}
		return true
	})).Return(inserted, nil)

	im := New(store, geo, zap.NewNop())
	events, rowErrs := im.ValidateAndInsert(context.Background(),
		[]model.EventDraft{validDraft("1"), validDraft("2"), validDraft("3")})

	assert.Nil(t, rowErrs)
	require.Len(t, events, 3)
	assert.Equal(t, uint64(11), events[0].ID)
	geo.AssertNumberOfCalls(t, "Geocode", 3)
}

func TestBulkImportExplicitCoordinatesSkipGeocoding(t *testing.T) {
	store := new(MockEventStore)
	geo := new(MockGeocoder)

	lat, lon := 40.75, -73.99
	d := validDraft("1")
	d.Latitude = &lat
	d.Longitude = &lon

	store.On("BulkInsert", mock.Anything, mock.Anything).
		Return([]model.Event{{ID: 1}}, nil)

	im := New(store, geo, zap.NewNop())
	events, rowErrs := im.ValidateAndInsert(context.Background(), []model.EventDraft{d})

	assert.Nil(t, rowErrs)
	assert.Len(t, events, 1)
	geo.AssertNotCalled(t, "Geocode")
}

func TestBulkImportUnresolvableAddressFailsRow(t *testing.T) {
	store := new(MockEventStore)
	geo := new(MockGeocoder)
	geo.On("Geocode", mock.Anything, mock.Anything).Return(nil, nil)

	im := New(store, geo, zap.NewNop())
	events, rowErrs := im.ValidateAndInsert(context.Background(), []model.EventDraft{validDraft("1")})

	assert.Nil(t, events)
	require.Len(t, rowErrs, 1)
	assert.Equal(t, 1, rowErrs[0].Row)
	assert.Contains(t, rowErrs[0].Error, "could not be geocoded")
	store.AssertNotCalled(t, "BulkInsert")
}

func TestBulkImportStorageFailureIsSingleSyntheticRow(t *testing.T) {
	store := new(MockEventStore)
	geo := new(MockGeocoder)
	geo.On("Geocode", mock.Anything, mock.Anything).
		Return(&model.GeocodeResult{Latitude: 40.75, Longitude: -73.99}, nil)
	store.On("BulkInsert", mock.Anything, mock.Anything).
		Return(nil, errors.New("deadlock"))

	im := New(store, geo, zap.NewNop())
	events, rowErrs := im.ValidateAndInsert(context.Background(), []model.EventDraft{validDraft("1")})

	assert.Nil(t, events)
	require.Len(t, rowErrs, 1)
	assert.Equal(t, 0, rowErrs[0].Row)
	assert.Contains(t, rowErrs[0].Error, "bulk insert failed")
}

func TestValidateDraftDateRules(t *testing.T) {
	// Range mode without a single date is fine.
	d := validDraft("1")
	d.EventDate = ""
	d.StartDate = "2099-06-01"
	d.EndDate = "2099-06-03"
	assert.Empty(t, validateDraft(d))

	// Reversed range is rejected.
	d.StartDate, d.EndDate = d.EndDate, d.StartDate
	msgs := validateDraft(d)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "end_date must not be before start_date")

	// Half a range is rejected.
	half := validDraft("1")
	half.EventDate = ""
	half.StartDate = "2099-06-01"
	msgs = validateDraft(half)
	assert.NotEmpty(t, msgs)

	// Malformed dates are rejected.
	bad := validDraft("1")
	bad.EventDate = "06/01/2099"
	msgs = validateDraft(bad)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "YYYY-MM-DD")

	// No dates at all is rejected.
	none := validDraft("1")
	none.EventDate = ""
	assert.NotEmpty(t, validateDraft(none))
}
