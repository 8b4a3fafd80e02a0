package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewsWithStatuses(statuses ...string) []*User {
	users := make([]*User, 0, len(statuses))
	for i, status := range statuses {
		users = append(users, &User{
			UserName: "reviewer" + string(rune('a'+i)),
			DeviceID: "abc|iPhone",
			Device:   "iPhone9,1",
			Status:   status,
		})
	}
	return users
}

func TestComputeStatsEmptyIsUnknown(t *testing.T) {
	stats := computeStats(nil, func(*User) bool { return true })

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.Percentage)
	assert.Equal(t, CalculatedUnknown, stats.CalculatedStatus)
}

func TestComputeStatsPercentageIsFloored(t *testing.T) {
	// 2 good of 3 total = 66.67, floored to 66.
	stats := computeStats(reviewsWithStatuses(StatusWorking, StatusPartial, StatusNotWorking),
		func(*User) bool { return true })

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Good)
	assert.Equal(t, 1, stats.Bad)
	assert.Equal(t, 66, stats.Percentage)
}

func TestCalculatedStatusThresholds(t *testing.T) {
	tests := []struct {
		good, total int
		percentage  int
		want        string
	}{
		{0, 0, 0, CalculatedUnknown},
		{0, 5, 0, CalculatedNotWorking},
		{2, 5, 40, CalculatedNotWorking},
		{41, 100, 41, CalculatedLikelyWorking},
		{3, 4, 75, CalculatedLikelyWorking},
		{76, 100, 76, CalculatedWorking},
		{1, 1, 100, CalculatedWorking},
	}

	for _, tt := range tests {
		statuses := make([]string, 0, tt.total)
		for i := 0; i < tt.good; i++ {
			statuses = append(statuses, StatusWorking)
		}
		for i := tt.good; i < tt.total; i++ {
			statuses = append(statuses, StatusNotWorking)
		}

		stats := computeStats(reviewsWithStatuses(statuses...), func(*User) bool { return true })
		assert.Equal(t, tt.percentage, stats.Percentage, "good=%d total=%d", tt.good, tt.total)
		assert.Equal(t, tt.want, stats.CalculatedStatus, "good=%d total=%d", tt.good, tt.total)
	}
}

func TestRecalculateEndToEndExample(t *testing.T) {
	packages, _, err := Merge(nil, testChange())
	require.NoError(t, err)

	iosVersions := Recalculate(packages, nil)

	assert.Equal(t, []string{"14.0"}, iosVersions)
	require.Len(t, packages, 1)
	require.Len(t, packages[0].Versions, 1)

	outcome := packages[0].Versions[0].Outcome
	assert.Equal(t, 1, outcome.Total)
	assert.Equal(t, 1, outcome.Good)
	assert.Equal(t, 0, outcome.Bad)
	assert.Equal(t, 100, outcome.Percentage)
	assert.Equal(t, CalculatedWorking, outcome.CalculatedStatus)
}

func TestRecalculateArch32Split(t *testing.T) {
	devices := Devices{
		{DeviceID: "iPhone4,1", Arch32Bit: true},
		{DeviceID: "iPhone9,1", Arch32Bit: false},
	}

	version := &Version{
		IOSVersion: "9.3.3",
		Users: []*User{
			{UserName: "a", DeviceID: "x|iPhone", Device: "iPhone4,1", Status: StatusNotWorking},
			{UserName: "b", DeviceID: "y|iPhone", Device: "iPhone9,1", Status: StatusWorking},
		},
	}
	packages := []*Package{{ID: "com.acme.tweak", Name: "Acme", Versions: []*Version{version}}}

	Recalculate(packages, devices)

	outcome := version.Outcome
	assert.Equal(t, 2, outcome.Total)
	assert.Equal(t, 1, outcome.Good)
	assert.Equal(t, 1, outcome.Bad)
	assert.Equal(t, 50, outcome.Percentage)
	assert.Equal(t, CalculatedLikelyWorking, outcome.CalculatedStatus)

	assert.Equal(t, 1, outcome.Arch32.Total)
	assert.Equal(t, 0, outcome.Arch32.Good)
	assert.Equal(t, 1, outcome.Arch32.Bad)
	assert.Equal(t, 0, outcome.Arch32.Percentage)
	assert.Equal(t, CalculatedNotWorking, outcome.Arch32.CalculatedStatus)
}

func TestRecalculateIsIdempotent(t *testing.T) {
	packages, _, err := Merge(nil, testChange())
	require.NoError(t, err)
	second := testChange()
	second.UserName = "reviewer2"
	second.Status = StatusNotWorking
	packages, _, err = Merge(packages, second)
	require.NoError(t, err)

	first := Recalculate(packages, nil)
	outcomeAfterFirst := packages[0].Versions[0].Outcome

	again := Recalculate(packages, nil)
	assert.Equal(t, first, again)
	assert.Equal(t, outcomeAfterFirst, packages[0].Versions[0].Outcome)
}

func TestRecalculateSortsPackagesCaseInsensitively(t *testing.T) {
	packages := []*Package{
		{ID: "b", Name: "zebra"},
		{ID: "a", Name: "Apple"},
		{ID: "c", Name: "mango"},
	}

	Recalculate(packages, nil)

	names := []string{packages[0].Name, packages[1].Name, packages[2].Name}
	assert.Equal(t, []string{"Apple", "mango", "zebra"}, names)
}

func TestRecalculateSortsIOSVersionsSemantically(t *testing.T) {
	packages := []*Package{{
		ID:   "com.acme.tweak",
		Name: "Acme",
		Versions: []*Version{
			{IOSVersion: "10.0"},
			{IOSVersion: "9.3.3"},
			{IOSVersion: "13.5"},
			{IOSVersion: "9.1"},
		},
	}}

	iosVersions := Recalculate(packages, nil)

	// Lexical order would put 10.0 before 9.x.
	assert.Equal(t, []string{"9.1", "9.3.3", "10.0", "13.5"}, iosVersions)
}

func TestIs32BitUnknownDevice(t *testing.T) {
	devices := Devices{{DeviceID: "iPhone4,1", Arch32Bit: true}}

	assert.True(t, devices.Is32Bit("iPhone4,1"))
	assert.False(t, devices.Is32Bit("iPhone99,9"))
	assert.False(t, Devices(nil).Is32Bit("iPhone4,1"))
}
