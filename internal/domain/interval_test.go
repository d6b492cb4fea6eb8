package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CWB-ReservationService/pkg/types"
)

func window(start, end types.TimeString) TimeWindow {
	return TimeWindow{Start: start, End: end}
}

func TestTimeWindow_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a    TimeWindow
		b    TimeWindow
		want bool
	}{
		{
			name: "partial overlap",
			a:    window("09:00", "10:00"),
			b:    window("09:30", "10:30"),
			want: true,
		},
		{
			name: "contained",
			a:    window("09:00", "12:00"),
			b:    window("10:00", "11:00"),
			want: true,
		},
		{
			name: "identical",
			a:    window("09:00", "10:00"),
			b:    window("09:00", "10:00"),
			want: true,
		},
		{
			name: "adjacent windows do not overlap",
			a:    window("09:00", "10:00"),
			b:    window("10:00", "11:00"),
			want: false,
		},
		{
			name: "disjoint",
			a:    window("09:00", "10:00"),
			b:    window("11:00", "12:00"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestSliceWindow(t *testing.T) {
	tests := []struct {
		name         string
		open         types.TimeString
		close        types.TimeString
		slotDuration int
		step         int
		want         []TimeWindow
	}{
		{
			name:         "three aligned slots",
			open:         "09:00",
			close:        "12:00",
			slotDuration: 60,
			step:         60,
			want: []TimeWindow{
				window("09:00", "10:00"),
				window("10:00", "11:00"),
				window("11:00", "12:00"),
			},
		},
		{
			name:         "step smaller than duration gives overlapping candidates",
			open:         "09:00",
			close:        "10:30",
			slotDuration: 60,
			step:         30,
			want: []TimeWindow{
				window("09:00", "10:00"),
				window("09:30", "10:30"),
			},
		},
		{
			name:         "tail shorter than slot is dropped",
			open:         "09:00",
			close:        "10:45",
			slotDuration: 60,
			step:         60,
			want: []TimeWindow{
				window("09:00", "10:00"),
			},
		},
		{
			name:         "zero step falls back to duration",
			open:         "09:00",
			close:        "11:00",
			slotDuration: 60,
			step:         0,
			want: []TimeWindow{
				window("09:00", "10:00"),
				window("10:00", "11:00"),
			},
		},
		{
			name:         "window until end of day",
			open:         "22:00",
			close:        "24:00",
			slotDuration: 60,
			step:         60,
			want: []TimeWindow{
				window("22:00", "23:00"),
				window("23:00", "24:00"),
			},
		},
		{
			name:         "close before open gives empty result",
			open:         "12:00",
			close:        "09:00",
			slotDuration: 60,
			step:         60,
			want:         []TimeWindow{},
		},
		{
			name:         "zero duration gives empty result",
			open:         "09:00",
			close:        "12:00",
			slotDuration: 0,
			step:         30,
			want:         []TimeWindow{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SliceWindow(tt.open, tt.close, tt.slotDuration, tt.step)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubtractBusy(t *testing.T) {
	candidates := SliceWindow("09:00", "13:00", 60, 60)
	require.Len(t, candidates, 4)

	busy := []TimeWindow{
		window("10:00", "11:00"),
		window("11:30", "12:00"),
	}

	free := SubtractBusy(candidates, busy)

	assert.Equal(t, []TimeWindow{
		window("09:00", "10:00"),
		window("12:00", "13:00"),
	}, free)
}

func TestCountOverlapping(t *testing.T) {
	busy := []TimeWindow{
		window("09:00", "10:00"),
		window("09:30", "10:30"),
		window("11:00", "12:00"),
	}

	assert.Equal(t, 2, CountOverlapping(window("09:00", "10:00"), busy))
	assert.Equal(t, 0, CountOverlapping(window("10:30", "11:00"), busy))
	assert.Equal(t, 3, CountOverlapping(window("09:00", "12:00"), busy))
}
