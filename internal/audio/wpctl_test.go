package audio

import "testing"

// Trimmed-down wpctl status output with the sections surrounding Sinks,
// matching WirePlumber's tree drawing.
const wpctlStatus = `PipeWire 'pipewire-0' [1.2.7, me@host, cookie:12345]
 └─ Clients:
        33. WirePlumber                         [1.2.7, me@host, pid:901]

Audio
 ├─ Devices:
 │      46. Astro A50                           [alsa]
 │
 ├─ Sinks:
 │  *   43. Astro A50 Analog Stereo             [vol: 0.74]
 │      55. AirPods Pro                         [vol: 1.00]
 │      61. HDMI / DisplayPort 3 Output         [vol: 0.50]
 │
 ├─ Sources:
 │  *   51. Astro A50 Mono                      [vol: 1.00]
 │
 └─ Streams:
`

func TestParseSinks(t *testing.T) {
	sinks := ParseSinks(wpctlStatus)
	if len(sinks) != 3 {
		t.Fatalf("got %d sinks, want 3: %+v", len(sinks), sinks)
	}

	want := []Sink{
		{ID: 43, Name: "Astro A50 Analog Stereo", Default: true},
		{ID: 55, Name: "AirPods Pro"},
		{ID: 61, Name: "HDMI / DisplayPort 3 Output"},
	}
	for i, w := range want {
		if sinks[i] != w {
			t.Errorf("sink %d = %+v, want %+v", i, sinks[i], w)
		}
	}
}

func TestParseSinksStopsAtSources(t *testing.T) {
	for _, s := range ParseSinks(wpctlStatus) {
		if s.ID == 51 {
			t.Error("source 51 leaked into the sink list")
		}
	}
}

func TestParseSinksEmpty(t *testing.T) {
	if sinks := ParseSinks(""); len(sinks) != 0 {
		t.Errorf("got %d sinks from empty output", len(sinks))
	}
	if sinks := ParseSinks("Audio\n ├─ Sinks:\n ├─ Sources:\n"); len(sinks) != 0 {
		t.Errorf("got %d sinks from empty section", len(sinks))
	}
}

func TestFindSink(t *testing.T) {
	sinks := ParseSinks(wpctlStatus)

	s, ok := FindSink(sinks, "airpods")
	if !ok || s.ID != 55 {
		t.Errorf("FindSink(airpods) = %+v, %v", s, ok)
	}

	s, ok = FindSink(sinks, "HDMI")
	if !ok || s.ID != 61 {
		t.Errorf("FindSink(HDMI) = %+v, %v", s, ok)
	}

	if _, ok := FindSink(sinks, "speakers"); ok {
		t.Error("FindSink(speakers) should not match")
	}
}

func TestDefaultSink(t *testing.T) {
	sinks := ParseSinks(wpctlStatus)
	s, ok := DefaultSink(sinks)
	if !ok || s.ID != 43 {
		t.Errorf("DefaultSink = %+v, %v, want id 43", s, ok)
	}

	if _, ok := DefaultSink(nil); ok {
		t.Error("DefaultSink(nil) should report no default")
	}
}
