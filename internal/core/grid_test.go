package core

import (
	"slices"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

func TestVolumeIndexLayout(t *testing.T) {
	v := NewVolume(Size{W: 3, H: 2, D: 4}, 2)
	if got := len(v.Bytes()); got != 3*2*4*2 {
		t.Fatalf("buffer length %d, expected %d", got, 48)
	}
	if got := v.Index(0, 0, 0, 1); got != 1 {
		t.Fatalf("channel should vary fastest, got index %d", got)
	}
	if got := v.Index(1, 0, 0, 0); got != 2 {
		t.Fatalf("x stride should equal channel count, got %d", got)
	}
	if got := v.Index(0, 1, 0, 0); got != 6 {
		t.Fatalf("y stride should be W*channels, got %d", got)
	}
	if got := v.Index(2, 1, 3, 1); got != ((3*2+1)*3+2)*2+1 {
		t.Fatalf("unexpected index %d", got)
	}
}

func TestVolumeIndexPanicsOutOfRange(t *testing.T) {
	v := NewVolume(Size{W: 2, H: 2, D: 2}, 1)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range channel")
		}
	}()
	v.Index(0, 0, 0, 1)
}

func TestNewVolumeClamps(t *testing.T) {
	v := NewVolume(Size{W: 0, H: -1, D: 2}, 9)
	if v.Size() != (Size{W: 1, H: 1, D: 2}) {
		t.Fatalf("unexpected size %v", v.Size())
	}
	if v.Channels() != MaxChannels {
		t.Fatalf("channels %d, expected %d", v.Channels(), MaxChannels)
	}
}

func TestProcessVisitsEveryCellInStorageOrder(t *testing.T) {
	size := Size{W: 4, H: 3, D: 5}
	v := NewVolume(size, 3)
	v.Process(func(pos mgl32.Vec3, channel int) float32 {
		x := int(pos[0]*float32(size.W) + 0.5)
		y := int(pos[1]*float32(size.H) + 0.5)
		z := int(pos[2]*float32(size.D) + 0.5)
		id := ((z*size.H+y)*size.W+x)*3 + channel
		return ByteToUnorm(uint8(id % 256))
	})
	for i, b := range v.Bytes() {
		if int(b) != i%256 {
			t.Fatalf("cell %d holds %d", i, b)
		}
	}
}

func TestProcessNormalizedPositions(t *testing.T) {
	v := NewVolume(Size{W: 4, H: 4, D: 4}, 1)
	v.Process(func(pos mgl32.Vec3, _ int) float32 {
		for _, c := range pos {
			if c < 0 || c >= 1 {
				t.Errorf("position %v outside [0,1)", pos)
			}
		}
		return pos[0]
	})
	want := []uint8{0, 63, 127, 191}
	if got := v.Slice(2)[4:8]; !slices.Equal(got, want) {
		t.Fatalf("row bytes %v, expected %v", got, want)
	}
}

func TestProcessDeterministic(t *testing.T) {
	fn := func(pos mgl32.Vec3, c int) float32 { return pos[0]*pos[1] + pos[2]*float32(c) }
	a := NewVolume(Size{W: 8, H: 8, D: 8}, 2)
	b := NewVolume(Size{W: 8, H: 8, D: 8}, 2)
	a.Process(fn)
	b.Process(fn)
	if !slices.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("Process not deterministic")
	}
}

func TestUnormByteRoundTrip(t *testing.T) {
	for b := 0; b < 256; b++ {
		if got := UnormToByte(ByteToUnorm(uint8(b))); got != uint8(b) {
			t.Fatalf("round trip of %d gave %d", b, got)
		}
	}
}

func TestUnormToByteMonotonicAndClamped(t *testing.T) {
	prev := UnormToByte(-1)
	if prev != 0 {
		t.Fatalf("negative input should clamp to 0, got %d", prev)
	}
	for i := 0; i <= 4096; i++ {
		cur := UnormToByte(float32(i) / 4096)
		if cur < prev {
			t.Fatalf("quantization decreased at %d: %d < %d", i, cur, prev)
		}
		prev = cur
	}
	if got := UnormToByte(2); got != 255 {
		t.Fatalf("values above 1 should clamp to 255, got %d", got)
	}
}

func TestSetSlice(t *testing.T) {
	v := NewVolume(Size{W: 2, H: 2, D: 3}, 1)
	if err := v.SetSlice(1, []uint8{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	if v.At(1, 1, 1, 0) != 4 || v.At(0, 0, 1, 0) != 1 {
		t.Fatalf("slice not copied: %v", v.Bytes())
	}
	if err := v.SetSlice(0, []uint8{1}); err == nil {
		t.Fatal("expected error for short slice")
	}
}

func TestSliceClockAdvance(t *testing.T) {
	base := time.Unix(100, 0)
	now := base
	c := NewSliceClock(10)
	c.now = func() time.Time { return now }

	if n := c.Advance(); n != 0 {
		t.Fatalf("first call should not advance, got %d", n)
	}
	now = base.Add(250 * time.Millisecond)
	if n := c.Advance(); n != 2 {
		t.Fatalf("expected 2 slices after 250ms at 10/s, got %d", n)
	}
	now = base.Add(300 * time.Millisecond)
	if n := c.Advance(); n != 1 {
		t.Fatalf("leftover time should carry over, got %d", n)
	}
	c.Reset()
	now = base.Add(time.Second)
	if n := c.Advance(); n != 0 {
		t.Fatalf("reset should discard elapsed time, got %d", n)
	}
}
