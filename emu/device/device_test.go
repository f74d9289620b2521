package device

import "testing"

func TestSREGAliasRoundTrip(t *testing.T) {
	d := New()
	d.CPU.SREG = 0x81
	v, err := d.Load(0x20 + ioAddrSREG)
	if err != nil {
		t.Fatalf("Load SREG alias: unexpected error: %v", err)
	}
	if v != 0x81 {
		t.Errorf("Load SREG alias: got: 0x%02x expected: 0x81", v)
	}

	if err := d.Store(0x20+ioAddrSREG, 0x02); err != nil {
		t.Fatalf("Store SREG alias: unexpected error: %v", err)
	}
	if d.CPU.SREG != 0x02 {
		t.Errorf("Store SREG alias: CPU.SREG got: 0x%02x expected: 0x02", d.CPU.SREG)
	}
}

func TestSPAliasRoundTrip(t *testing.T) {
	d := New()
	d.CPU.SP = 0x08ff

	lo, _ := d.Load(0x20 + ioAddrSPL)
	hi, _ := d.Load(0x20 + ioAddrSPH)
	if lo != 0xff || hi != 0x08 {
		t.Errorf("SP alias read: got lo=0x%02x hi=0x%02x expected lo=0xff hi=0x08", lo, hi)
	}

	if err := d.Store(0x20+ioAddrSPL, 0x50); err != nil {
		t.Fatalf("Store SPL alias: unexpected error: %v", err)
	}
	if d.CPU.SP != 0x0850 {
		t.Errorf("Store SPL alias: CPU.SP got: 0x%04x expected: 0x0850", d.CPU.SP)
	}
}

func TestGPRAliasesCPURegisterFile(t *testing.T) {
	d := New()
	d.CPU.R[5] = 0x77
	v, err := d.Load(5)
	if err != nil {
		t.Fatalf("Load GPR alias: unexpected error: %v", err)
	}
	if v != 0x77 {
		t.Errorf("Load GPR alias: got: 0x%02x expected: 0x77", v)
	}

	if err := d.Store(5, 0x11); err != nil {
		t.Fatalf("Store GPR alias: unexpected error: %v", err)
	}
	if d.CPU.R[5] != 0x11 {
		t.Errorf("Store GPR alias: CPU.R[5] got: 0x%02x expected: 0x11", d.CPU.R[5])
	}
}

func TestSRAMOutOfRangeIsBusFault(t *testing.T) {
	d := New()
	_, err := d.Load(0xffff)
	if err == nil {
		t.Fatalf("Load past SRAM: expected a bus fault, got nil error")
	}
}

func TestLoadProgramRejectsOversizedImage(t *testing.T) {
	d := New()
	big := make([]byte, flashSize+1)
	if err := d.LoadProgram(big); err == nil {
		t.Fatalf("LoadProgram with oversized image: expected an error, got nil")
	}
}

func TestIOWindowMatchesDataBusWindow(t *testing.T) {
	d := New()
	win := ioWindow{d}
	if err := win.Store(0x10, 0x42); err != nil {
		t.Fatalf("ioWindow.Store: unexpected error: %v", err)
	}
	v, err := d.Load(0x20 + 0x10)
	if err != nil {
		t.Fatalf("Load through the data-bus IO window: unexpected error: %v", err)
	}
	if v != 0x42 {
		t.Errorf("ioWindow and data-bus IO window disagree: got: 0x%02x expected: 0x42", v)
	}
}
