package monitor

import "testing"

func TestParseNVSMI(t *testing.T) {
	out := "0, NVIDIA GeForce RTX 3080, 45, 2048, 10240, 62\n" +
		"1, NVIDIA GeForce RTX 3080, 0, 512, 10240, 41\n"

	gpus, err := parseNVSMI(out)
	if err != nil {
		t.Fatalf("parseNVSMI returned error: %v", err)
	}
	if len(gpus) != 2 {
		t.Fatalf("expected 2 GPUs, got %d", len(gpus))
	}

	g := gpus[0]
	if g.ID != 0 {
		t.Errorf("expected id 0, got %d", g.ID)
	}
	if g.Name != "NVIDIA GeForce RTX 3080" {
		t.Errorf("unexpected name %q", g.Name)
	}
	if g.Load != 45 {
		t.Errorf("expected load 45, got %v", g.Load)
	}
	if g.Memory.Used != 2048 || g.Memory.Total != 10240 {
		t.Errorf("unexpected memory %+v", g.Memory)
	}
	if g.Memory.Free != 8192 {
		t.Errorf("expected free 8192, got %v", g.Memory.Free)
	}
	if g.Memory.Percent != 20 {
		t.Errorf("expected percent 20, got %v", g.Memory.Percent)
	}
	if g.Temperature != 62 {
		t.Errorf("expected temperature 62, got %v", g.Temperature)
	}
}

func TestParseNVSMIEmpty(t *testing.T) {
	gpus, err := parseNVSMI("\n")
	if err != nil {
		t.Fatalf("parseNVSMI returned error: %v", err)
	}
	if len(gpus) != 0 {
		t.Errorf("expected no GPUs, got %d", len(gpus))
	}
}

func TestParseNVSMIMalformed(t *testing.T) {
	if _, err := parseNVSMI("0, name, 45\n"); err == nil {
		t.Error("expected error for short line")
	}
	if _, err := parseNVSMI("x, name, 45, 1, 2, 3\n"); err == nil {
		t.Error("expected error for bad index")
	}
}
