package corewl

import (
	"os"
	"testing"
)

func loadScenarioFile(t *testing.T, name string) *Scenario {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	sc, err := LoadScenario(data)
	if err != nil {
		t.Fatalf("parse %s: %v", name, err)
	}
	return sc
}

func flatten(steps [][]CoreOutputF) []CoreOutputF {
	var out []CoreOutputF
	for _, s := range steps {
		out = append(out, s...)
	}
	return out
}

func TestScenarioMapOneSurface(t *testing.T) {
	sc := loadScenarioFile(t, "scenario_map_one_surface.yaml")
	_, steps, err := sc.Run()
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(steps) != 4 {
		t.Fatalf("steps = %d, want 4", len(steps))
	}

	// step 0: OutputAdded broadcast, no clients yet to receive it, plus a
	// backend commit for the (still windowless) output.
	var sawOutputAdded bool
	for _, eff := range steps[0] {
		if ce, ok := eff.(EffectClientEvent); ok {
			if _, ok := ce.Event.(EventOutputAdded); ok && ce.Target == nil {
				sawOutputAdded = true
			}
		}
	}
	if !sawOutputAdded {
		t.Error("step 0: expected broadcast EventOutputAdded")
	}

	// step 1: ClientAdd replays the existing output to the new client.
	if len(steps[1]) != 1 {
		t.Fatalf("step 1 effects = %d, want 1", len(steps[1]))
	}

	// step 3 (the mapping commit): WindowConfigure to C1 then a BackendCommit
	// whose O1 entry contains S1.
	var configureIdx, commitIdx = -1, -1
	for i, eff := range steps[3] {
		switch v := eff.(type) {
		case EffectClientEvent:
			if wc, ok := v.Event.(EventWindowConfigure); ok && wc.Surface == 1 {
				configureIdx = i
			}
		case EffectBackendRequest:
			if _, ok := v.Request.(BackendReqSurfaceCommit); ok {
				commitIdx = i
			}
		}
	}
	if configureIdx == -1 {
		t.Error("expected a WindowConfigure(S1, ...) effect on the mapping commit")
	}
	if commitIdx == -1 {
		t.Fatal("expected a BackendReqSurfaceCommit effect")
	}
	if configureIdx > commitIdx {
		t.Error("WindowConfigure must precede the BackendCommit of the same layout change")
	}

	commit := steps[3][commitIdx].(EffectBackendRequest).Request.(BackendReqSurfaceCommit)
	if len(commit.Outputs) != 1 || len(commit.Outputs[0].Windows) != 1 {
		t.Fatalf("commit = %+v, want one output with one window", commit)
	}
	if commit.Outputs[0].Windows[0].Rect != NewRect(0, 0, 1920, 1080) {
		t.Errorf("window rect = %v, want full O1", commit.Outputs[0].Windows[0].Rect)
	}
}

func TestScenarioSecondOutputToTheRight(t *testing.T) {
	sc := loadScenarioFile(t, "scenario_second_output_to_the_right.yaml")
	eng, steps, err := sc.Run()
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	last := steps[len(steps)-1]

	var sawBroadcast bool
	for _, eff := range last {
		if ce, ok := eff.(EffectClientEvent); ok && ce.Target == nil {
			if ev, ok := ce.Event.(EventOutputAdded); ok {
				sawBroadcast = true
				want := NewRect(1920, 0, 1280, 720)
				if ev.MappedOutput.Rect != want {
					t.Errorf("O2 rect = %v, want %v", ev.MappedOutput.Rect, want)
				}
			}
		}
	}
	if !sawBroadcast {
		t.Fatal("expected broadcast EventOutputAdded for O2")
	}

	for _, mo := range eng.State().Outputs {
		if mo.Output.ID == 1 && mo.Rect != NewRect(0, 0, 1920, 1080) {
			t.Errorf("O1 rect changed to %v, want unchanged [0,0,1920,1080]", mo.Rect)
		}
	}
}

func TestScenarioPortraitTransform(t *testing.T) {
	sc := loadScenarioFile(t, "scenario_portrait_transform.yaml")
	eng, _, err := sc.Run()
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(eng.State().Outputs) != 1 {
		t.Fatalf("outputs = %d, want 1", len(eng.State().Outputs))
	}
	want := NewRect(0, 0, 1080, 1920)
	if got := eng.State().Outputs[0].Rect; got != want {
		t.Errorf("portrait rect = %v, want %v", got, want)
	}
}

func TestScenarioUnmapViaCommit(t *testing.T) {
	sc := loadScenarioFile(t, "scenario_unmap_via_commit.yaml")
	eng, steps, err := sc.Run()
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	last := steps[len(steps)-1]

	for _, eff := range last {
		if ce, ok := eff.(EffectClientEvent); ok {
			if _, ok := ce.Event.(EventWindowConfigure); ok {
				t.Error("unmap must not emit WindowConfigure")
			}
		}
	}

	var commit BackendReqSurfaceCommit
	var found bool
	for _, eff := range last {
		if br, ok := eff.(EffectBackendRequest); ok {
			if c, ok := br.Request.(BackendReqSurfaceCommit); ok {
				commit, found = c, true
			}
		}
	}
	if !found {
		t.Fatal("expected a BackendReqSurfaceCommit")
	}
	if len(commit.Outputs) != 1 || len(commit.Outputs[0].Windows) != 0 {
		t.Errorf("commit = %+v, want O1 with an empty window list", commit)
	}
	if len(eng.State().Universe.Screens()[0].Workspace.Windows.ToSlice()) != 0 {
		t.Error("universe still has the unmapped window")
	}
}

func TestScenarioClientCrash(t *testing.T) {
	sc := loadScenarioFile(t, "scenario_client_crash.yaml")
	eng, steps, err := sc.Run()
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	last := steps[len(steps)-1]

	var destroyIdx, commitIdx = -1, -1
	var destroyedHandles int
	for i, eff := range last {
		if br, ok := eff.(EffectBackendRequest); ok {
			switch req := br.Request.(type) {
			case BackendReqSurfaceCommit:
				commitIdx = i
			case BackendReqSurfaceDestroy:
				destroyIdx = i
				destroyedHandles = len(req.Handles)
			}
		}
	}
	if commitIdx == -1 || destroyIdx == -1 {
		t.Fatalf("effects = %+v, want both a BackendCommit and a SurfaceDestroy", last)
	}
	if commitIdx > destroyIdx {
		t.Error("the universe-filter backend commit must precede SurfaceDestroy")
	}
	if destroyedHandles != 1 {
		t.Errorf("destroyed handles = %d, want 1", destroyedHandles)
	}

	if _, ok := eng.State().Clients[1]; ok {
		t.Error("client 1 still present after ClientDel")
	}

	out := eng.Step(BackendEventInput{Event: EvtBufferReleased{Buffer: Buffer{ClientId: 1}}})
	if len(out) != 0 {
		t.Errorf("BufferReleased for a gone client produced effects %+v, want none", out)
	}
}

func TestScenarioFrameRouting(t *testing.T) {
	sc := loadScenarioFile(t, "scenario_frame_routing.yaml")
	_, steps, err := sc.Run()
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	last := steps[len(steps)-1]
	if len(last) != 1 {
		t.Fatalf("frame effects = %d, want 1 (SurfaceFrame to C1 only)", len(last))
	}
	ce, ok := last[0].(EffectClientEvent)
	if !ok || ce.Target == nil || *ce.Target != 1 {
		t.Fatalf("effect = %+v, want targeted to client 1", last[0])
	}
	frame, ok := ce.Event.(EventSurfaceFrame)
	if !ok || len(frame.Surfaces) != 1 || frame.Surfaces[0] != 1 {
		t.Errorf("frame event = %+v, want EventSurfaceFrame{[1]}", ce.Event)
	}
}
